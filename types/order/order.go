package order

// AssignRequest claims one order for the vendor behind the warehouse id.
type AssignRequest struct {
	UniqueID    string `json:"unique_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
}

// UnassignRequest releases one order back to the unclaimed pool.
type UnassignRequest struct {
	UniqueID string `json:"unique_id" validate:"required"`
}

// BulkAssignRequest claims a set of orders in one all-or-nothing batch.
type BulkAssignRequest struct {
	UniqueIDs   []string `json:"unique_ids" validate:"required,min=1,dive,required"`
	WarehouseID string   `json:"warehouse_id" validate:"required"`
}

// BulkUnassignRequest releases a set of orders in one all-or-nothing batch.
type BulkUnassignRequest struct {
	UniqueIDs []string `json:"unique_ids" validate:"required,min=1,dive,required"`
}

// StatusUpdateRequest moves an order along the shipping vocabulary.
type StatusUpdateRequest struct {
	UniqueID string `json:"unique_id" validate:"required"`
	Status   string `json:"status" validate:"required"`
}
