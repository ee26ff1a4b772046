package notification

// CreateRequest appends an operational alert to the ledger.
type CreateRequest struct {
	Type     string                 `json:"type" validate:"required,max=100"`
	Title    string                 `json:"title" validate:"required,max=255"`
	Message  string                 `json:"message" validate:"omitempty"`
	Severity string                 `json:"severity" validate:"required,oneof=low medium high critical"`
	VendorID *uint                  `json:"vendor_id" validate:"omitempty"`
	OrderID  *string                `json:"order_id" validate:"omitempty"`
	Metadata map[string]interface{} `json:"metadata" validate:"omitempty"`
}

// StatusRequest moves an open notification to in_progress.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress"`
}

// ResolveRequest closes a notification with optional notes.
type ResolveRequest struct {
	Notes string `json:"notes" validate:"omitempty"`
}

// DismissRequest closes a notification without action. Reason is optional;
// a default is recorded when absent.
type DismissRequest struct {
	Reason string `json:"reason" validate:"omitempty"`
}

// BulkResolveRequest resolves a set of notifications in one query.
type BulkResolveRequest struct {
	IDs   []uint `json:"ids" validate:"required,min=1"`
	Notes string `json:"notes" validate:"omitempty"`
}
