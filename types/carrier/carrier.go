package carrier

// MoveRequest swaps a carrier with its neighbour in the store's priority
// order.
type MoveRequest struct {
	CarrierID   string `json:"carrier_id" validate:"required"`
	AccountCode string `json:"account_code" validate:"required"`
	Direction   string `json:"direction" validate:"required,oneof=up down"`
}
