package settlement

// CreateRequest is the vendor payout request; the amount is never sent, the
// server snapshots the full remaining balance.
type CreateRequest struct {
	UpiID string `json:"upiId" validate:"required,upi"`
}

// RejectRequest closes a pending settlement with a reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}
