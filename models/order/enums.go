package order

// OrderStatus values cover the assignment lifecycle plus the shipping
// carrier vocabulary. The carrier side is open-ended: tracking sync may
// write statuses not listed here, so IsKnown is informational only and
// never used to reject a status coming from carrier data.
type OrderStatus string

const (
	StatusUnclaimed OrderStatus = "unclaimed"
	StatusClaimed   OrderStatus = "claimed"
	StatusInPack    OrderStatus = "in_pack"
	StatusHandover  OrderStatus = "handover"
	StatusPicked    OrderStatus = "picked"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusRTO       OrderStatus = "rto"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsKnown reports whether the status belongs to the documented vocabulary.
func (s OrderStatus) IsKnown() bool {
	switch s {
	case StatusUnclaimed, StatusClaimed, StatusInPack, StatusHandover,
		StatusPicked, StatusInTransit, StatusDelivered, StatusRTO, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the order lifecycle has ended.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRTO || s == StatusCancelled
}

// CountsForPayment reports whether the order accrues vendor payment.
// Handover is the moment the vendor physically hands the package to a
// carrier, which is the basis for settlement arithmetic.
func (s OrderStatus) CountsForPayment() bool {
	return s == StatusHandover
}
