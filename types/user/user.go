package user

// CreateUserRequest is the superadmin account-creation payload. The
// role-specific required fields (warehouse_id for vendors, contact_number
// for admins) are checked in the controller on top of these tags.
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Role          string `json:"role" validate:"required,oneof=superadmin admin vendor"`
	WarehouseID   string `json:"warehouse_id" validate:"omitempty,max=255"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=20"`
}

// UpdateUserRequest carries optional profile mutations.
type UpdateUserRequest struct {
	Name          string `json:"name" validate:"omitempty,min=1,max=255"`
	WarehouseID   string `json:"warehouse_id" validate:"omitempty,max=255"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=20"`
}

// StatusRequest toggles an account between active and inactive.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}
