package user

import (
	"time"

	"fulfillment-ops/constants"
)

// User is a platform account. Role decides which optional fields are
// required: vendors must carry a warehouse id (it doubles as the vendor
// lookup key in order and settlement flows), admins a contact number.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Role     string `gorm:"type:varchar(50);not null" json:"role"`
	Status   string `gorm:"type:varchar(50);not null;default:active" json:"status"`

	WarehouseID   *string `gorm:"type:varchar(255)" json:"warehouse_id,omitempty"`
	ContactNumber *string `gorm:"type:varchar(20)" json:"contact_number,omitempty"`

	// Vendor session pair managed by the session service. ActiveSession is a
	// boolean-as-string ("true"/"false"), kept that way for dashboard
	// compatibility.
	Token         *string `gorm:"type:text" json:"token,omitempty"`
	ActiveSession string  `gorm:"type:varchar(10);default:false" json:"active_session"`

	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == constants.UserStatusActive
}

// IsVendor reports whether the account holds the vendor role.
func (u *User) IsVendor() bool {
	return u.Role == constants.RoleVendor
}

// MissingRoleField returns the name of the role-specific required field the
// record is missing, or "" when the record is complete for its role.
func (u *User) MissingRoleField() string {
	switch u.Role {
	case constants.RoleVendor:
		if u.WarehouseID == nil || *u.WarehouseID == "" {
			return "warehouse_id"
		}
	case constants.RoleAdmin:
		if u.ContactNumber == nil || *u.ContactNumber == "" {
			return "contact_number"
		}
	}
	return ""
}
