package session

import (
	"errors"
	"os"
	"time"

	"fulfillment-ops/constants"
	"fulfillment-ops/logger"
	"fulfillment-ops/models/user"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Vendor flows carry an opaque token/active_session pair keyed by warehouse
// id. The token is an HS256 JWT minted here and stored on the user row;
// non-vendor roles never get one (their credentials are re-verified against
// the hash on every request instead).

type vendorClaims struct {
	WarehouseID string `json:"warehouse_id"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	s := os.Getenv("VENDOR_TOKEN_SECRET")
	if s == "" {
		return nil, errors.New("VENDOR_TOKEN_SECRET is not set")
	}
	return []byte(s), nil
}

// EnsureVendorSession mints and stores a session token for a vendor account
// and flips active_session on. No-op for non-vendor roles.
func EnsureVendorSession(db *gorm.DB, u *user.User) error {
	if !u.IsVendor() {
		return nil
	}
	if u.WarehouseID == nil || *u.WarehouseID == "" {
		return errors.New("vendor has no warehouse id")
	}

	key, err := secret()
	if err != nil {
		return err
	}

	claims := vendorClaims{
		WarehouseID: *u.WarehouseID,
		Email:       u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return err
	}

	u.Token = &token
	u.ActiveSession = "true"
	return db.Model(&user.User{}).Where("id = ?", u.ID).
		Updates(map[string]interface{}{"token": token, "active_session": "true"}).Error
}

// EnsureAllVendorSessions refreshes the session pair for every active
// vendor. Run at startup and by the daily sweep.
func EnsureAllVendorSessions(db *gorm.DB) {
	var vendors []user.User
	if err := db.Where("role = ? AND status = ?", constants.RoleVendor, constants.UserStatusActive).
		Find(&vendors).Error; err != nil {
		logger.Error("Failed to load vendors for session sweep", err)
		return
	}

	for i := range vendors {
		if err := EnsureVendorSession(db, &vendors[i]); err != nil {
			logger.Error("Failed to ensure session for vendor "+vendors[i].Email, err)
		}
	}
}
