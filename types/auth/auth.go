package auth

// LoginRequest is the credential pair for /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest re-verifies the old password before storing the new
// hash.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// LoginResponse carries the ready-to-use Authorization header value; the
// dashboard replays it on every request. VendorToken is present for vendor
// logins only.
type LoginResponse struct {
	User        interface{} `json:"user"`
	AuthHeader  string      `json:"authHeader"`
	AuthType    string      `json:"authType"`
	VendorToken *string     `json:"vendorToken,omitempty"`
}
