package basicauth

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const defaultCost = 12

// Encode builds an Authorization header value from a credential pair.
// Colons in the password are fine because Decode splits on the first colon
// only; emails must not contain colons.
func Encode(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

// Decode parses an Authorization header. ok is false when the "Basic "
// prefix is missing, the payload is not valid base64, or no colon separator
// exists after decoding.
func Decode(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, ok = strings.Cut(string(raw), ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}

// cost reads BCRYPT_ROUNDS, clamped to bcrypt's supported range.
func cost() int {
	c, err := strconv.Atoi(os.Getenv("BCRYPT_ROUNDS"))
	if err != nil || c < bcrypt.MinCost || c > bcrypt.MaxCost {
		return defaultCost
	}
	return c
}

// HashPassword hashes a plain password with the configured cost factor.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost())
	return string(bytes), err
}

// CheckPassword reports whether plain matches hash. Any comparison error
// counts as a mismatch, never as valid.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
