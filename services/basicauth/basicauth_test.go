package basicauth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"Simple", "admin@example.com", "secret123"},
		{"PasswordWithColon", "vendor@example.com", "pa:ss:word"},
		{"PasswordWithUnicode", "ops@example.com", "pässwörd✓"},
		{"EmptyPassword", "admin@example.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := Encode(tc.email, tc.password)
			assert.True(t, len(header) > len("Basic "))

			email, password, ok := Decode(header)
			require.True(t, ok)
			assert.Equal(t, tc.email, email)
			assert.Equal(t, tc.password, password)
		})
	}
}

func TestDecodeRejectsMalformedHeaders(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"Empty", ""},
		{"WrongScheme", "Bearer abc123"},
		{"NoSpaceAfterScheme", "Basic"},
		{"InvalidBase64", "Basic not-base64!!!"},
		{"NoColonInPayload", "Basic " + base64.StdEncoding.EncodeToString([]byte("no-separator"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := Decode(tc.header)
			assert.False(t, ok)
		})
	}
}

func TestDecodeSplitsOnFirstColonOnly(t *testing.T) {
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:a:b:c"))
	email, password, ok := Decode(header)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", email)
	assert.Equal(t, "a:b:c", password)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("hunter3", hash))
	assert.False(t, CheckPassword("hunter2", "not-a-bcrypt-hash"))
}

func TestCostFallsBackOnBadEnv(t *testing.T) {
	t.Setenv("BCRYPT_ROUNDS", "not-a-number")
	assert.Equal(t, defaultCost, cost())

	t.Setenv("BCRYPT_ROUNDS", "99")
	assert.Equal(t, defaultCost, cost())

	t.Setenv("BCRYPT_ROUNDS", "10")
	assert.Equal(t, 10, cost())
}
