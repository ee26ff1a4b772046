package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidUPI(t *testing.T) {
	valid := []string{
		"vendor@upi",
		"vendor.store@okaxis",
		"vendor_store-1@ybl",
		"9876543210@paytm",
	}
	for _, upi := range valid {
		assert.True(t, IsValidUPI(upi), "upi %q", upi)
	}

	invalid := []string{
		"",
		"vendor",
		"@ybl",
		"vendor@",
		"vendor@1bank", // handle must start with a letter
		"vendor@ok axis",
		".vendor@ybl", // local part must start alphanumeric
		"vendor@ybl@extra",
	}
	for _, upi := range invalid {
		assert.False(t, IsValidUPI(upi), "upi %q", upi)
	}
}

func TestStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Role  string `validate:"required,oneof=superadmin admin vendor"`
		UpiID string `validate:"omitempty,upi"`
	}

	t.Run("Valid", func(t *testing.T) {
		errs := Struct(payload{Email: "a@example.com", Role: "admin", UpiID: "vendor@upi"})
		assert.Nil(t, errs)
	})

	t.Run("CollectsEveryFailingField", func(t *testing.T) {
		errs := Struct(payload{Email: "not-an-email", Role: "root", UpiID: "bad upi"})
		require.Len(t, errs, 3)

		fields := make(map[string]string, len(errs))
		for _, fe := range errs {
			fields[fe.Field] = fe.Rule
		}
		assert.Equal(t, "email", fields["Email"])
		assert.Equal(t, "oneof", fields["Role"])
		assert.Equal(t, "upi", fields["UpiID"])
	})
}
