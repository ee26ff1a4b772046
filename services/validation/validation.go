package validation

import (
	"fmt"
	"regexp"

	"fulfillment-ops/types"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// UPI handles look like localpart@handle; the local part may carry dots,
// hyphens and underscores, the handle is alphabetic.
var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*@[a-zA-Z][a-zA-Z0-9]*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("upi", func(fl validator.FieldLevel) bool {
		return upiPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsValidUPI reports whether the string is a well-formed UPI handle.
func IsValidUPI(upi string) bool {
	return upiPattern.MatchString(upi)
}

// Struct applies the declarative validate tags of a request struct and
// returns one FieldError per failing field, nil when the struct is valid.
func Struct(s interface{}) []types.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []types.FieldError{{Field: "", Rule: "struct", Message: err.Error()}}
	}

	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("field '%s' failed on rule '%s'", fe.Field(), fe.Tag()),
		})
	}
	return out
}
