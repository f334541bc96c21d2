package dto

import (
	"github.com/gin-gonic/gin/binding"
	validator "github.com/go-playground/validator/v10"
)

// Ledger-specific checks are added to gin's binding validator as soon as the
// package is loaded, so every binder (server and tests) sees them.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("idempotencykey", validIdempotencyKey)
	}
}

// validIdempotencyKey accepts keys of 1..128 printable ASCII characters with
// no whitespace, matching the unique column they are stored in.
func validIdempotencyKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	if len(key) == 0 || len(key) > 128 {
		return false
	}
	for _, r := range key {
		if r <= ' ' || r > '~' {
			return false
		}
	}
	return true
}
