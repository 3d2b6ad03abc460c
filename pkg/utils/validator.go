package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground validator so handlers share one
// configured instance.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate runs struct validation and returns the first error encountered.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	validatorOnce     sync.Once
	validatorInstance *CustomValidator
)

// GetValidator returns the shared validator instance.
func GetValidator() *CustomValidator {
	validatorOnce.Do(func() {
		validatorInstance = &CustomValidator{validator: validator.New()}
	})
	return validatorInstance
}
