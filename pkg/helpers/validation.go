package helpers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground validator with domain rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a new custom validator with domain rules
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// Register custom validators
	v.RegisterValidation("relation_type", validateRelationType)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// validateRelationType validates the member relation vocabulary
func validateRelationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "parent", "child", "sibling", "spouse":
		return true
	}
	return false
}

// ValidationErrorFields flattens validator errors into a field -> tag map for
// HTTP responses
func ValidationErrorFields(err error) map[string]string {
	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}
