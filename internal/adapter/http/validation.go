package http

import (
	"math"

	"github.com/go-playground/validator/v10"

	"growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/subscription"
	"growvest-backend/pkg/contribution"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx reply. Error holds a stable
// code; Title and Message are meant for display.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Title   string       `json:"title,omitempty"`
	Message string       `json:"message,omitempty"`
	Limit   *float64     `json:"limit,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("risk", func(fl validator.FieldLevel) bool {
		return contribution.RiskLevel(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return goal.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return subscription.Plan(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "risk":
			out = append(out, FieldError{Field: field, Message: "must be conservative, moderate or aggressive"})
		case "category":
			out = append(out, FieldError{Field: field, Message: "must be a known goal category"})
		case "plan":
			out = append(out, FieldError{Field: field, Message: "must be free, pro or premium"})
		case "finite":
			out = append(out, FieldError{Field: field, Message: "must be a finite number"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
