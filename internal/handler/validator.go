package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinema-booking/internal/service"
)

// CustomValidator plugs go-playground/validator into echo.  Failures are
// reported as a service.InvalidRequestError naming the JSON fields.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the echo validator.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]service.FieldProblem, len(verrs))
	for i, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		problems[i] = service.FieldProblem{Field: fe.Field(), Reason: "failed " + reason}
	}
	return &service.InvalidRequestError{Problems: problems}
}
