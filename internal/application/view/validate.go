package view

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	enum := func(valid func(string) bool) validator.Func {
		return func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == All || valid(s)
		}
	}
	_ = v.RegisterValidation("task_status", enum(func(s string) bool { return entity.TaskStatus(s).IsValid() }))
	_ = v.RegisterValidation("bu_status", enum(func(s string) bool { return entity.BUStatus(s).IsValid() }))
	_ = v.RegisterValidation("report_status", enum(func(s string) bool { return entity.ReportStatus(s).IsValid() }))
	_ = v.RegisterValidation("report_type", enum(func(s string) bool { return entity.ReportType(s).IsValid() }))
	_ = v.RegisterValidation("period_type", enum(func(s string) bool { return entity.PeriodType(s).IsValid() }))
	_ = v.RegisterValidation("consolidation_status", enum(func(s string) bool { return entity.ConsolidationStatus(s).IsValid() }))

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks criteria against their field rules and returns the first
// violation as an entity.ValidationError
func Validate(criteria interface{}) error {
	err := validate.Struct(criteria)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return entity.ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return fmt.Errorf("failed to validate criteria: %w", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("unsupported value %v", fe.Value())
	}
}
