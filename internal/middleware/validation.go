package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "basketpulse/internal/errors"
)

// QueryParamValidator validates query parameters with validator tags
type QueryParamValidator struct {
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report query names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryParamValidator{
		validate:     v,
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt parses an integer query parameter and checks it against
// rules (validator syntax, e.g. "min=1,max=10000"). The error response is
// already written when ok is false.
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param, rules string, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param)))
		return 0, false
	}

	if err := v.validate.Var(n, rules); err != nil {
		var msg string
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			msg = formatValidationError(param, fieldErrs[0])
		} else {
			msg = err.Error()
		}
		v.logger.DebugContext(r.Context(), "query parameter rejected",
			slog.String("param", param),
			slog.String("value", value))
		v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, msg))
		return 0, false
	}

	return n, true
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryParamValidator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe.Field(), fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

func formatValidationError(field string, err validator.FieldError) string {
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
