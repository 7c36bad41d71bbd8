package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
)

var validate = newValidator()

// newValidator reports field names from json tags so validation details
// match the wire names the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
			return tag
		}
		return f.Name
	})
	return v
}

// DecodeJSONBody decodes the request body into dest, rejecting unknown
// fields, then runs struct validation. The body is always drained so
// the connection can be reused.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg).
			WithDetails(map[string]any{"error": err.Error()})
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
