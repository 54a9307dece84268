package community

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map covering every failing field.
func FormatValidationErrorToMap(err error) map[string]string {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return map[string]string{"payload": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		out[field] = ferr.Error()
	}

	return out
}

// NewValidationError wraps a payload validation failure into the rich
// error shape the HTTP layer knows how to render as a 400 with the
// per-field map.
func NewValidationError(err error) *goerrors.Error {
	return goerrors.New("validation failed", goerrors.CategoryValidation).
		WithTextCode("VALIDATION_ERROR").
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{
			"fields": FormatValidationErrorToMap(err),
		})
}

// ValidateStringEquals builds a rule that checks a field matches
// another string, used for password confirmation.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return goerrors.New("values do not match", goerrors.CategoryValidation)
		}
		return nil
	}
}
