package community

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *ResponseError `json:"error,omitempty"`
}

// ResponseError is the outward error shape: message, machine code, and
// the per-field map for validation failures.
type ResponseError struct {
	Message  string            `json:"message"`
	TextCode string            `json:"text_code,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// RespondData writes a success envelope.
func RespondData(c router.Context, status int, data any, message string) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// RespondMessage writes a success envelope with no data payload.
func RespondMessage(c router.Context, status int, message string) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
	})
}

// RespondError maps an error to its HTTP status and writes the error
// envelope. Infrastructure failures stay 500s; they are never reshaped
// into auth errors on the way out.
func RespondError(c router.Context, err error) error {
	richErr := asRichError(err)

	respErr := &ResponseError{
		Message:  richErr.Message,
		TextCode: richErr.TextCode,
	}

	if fields := validationFields(richErr); len(fields) > 0 {
		respErr.Fields = fields
	}

	status := httpStatus(richErr)
	if status >= http.StatusInternalServerError {
		// do not leak internals to the client
		respErr.Message = "An unexpected error occurred"
	}

	return c.JSON(status, APIResponse{
		Success: false,
		Error:   respErr,
	})
}

func asRichError(err error) *errors.Error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}
	return errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
		WithCode(errors.CodeInternal)
}

func httpStatus(richErr *errors.Error) int {
	if richErr.Code >= 400 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func validationFields(richErr *errors.Error) map[string]string {
	if len(richErr.Metadata) == 0 {
		return nil
	}

	raw, ok := richErr.Metadata["fields"]
	if !ok {
		return nil
	}

	switch fields := raw.(type) {
	case map[string]string:
		return fields
	case map[string]any:
		out := make(map[string]string, len(fields))
		for k, v := range fields {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}

	return nil
}
