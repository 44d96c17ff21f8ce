// internal/api/types/error.go
package types

import "user-service/internal/util"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details []util.FieldError `json:"details,omitempty"`
}
