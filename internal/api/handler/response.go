// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"user-service/internal/api/types"
	"user-service/internal/util"
)

// respondWithJSON writes payload as a JSON response.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps err onto the error taxonomy. Unknown errors are logged
// and answered with a generic 500 so no internal detail leaks.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	if verr, ok := util.AsValidationError(err); ok {
		respondWithJSON(logger, w, http.StatusUnprocessableEntity, types.ErrorResponse{
			Error:   "Validation failed",
			Details: verr.Fields,
		})
		return
	}

	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsNotFound(err):
		statusCode = http.StatusNotFound
		message = "User not found"
	case util.IsError(err, util.ErrPayloadTooLarge):
		statusCode = http.StatusRequestEntityTooLarge
		message = util.ErrPayloadTooLarge.Error()
	case util.IsBadRequest(err):
		statusCode = http.StatusBadRequest
		message = util.ErrEmptyUpdate.Error()
		if !util.IsError(err, util.ErrEmptyUpdate) {
			message = "Bad request"
		}
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, types.ErrorResponse{Error: message})
}
