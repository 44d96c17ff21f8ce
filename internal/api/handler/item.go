// internal/api/handler/item.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-service/internal/api/types"
	"user-service/internal/api/validation"
)

// ItemHandler serves the item echo endpoint.
type ItemHandler struct {
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(logger *slog.Logger) *ItemHandler {
	return &ItemHandler{logger: logger}
}

// GetItem echoes the item name back.
// GET /items/{item_name}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the segment encoded.
	itemName, err := validation.ItemName(chi.URLParam(r, "item_name"), r.URL.RawPath != "")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.ItemResponse{ItemName: itemName})
}
