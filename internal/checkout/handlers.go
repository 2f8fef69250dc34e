package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-greenmart/internal/common"
	"github.com/noah-isme/backend-greenmart/internal/session"
)

// Handler exposes checkout payload assembly over HTTP.
type Handler struct {
	Svc *Service
}

// Build returns the frozen checkout payload for a cart.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	payload, err := h.Svc.Build(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
		case errors.Is(err, ErrEmptyCart):
			common.JSONError(w, http.StatusUnprocessableEntity, "CART_EMPTY", "cannot check out an empty cart", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to build checkout", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}
