package wishlist

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-greenmart/internal/catalog"
	"github.com/noah-isme/backend-greenmart/internal/common"
)

type Handler struct {
	Svc *Service
}

// List returns the user's wishlisted products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	products, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list wishlist", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Toggle flips the wishlist membership of a product.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	wishlisted, err := h.Svc.Toggle(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update wishlist", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"productId": productID, "wishlisted": wishlisted},
	})
}
