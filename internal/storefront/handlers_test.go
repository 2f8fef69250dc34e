package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newRouter(svc *Service) http.Handler {
	h := &Handler{Svc: svc}
	r := chi.NewRouter()
	r.Route("/carts", func(c chi.Router) {
		c.Post("/", h.Create)
		c.Get("/{id}", h.Get)
		c.Post("/{id}/items", h.AddItem)
		c.Patch("/{id}/items/{itemId}", h.UpdateItem)
		c.Delete("/{id}/items/{itemId}", h.RemoveItem)
		c.Put("/{id}/shipping", h.SelectShipping)
		c.Post("/{id}/promo", h.ApplyPromo)
		c.Delete("/{id}/promo", h.RemovePromo)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type viewEnvelope struct {
	Data View `json:"data"`
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) View {
	t.Helper()
	var env viewEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func TestCreateCartEndpoint(t *testing.T) {
	router := newRouter(newService(t))
	rr := doJSON(t, router, http.MethodPost, "/carts/", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	view := decodeView(t, rr)
	require.NotEmpty(t, view.ID)
	require.Equal(t, "standard", view.SelectedShipping)
}

func TestGetMissingCartEndpoint(t *testing.T) {
	router := newRouter(newService(t))
	rr := doJSON(t, router, http.MethodGet, "/carts/ghost", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "NOT_FOUND")
}

func TestQuantityBelowOneReturnsUnchangedView(t *testing.T) {
	svc := newService(t)
	router := newRouter(svc)
	id, _, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), id, "item1", 2, "")
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/carts/%s/items/item1", id), map[string]any{"qty": 0})
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	require.Equal(t, 2, view.Items[0].Quantity)
}

func TestAddItemEndpointValidation(t *testing.T) {
	svc := newService(t)
	router := newRouter(svc)
	id, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/items", id), map[string]any{"qty": 1})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/items", id), map[string]any{"productId": "missing", "qty": 1})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/items", id), map[string]any{"productId": "item1", "qty": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	require.Len(t, view.Items, 1)
}

func TestPromoEndpointErrors(t *testing.T) {
	svc := newService(t)
	router := newRouter(svc)
	id, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/promo", id), map[string]any{"code": "  "})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "PROMO_CODE_REQUIRED")

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/promo", id), map[string]any{"code": "NOPE"})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Invalid promo code")

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/carts/%s/promo", id), map[string]any{"code": "flat15"})
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	require.NotNil(t, view.Promo)
	require.Equal(t, "FLAT15", view.Promo.Code)

	rr = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/carts/%s/promo", id), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view = decodeView(t, rr)
	require.Nil(t, view.Promo)
}

func TestSelectShippingEndpoint(t *testing.T) {
	svc := newService(t)
	router := newRouter(svc)
	id, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPut, fmt.Sprintf("/carts/%s/shipping", id), map[string]any{"tierId": "express"})
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	require.Equal(t, "express", view.SelectedShipping)
	require.Equal(t, "express", view.EffectiveShipping.ID)

	rr = doJSON(t, router, http.MethodPut, fmt.Sprintf("/carts/%s/shipping", id), map[string]any{"tierId": "drone"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
