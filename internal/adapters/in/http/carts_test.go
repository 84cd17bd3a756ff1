package http_test

import (
	"net/http"
	"testing"

	api "shopping/internal/adapters/in/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCheckoutFlow(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/v1/carts/U1", "U1", "USER", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[api.Cart](t, rec).Items)

	rec = a.do(t, http.MethodPost, "/api/v1/carts/U1/items", "U1", "USER", `{"productId":"P1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/carts/U1/items", "U1", "USER", `{"productId":"P2","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/carts/U1/items", "U1", "USER", `{"productId":"P1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cart := decode[api.Cart](t, rec)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(3*10000+5000), cart.TotalPrice)

	rec = a.do(t, http.MethodDelete, "/api/v1/carts/U1/items/P2", "U1", "USER", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[api.Cart](t, rec).Items, 1)

	rec = a.do(t, http.MethodPost, "/api/v1/carts/U1/checkout", "U1", "USER", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[api.Order](t, rec)
	assert.Equal(t, "PENDING", placed.Status)
	assert.Equal(t, int64(30000), placed.TotalPrice)

	rec = a.do(t, http.MethodGet, "/api/v1/carts/U1", "U1", "USER", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[api.Cart](t, rec).Items)

	rec = a.do(t, http.MethodPost, "/api/v1/carts/U1/checkout", "U1", "USER", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestCartErrors(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(t, http.MethodPost, "/api/v1/carts/U1/items", "U1", "USER", `{"productId":"P1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	testCases := []struct {
		name     string
		method   string
		path     string
		userID   string
		role     string
		body     string
		expected int
	}{
		{name: "other user reads", method: http.MethodGet, path: "/api/v1/carts/U1", userID: "U2", role: "USER", expected: http.StatusForbidden},
		{name: "other user checks out", method: http.MethodPost, path: "/api/v1/carts/U1/checkout", userID: "U2", role: "USER", expected: http.StatusForbidden},
		{name: "admin reads", method: http.MethodGet, path: "/api/v1/carts/U1", userID: "A1", role: "ADMIN", expected: http.StatusOK},
		{name: "unknown product", method: http.MethodPost, path: "/api/v1/carts/U1/items", userID: "U1", role: "USER", body: `{"productId":"P9","quantity":1}`, expected: http.StatusNotFound},
		{name: "quantity over limit", method: http.MethodPost, path: "/api/v1/carts/U1/items", userID: "U1", role: "USER", body: `{"productId":"P1","quantity":10000}`, expected: http.StatusBadRequest},
		{name: "missing line", method: http.MethodDelete, path: "/api/v1/carts/U1/items/P2", userID: "U1", role: "USER", expected: http.StatusNotFound},
		{name: "missing role", method: http.MethodGet, path: "/api/v1/carts/U1", userID: "U1", expected: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, tc.method, tc.path, tc.userID, tc.role, tc.body)
			assert.Equal(t, tc.expected, rec.Code, rec.Body.String())
		})
	}

	rec = a.do(t, http.MethodDelete, "/api/v1/carts/U1", "U1", "USER", "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodGet, "/api/v1/carts/U1", "U1", "USER", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[api.Cart](t, rec).Items)
}
