package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"labels-service/internal/clients/woocommerce"
	"labels-service/internal/services"
	"labels-service/internal/sessions"
)

// stubCatalogClient serves canned products and records updates.
type stubCatalogClient struct {
	products map[int64]*woocommerce.Product
	updated  []int64
}

func (s *stubCatalogClient) GetProduct(ctx context.Context, productID int64) (*woocommerce.Product, error) {
	if p, ok := s.products[productID]; ok {
		return p, nil
	}
	return nil, &woocommerce.APIError{StatusCode: http.StatusNotFound, Body: "not found"}
}

func (s *stubCatalogClient) ListVariations(ctx context.Context, productID int64, page int) ([]woocommerce.Product, error) {
	return nil, nil
}

func (s *stubCatalogClient) UpdateProduct(ctx context.Context, productID int64, update woocommerce.ProductUpdate) error {
	s.updated = append(s.updated, productID)
	return nil
}

func (s *stubCatalogClient) UpdateVariation(ctx context.Context, parentID, variationID int64, update woocommerce.ProductUpdate) error {
	s.updated = append(s.updated, variationID)
	return nil
}

func newCatalogRouter(t *testing.T, client services.CatalogClient, validateID bool) (*gin.Engine, *sessions.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := sessions.NewStore()
	service := services.NewCatalogService(client, store, services.SyncOptions{}, nil, logger)
	handler := NewCatalogHandler(service, store, validateID)

	router := gin.New()
	catalog := router.Group("/api/v1/catalog")
	{
		catalog.POST("/products/:id/fetch", handler.FetchProduct)
		catalog.GET("/sessions/:id", handler.GetSession)
		catalog.POST("/sessions/:id/submit", handler.SubmitEdits)
		catalog.DELETE("/sessions/:id", handler.DeleteSession)
	}
	return router, store
}

func TestFetchProductEndpoint(t *testing.T) {
	client := &stubCatalogClient{products: map[int64]*woocommerce.Product{
		7413: {ID: 7413, Name: "Green Tea", Type: "simple", SalePrice: "9.50"},
	}}
	router, _ := newCatalogRouter(t, client, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/7413/fetch", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			SessionID string `json:"sessionId"`
			Rows      []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.SessionID)
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "Green Tea", resp.Data.Rows[0].Name)

	// The session is retrievable afterwards.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/sessions/"+resp.Data.SessionID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFetchProductRejectsNonIntegerID(t *testing.T) {
	router, _ := newCatalogRouter(t, &stubCatalogClient{}, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/7413.5/fetch", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestFetchProductPermissiveModeTruncates(t *testing.T) {
	client := &stubCatalogClient{products: map[int64]*woocommerce.Product{
		7413: {ID: 7413, Name: "Green Tea", Type: "simple"},
	}}
	router, _ := newCatalogRouter(t, client, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/7413.9/fetch", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7413`)
}

func TestFetchProductNotFound(t *testing.T) {
	router, _ := newCatalogRouter(t, &stubCatalogClient{}, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/9999/fetch", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestSubmitEditsEndpoint(t *testing.T) {
	client := &stubCatalogClient{products: map[int64]*woocommerce.Product{
		7413: {ID: 7413, Name: "Green Tea", Type: "simple", ManageStock: true},
	}}
	router, _ := newCatalogRouter(t, client, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/7413/fetch", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Data struct {
			SessionID string `json:"sessionId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))

	body := `{"rows": [{"id": 7413, "manageStock": true, "newStock": "25"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/sessions/"+fetched.Data.SessionID+"/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updatedCount":1`)
	assert.Equal(t, []int64{7413}, client.updated)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	client := &stubCatalogClient{products: map[int64]*woocommerce.Product{
		7413: {ID: 7413, Name: "Green Tea", Type: "simple"},
	}}
	router, store := newCatalogRouter(t, client, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products/7413/fetch", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Data struct {
			SessionID string `json:"sessionId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/catalog/sessions/"+fetched.Data.SessionID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	id := fetched.Data.SessionID
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	_ = store
}
