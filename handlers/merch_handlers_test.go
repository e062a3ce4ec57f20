package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/api/models"
)

type fakeMerchLister struct {
	items []models.RawMerch
	err   error
}

func (f *fakeMerchLister) ListMerch(ctx context.Context) ([]models.RawMerch, error) {
	return f.items, f.err
}

func newMerchRouter(f *fakeMerchLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/get-merch", NewMerchHandlers(f).GetMerch)
	return r
}

func TestGetMerchWrapsResponseData(t *testing.T) {
	f := &fakeMerchLister{items: []models.RawMerch{
		{ID: 1, Name: "Cap", Price: 12.5, Category: "Clothing"},
		{Category: "Electronics"}, // sparse rows are served as-is
	}}
	r := newMerchRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/get-merch", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ResponseData []map[string]interface{} `json:"responseData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.ResponseData, 2)
	assert.Equal(t, "Cap", resp.ResponseData[0]["name"])

	// Sparse row: optional fields omitted, category present, no synthesis.
	sparse := resp.ResponseData[1]
	assert.Equal(t, "Electronics", sparse["category"])
	assert.NotContains(t, sparse, "name")
	assert.NotContains(t, sparse, "price")
}

func TestGetMerchEmptyCatalog(t *testing.T) {
	r := newMerchRouter(&fakeMerchLister{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/get-merch", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"responseData": []}`, w.Body.String())
}

func TestGetMerchStoreFailure(t *testing.T) {
	r := newMerchRouter(&fakeMerchLister{err: fmt.Errorf("postgres down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/get-merch", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
