package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/Govind-619/ShipSphere/config"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func newRateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := config.OpenDB(&config.Config{
		DBDriver: "sqlite",
		DBName:   filepath.Join(t.TempDir(), "rates.db"),
		Env:      "production",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := repository.NewShippingRateRepository(db)
	h := NewShippingRateController(services.NewShippingRateService(repo, nil), services.NewShippingResolver(repo))

	router := utils.NewTestRouter()
	rates := router.Group("/shipping-rates")
	rates.GET("", h.ListShippingRates)
	rates.GET("/export/xlsx", h.DownloadShippingRatesExcel)
	rates.GET("/export/pdf", h.DownloadShippingRatesPDF)
	rates.GET("/resolve", h.PreviewResolve)
	rates.GET("/:id", h.GetShippingRate)
	rates.POST("", h.CreateShippingRate)
	rates.PUT("/:id", h.UpdateShippingRate)
	rates.PATCH("/:id/toggle", h.ToggleShippingRate)
	rates.DELETE("/:id", h.DeleteShippingRate)
	return router
}

func createRate(t *testing.T, router *gin.Engine, body map[string]interface{}) float64 {
	t.Helper()
	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPost, Path: "/shipping-rates", Body: body})
	utils.AssertResponse(t, resp, http.StatusCreated, "Shipping rate added successfully")
	rate := resp.Data()["shipping_rate"].(map[string]interface{})
	return rate["id"].(float64)
}

func TestShippingRateController_CreateAndGet(t *testing.T) {
	router := newRateRouter(t)

	id := createRate(t, router, map[string]interface{}{
		"name":                    "Mumbai CST",
		"pincode":                 "400001",
		"zone":                    "West",
		"base_cost":               "40",
		"free_shipping_threshold": "999",
		"estimated_delivery_min":  1,
		"estimated_delivery_max":  2,
	})

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: fmt.Sprintf("/shipping-rates/%d", int(id))})
	utils.AssertResponse(t, resp, http.StatusOK, "Shipping rate retrieved successfully")
	assert.Equal(t, "exact", resp.Data()["kind"])

	rate := resp.Data()["shipping_rate"].(map[string]interface{})
	assert.Equal(t, "400001", rate["pincode"])
	assert.Nil(t, rate["pincode_prefix"])
	assert.Equal(t, "40", rate["base_cost"])
	assert.Equal(t, "999", rate["free_shipping_threshold"])
	assert.Equal(t, true, rate["is_active"])
}

func TestShippingRateController_CreateValidation(t *testing.T) {
	router := newRateRouter(t)

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{
		Method: http.MethodPost,
		Path:   "/shipping-rates",
		Body:   map[string]interface{}{"pincode": "400001", "pincode_prefix": "400", "base_cost": "10"},
	})
	utils.AssertResponse(t, resp, http.StatusUnprocessableEntity, "Validation failed")

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{
		Method: http.MethodPost,
		Path:   "/shipping-rates",
		Body:   map[string]interface{}{"base_cost": "ten"},
	})
	utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid request format")
}

func TestShippingRateController_UpdateToggleDelete(t *testing.T) {
	router := newRateRouter(t)
	id := createRate(t, router, map[string]interface{}{"pincode_prefix": "560", "base_cost": "70"})
	path := fmt.Sprintf("/shipping-rates/%d", int(id))

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{
		Method: http.MethodPut,
		Path:   path,
		Body:   map[string]interface{}{"surcharge": "5", "zone": "South"},
	})
	utils.AssertResponse(t, resp, http.StatusOK, "Shipping rate updated successfully")
	rate := resp.Data()["shipping_rate"].(map[string]interface{})
	assert.Equal(t, "5", rate["surcharge"])
	assert.Equal(t, "South", rate["zone"])

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPatch, Path: path + "/toggle"})
	utils.AssertResponse(t, resp, http.StatusOK, "Shipping rate status updated successfully")
	assert.Equal(t, false, resp.Data()["shipping_rate"].(map[string]interface{})["is_active"])

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodDelete, Path: path})
	utils.AssertResponse(t, resp, http.StatusOK, "Shipping rate deleted successfully")

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: path})
	utils.AssertResponse(t, resp, http.StatusNotFound, utils.ErrRateNotFound)

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodDelete, Path: path})
	utils.AssertResponse(t, resp, http.StatusNotFound, utils.ErrRateNotFound)
}

func TestShippingRateController_InvalidID(t *testing.T) {
	router := newRateRouter(t)
	for _, path := range []string{"/shipping-rates/abc", "/shipping-rates/0", "/shipping-rates/-3"} {
		resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: path})
		utils.AssertResponse(t, resp, http.StatusBadRequest, utils.ErrInvalidRateID)
	}
}

func TestShippingRateController_List(t *testing.T) {
	router := newRateRouter(t)
	createRate(t, router, map[string]interface{}{"name": "Mumbai", "pincode_prefix": "400", "zone": "West", "base_cost": "60"})
	createRate(t, router, map[string]interface{}{"name": "Fallback", "base_cost": "100"})
	createRate(t, router, map[string]interface{}{"name": "Old", "pincode": "110001", "base_cost": "30", "is_active": false})

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates?active=true&limit=1"})
	utils.AssertResponse(t, resp, http.StatusOK, "Shipping rates retrieved successfully")
	assert.Len(t, resp.Data()["shipping_rates"], 1)
	pagination := resp.Body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates?kind=prefix"})
	rates := resp.Data()["shipping_rates"].([]interface{})
	require.Len(t, rates, 1)
	assert.Equal(t, "Mumbai", rates[0].(map[string]interface{})["name"])

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates?kind=zone"})
	utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid kind filter")

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates?active=maybe"})
	utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid active filter")
}

func TestShippingRateController_PreviewResolve(t *testing.T) {
	router := newRateRouter(t)
	createRate(t, router, map[string]interface{}{"pincode": "400001", "base_cost": "40"})
	createRate(t, router, map[string]interface{}{"pincode_prefix": "400", "base_cost": "60"})
	createRate(t, router, map[string]interface{}{"base_cost": "100", "free_shipping_threshold": "1000"})

	tests := []struct {
		pincode string
		tier    string
		cost    string
	}{
		{"400001", "exact", "40"},
		{"400099", "prefix", "60"},
		{"500001", "default", "100"},
	}
	for _, tt := range tests {
		resp := utils.MakeTestRequest(t, router, utils.TestRequest{
			Method: http.MethodGet,
			Path:   "/shipping-rates/resolve?pincode=" + tt.pincode + "&subtotal=250",
		})
		utils.AssertResponse(t, resp, http.StatusOK, "Shipping rate resolved successfully")
		quote := resp.Data()["quote"].(map[string]interface{})
		assert.Equal(t, tt.tier, quote["matched_by"], tt.pincode)
		assert.Equal(t, tt.cost, quote["shipping_cost"], tt.pincode)
	}

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates/resolve?pincode=500001&subtotal=1000"})
	quote := resp.Data()["quote"].(map[string]interface{})
	assert.Equal(t, true, quote["is_free"])
	assert.Equal(t, "0", quote["shipping_cost"])

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates/resolve?pincode=%20"})
	utils.AssertResponse(t, resp, http.StatusNotFound, utils.ErrShippingUnavailable)
}

func TestShippingRateController_Exports(t *testing.T) {
	router := newRateRouter(t)
	createRate(t, router, map[string]interface{}{"name": "Mumbai", "pincode_prefix": "400", "base_cost": "60", "free_shipping_threshold": "999"})
	createRate(t, router, map[string]interface{}{"name": "Fallback", "base_cost": "100"})

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates/export/xlsx"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=shipping_rates.xlsx", resp.Header.Get("Content-Disposition"))

	book, err := xlsx.OpenBinary(resp.Raw)
	require.NoError(t, err)
	sheet := book.Sheets[0]
	assert.Equal(t, "Shipping Rates", sheet.Name)
	// title, generated, blank, header, then one row per rate
	require.Len(t, sheet.Rows, 6)
	assert.Equal(t, "Kind", sheet.Rows[3].Cells[2].Value)
	assert.Equal(t, "Mumbai", sheet.Rows[4].Cells[1].Value)
	assert.Equal(t, "prefix", sheet.Rows[4].Cells[2].Value)
	assert.Equal(t, "default", sheet.Rows[5].Cells[2].Value)

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/shipping-rates/export/pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF", string(resp.Raw[:4]))
}
