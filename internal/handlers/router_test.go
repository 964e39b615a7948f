package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"partsrecv/internal/config"
	"partsrecv/internal/database"
	"partsrecv/internal/services"
)

func testRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, cfg))
	return NewRouter(cfg, db, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestScanSyncRoundTrip(t *testing.T) {
	h := testRouter(t, config.Defaults())

	rec, body := doJSON(t, h, http.MethodGet, "/api/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["scans"])
	assert.EqualValues(t, 0, body["version"])

	scans := []map[string]interface{}{
		{
			"id": "11111111-1111-1111-1111-111111111111", "partNumber": "44440000",
			"shippingOrder": "2223333", "pdc": "011", "dealerCode": "095207",
			"type": "CA", "quantity": 3, "scans": []string{"raw"},
		},
	}
	rec, body = doJSON(t, h, http.MethodPost, "/api/scans", map[string]interface{}{"scans": scans})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 1, body["version"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := body["scans"].([]interface{})
	require.Len(t, got, 1)
	entry := got[0].(map[string]interface{})
	assert.Equal(t, "44440000", entry["partNumber"])
	assert.Equal(t, "2223333", entry["shippingOrder"])
	assert.EqualValues(t, 3, entry["quantity"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["version"])
	assert.EqualValues(t, 1, body["count"])

	rec, body = doJSON(t, h, http.MethodDelete, "/api/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["version"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])
}

func TestReplaceScansRejectsBadBody(t *testing.T) {
	h := testRouter(t, config.Defaults())

	rec, body := doJSON(t, h, http.MethodPost, "/api/scans", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", body["error"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/scans", map[string]interface{}{"other": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedUploadAndReconcile(t *testing.T) {
	h := testRouter(t, config.Defaults())

	csv := strings.Join([]string{
		"Current Status,Part No. Ordered,Part No. Processed,Facility,Qty Ordered,Qty Proc.,Shipment No.",
		"Shipped,44440000,44440000,011,3,3,2223333",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "po__control__details_11400_88213_08_28_2026.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/purchase-orders", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	po := created["purchaseOrder"].(map[string]interface{})
	assert.Equal(t, "11400", po["pbsPO"])
	assert.Equal(t, "88213", po["gmControl"])

	// Store a matching scan, then reconcile.
	scans := []map[string]interface{}{
		{
			"id": "22222222-2222-2222-2222-222222222222", "partNumber": "44440000",
			"shippingOrder": "2223333", "pdc": "011", "dealerCode": "095207",
			"type": "CA", "quantity": 3, "scans": []string{"raw"},
		},
	}
	rec2, _ := doJSON(t, h, http.MethodPost, "/api/scans", map[string]interface{}{"scans": scans})
	require.Equal(t, http.StatusOK, rec2.Code)

	rec3, report := doJSON(t, h, http.MethodGet, "/api/reconciliation?scope=2223333", nil)
	require.Equal(t, http.StatusOK, rec3.Code)
	results := report["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "match", results[0].(map[string]interface{})["status"])
	summary := report["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["matches"])
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	h := testRouter(t, config.Defaults())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/purchase-orders", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDealerDirectorySeeded(t *testing.T) {
	h := testRouter(t, config.Defaults())

	rec, body := doJSON(t, h, http.MethodGet, "/api/dealers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dealers := body["dealers"].([]interface{})
	require.Len(t, dealers, 2)
	first := dealers[0].(map[string]interface{})
	assert.Equal(t, "095182", first["code"])
	assert.Equal(t, "Grimsby Chevrolet", first["name"])
}

func TestDealerUpsertAndDelete(t *testing.T) {
	h := testRouter(t, config.Defaults())

	rec, body := doJSON(t, h, http.MethodPost, "/api/dealers", map[string]interface{}{
		"code": "095300", "name": "Leggat Chevrolet", "contact": "A. Singh", "email": "parts@leggat.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	dealer := body["dealer"].(map[string]interface{})
	assert.Equal(t, "Leggat Chevrolet", dealer["name"])

	// Upsert by code updates in place.
	rec, _ = doJSON(t, h, http.MethodPost, "/api/dealers", map[string]interface{}{
		"code": "095300", "name": "Leggat Chevrolet Burlington",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, h, http.MethodGet, "/api/dealers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["dealers"].([]interface{}), 3)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/dealers/095300", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/dealers/095300", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Short codes rejected.
	rec, _ = doJSON(t, h, http.MethodPost, "/api/dealers", map[string]interface{}{"code": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDamagePresetsEndpoint(t *testing.T) {
	h := testRouter(t, config.Defaults())
	rec, body := doJSON(t, h, http.MethodGet, "/api/dipp-presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	presets := body["presets"].([]interface{})
	assert.Contains(t, presets, "Box damaged")
}

func TestPairingRequiredWhenConfigured(t *testing.T) {
	cfg := config.Defaults()
	cfg.PairingCode = "7731"
	h := testRouter(t, cfg)

	// Sync endpoint locked without a token.
	rec, _ := doJSON(t, h, http.MethodGet, "/api/scans", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong code is rejected.
	rec, _ = doJSON(t, h, http.MethodPost, "/api/sessions", map[string]interface{}{"code": "0000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Right code yields a token that unlocks the API.
	rec, body := doJSON(t, h, http.MethodPost, "/api/sessions",
		map[string]interface{}{"code": "7731", "device": "datalogic-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestPairingDisabledLeavesAPIOpen(t *testing.T) {
	h := testRouter(t, config.Defaults())
	rec, _ := doJSON(t, h, http.MethodGet, "/api/scans", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPairingTokenValidation(t *testing.T) {
	cfg := config.Defaults()
	cfg.PairingCode = "7731"
	ps := services.NewPairingService(cfg)

	token, err := ps.Pair("7731", "bench", "workstation")
	require.NoError(t, err)

	claims, err := ps.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bench", claims.Device)
	assert.Equal(t, "workstation", claims.Role)

	_, err = ps.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestQRCodeEndpoint(t *testing.T) {
	h := testRouter(t, config.Defaults())

	req := httptest.NewRequest(http.MethodGet, "/api/qr?url=http://192.168.1.20:3000/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestCORSPreflight(t *testing.T) {
	h := testRouter(t, config.Defaults())

	req := httptest.NewRequest(http.MethodOptions, "/api/scans", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
