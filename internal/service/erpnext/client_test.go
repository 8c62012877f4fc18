package erpnext

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

func newTestService(baseURL string) *Service {
	return &Service{
		BaseURL:        baseURL,
		VerifyEndpoint: "/api/method/frappe.auth.get_logged_user",
		Company:        "accord",
		readClient:     &http.Client{Timeout: 5 * time.Second},
		writeClient:    &http.Client{Timeout: 5 * time.Second},
		log:            slog.Default(),
	}
}

func testCreds() *entity.Credentials {
	return &entity.Credentials{APIKey: "key123456789012", APISecret: "secret123456789"}
}

func TestVerifyCredentials(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "user@example.com"})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	err := svc.VerifyCredentials(context.Background(), "mykey", "mysecret")
	require.NoError(t, err)
	assert.Equal(t, "token mykey:mysecret", gotAuth)
	assert.Equal(t, "/api/method/frappe.auth.get_logged_user", gotPath)
}

func TestVerifyCredentialsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid API Key"})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	err := svc.VerifyCredentials(context.Background(), "bad", "pair")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API Key", apiErr.Detail)
}

func TestSearchItemsBuildsFilters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/api/resource/Item", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"name": "ITM-001", "item_code": "ITM-001", "item_name": "Bolt", "stock_uom": "Nos"},
			},
		})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	items, err := svc.SearchItems(context.Background(), testCreds(), "bolt", 25)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bolt", items[0].ItemName)
	assert.Equal(t, "Nos", items[0].StockUom)

	assert.Equal(t, "25", gotQuery.Get("limit_page_length"))
	assert.Equal(t, "item_name asc", gotQuery.Get("order_by"))

	var fields []string
	require.NoError(t, json.Unmarshal([]byte(gotQuery.Get("fields")), &fields))
	assert.Contains(t, fields, "item_code")
	assert.Contains(t, fields, "standard_rate")

	var filters [][]string
	require.NoError(t, json.Unmarshal([]byte(gotQuery.Get("filters")), &filters))
	require.Len(t, filters, 1)
	assert.Equal(t, []string{"Item", "item_name", "like", "%bolt%"}, filters[0])
}

func TestSearchItemsEmptyQueryNoFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("filters"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	items, err := svc.SearchItems(context.Background(), testCreds(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateStockEntry(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/resource/Stock%20Entry", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"name": "MAT-STE-2026-00042"},
		})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	entry := &entity.StockEntry{
		StockEntryType: entity.StockEntryTypeReceipt,
		NamingSeries:   "MAT-STE-.YYYY.-.#####",
		ToWarehouse:    "Main - A",
		Items: []entity.StockEntryItem{
			{ItemCode: "ITM-001", Qty: 3, Uom: "Nos", StockUom: "Nos", TargetWarehouse: "Main - A"},
		},
	}

	name, err := svc.CreateStockEntry(context.Background(), testCreds(), entry)
	require.NoError(t, err)
	assert.Equal(t, "MAT-STE-2026-00042", name)

	// company default filled from config
	assert.Equal(t, "accord", gotBody["company"])
	assert.Equal(t, "Material Receipt", gotBody["stock_entry_type"])
}

func TestSubmitDoc(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/method/run_doc_method", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{}})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	err := svc.SubmitDoc(context.Background(), testCreds(), DocTypeStockEntry, "MAT-STE-2026-00042")
	require.NoError(t, err)
	assert.Equal(t, "Stock Entry", gotBody["dt"])
	assert.Equal(t, "MAT-STE-2026-00042", gotBody["dn"])
	assert.Equal(t, "submit", gotBody["method"])
}

func TestDeleteDocEscapesName(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	err := svc.DeleteDoc(context.Background(), testCreds(), DocTypeDeliveryNote, "MAT-DN-2026-00007")
	require.NoError(t, err)
	assert.Equal(t, "/api/resource/Delivery%20Note/MAT-DN-2026-00007", gotPath)
}

func TestDecodeErrorPrefersMessage(t *testing.T) {
	err := decodeError(417, []byte(`{"message":"Qty not available","exception":"frappe.exceptions.ValidationError"}`))
	assert.Equal(t, "HTTP 417: Qty not available", err.Error())
}

func TestDecodeErrorFallsBackToException(t *testing.T) {
	err := decodeError(500, []byte(`{"exception":"frappe.exceptions.ValidationError: boom"}`))
	assert.Equal(t, "HTTP 500: frappe.exceptions.ValidationError: boom", err.Error())
}

func TestDecodeErrorServerMessages(t *testing.T) {
	raw := `{"_server_messages":"[\"{\\\"message\\\": \\\"Valuation Rate is mandatory\\\"}\"]"}`
	err := decodeError(417, []byte(raw))
	assert.Equal(t, "HTTP 417: Valuation Rate is mandatory", err.Error())
}

func TestDecodeErrorRawBody(t *testing.T) {
	err := decodeError(502, []byte("Bad Gateway"))
	assert.Equal(t, "HTTP 502: Bad Gateway", err.Error())
}

func TestDecodeErrorEmptyBody(t *testing.T) {
	err := decodeError(503, nil)
	assert.Equal(t, "HTTP 503: Service Unavailable", err.Error())
}
