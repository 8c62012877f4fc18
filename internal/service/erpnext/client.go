package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/config"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// Frappe DocType names used by the bot.
const (
	DocTypeItem            = "Item"
	DocTypeWarehouse       = "Warehouse"
	DocTypeSupplier        = "Supplier"
	DocTypeCustomer        = "Customer"
	DocTypeStockEntry      = "Stock Entry"
	DocTypePurchaseReceipt = "Purchase Receipt"
	DocTypeDeliveryNote    = "Delivery Note"
)

// APIError carries the HTTP status and the most readable detail the ERP
// returned for a failed call.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// Service is a thin client over the frappe REST API. Every call authenticates
// with the caller's own key pair, the bot holds no ERP account of its own.
type Service struct {
	BaseURL        string
	VerifyEndpoint string
	Company        string

	readClient  *http.Client
	writeClient *http.Client
	log         *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		BaseURL:        strings.TrimRight(conf.Erp.BaseURL, "/"),
		VerifyEndpoint: conf.Erp.VerifyEndpoint,
		Company:        conf.Erp.Company,
		readClient:     &http.Client{Timeout: 10 * time.Second},
		writeClient:    &http.Client{Timeout: 15 * time.Second},
		log:            logger.With(sl.Module("erpnext")),
	}
}

func authHeader(creds *entity.Credentials) string {
	return fmt.Sprintf("token %s:%s", creds.APIKey, creds.APISecret)
}

// VerifyCredentials checks a key pair against the ERP before it is activated.
func (s *Service) VerifyCredentials(ctx context.Context, apiKey, apiSecret string) error {
	creds := &entity.Credentials{APIKey: apiKey, APISecret: apiSecret}

	var out json.RawMessage
	return s.doRequest(ctx, s.readClient, http.MethodGet, s.VerifyEndpoint, creds, nil, nil, &out)
}

// GetList fetches documents of the given doctype. query filters with a LIKE
// on searchField when non-empty.
func (s *Service) GetList(ctx context.Context, creds *entity.Credentials, doctype string, fields []string, searchField, query string, limit int, orderBy string, out any) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	params := url.Values{}
	params.Set("fields", string(fieldsJSON))
	params.Set("limit_page_length", fmt.Sprintf("%d", limit))
	if orderBy != "" {
		params.Set("order_by", orderBy)
	}
	if query != "" {
		filters, err := json.Marshal([][]string{{doctype, searchField, "like", "%" + query + "%"}})
		if err != nil {
			return fmt.Errorf("marshal filters: %w", err)
		}
		params.Set("filters", string(filters))
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	path := "/api/resource/" + url.PathEscape(doctype)
	if err := s.doRequest(ctx, s.readClient, http.MethodGet, path, creds, params, nil, &wrapper); err != nil {
		return err
	}

	return json.Unmarshal(wrapper.Data, out)
}

// GetDoc fetches a single document by name.
func (s *Service) GetDoc(ctx context.Context, creds *entity.Credentials, doctype, name string, out any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	path := "/api/resource/" + url.PathEscape(doctype) + "/" + url.PathEscape(name)
	if err := s.doRequest(ctx, s.readClient, http.MethodGet, path, creds, nil, nil, &wrapper); err != nil {
		return err
	}

	return json.Unmarshal(wrapper.Data, out)
}

// CreateDoc inserts a new document and returns its assigned name.
func (s *Service) CreateDoc(ctx context.Context, creds *entity.Credentials, doctype string, doc any) (string, error) {
	var wrapper struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	path := "/api/resource/" + url.PathEscape(doctype)
	if err := s.doRequest(ctx, s.writeClient, http.MethodPost, path, creds, nil, doc, &wrapper); err != nil {
		return "", err
	}

	return wrapper.Data.Name, nil
}

// DeleteDoc removes a document. Submitted documents must be cancelled first.
func (s *Service) DeleteDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error {
	path := "/api/resource/" + url.PathEscape(doctype) + "/" + url.PathEscape(name)
	return s.doRequest(ctx, s.writeClient, http.MethodDelete, path, creds, nil, nil, nil)
}

// SubmitDoc moves a draft document to submitted state.
func (s *Service) SubmitDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error {
	return s.runDocMethod(ctx, creds, doctype, name, "submit")
}

// CancelDoc cancels a submitted document.
func (s *Service) CancelDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error {
	return s.runDocMethod(ctx, creds, doctype, name, "cancel")
}

func (s *Service) runDocMethod(ctx context.Context, creds *entity.Credentials, doctype, name, method string) error {
	body := map[string]string{
		"dt":     doctype,
		"dn":     name,
		"method": method,
	}
	return s.doRequest(ctx, s.writeClient, http.MethodPost, "/api/method/run_doc_method", creds, nil, body, nil)
}

func (s *Service) doRequest(ctx context.Context, client *http.Client, method, path string, creds *entity.Credentials, params url.Values, body, out any) error {
	reqURL := s.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", authHeader(creds))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	s.log.Debug("erp request",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
	)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, respBody)
		s.log.Warn("erp request failed",
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", apiErr.Detail),
		)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

// decodeError digs the most human-readable detail out of a frappe error
// response: message, then exception, then _server_messages, then raw text.
func decodeError(status int, body []byte) *APIError {
	detail := strings.TrimSpace(string(body))

	var payload struct {
		Message        string `json:"message"`
		Exception      string `json:"exception"`
		ServerMessages string `json:"_server_messages"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			detail = payload.Message
		case payload.Exception != "":
			detail = payload.Exception
		case payload.ServerMessages != "":
			detail = decodeServerMessages(payload.ServerMessages)
		}
	}

	if len(detail) > 500 {
		detail = detail[:500]
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	return &APIError{StatusCode: status, Detail: detail}
}

// decodeServerMessages unpacks frappe's doubly encoded _server_messages: a
// JSON array of JSON strings, each holding {"message": "..."}.
func decodeServerMessages(raw string) string {
	var outer []string
	if err := json.Unmarshal([]byte(raw), &outer); err != nil {
		return raw
	}

	parts := make([]string, 0, len(outer))
	for _, entry := range outer {
		var inner struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(entry), &inner); err == nil && inner.Message != "" {
			parts = append(parts, inner.Message)
		} else {
			parts = append(parts, entry)
		}
	}

	return strings.Join(parts, "; ")
}
