package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zombor/billed/internal/bill"
)

// HTTPStore implements Store against the bill REST API
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates an HTTPStore for the API rooted at baseURL
func NewHTTPStore(baseURL string) (*HTTPStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("bill api url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing bill api url: %w", err)
	}

	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// ListBills fetches all bills
func (h *HTTPStore) ListBills(ctx context.Context) ([]*bill.Bill, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/bills", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	bills := make([]*bill.Bill, 0)
	if err := h.do(req, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// UploadReceipt posts the receipt as multipart form data
func (h *HTTPStore) UploadReceipt(ctx context.Context, file bill.File, email string) (*bill.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.WriteField("email", email); err != nil {
		return nil, fmt.Errorf("writing email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.baseURL+"/bills", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result bill.UploadResult
	if err := h.do(req, &result); err != nil {
		return nil, err
	}
	if result.ID == "" && result.Key == "" {
		return nil, fmt.Errorf("upload response has no key")
	}
	// The API identifies the pending bill by its key
	if result.ID == "" {
		result.ID = result.Key
	}
	return &result, nil
}

// UpdateBill creates or updates a bill
func (h *HTTPStore) UpdateBill(ctx context.Context, b *bill.Bill) (*bill.Bill, error) {
	jsonData, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshaling bill: %w", err)
	}

	method, endpoint := "POST", h.baseURL+"/bills"
	if b.ID != "" {
		method, endpoint = "PATCH", h.baseURL+"/bills/"+url.PathEscape(b.ID)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Fields missing from the response keep their submitted values
	saved := *b
	if err := h.do(req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// do sends req and decodes a JSON response into out. A 2xx response without
// a body leaves out untouched.
func (h *HTTPStore) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling bill API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
