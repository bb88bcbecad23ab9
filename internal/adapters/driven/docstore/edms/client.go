package edms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.DocumentStore = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 30 * time.Second

	// DefaultMaxImageBytes bounds a single image download.
	DefaultMaxImageBytes = 64 << 20
)

// Fallback messages for error responses without an "error" field.
const (
	msgImageNotFound = "Image not found in EDMS."
	msgRequestFailed = "Request failed."
)

// Config holds configuration for the EDMS client.
type Config struct {
	// BaseURL is the document store base URL (default: http://127.0.0.1:5000).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// MaxImageBytes is the largest accepted image (default: 64 MiB).
	MaxImageBytes int64

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the EDMS document store.
type Client struct {
	client   *http.Client
	baseURL  string
	maxImage int64
}

// NewClient creates a new EDMS client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:   client,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxImage: cfg.MaxImageBytes,
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// documentsResponse is the list endpoint response format.
type documentsResponse struct {
	Documents  []documentJSON `json:"documents"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total_documents"`
}

// documentJSON is one list entry. doc_id is a number or a string
// depending on the EDMS backend.
type documentJSON struct {
	DocID        json.RawMessage `json:"doc_id"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	Date         string          `json:"date"`
	ThumbnailURL string          `json:"thumbnail_url"`
}

// messageResponse is the {message} or {error} body of the POST endpoints.
type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// updateAbstractRequest is the abstract update request format.
type updateAbstractRequest struct {
	DocID string   `json:"doc_id"`
	Names []string `json:"names"`
}

// ListDocuments fetches one page of documents, optionally filtered by a search term.
func (c *Client) ListDocuments(ctx context.Context, query domain.PageQuery) (*domain.DocumentPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(query.Page, 1)))
	if query.Search != "" {
		params.Set("search", query.Search)
	}

	resp, err := c.do(ctx, "list documents", http.MethodGet, "/api/documents?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, msgRequestFailed)
	}

	var body documentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	docs := make([]domain.DocumentSummary, 0, len(body.Documents))
	for i, d := range body.Documents {
		id, err := parseDocID(d.DocID)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, domain.DocumentSummary{
			ID:           id,
			Title:        d.Title,
			Author:       d.Author,
			Date:         d.Date,
			ThumbnailURL: c.resolve(d.ThumbnailURL),
		})
	}

	return &domain.DocumentPage{
		Documents:      docs,
		Page:           body.Page,
		TotalPages:     body.TotalPages,
		TotalDocuments: body.Total,
	}, nil
}

// FetchImage downloads the full image of a document.
func (c *Client) FetchImage(ctx context.Context, documentID string) (*domain.DocumentImage, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	resp, err := c.do(ctx, "fetch image", http.MethodGet, "/api/image/"+url.PathEscape(documentID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, msgImageNotFound)
	}

	// One byte past the limit tells a full image from a cut-off one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImage+1))
	if err != nil {
		return nil, &domain.NetworkError{Op: "fetch image", Err: err}
	}
	if int64(len(data)) > c.maxImage {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrImageTooLarge, c.maxImage)
	}
	logger.Debug("Fetched %d image bytes for document %s", len(data), documentID)

	return &domain.DocumentImage{
		DocumentID:  documentID,
		Bytes:       data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// ClearCache purges the service's thumbnail cache.
func (c *Client) ClearCache(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, "clear cache", http.MethodPost, "/api/clear_cache", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return decodeMessage(resp)
}

// UpdateAbstract appends the names to the document's abstract.
func (c *Client) UpdateAbstract(ctx context.Context, documentID string, names []string) (string, error) {
	body, err := json.Marshal(updateAbstractRequest{DocID: documentID, Names: names})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, "update abstract", http.MethodPost, "/api/update_abstract", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return decodeMessage(resp)
}

// do sends a request and maps transport failures to domain.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, jsonBody []byte) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if jsonBody != nil {
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("EDMS %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// resolve makes a service-relative thumbnail path absolute.
func (c *Client) resolve(ref string) string {
	if ref == "" || strings.Contains(ref, "://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

// decodeMessage reads a {message} or {error} body.
func decodeMessage(resp *http.Response) (string, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeError(resp, msgRequestFailed)
	}

	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.Error != "" {
		return "", &domain.ServiceError{Status: resp.StatusCode, Message: body.Error}
	}
	return body.Message, nil
}

// decodeError builds a ServiceError from a non-success response, using the
// body's "error" field when present.
func decodeError(resp *http.Response, fallback string) error {
	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body messageResponse
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}
	logger.Debug("EDMS error (status %d): %s", resp.StatusCode, msg)
	return &domain.ServiceError{Status: resp.StatusCode, Message: msg}
}

// parseDocID accepts a JSON number or string id.
func parseDocID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing doc_id")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid doc_id %s", raw)
	}
	return n.String(), nil
}
