package faceservice

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.FaceAnalyzer = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://127.0.0.1:5002"
	DefaultTimeout = 2 * time.Minute

	// FormField is the multipart field carrying the uploaded image.
	FormField = "image_file"
)

// Fallback messages for error responses without an "error" field.
const (
	msgAnalysisFailed = "Analysis failed."
	msgSaveFailed     = "Failed to save face."
)

// Config holds configuration for the face service client.
type Config struct {
	// BaseURL is the face service base URL (default: http://127.0.0.1:5002).
	BaseURL string

	// Timeout is the request timeout (default: 2m, analysis is slow).
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the request throttle.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the face recognition service.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// NewClient creates a new face service client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// analyzeResponse is the analyze endpoint response format.
type analyzeResponse struct {
	ProcessedImage   string                `json:"processed_image"`
	OriginalImageB64 string                `json:"original_image_b64"`
	Faces            []domain.DetectedFace `json:"faces"`
	Error            string                `json:"error"`
}

// errorResponse is the error body of both endpoints.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Analyze uploads an image and returns the detected faces.
func (c *Client) Analyze(ctx context.Context, filename string, image []byte) (*domain.AnalysisResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(FormField, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	resp, err := c.do(ctx, "analyze image", "/api/analyze_image", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, msgAnalysisFailed)
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Error != "" {
		return nil, &domain.ServiceError{Status: resp.StatusCode, Message: body.Error}
	}

	processed, err := decodeImage(body.ProcessedImage)
	if err != nil {
		return nil, fmt.Errorf("decode processed image: %w", err)
	}
	logger.Debug("Face service found %d faces in %s", len(body.Faces), filename)

	return &domain.AnalysisResult{
		ProcessedImage:   processed,
		OriginalImageB64: body.OriginalImageB64,
		Faces:            body.Faces,
	}, nil
}

// AddFace registers a name for a detected face.
func (c *Client) AddFace(ctx context.Context, reg domain.FaceRegistration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, "add face", "/api/add_face", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp, msgSaveFailed)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do waits for the limiter and posts body to path.
func (c *Client) do(ctx context.Context, op, path, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("Face service POST %s", path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// decodeError builds a ServiceError, preferring the body's error message.
func (c *Client) decodeError(resp *http.Response, fallback string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(resp.Header.Get("Retry-After"))
	}

	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body errorResponse
		if json.Unmarshal(data, &body) == nil {
			switch {
			case body.Error != "":
				msg = body.Error
			case body.Message != "":
				msg = body.Message
			}
		}
	}
	logger.Debug("Face service error (status %d): %s", resp.StatusCode, msg)
	return &domain.ServiceError{Status: resp.StatusCode, Message: msg}
}

// decodeImage decodes a base64 image, tolerating a data URL prefix.
func decodeImage(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}
