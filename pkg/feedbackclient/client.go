// Package feedbackclient is a Go client for the feedback API, plus the
// search, sort and export helpers used by admin tooling.
package feedbackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3001"

// ClientInterface defines the interface for feedback API operations
type ClientInterface interface {
	CreateFeedback(ctx context.Context, in types.FeedbackCreate) (*types.Feedback, error)
	ListFeedback(ctx context.Context, limit, offset int) (*types.FeedbackListResponse, error)
	Health(ctx context.Context) (*types.HealthCheck, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the API rooted at baseURL. An empty baseURL
// means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feedback API returned %d: %s", e.StatusCode, e.Message)
}

// CreateFeedback submits in. Callers usually run ValidateSubmission first.
func (c *Client) CreateFeedback(ctx context.Context, in types.FeedbackCreate) (*types.Feedback, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback: %w", err)
	}

	var out types.Feedback
	if err := c.do(ctx, http.MethodPost, "/api/feedback", nil, bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFeedback fetches one page. Non-positive limit or negative offset are
// left for the server to normalize.
func (c *Client) ListFeedback(ctx context.Context, limit, offset int) (*types.FeedbackListResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var out types.FeedbackListResponse
	if err := c.do(ctx, http.MethodGet, "/api/feedback", params, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []types.Feedback{}
	}
	return &out, nil
}

// ListAll walks every page using next_offset.
func ListAll(ctx context.Context, c ClientInterface, pageSize int) ([]types.Feedback, error) {
	if pageSize <= 0 {
		pageSize = 200
	}

	var all []types.Feedback
	offset := 0
	for {
		page, err := c.ListFeedback(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.Count == 0 || page.Count < page.Limit || page.NextOffset <= offset {
			break
		}
		offset = page.NextOffset
	}
	if all == nil {
		all = []types.Feedback{}
	}
	return all, nil
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (*types.HealthCheck, error) {
	var out types.HealthCheck
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body *bytes.Reader, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.GetLogger().Debugw("Calling feedback API", "method", method, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed: %d", resp.StatusCode),
	}
	var body types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
