package x

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

const (
	defaultBaseURL    = "https://api.twitter.com"
	defaultAPIVersion = "2"
	defaultTimeout    = 15 * time.Second
	defaultRPS        = 1.0
	defaultBurst      = 5
)

// userFields are the profile fields requested for every lookup
var userFields = []string{
	"created_at", "description", "entities", "id", "location", "name",
	"pinned_tweet_id", "profile_image_url", "protected", "public_metrics",
	"url", "username", "verified", "verified_type", "withheld",
}

// Client is an X API v2 client for profile lookups
type Client struct {
	baseURL     string
	apiVersion  string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithAPIVersion sets the API version
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithBearerToken sets the app-only bearer token
func WithBearerToken(token string) ClientOption {
	return func(c *Client) {
		c.bearerToken = token
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets the client-side request rate
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 || burst <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a new X API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiVersion: defaultAPIVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIProblem is a single error entry from the X API
type APIProblem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

// APIError represents an error response from the X API
type APIError struct {
	Status int          `json:"-"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Errors []APIProblem `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" && len(e.Errors) > 0 {
		msg = e.Errors[0].Detail
	}
	if msg == "" {
		msg = e.Title
	}
	return fmt.Sprintf("x API error: %s (status: %d)", msg, e.Status)
}

// Unwrap maps the HTTP status to a domain error
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return entity.ErrProfileNotFound
	case e.Status == http.StatusTooManyRequests:
		return entity.ErrUpstreamRateLimited
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return entity.ErrUpstreamUnauthorized
	}
	return entity.ErrUpstreamFailure
}

type userResponse struct {
	Data   entity.RawProfile `json:"data"`
	Errors []APIProblem      `json:"errors"`
}

// GetUserByUsername fetches the raw profile of a user by handle.
// GET /2/users/by/username/{username}
func (c *Client) GetUserByUsername(ctx context.Context, username string) (entity.RawProfile, error) {
	if username == "" {
		return nil, entity.ErrInvalidProfileReference
	}

	endpoint := fmt.Sprintf("%s/%s/users/by/username/%s", c.baseURL, c.apiVersion, url.PathEscape(username))

	params := url.Values{}
	params.Set("user.fields", strings.Join(userFields, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out userResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	// X answers 200 with an errors array for unknown or suspended users
	if out.Data == nil {
		problem := APIProblem{Title: "Not Found Error"}
		if len(out.Errors) > 0 {
			problem = out.Errors[0]
		}
		return nil, &APIError{Status: http.StatusNotFound, Title: problem.Title, Detail: problem.Detail}
	}

	return out.Data, nil
}

// do executes an HTTP request and decodes the response
func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w: %w", entity.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	// Check for error response
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Detail = string(body)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
