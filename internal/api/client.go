// Package api is the HTTP client for the portfolio REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is where the portfolio API listens in development.
	DefaultBaseURL = "http://localhost:3000/api"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	tracerName = "github.com/noor-latif/portfolio-admin/internal/api"
)

// Client manages communication with the portfolio API.
type Client struct {
	// HTTP client used to communicate with the API.
	httpClient *http.Client

	// Base URL for API requests, including the /api prefix.
	BaseURL *url.URL

	logger  *log.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Timeout is kept
// unless WithTimeout is also given, in which case the client is copied first.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets where request and error lines are written.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client for baseURLStr, or DefaultBaseURL when it is empty.
func NewClient(baseURLStr string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURLStr) == "" {
		baseURLStr = DefaultBaseURL
	}

	parsedBaseURL, err := url.ParseRequestURI(baseURLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if parsedBaseURL.Scheme == "" || parsedBaseURL.Host == "" {
		return nil, fmt.Errorf("baseURL must include scheme and host")
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		BaseURL: parsedBaseURL,
		logger:  log.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	// Message is the payload's message when the server sent one.
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: status %d, message: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ErrNotFound is matched by any 404 response.
var ErrNotFound = errors.New("resource not found")

// errorPayload is the error body the API sends, e.g.
// {"statusCode":404,"message":"Project with ID 7 not found","error":"Not Found"}.
// message may also be a list of validation messages.
type errorPayload struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

func payloadMessage(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil || len(p.Message) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(p.Message, &msg); err == nil {
		return msg
	}
	var msgs []string
	if err := json.Unmarshal(p.Message, &msgs); err == nil {
		return strings.Join(msgs, "; ")
	}
	return ""
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	fullURL := c.BaseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		fullURL.RawQuery = r.query.Encode()
	}

	var reqBody io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// do sends r and decodes a 2xx body into v when v is non-nil.
func (c *Client) do(ctx context.Context, r request, v interface{}) (err error) {
	ctx, span := c.tracer.Start(ctx, "api."+r.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", r.path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	c.logger.Printf("[API] %s %s", r.method, r.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("[API Error] %v", err)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Printf("[API Error] %v", err)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       respBodyBytes,
			Message:    payloadMessage(respBodyBytes),
		}
		if apiErr.Message == "" {
			if len(respBodyBytes) > 0 && len(respBodyBytes) < 512 {
				apiErr.Message = strings.TrimSpace(string(respBodyBytes))
			} else {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		if len(respBodyBytes) > 0 {
			c.logger.Printf("[API Error] %s", respBodyBytes)
		} else {
			c.logger.Printf("[API Error] %s", apiErr.Message)
		}
		return apiErr
	}

	if v != nil && len(respBodyBytes) > 0 {
		if err := json.Unmarshal(respBodyBytes, v); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w, body: %s", err, string(respBodyBytes))
		}
	}

	return nil
}

// languageQuery builds ?languageId= for a set, non-zero filter.
func languageQuery(languageID *int64) url.Values {
	if languageID == nil || *languageID == 0 {
		return nil
	}
	return url.Values{"languageId": []string{strconv.FormatInt(*languageID, 10)}}
}
