package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SubmissionError is a non-field-specific failure during the POST (network
// drop, 5xx). It is never auto-retried: duplicate registrations are worse
// than asking the user to resubmit.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit: submission failed: %v", e.Err)
	}
	return fmt.Sprintf("submit: submission failed with status %d", e.Status)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ValidationError carries field-keyed messages returned by the backend.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submit: server rejected %d field(s)", len(e.Fields))
}

// Result is a successful submission acknowledgement.
type Result struct {
	Message string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client posts composed submissions to the form backend.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient constructs a Client for the given base endpoint.
func NewClient(endpoint string, options ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		client:   &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Submit posts the composed request for a slug. Failures normalize to
// exactly one of the error shapes: *ValidationError for field-keyed
// rejections, *SubmissionError for everything else. No raw transport errors
// leak to the caller.
func (c *Client) Submit(ctx context.Context, slug string, req Request) (Result, error) {
	url := c.endpoint + "/forms/" + slug + "/submissions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(req.Body))
	if err != nil {
		return Result{}, &SubmissionError{Err: err}
	}
	httpReq.Header.Set("Content-Type", req.ContentType)
	httpReq.Header.Set("Accept", "application/json")
	if ref := strings.TrimSpace(req.ClientRef); ref != "" {
		httpReq.Header.Set("X-Client-Ref", ref)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("submission transport failure", zap.String("slug", slug), zap.Error(err))
		return Result{}, &SubmissionError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &SubmissionError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("submission accepted",
			zap.String("slug", slug),
			zap.String("encoding", string(req.Encoding)))
		return Result{Message: successMessage(body)}, nil
	}

	if fields := decodeFieldErrors(body); len(fields) > 0 {
		c.logger.Info("submission rejected by validation",
			zap.String("slug", slug),
			zap.Int("fields", len(fields)))
		return Result{}, &ValidationError{Fields: fields}
	}

	c.logger.Warn("submission failed",
		zap.String("slug", slug),
		zap.Int("status", resp.StatusCode))
	return Result{}, &SubmissionError{Status: resp.StatusCode}
}

func successMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// decodeFieldErrors accepts the backend's validation payload in either of
// its observed shapes: {"errors": {"field": "msg"}} or
// {"errors": {"field": ["msg", ...]}}.
func decodeFieldErrors(body []byte) map[string]string {
	var payload struct {
		Errors map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return nil
	}

	fields := make(map[string]string, len(payload.Errors))
	for key, raw := range payload.Errors {
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			if msg := strings.TrimSpace(single); msg != "" {
				fields[key] = msg
			}
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err == nil {
			cleaned := make([]string, 0, len(many))
			for _, msg := range many {
				if trimmed := strings.TrimSpace(msg); trimmed != "" {
					cleaned = append(cleaned, trimmed)
				}
			}
			if len(cleaned) > 0 {
				fields[key] = strings.Join(cleaned, "; ")
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
