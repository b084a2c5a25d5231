package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response body is retained.
const maxErrorBody = 64 << 10

// NewHTTPClient returns an http.Client with the given timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Request describes an outbound call. It is attached to HTTPError so a
// failure can name the request that produced it.
type Request struct {
	Method string
	URL    string
	Body   any
}

// HTTPError is returned when an upstream answers with a non-2xx status.
type HTTPError struct {
	Status  int
	Body    []byte
	Request *Request
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// Message returns the "message" field of a JSON error body, or "" when the
// body is absent, not JSON, or carries no such string field.
func (e *HTTPError) Message() string {
	if len(e.Body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// doJSON performs req, sending Body as JSON when set, and decodes a 2xx
// JSON response into dst.
func doJSON(ctx context.Context, client *http.Client, req Request, dst any) error {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encoding request body for %s: %w", req.URL, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", req.URL, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		failed := req
		return &HTTPError{Status: resp.StatusCode, Body: raw, Request: &failed}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL, err)
	}

	return nil
}
