// Package reqtest provides typed test helpers for the reqparse package.
package reqtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"reqparse"
)

// NewRequest builds a reqparse.Request carrier for dispatcher-level tests.
// A non-nil body is JSON-marshaled into the raw payload.
func NewRequest(t testing.TB, method string, query map[string]string, body any) *reqparse.Request {
	t.Helper()

	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("reqtest: marshal body: %v", err)
		}
		raw = b
	}

	req, err := reqparse.NewRequest(method, "http://example.com/api", nil, query, raw)
	if err != nil {
		t.Fatalf("reqtest: build request: %v", err)
	}
	return req
}

// ErrorEntry is one decoded entry of a 400 diagnostic body.
type ErrorEntry struct {
	Param  string `json:"param"`
	Reason string `json:"reason"`
	Type   string `json:"type"`
	Input  any    `json:"input"`
}

// Errors decodes a diagnostic response body into its error entries.
func Errors(t testing.TB, body []byte) []ErrorEntry {
	t.Helper()

	var payload struct {
		Errors []ErrorEntry `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("reqtest: decode diagnostic: %v", err)
	}
	return payload.Errors
}

// Client wraps an httptest.Server for convenient app testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from an app.
func NewClient(t testing.TB, a *reqparse.App) *Client {
	t.Helper()
	srv := httptest.NewServer(a)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded app response.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     []byte
}

// Get sends a GET request with optional query values.
func Get[Resp any](t testing.TB, c *Client, path string, query map[string]string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodGet, path, query, nil)
}

// Post sends a POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPost, path, nil, body)
}

func do[Resp any](t testing.TB, c *Client, method, path string, query map[string]string, body any) *Response[Resp] {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("reqtest: marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	target := c.Server.URL + path
	if len(query) > 0 {
		vals := make(url.Values, len(query))
		for k, v := range query {
			vals.Set(k, v)
		}
		target += "?" + vals.Encode()
	}

	req, err := http.NewRequestWithContext(context.Background(), method, target, reqBody)
	if err != nil {
		t.Fatalf("reqtest: create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reqtest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("reqtest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reqtest: read body: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     raw,
	}

	if len(raw) > 0 {
		var decoded Resp
		if decErr := json.Unmarshal(raw, &decoded); decErr == nil {
			result.Body = &decoded
		}
	}

	return result
}
