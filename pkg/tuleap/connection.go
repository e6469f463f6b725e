package tuleap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Connection is the transport capability the library consumes. Bodies are
// UTF-8 JSON text; any non-success exchange surfaces as an error. The
// default implementation speaks HTTP, but tests inject their own.
type Connection interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, body []byte) ([]byte, error)
	Put(ctx context.Context, path string, body []byte) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// Compile-time interface check
var _ Connection = (*HTTPConnection)(nil)

// HTTPConnection talks to the tracker service's REST API, authenticating
// every request with the access-key header.
type HTTPConnection struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

// NewConnection creates an HTTP connection rooted at baseURL (the "/api/"
// prefix of the service) using the given access key.
func NewConnection(baseURL, accessKey string) *HTTPConnection {
	return &HTTPConnection{
		baseURL:   strings.TrimSuffix(baseURL, "/") + "/",
		accessKey: accessKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout overrides the per-request timeout.
func (c *HTTPConnection) SetTimeout(d time.Duration) {
	c.client.Timeout = d
}

// Get issues a GET request for the given relative path.
func (c *HTTPConnection) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *HTTPConnection) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *HTTPConnection) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *HTTPConnection) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *HTTPConnection) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-AccessKey", c.accessKey)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
