// the client package is used by the service layer to call the lead-routing admin API.
// Successful calls return the response body untouched (normalization happens in the service layer);
// failures are returned as a *ClientError carrying the server's response text (see client/errors.go)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for each request.
// The token is read on every call so a credential change applies to the next request.
type TokenSource interface {
	Token() string
}

// Client handles communication with the admin API.
// Requests are made exactly once: there is no retry and no client-imposed timeout,
// callers bound a request with their context.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials TokenSource
	logger      *slog.Logger
}

func NewClient(baseURL string, credentials TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		credentials: credentials,
		logger:      logger,
	}
}

// BaseURL returns the API base the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request to path (relative to the base URL) with body, when not nil, encoded as JSON.
// It returns the raw response body for 2xx responses; an empty body returns nil.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, NewClientInternalError(err, fmt.Sprintf("marshaling %s %s request", method, path))
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, NewClientInternalError(err, fmt.Sprintf("creating %s %s request", method, path))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.credentials != nil {
		if token := c.credentials.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("admin api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, NewClientConnectionError(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewClientConnectionError(err)
	}

	c.logger.Debug("admin api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(resBody)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, NewClientApiError(res.StatusCode, resBody)
	}

	if len(bytes.TrimSpace(resBody)) == 0 {
		return nil, nil
	}
	if !json.Valid(resBody) {
		return nil, NewClientInternalError(fmt.Errorf("response body is not valid JSON"), fmt.Sprintf("decoding %s %s response", method, path))
	}
	return json.RawMessage(resBody), nil
}
