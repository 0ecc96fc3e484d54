package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/ankh/internal/registry"
)

// DefaultRemoteTimeout bounds a single fetch when config carries none.
const DefaultRemoteTimeout = 30 * time.Second

// maxRemoteBody caps how much of a response body is read.
const maxRemoteBody = 4 << 20

// Remote fetches a component's payload over HTTP.
//
// Expected config:
//
//	url:     endpoint to fetch (required)
//	method:  HTTP method (default GET)
//	headers: string->string request headers (optional)
//	timeout: request timeout in seconds (default 30)
type Remote struct {
	// Client overrides the HTTP client; nil uses http.DefaultClient.
	Client *http.Client
}

// Build performs the fetch. Transport failures and timeouts report as the
// error arm; response bodies are decoded as JSON with a raw-text fallback.
func (l Remote) Build(ctx context.Context, c registry.Component) registry.Result {
	url := stringConfig(c.Config, "url")
	if url == "" {
		return registry.Failure(c, "missing required config 'url'")
	}

	method := strings.ToUpper(stringConfig(c.Config, "method"))
	if method == "" {
		method = http.MethodGet
	}
	timeout := durationConfig(c.Config, "timeout", DefaultRemoteTimeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return registry.Failure(c, fmt.Sprintf("invalid request: %v", err))
	}
	for k, v := range stringMapConfig(c.Config, "headers") {
		req.Header.Set(k, v)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return registry.Failure(c, fmt.Sprintf("fetch failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return registry.Failure(c, fmt.Sprintf("read response: %v", err))
	}

	// JSON first, raw text on decode failure.
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		data = string(body)
	}

	return registry.Success(c, map[string]any{
		"url":    url,
		"status": resp.StatusCode,
		"data":   data,
	})
}
