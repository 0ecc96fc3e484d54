package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ankh/internal/registry"
)

func remoteComponent(cfg map[string]any) registry.Component {
	return registry.Component{UID: "status-feed", Kind: "remote", Config: cfg}
}

func TestRemote_JSONPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ankh", r.Header.Get("X-Client"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok", "count": 3}`))
	}))
	defer srv.Close()

	res := Remote{}.Build(context.Background(), remoteComponent(map[string]any{
		"url":     srv.URL,
		"headers": map[string]any{"X-Client": "ankh"},
	}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, srv.URL, payload["url"])
	assert.Equal(t, http.StatusOK, payload["status"])

	data := payload["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
}

func TestRemote_RawTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text, not json"))
	}))
	defer srv.Close()

	res := Remote{}.Build(context.Background(), remoteComponent(map[string]any{"url": srv.URL}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, "plain text, not json", payload["data"])
}

func TestRemote_MissingURLConfig(t *testing.T) {
	res := Remote{}.Build(context.Background(), remoteComponent(map[string]any{}))
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "missing required config 'url'")
}

func TestRemote_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	res := Remote{}.Build(context.Background(), remoteComponent(map[string]any{
		"url":     srv.URL,
		"timeout": 0.1,
	}))

	assert.False(t, res.OK(), "a stalled fetch must fail, not hang")
	assert.Contains(t, res.Err, "fetch failed")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRemote_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := Remote{}.Build(context.Background(), remoteComponent(map[string]any{"url": url}))
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "fetch failed")
}
