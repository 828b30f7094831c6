package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"rateconverter/internal/httpx"
)

func TestDo_SetsDefaults(t *testing.T) {
	t.Parallel()

	// Arrange: a server echoing what it saw.
	seen := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := httpx.New(2 * time.Second)
	client.Headers = map[string]string{"X-Extra": "1"}

	// Act: send a bare request.
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	res, err := client.Do(req)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())

	// Assert: defaults were applied.
	got := <-seen
	require.Equal(t, httpx.DefaultUserAgent, got.Get("User-Agent"))
	require.Equal(t, "1", got.Get("X-Extra"))
}

func TestDo_KeepsExplicitHeaders(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom/2.0")

	res, err := httpx.New(2 * time.Second).Do(req)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, "custom/2.0", <-seen)
}
