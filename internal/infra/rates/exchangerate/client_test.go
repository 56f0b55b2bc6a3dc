package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchJPYToTWD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/JPY", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"JPY","rates":{"TWD":0.2134,"USD":0.0066}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	rate, err := client.FetchJPYToTWD(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.2134, rate)
}

func TestFetchJPYToTWDUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchJPYToTWD(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 429")
}

func TestFetchJPYToTWDMissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"JPY","rates":{"USD":0.0066}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchJPYToTWD(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing TWD")
}
