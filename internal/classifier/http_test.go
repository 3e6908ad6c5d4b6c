package classifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kopiscan/api/internal/config"
)

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *HTTPClassifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClassifier(config.InferenceConfig{
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	})
}

func TestHTTPClassifier_Success(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/classify", r.URL.Path)

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":"arabica"}`))
	})

	label, err := c.Classify(context.Background(), []byte("fake-image"))
	require.NoError(t, err)
	require.Equal(t, "arabica", label)
}

func TestHTTPClassifier_UpstreamError(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	})

	_, err := c.Classify(context.Background(), []byte("fake-image"))
	require.ErrorIs(t, err, ErrInference)
}

func TestHTTPClassifier_BadPayload(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := c.Classify(context.Background(), []byte("fake-image"))
	require.ErrorIs(t, err, ErrInference)
}

func TestHTTPClassifier_EmptyLabel(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"label":""}`))
	})

	_, err := c.Classify(context.Background(), []byte("fake-image"))
	require.ErrorIs(t, err, ErrInference)
}

func TestHTTPClassifier_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, []byte("fake-image"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInference))
}
