package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateway_EmptyURL(t *testing.T) {
	_, err := NewGateway("")
	assert.ErrorIs(t, err, ErrUnconfigured)

	_, err = NewGateway("   ")
	assert.ErrorIs(t, err, ErrUnconfigured)
}

func TestNewGateway_TrimsTrailingSlash(t *testing.T) {
	g, err := NewGateway("http://localhost:9000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", g.baseURL)
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embed", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req["text"])

		_ = json.NewEncoder(w).Encode(map[string][]float32{"embedding": {0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	vector, err := g.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestEmbed_WhitespaceOnlySkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	vector, err := g.Embed(context.Background(), "   \n\t ")
	require.NoError(t, err)
	assert.Nil(t, vector)
	assert.False(t, called)
}

func TestEmbed_ServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	_, err = g.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestEmbed_RejectedInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "text too long", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	_, err = g.Embed(context.Background(), "some text")
	require.Error(t, err)

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.StatusCode)
	assert.Contains(t, rejected.Body, "text too long")
	assert.False(t, IsUnavailable(err))
}

func TestEmbed_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	_, err = g.Embed(context.Background(), "some text")
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestEmbed_MissingVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding": []}`))
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	_, err = g.Embed(context.Background(), "some text")
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestEmbed_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]float32{"embedding": {0.1}})
	}))
	defer srv.Close()

	g, err := NewGateway(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Embed(ctx, "some text")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
