package transparency

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farxc/painel-emendas/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	core, _ := observer.New(zapcore.DebugLevel)
	return NewClient(Config{BaseURL: srv.URL + "/documentos", APIKey: "secret"}, logger.NewWithCore(core))
}

func TestLookup_JSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documentos/2024OB000123", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("chave-api-dados"))
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.Write([]byte(`{"valor":"1.000,00","fase":"Pagamento"}`))
	})

	doc, err := c.Lookup(context.Background(), "2024OB000123")
	require.NoError(t, err)

	assert.Equal(t, KindJSON, doc.Kind)
	assert.Equal(t, "json", doc.ContentType)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"codigo":"2024OB000123","data":{"valor":"1.000,00","fase":"Pagamento"},"contentType":"json"}`, string(out))
}

func TestLookup_Binary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	})

	doc, err := c.Lookup(context.Background(), "DOC 1")
	require.NoError(t, err)

	assert.Equal(t, KindBinary, doc.Kind)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, c.DocumentURL("DOC 1"), doc.URL)
	assert.Contains(t, doc.URL, "DOC%201")
	assert.Nil(t, doc.Data)
}

func TestLookup_TextFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>manutencao</html>"))
	})

	doc, err := c.Lookup(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, KindText, doc.Kind)
	assert.Equal(t, "<html>manutencao</html>", doc.Data)
	assert.Equal(t, "text", doc.ContentType)
}

func TestLookup_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Lookup(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NotErrorIs(t, err, ErrForwarding)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.Status)
	assert.Equal(t, "missing", upstream.Code)
}

func TestLookup_UpstreamFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Lookup(context.Background(), "X")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.NotErrorIs(t, err, ErrDocumentNotFound)
}

func TestLookup_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	core, _ := observer.New(zapcore.DebugLevel)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, logger.NewWithCore(core))

	_, err := c.Lookup(context.Background(), "X")
	assert.ErrorIs(t, err, ErrForwarding)
}

func TestLookup_RateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	core, _ := observer.New(zapcore.DebugLevel)
	c := NewClient(Config{BaseURL: srv.URL, RatePerMinute: 1}, logger.NewWithCore(core))

	_, err := c.Lookup(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Lookup(ctx, "second")
	assert.ErrorIs(t, err, ErrForwarding)
	assert.Equal(t, 1, calls)
}

func TestLookup_BodyTooLarge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":"` + strings.Repeat("x", maxBodySize) + `"}`))
	})

	_, err := c.Lookup(context.Background(), "2024OB000123")
	assert.ErrorIs(t, err, ErrForwarding)
}

func TestLookup_BodyAtLimit(t *testing.T) {
	body := strings.Repeat("x", maxBodySize)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(body))
	})

	doc, err := c.Lookup(context.Background(), "2024OB000123")
	require.NoError(t, err)
	assert.Equal(t, KindText, doc.Kind)
	assert.Len(t, doc.Data, maxBodySize)
}
