// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestExtractNotFound(t *testing.T) {
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	e := New(types.ExtractConfig{})
	_, err := e.Extract(context.Background(), ts.URL+"/missing.pdf")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestExtractTransportError(t *testing.T) {
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {})
	url := ts.URL
	ts.Close()

	e := New(types.ExtractConfig{})
	_, err := e.Extract(context.Background(), url)
	assert.Error(t, err)
}

func TestExtractMalformedBlob(t *testing.T) {
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a PDF document"))
	})

	e := New(types.ExtractConfig{})
	_, err := e.Extract(context.Background(), ts.URL)
	require.Error(t, err)
	// A parse failure must surface as an error, never as partial text.
	assert.NotErrorIs(t, err, ErrNoText)
}

func TestExtractTruncatedPDFHeader(t *testing.T) {
	// A valid header with garbage after it exercises the parser's
	// panic-recovery path.
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4\n" + strings.Repeat("garbage ", 100)))
	})

	e := New(types.ExtractConfig{})
	_, err := e.Extract(context.Background(), ts.URL)
	assert.Error(t, err)
}

func TestExtractRespectsContext(t *testing.T) {
	release := make(chan struct{})
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := New(types.ExtractConfig{})
	_, err := e.Extract(ctx, ts.URL)
	assert.Error(t, err)
}

func TestExtractSizeLimit(t *testing.T) {
	ts := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1")
		w.Write([]byte("x"))
	})

	e := New(types.ExtractConfig{})
	// Well under the limit: the failure must come from parsing, not size.
	_, err := e.Extract(context.Background(), ts.URL)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "exceeds")
}

func TestNewDefaults(t *testing.T) {
	e := New(types.ExtractConfig{})
	assert.Equal(t, defaultTimeout, e.client.Timeout)
	assert.Equal(t, defaultUserAgent, e.userAgent)
}
