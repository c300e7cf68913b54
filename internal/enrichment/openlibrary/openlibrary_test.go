package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cache"
	"github.com/lepinkainen/springer-meta/internal/enrichment/book"
	"github.com/lepinkainen/springer-meta/internal/errors"
	"github.com/lepinkainen/springer-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const booksResponse = `{
  "ISBN:9783031000000": {
    "title": "Linear Algebra",
    "subtitle": "A Second Course",
    "description": {"type": "/type/text", "value": "An introduction."},
    "publishers": [{"name": "Springer Cham"}],
    "authors": [{"name": "Jane Doe"}, {"name": ""}, {"name": "John Smith"}],
    "identifiers": {"doi": ["10.1007/978-3-031-00000-0"]},
    "subjects": [{"name": "Algebra"}, "Matrices"],
    "publish_date": "March 2021"
  }
}`

const editionResponseBody = `{
  "publishers": ["Ignored"],
  "languages": [{"key": "/languages/eng"}],
  "subjects": ["Ignored"]
}`

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("bibkeys") != "ISBN:9783031000000" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(booksResponse))
	})
	mux.HandleFunc("/isbn/9783031000000.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(editionResponseBody))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEnrich_Found(t *testing.T) {
	testutil.SetTestConfig(t, "")
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	e := New(Options{BaseURL: srv.URL})
	data, err := e.Enrich(context.Background(), "9783031000000")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "Linear Algebra", *data.Title)
	assert.Equal(t, "A Second Course", *data.Subtitle)
	assert.Equal(t, "An introduction.", *data.Description)
	assert.Equal(t, "Springer Cham", *data.Publisher)
	assert.Equal(t, "10.1007/978-3-031-00000-0", *data.DOI)
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, data.Authors)
	assert.Equal(t, []string{"Algebra", "Matrices"}, data.Subjects)
	assert.Equal(t, "en", *data.Language)
	require.NotNil(t, data.PublishDate)
	assert.True(t, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC).Equal(*data.PublishDate))
}

func TestEnrich_NotFound(t *testing.T) {
	testutil.SetTestConfig(t, "")
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	data, err := New(Options{BaseURL: srv.URL}).Enrich(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestEnrich_InvalidISBN(t *testing.T) {
	_, err := New(Options{}).Enrich(context.Background(), "")
	assert.ErrorIs(t, err, book.ErrInvalidISBN)
}

func TestEnrich_ServerError(t *testing.T) {
	testutil.SetTestConfig(t, "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(Options{BaseURL: srv.URL}).Enrich(context.Background(), "9783031000000")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errors.StatusCode(err))
}

func TestEnrich_UsesCache(t *testing.T) {
	testutil.SetTestConfig(t, "")
	env := testutil.NewTestEnv(t)
	testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })

	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	e := New(Options{BaseURL: srv.URL, Cache: true})

	for range 2 {
		data, err := e.Enrich(context.Background(), "9783031000000")
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Equal(t, "Linear Algebra", *data.Title)
	}

	assert.Equal(t, int32(1), hits.Load())
}

func TestPing(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	e := New(Options{BaseURL: srv.URL})
	assert.NoError(t, e.Ping(context.Background()))
	assert.Equal(t, "OpenLibrary", e.Name())
	assert.Equal(t, 1, e.Priority())
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(Options{BaseURL: url, Timeout: time.Second}).Ping(context.Background())
	assert.ErrorIs(t, err, book.ErrAPIUnavailable)
}
