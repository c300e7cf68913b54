package springer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cache"
	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/lepinkainen/springer-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fullISBN     = "9783658000000"
	emptyISBN    = "9783658999999"
	variantsISBN = "9783030000002"
)

func newTestSource(t *testing.T, opts Options) (*Source, *testutil.PageServer) {
	t.Helper()

	srv := testutil.NewPageServer(t)
	srv.AddFixture(t, fullISBN, "testdata", "full.html")
	srv.AddFixture(t, emptyISBN, "testdata", "empty.html")
	srv.AddFixture(t, variantsISBN, "testdata", "variants.html")

	testutil.SetTestConfig(t, srv.URL)
	opts.BaseURL = srv.URL
	return New(opts), srv
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})), &buf
}

func identify(s *Source, log *slog.Logger, identifiers map[string]string) *metadata.SliceSink {
	sink := metadata.NewSliceSink()
	var abort atomic.Bool
	s.Identify(context.Background(), log, sink, &abort, "", nil, identifiers, 5*time.Second)
	return sink
}

func TestIdentify_NoISBN(t *testing.T) {
	s, srv := newTestSource(t, Options{})

	for _, ids := range []map[string]string{
		nil,
		{},
		{"isbn": ""},
		{"doi": "10.1007/x", "amazon": "B000"},
	} {
		log, buf := bufferLogger()
		sink := identify(s, log, ids)

		assert.Equal(t, 0, sink.Len())
		assert.Contains(t, buf.String(), "ISBN required")
	}

	assert.Equal(t, 0, srv.TotalHits(), "no network call without an ISBN")
}

func TestIdentify_HTTPStatusFailure(t *testing.T) {
	s, srv := newTestSource(t, Options{})
	srv.SetStatus("9780000000404", http.StatusNotFound)
	srv.SetStatus("9780000000500", http.StatusInternalServerError)

	for isbn, code := range map[string]string{"9780000000404": "404", "9780000000500": "500"} {
		log, buf := bufferLogger()
		sink := identify(s, log, map[string]string{"isbn": isbn})

		assert.Equal(t, 0, sink.Len())
		assert.Contains(t, buf.String(), "status="+code)
		assert.Equal(t, 1, srv.Hits(isbn), "no retry after a failed fetch")
	}
}

func TestIdentify_ConnectionFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	testutil.SetTestConfig(t, url)
	s := New(Options{BaseURL: url})

	log, buf := bufferLogger()
	sink := identify(s, log, map[string]string{"isbn": fullISBN})

	assert.Equal(t, 0, sink.Len())
	assert.Contains(t, buf.String(), "Error fetching page")
}

func TestIdentify_FullPage(t *testing.T) {
	s, _ := newTestSource(t, Options{})

	log, _ := bufferLogger()
	sink := identify(s, log, map[string]string{"isbn": fullISBN})

	require.Equal(t, 1, sink.Len())
	rec := sink.Records()[0]

	assert.Equal(t, "Foo: Bar", rec.Title)
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, rec.Authors)
	assert.Equal(t, "Jane Doe, John Smith", rec.AuthorsDisplay())
	assert.Equal(t, "Springer Vieweg Wiesbaden", rec.Publisher)
	assert.Equal(t, "2025-08-30", rec.PubDateString())
	assert.Equal(t, []string{"de"}, rec.Languages)
	assert.Contains(t, rec.Comments, `<div class="c-book-section"`)
	assert.Equal(t, fullISBN, rec.ISBN)
	assert.Equal(t, "https://doi.org/10.1007/978-3-658-00000-0", rec.DOI())
	assert.Equal(t, fullISBN, rec.Identifiers["isbn"])
	assert.Equal(t, []string{"Algebra", "Linear and Multilinear Algebras, Matrix Theory"}, rec.Tags)
}

func TestIdentify_FullPageGolden(t *testing.T) {
	s, _ := newTestSource(t, Options{})

	sink := identify(s, nil, map[string]string{"isbn": fullISBN})
	require.Equal(t, 1, sink.Len())

	data, err := json.MarshalIndent(sink.Records()[0], "", "  ")
	require.NoError(t, err)

	testutil.NewGoldenHelper(t, "testdata").AssertGoldenJSON("full_record.golden.json", data)
}

func TestIdentify_EmptyPage(t *testing.T) {
	s, _ := newTestSource(t, Options{})

	log, buf := bufferLogger()
	sink := identify(s, log, map[string]string{"isbn": emptyISBN})

	require.Equal(t, 1, sink.Len(), "a page without markers still yields one record")
	rec := sink.Records()[0]

	assert.Equal(t, "Unbekannt", rec.Title)
	assert.Empty(t, rec.Authors)
	assert.Equal(t, "", rec.AuthorsDisplay())
	assert.Equal(t, "Springer", rec.Publisher)
	assert.Nil(t, rec.PubDate)
	assert.Empty(t, rec.Tags)
	assert.Empty(t, rec.Comments)
	assert.Equal(t, map[string]string{"doi": "", "isbn": emptyISBN}, rec.Identifiers)
	assert.Contains(t, buf.String(), "No bibliographic information")
}

func TestIdentify_Variants(t *testing.T) {
	s, _ := newTestSource(t, Options{Language: "en", DefaultPublisher: "Springer Nature"})

	sink := identify(s, nil, map[string]string{"isbn": variantsISBN})
	require.Equal(t, 1, sink.Len())
	rec := sink.Records()[0]

	assert.Equal(t, "Baz", rec.Title)
	assert.Equal(t, []string{"Jane Doe and John Smith"}, rec.Authors)
	assert.Equal(t, "Springer Nature", rec.Publisher)
	assert.Equal(t, "2024-08-01", rec.PubDateString())
	assert.Equal(t, []string{"en"}, rec.Languages)
	assert.Equal(t, []string{"Number Theory", "Geometry"}, rec.Tags)
}

func TestIdentify_Idempotent(t *testing.T) {
	s, _ := newTestSource(t, Options{})

	first := identify(s, nil, map[string]string{"isbn": fullISBN}).Records()
	second := identify(s, nil, map[string]string{"isbn": fullISBN}).Records()
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	a, err := json.Marshal(first[0])
	require.NoError(t, err)
	b, err := json.Marshal(second[0])
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first[0], second[0])
}

type panickingSink struct{}

func (panickingSink) Put(*metadata.Record) { panic("sink closed") }

func TestIdentify_SinkPanicIsContained(t *testing.T) {
	s, _ := newTestSource(t, Options{})
	log, buf := bufferLogger()

	assert.NotPanics(t, func() {
		s.Identify(context.Background(), log, panickingSink{}, nil, "", nil, map[string]string{"isbn": fullISBN}, 0)
	})
	assert.Contains(t, buf.String(), "sink closed")
}

func TestLookup_Outcomes(t *testing.T) {
	s, srv := newTestSource(t, Options{})
	srv.SetStatus("404", http.StatusNotFound)
	ctx := context.Background()

	res := s.Lookup(ctx, map[string]string{}, 0)
	assert.Equal(t, OutcomeNoInput, res.Outcome)
	assert.False(t, res.Emitted())
	assert.Error(t, res.Err)

	res = s.Lookup(ctx, map[string]string{"isbn": "404"}, 0)
	assert.Equal(t, OutcomeFetchFailed, res.Outcome)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, srv.URL+"/book/404", res.URL)
	assert.False(t, res.Emitted())

	res = s.Lookup(ctx, map[string]string{"isbn": emptyISBN}, 0)
	assert.Equal(t, OutcomeParseDegraded, res.Outcome)
	assert.True(t, res.Emitted())

	res = s.Lookup(ctx, map[string]string{"isbn": " " + fullISBN + " "}, 0)
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.True(t, res.Emitted())
	assert.Equal(t, fullISBN, res.Record.ISBN)
	assert.Nil(t, res.Err)
}

func TestLookup_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	testutil.SetTestConfig(t, slow.URL)
	s := New(Options{BaseURL: slow.URL})

	res := s.Lookup(context.Background(), map[string]string{"isbn": fullISBN}, 50*time.Millisecond)

	assert.Equal(t, OutcomeFetchFailed, res.Outcome)
	assert.Equal(t, 0, res.StatusCode)
}

func TestLookup_UserAgent(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.UserAgent())
		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(srv.Close)

	testutil.SetTestConfig(t, srv.URL)
	s := New(Options{BaseURL: srv.URL})
	s.Lookup(context.Background(), map[string]string{"isbn": "1"}, 0)

	assert.Equal(t, defaultUserAgent, agent.Load())
}

func TestLookup_InsecureTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(srv.Close)
	testutil.SetTestConfig(t, srv.URL)

	res := New(Options{BaseURL: srv.URL}).Lookup(context.Background(), map[string]string{"isbn": "1"}, 0)
	assert.Equal(t, OutcomeParseDegraded, res.Outcome, "self-signed certificate is accepted")

	res = New(Options{BaseURL: srv.URL, VerifyTLS: true}).Lookup(context.Background(), map[string]string{"isbn": "1"}, 0)
	assert.Equal(t, OutcomeFetchFailed, res.Outcome, "verification rejects self-signed certificate")
}

func TestLookup_CacheHitAvoidsRequest(t *testing.T) {
	s, srv := newTestSource(t, Options{Cache: true})
	env := testutil.NewTestEnv(t)
	dbPath := testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })

	first := s.Lookup(context.Background(), map[string]string{"isbn": fullISBN}, 0)
	second := s.Lookup(context.Background(), map[string]string{"isbn": fullISBN}, 0)

	assert.Equal(t, OutcomeOK, first.Outcome)
	assert.Equal(t, OutcomeOK, second.Outcome)
	assert.Equal(t, first.Record, second.Record)
	assert.Equal(t, 1, srv.Hits(fullISBN))
	assert.FileExists(t, dbPath)
	assert.Equal(t, "test-cache.db", filepath.Base(dbPath))
}

func TestLookup_FailuresNotCached(t *testing.T) {
	s, srv := newTestSource(t, Options{Cache: true})
	env := testutil.NewTestEnv(t)
	testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })

	srv.SetStatus("9780000000503", http.StatusServiceUnavailable)

	for range 2 {
		res := s.Lookup(context.Background(), map[string]string{"isbn": "9780000000503"}, 0)
		assert.Equal(t, OutcomeFetchFailed, res.Outcome)
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	}
	assert.Equal(t, 2, srv.Hits("9780000000503"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "no_input", OutcomeNoInput.String())
	assert.Equal(t, "fetch_failed", OutcomeFetchFailed.String())
	assert.Equal(t, "parse_degraded", OutcomeParseDegraded.String())
	assert.Equal(t, "unexpected", OutcomeUnexpected.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestBookURL(t *testing.T) {
	assert.Equal(t, "https://link.springer.com/book/978-3-658", BookURL("https://link.springer.com", "978-3-658"))
}

func TestLookup_TimeoutCoversRateLimitWait(t *testing.T) {
	s, _ := newTestSource(t, Options{RequestsPerSecond: 0.5})
	ids := map[string]string{"isbn": fullISBN}

	first := s.Lookup(context.Background(), ids, 100*time.Millisecond)
	require.Equal(t, OutcomeOK, first.Outcome)

	// The next token is two seconds away, far past the deadline.
	start := time.Now()
	second := s.Lookup(context.Background(), ids, 100*time.Millisecond)
	elapsed := time.Since(start)

	assert.Equal(t, OutcomeFetchFailed, second.Outcome)
	assert.Less(t, elapsed, time.Second)
}

func TestLookup_OversizedPageFails(t *testing.T) {
	s, _ := newTestSource(t, Options{})
	s.maxPageSize = 64

	res := s.Lookup(context.Background(), map[string]string{"isbn": fullISBN}, 0)

	assert.Equal(t, OutcomeFetchFailed, res.Outcome)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "page exceeds 64 bytes")
	assert.Nil(t, res.Record)
}

func TestLookup_TrimsISBNWhitespace(t *testing.T) {
	s, srv := newTestSource(t, Options{})

	res := s.Lookup(context.Background(), map[string]string{"isbn": "  " + fullISBN + "\n"}, 0)

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, BookURL(srv.URL, fullISBN), res.URL)
	assert.Equal(t, fullISBN, res.Record.ISBN)
}
