package springer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cache"
	"github.com/lepinkainen/springer-meta/internal/errors"
)

// BookURL returns the page URL for isbn. The ISBN is inserted verbatim.
func BookURL(baseURL, isbn string) string {
	return baseURL + "/book/" + isbn
}

// cachedPage is the springer_cache entry for one fetched page.
type cachedPage struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

// fetchPage GETs the book page for isbn once. Non-2xx responses return a
// *errors.StatusError. Only successful bodies are cached.
func (s *Source) fetchPage(ctx context.Context, isbn string, timeout time.Duration) ([]byte, error) {
	url := BookURL(s.baseURL, isbn)

	fetch := func() (*cachedPage, error) {
		body, err := s.get(ctx, url, timeout)
		if err != nil {
			return nil, err
		}
		return &cachedPage{URL: url, Body: string(body)}, nil
	}

	if !s.useCache {
		page, err := fetch()
		if err != nil {
			return nil, err
		}
		return []byte(page.Body), nil
	}

	// Keyed by URL so pages from different origins never mix.
	page, _, err := cache.GetOrFetch(cache.SpringerCacheTable, url, fetch)
	if err != nil {
		return nil, err
	}
	return []byte(page.Body), nil
}

func (s *Source) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client(timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStatusError(sourceName, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > s.maxPageSize {
		return nil, fmt.Errorf("reading %s: page exceeds %d bytes", url, s.maxPageSize)
	}
	return body, nil
}
