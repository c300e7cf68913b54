// Package openlibrary implements a book.Enricher backed by the OpenLibrary
// books API. It fills fields a publisher page leaves at defaults.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cache"
	"github.com/lepinkainen/springer-meta/internal/dates"
	"github.com/lepinkainen/springer-meta/internal/enrichment/book"
	"github.com/lepinkainen/springer-meta/internal/errors"
	"github.com/lepinkainen/springer-meta/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public OpenLibrary origin.
	DefaultBaseURL = "https://openlibrary.org"
	enricherName   = "OpenLibrary"
	priority       = 1
)

// languageCodes maps OpenLibrary's MARC language keys to two-letter tags.
var languageCodes = map[string]string{
	"eng": "en",
	"ger": "de",
	"deu": "de",
	"fre": "fr",
	"fra": "fr",
	"spa": "es",
	"ita": "it",
}

// Enricher implements the book.Enricher interface for OpenLibrary.
type Enricher struct {
	baseURL     string
	timeout     time.Duration
	rps         float64
	useCache    bool
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
	clientOnce  sync.Once
	limiterOnce sync.Once
}

// Compile-time check that Enricher implements book.Enricher.
var _ book.Enricher = (*Enricher)(nil)

// Options configures an Enricher. Zero values select the defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Cache             bool
}

// New creates a new OpenLibrary enricher.
func New(opts Options) *Enricher {
	e := &Enricher{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  opts.Timeout,
		rps:      opts.RequestsPerSecond,
		useCache: opts.Cache,
	}
	if e.baseURL == "" {
		e.baseURL = DefaultBaseURL
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Second
	}
	return e
}

// Name returns the human-readable name of this enricher.
func (e *Enricher) Name() string {
	return enricherName
}

// Priority returns the priority for merging data (lower = higher precedence).
func (e *Enricher) Priority() int {
	return priority
}

// Ping tests the connection to OpenLibrary.
func (e *Enricher) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL, nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}

	resp, err := e.getHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: OpenLibrary ping failed: %w", book.ErrAPIUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewStatusError(enricherName, e.baseURL, resp.StatusCode)
	}

	return nil
}

// Enrich fetches book data from OpenLibrary by ISBN.
func (e *Enricher) Enrich(ctx context.Context, isbn string) (*book.EnrichmentData, error) {
	if isbn == "" {
		return nil, book.ErrInvalidISBN
	}

	fetch := func() (*cachedResult, error) {
		return e.fetchFromAPI(ctx, isbn)
	}

	var result *cachedResult
	var err error
	if e.useCache {
		result, _, err = cache.GetOrFetchWithTTL(cache.OpenLibraryCacheTable, isbn, fetch,
			cache.SelectNegativeCacheTTL(func(r *cachedResult) bool {
				return r.NotFound
			}))
	} else {
		result, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	if result.NotFound {
		return nil, nil // Not found is not an error, allows other enrichers to try
	}

	return result.Data, nil
}

// cachedResult wraps EnrichmentData with metadata for caching.
type cachedResult struct {
	Data     *book.EnrichmentData `json:"data"`
	NotFound bool                 `json:"not_found"`
}

// bookResponse matches the books API (jscmd=data) response structure.
type bookResponse struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description any    `json:"description"`
	Publishers  []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Identifiers struct {
		DOI []string `json:"doi"`
	} `json:"identifiers"`
	Subjects    []any  `json:"subjects"`
	PublishDate string `json:"publish_date"`
}

// editionResponse matches the edition API response.
type editionResponse struct {
	Publishers []string `json:"publishers"`
	Languages  []struct {
		Key string `json:"key"`
	} `json:"languages"`
	Subjects []string `json:"subjects"`
}

func (e *Enricher) fetchFromAPI(ctx context.Context, isbn string) (*cachedResult, error) {
	url := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data", e.baseURL, isbn)

	var result map[string]bookResponse
	if err := e.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	olBook, ok := result["ISBN:"+isbn]
	if !ok {
		// Book not found - cache this result with shorter TTL
		return &cachedResult{NotFound: true}, nil
	}

	data := &book.EnrichmentData{}

	if olBook.Title != "" {
		data.Title = &olBook.Title
	}
	if olBook.Subtitle != "" {
		data.Subtitle = &olBook.Subtitle
	}
	if desc := extractDescription(olBook.Description); desc != "" {
		data.Description = &desc
	}
	if len(olBook.Publishers) > 0 && olBook.Publishers[0].Name != "" {
		data.Publisher = &olBook.Publishers[0].Name
	}
	if len(olBook.Identifiers.DOI) > 0 {
		data.DOI = &olBook.Identifiers.DOI[0]
	}
	data.PublishDate = dates.ParseYear(olBook.PublishDate)

	for _, author := range olBook.Authors {
		if author.Name != "" {
			data.Authors = append(data.Authors, author.Name)
		}
	}

	data.Subjects = extractStringSlice(olBook.Subjects)

	// Edition data only fills gaps; failures are not fatal.
	edition, err := e.fetchEditionData(ctx, isbn)
	if err == nil {
		if data.Publisher == nil && len(edition.Publishers) > 0 {
			data.Publisher = &edition.Publishers[0]
		}
		if len(edition.Languages) > 0 {
			if lang, ok := languageCodes[path.Base(edition.Languages[0].Key)]; ok {
				data.Language = &lang
			}
		}
		if len(data.Subjects) == 0 && len(edition.Subjects) > 0 {
			data.Subjects = edition.Subjects
		}
	}

	return &cachedResult{Data: data}, nil
}

func (e *Enricher) fetchEditionData(ctx context.Context, isbn string) (*editionResponse, error) {
	var edition editionResponse
	if err := e.getJSON(ctx, fmt.Sprintf("%s/isbn/%s.json", e.baseURL, isbn), &edition); err != nil {
		return nil, err
	}
	return &edition, nil
}

func (e *Enricher) getJSON(ctx context.Context, url string, target any) error {
	if err := e.getRateLimiter().Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.getHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewStatusError(enricherName, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (e *Enricher) getHTTPClient() *http.Client {
	e.clientOnce.Do(func() {
		e.httpClient = &http.Client{Timeout: e.timeout}
	})
	return e.httpClient
}

func (e *Enricher) getRateLimiter() *ratelimit.Limiter {
	e.limiterOnce.Do(func() {
		e.rateLimiter = ratelimit.New(enricherName, e.rps)
	})
	return e.rateLimiter
}

// extractDescription handles the various forms description can take.
func extractDescription(desc any) string {
	switch v := desc.(type) {
	case string:
		return v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val
		}
	}
	return ""
}

// extractStringSlice converts []any to []string, handling various element types.
func extractStringSlice(items []any) []string {
	if len(items) == 0 {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			result = append(result, v)
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				result = append(result, name)
			}
		}
	}
	return result
}
