package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// PageServer serves fixture pages for /book/<isbn> paths and counts requests.
type PageServer struct {
	*httptest.Server

	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
}

// NewPageServer starts a server that answers /book/<isbn> with the registered
// page body. Unregistered ISBNs get HTTP 404. The server closes on cleanup.
func NewPageServer(t *testing.T) *PageServer {
	t.Helper()

	s := &PageServer{
		pages:  map[string]string{},
		status: map[string]int{},
		hits:   map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// AddPage registers body as the page for isbn.
func (s *PageServer) AddPage(isbn, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[isbn] = body
}

// AddFixture registers the contents of a fixture file as the page for isbn.
func (s *PageServer) AddFixture(t *testing.T, isbn string, path ...string) {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(path...))
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", filepath.Join(path...), err)
	}
	s.AddPage(isbn, string(content))
}

// SetStatus makes requests for isbn answer with the given status code.
func (s *PageServer) SetStatus(isbn string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[isbn] = code
}

// Hits returns how many requests were made for isbn.
func (s *PageServer) Hits(isbn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[isbn]
}

// TotalHits returns the number of requests served.
func (s *PageServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *PageServer) serve(w http.ResponseWriter, r *http.Request) {
	isbn, ok := strings.CutPrefix(r.URL.Path, "/book/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	s.hits[isbn]++
	code, hasStatus := s.status[isbn]
	body, hasPage := s.pages[isbn]
	s.mu.Unlock()

	if hasStatus {
		w.WriteHeader(code)
		return
	}
	if !hasPage {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
