package service

import (
	"sort"
	"sync"
)

// ProbeResult is the outcome of the single probe issued for a URL.
type ProbeResult struct {
	StatusCode int
	Err        error
}

// VisitedSet records the external URLs probed during one run.
type VisitedSet struct {
	mu      sync.Mutex
	results map[string]*ProbeResult
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{results: make(map[string]*ProbeResult)}
}

// Claim inserts url and reports whether the caller is the first to see it.
// Only the first caller may probe the URL.
func (s *VisitedSet) Claim(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[url]; ok {
		return false
	}
	s.results[url] = nil
	return true
}

// Record stores the probe outcome of a claimed URL.
func (s *VisitedSet) Record(url string, statusCode int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[url] = &ProbeResult{StatusCode: statusCode, Err: err}
}

// Result returns the recorded outcome. ok is false while the URL is unclaimed or its probe is still running.
func (s *VisitedSet) Result(url string) (ProbeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.results[url]
	if !ok || res == nil {
		return ProbeResult{}, false
	}
	return *res, true
}

// URLs returns the visited URLs in sorted order.
func (s *VisitedSet) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls := make([]string, 0, len(s.results))
	for url := range s.results {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
