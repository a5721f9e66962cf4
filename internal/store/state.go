// Package store holds the in-memory show catalog state and the controller
// that is the only writer of that state.
package store

import (
	"maps"
	"slices"
	"sync"

	"github.com/Belphemur/ShowCatalog/internal/catalog"
	"github.com/Belphemur/ShowCatalog/internal/models"
)

// ShowState is the process-wide show cache read by the views.
// It is only mutated through a Controller.
type ShowState struct {
	mu            sync.RWMutex
	shows         []models.Show
	showsObject   models.ShowIndex
	genres        catalog.GenreSet
	searchResults []models.SearchResult
	showDetail    *models.Show
	inFlight      int
}

func newShowState() *ShowState {
	return &ShowState{
		showsObject:   models.ShowIndex{},
		genres:        catalog.GenreSet{},
		searchResults: []models.SearchResult{},
	}
}

// Genres returns the catalog genres sorted ascending.
func (s *ShowState) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genres.Sorted()
}

// ShowsObject returns the genre index. The buckets are shared and must not be modified.
func (s *ShowState) ShowsObject() models.ShowIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.showsObject)
}

// Shows returns the raw catalog in the order it was fetched.
func (s *ShowState) Shows() []models.Show {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.shows)
}

// SearchResults returns the results of the last non-empty search.
func (s *ShowState) SearchResults() []models.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.searchResults)
}

// ShowDetail returns the last fetched show detail, or nil if none was loaded yet.
func (s *ShowState) ShowDetail() *models.Show {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.showDetail == nil {
		return nil
	}
	detail := *s.showDetail
	return &detail
}

// Loading reports whether any fetch is outstanding.
func (s *ShowState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Loaded reports whether the catalog has been populated.
func (s *ShowState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shows) > 0
}

func (s *ShowState) beginFetch() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *ShowState) endFetch() {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.mu.Unlock()
}

func (s *ShowState) setShows(shows []models.Show, index models.ShowIndex, genres catalog.GenreSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shows = shows
	s.showsObject = index
	s.genres = genres
}

func (s *ShowState) setSearchResults(results []models.SearchResult) {
	if results == nil {
		results = []models.SearchResult{}
	}
	s.mu.Lock()
	s.searchResults = results
	s.mu.Unlock()
}

func (s *ShowState) setShowDetail(detail *models.Show) {
	s.mu.Lock()
	s.showDetail = detail
	s.mu.Unlock()
}
