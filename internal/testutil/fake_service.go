package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Belphemur/ShowCatalog/internal/models"
)

// FakeShowService is an in-memory show service with call counters.
// Each operation returns the configured value and error. An optional gate
// channel blocks FetchAllShows until it is closed, which lets tests hold a
// catalog load in flight.
type FakeShowService struct {
	mu sync.Mutex

	Shows      []models.Show
	ShowsErr   error
	ShowsGate  chan struct{}
	Results    []models.SearchResult
	ByTerm     map[string][]models.SearchResult // When set, overrides Results per term
	SearchErr  error
	Details    map[int]*models.Show
	DetailErr  error
	LastSearch string

	FetchAllCalls atomic.Int32
	SearchCalls   atomic.Int32
	DetailCalls   atomic.Int32
}

func (f *FakeShowService) FetchAllShows(ctx context.Context) ([]models.Show, error) {
	f.FetchAllCalls.Add(1)
	if f.ShowsGate != nil {
		select {
		case <-f.ShowsGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Shows, f.ShowsErr
}

func (f *FakeShowService) SearchShows(_ context.Context, term string) ([]models.SearchResult, error) {
	f.SearchCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSearch = term
	if f.ByTerm != nil {
		return f.ByTerm[term], f.SearchErr
	}
	return f.Results, f.SearchErr
}

func (f *FakeShowService) FetchShowDetail(_ context.Context, id int) (*models.Show, error) {
	f.DetailCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DetailErr != nil {
		return nil, f.DetailErr
	}
	return f.Details[id], nil
}

// SetShows replaces the catalog returned by FetchAllShows.
func (f *FakeShowService) SetShows(shows []models.Show, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Shows = shows
	f.ShowsErr = err
}
