package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/catalog"
	"github.com/Belphemur/ShowCatalog/internal/config"
	"github.com/Belphemur/ShowCatalog/internal/metrics"
	"github.com/Belphemur/ShowCatalog/internal/models"
	"github.com/Belphemur/ShowCatalog/internal/reporting"
)

const (
	opLoadShows      = "load_shows"
	opSearchShows    = "search_shows"
	opLoadShowDetail = "load_show_detail"
)

// ShowService performs the network calls behind the catalog.
// A nil result is treated the same as an error: nothing to store. An empty
// catalog is also discarded, while an empty non-nil search result is a
// valid "no matches" answer.
type ShowService interface {
	FetchAllShows(ctx context.Context) ([]models.Show, error)
	SearchShows(ctx context.Context, term string) ([]models.SearchResult, error)
	FetchShowDetail(ctx context.Context, id int) (*models.Show, error)
}

// LoadedHook is called once the catalog has been stored.
type LoadedHook func(shows, genres int)

// Controller drives every ShowState transition.
type Controller struct {
	service  ShowService
	state    *ShowState
	loads    singleflight.Group
	onLoaded LoadedHook
}

// Option configures a Controller.
type Option func(*Controller)

// WithLoadedHook registers a callback fired after a successful catalog load.
func WithLoadedHook(hook LoadedHook) Option {
	return func(c *Controller) {
		c.onLoaded = hook
	}
}

// NewController creates a controller owning a fresh, empty ShowState.
func NewController(service ShowService, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		state:   newShowState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the read-only view of the catalog state.
func (c *Controller) State() *ShowState {
	return c.state
}

// LoadShows fetches the catalog once per process. Once shows are stored
// every later call is a no-op. Concurrent callers share a single upstream
// fetch, which runs detached from the caller's cancellation.
func (c *Controller) LoadShows(ctx context.Context) {
	if c.state.Loaded() {
		metrics.OperationsTotal.WithLabelValues(opLoadShows, metrics.OutcomeSkipped).Inc()
		return
	}

	loadCtx := context.WithoutCancel(ctx)
	_, _, _ = c.loads.Do(opLoadShows, func() (interface{}, error) {
		if c.state.Loaded() {
			return nil, nil
		}
		c.loadShows(loadCtx)
		return nil, nil
	})
}

func (c *Controller) loadShows(ctx context.Context) {
	logger := config.GetLogger()

	c.beginFetch()
	defer c.endFetch()

	shows, err := c.service.FetchAllShows(ctx)
	if err == nil && len(shows) == 0 {
		err = &apperrors.ErrEmptyResponse{Operation: "fetch shows"}
	}
	if err != nil {
		c.absorb(opLoadShows, err)
		return
	}

	index, genres := catalog.Aggregate(shows)
	c.state.setShows(shows, index, genres)

	metrics.OperationsTotal.WithLabelValues(opLoadShows, metrics.OutcomeStored).Inc()
	metrics.CatalogShows.Set(float64(len(shows)))
	metrics.CatalogGenres.Set(float64(len(genres)))

	logger.Info().Int("shows", len(shows)).Int("genres", len(genres)).Msg("Show catalog loaded")

	if c.onLoaded != nil {
		c.onLoaded(len(shows), len(genres))
	}
}

// SearchShows runs a title search and returns the results it stored, or
// nil when nothing was stored. A blank term clears the previous results
// without any network call and without touching the loading flag.
func (c *Controller) SearchShows(ctx context.Context, term string) []models.SearchResult {
	if strings.TrimSpace(term) == "" {
		c.state.setSearchResults(nil)
		metrics.OperationsTotal.WithLabelValues(opSearchShows, metrics.OutcomeSkipped).Inc()
		return []models.SearchResult{}
	}

	c.beginFetch()
	defer c.endFetch()

	results, err := c.service.SearchShows(ctx, term)
	if err == nil && results == nil {
		err = &apperrors.ErrEmptyResponse{Operation: "search shows"}
	}
	if err != nil {
		c.absorb(opSearchShows, err)
		return nil
	}

	c.state.setSearchResults(results)
	metrics.OperationsTotal.WithLabelValues(opSearchShows, metrics.OutcomeStored).Inc()

	logger := config.GetLogger()
	logger.Debug().Str("term", term).Int("results", len(results)).Msg("Search results stored")

	return slices.Clone(results)
}

// LoadShowDetail fetches one show and returns the detail it stored. The
// previous detail is kept, and false returned, when the fetch yields nothing.
func (c *Controller) LoadShowDetail(ctx context.Context, id int) (*models.Show, bool) {
	c.beginFetch()
	defer c.endFetch()

	detail, err := c.service.FetchShowDetail(ctx, id)
	if err == nil && detail == nil {
		err = &apperrors.ErrEmptyResponse{Operation: "fetch show detail"}
	}
	if err != nil {
		c.absorb(opLoadShowDetail, err)
		return nil, false
	}

	c.state.setShowDetail(detail)
	metrics.OperationsTotal.WithLabelValues(opLoadShowDetail, metrics.OutcomeStored).Inc()

	stored := *detail
	return &stored, true
}

func (c *Controller) beginFetch() {
	c.state.beginFetch()
	metrics.FetchesInFlight.Inc()
}

func (c *Controller) endFetch() {
	c.state.endFetch()
	metrics.FetchesInFlight.Dec()
}

// absorb records a failed fetch. Failures never reach the views; the
// state simply keeps its previous values.
func (c *Controller) absorb(operation string, err error) {
	logger := config.GetLogger()

	outcome, level := metrics.OutcomeError, zerolog.WarnLevel
	if errors.Is(err, &apperrors.ErrEmptyResponse{}) {
		outcome, level = metrics.OutcomeEmpty, zerolog.InfoLevel
	}

	metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	logger.WithLevel(level).Err(err).Str("operation", operation).Msg("Fetch produced no usable data")

	if outcome == metrics.OutcomeError {
		reporting.CaptureError(operation, err)
	}
}
