package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Belphemur/ShowCatalog/internal/config"
	"github.com/Belphemur/ShowCatalog/internal/models"
)

// pageBatchSize controls how many pages are fetched in parallel at once.
const pageBatchSize = 10

// pageResult is the outcome of one /shows page.
type pageResult struct {
	shows []models.Show
	err   error
	last  bool // the API answered 404: no page at or after this one exists
}

// FetchAllShows fetches pages 0..pages-1 of /shows in parallel batches of
// pageBatchSize. A 404 marks the end of the catalog and stops further
// batches. Pages are merged in page order and deduplicated by show ID.
// The call fails only when every requested page failed.
func (c *client) FetchAllShows(ctx context.Context) ([]models.Show, error) {
	logger := config.GetLogger()
	logger.Info().Str("baseURL", c.baseURL).Int("pages", c.pages).Msg("Fetching show catalog")

	results := make([]pageResult, 0, c.pages)

	for batchStart := 0; batchStart < c.pages; batchStart += pageBatchSize {
		batchEnd := min(batchStart+pageBatchSize, c.pages)
		batch := make([]pageResult, batchEnd-batchStart)

		var wg sync.WaitGroup
		wg.Add(len(batch))
		for page := batchStart; page < batchEnd; page++ {
			page := page // per-iteration copy (pre-Go 1.22 loop semantics)
			go func() {
				defer wg.Done()
				batch[page-batchStart] = c.fetchShowPage(ctx, page)
			}()
		}
		wg.Wait()

		results = append(results, batch...)

		if endOfCatalog(batch) {
			break
		}
		// Check if context was cancelled between batches
		if ctx.Err() != nil {
			break
		}
	}

	return mergePages(results)
}

func (c *client) fetchShowPage(ctx context.Context, page int) pageResult {
	logger := config.GetLogger()
	pageURL := fmt.Sprintf("%s/shows?page=%d", c.baseURL, page)

	var shows []models.Show
	err := c.getJSON(ctx, endpointShows, pageURL, &shows)
	if statusCode(err) == http.StatusNotFound {
		logger.Debug().Int("page", page).Msg("Reached end of show catalog")
		return pageResult{last: true}
	}
	if err != nil {
		logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to fetch page")
		return pageResult{err: fmt.Errorf("page %d: %w", page, err)}
	}
	return pageResult{shows: shows}
}

func endOfCatalog(batch []pageResult) bool {
	for _, r := range batch {
		if r.last {
			return true
		}
	}
	return false
}

// mergePages concatenates pages in order up to the first end-of-catalog page.
func mergePages(results []pageResult) ([]models.Show, error) {
	logger := config.GetLogger()

	var (
		shows     []models.Show
		errs      []error
		attempted int
	)
	seen := make(map[int]struct{})

	for _, r := range results {
		if r.last {
			break
		}
		attempted++
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		for _, s := range r.shows {
			if _, exists := seen[s.ID]; exists {
				continue
			}
			seen[s.ID] = struct{}{}
			shows = append(shows, s)
		}
	}

	if attempted > 0 && len(errs) == attempted {
		return nil, fmt.Errorf("all show pages failed: %w", errors.Join(errs...))
	}
	if len(errs) > 0 {
		logger.Warn().Err(errors.Join(errs...)).Int("successful_pages", attempted-len(errs)).Msg("Partial success fetching show catalog")
	}

	logger.Debug().Int("shows", len(shows)).Int("pages", attempted).Msg("Completed fetching show catalog")
	return shows, nil
}
