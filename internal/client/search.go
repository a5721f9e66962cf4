package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ShowCatalog/internal/models"
)

// normalizeTerm trims the term and converts it to NFC so composed and
// decomposed spellings share a cache key.
func normalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}

// SearchShows queries /search/shows and reduces each hit to a SearchResult,
// keeping the API's relevance order.
func (c *client) SearchShows(ctx context.Context, term string) ([]models.SearchResult, error) {
	term = normalizeTerm(term)
	if term == "" {
		return []models.SearchResult{}, nil
	}

	searchURL := fmt.Sprintf("%s/search/shows?q=%s", c.baseURL, url.QueryEscape(term))

	var hits []models.SearchHit
	if err := c.getJSON(ctx, endpointSearch, searchURL, &hits); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	results := make([]models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hit.ToSearchResult())
	}
	return results, nil
}
