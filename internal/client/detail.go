package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/models"
	"github.com/Belphemur/ShowCatalog/internal/parser"
)

// FetchShowDetail fetches /shows/{id}. A 404 is reported as
// apperrors.ErrNotFound. The plain-text summary is derived from the HTML one.
func (c *client) FetchShowDetail(ctx context.Context, id int) (*models.Show, error) {
	detailURL := fmt.Sprintf("%s/shows/%d", c.baseURL, id)

	var show models.Show
	err := c.getJSON(ctx, endpointDetail, detailURL, &show)
	if statusCode(err) == http.StatusNotFound {
		return nil, apperrors.NewShowNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("show %d: %w", id, err)
	}

	show.SummaryText = parser.SummaryText(show.Summary)
	return &show, nil
}
