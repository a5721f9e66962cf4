package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/config"
	"github.com/Belphemur/ShowCatalog/internal/metrics"
	"github.com/Belphemur/ShowCatalog/internal/parser"
)

// Endpoint labels used for upstream metrics
const (
	endpointShows  = "shows"
	endpointSearch = "search"
	endpointDetail = "detail"
)

// getJSON fetches url and decodes its JSON body into out. Successful
// bodies are cached by URL; a cached body is decoded without a request.
// A cached body that no longer decodes is dropped and fetched again.
func (c *client) getJSON(ctx context.Context, endpoint, url string, out any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			err := decodeJSON(body, out)
			if err == nil {
				return nil
			}
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("url", url).Msg("Dropping undecodable cached response")
			c.cache.Delete(url)
			reflect.ValueOf(out).Elem().SetZero()
		}
	}

	body, err := c.fetchBody(ctx, endpoint, url)
	if err != nil {
		return err
	}

	if err := decodeJSON(body, out); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(url, body)
	}
	return nil
}

// fetchBody performs an HTTP GET and returns the UTF-8 response body.
// Any status other than 200 is returned as apperrors.ErrUnexpectedStatus.
func (c *client) fetchBody(ctx context.Context, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrUnexpectedStatus{URL: url, StatusCode: resp.StatusCode}
	}

	reader, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// statusCode returns the HTTP status carried by err, or 0.
func statusCode(err error) int {
	var statusErr *apperrors.ErrUnexpectedStatus
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
