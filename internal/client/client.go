package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"

	"github.com/Belphemur/ShowCatalog/internal/cache"
	"github.com/Belphemur/ShowCatalog/internal/config"
	"github.com/Belphemur/ShowCatalog/internal/models"
)

// Client queries the TVMaze-compatible show API.
type Client interface {
	// FetchAllShows returns the configured number of catalog pages merged
	// in page order and deduplicated by show ID.
	FetchAllShows(ctx context.Context) ([]models.Show, error)

	// SearchShows runs a title search. A blank term returns no results
	// without contacting the API.
	SearchShows(ctx context.Context, term string) ([]models.SearchResult, error)

	// FetchShowDetail returns a single show, or apperrors.ErrNotFound.
	FetchShowDetail(ctx context.Context, id int) (*models.Show, error)

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient *http.Client
	baseURL    string
	pages      int
	cache      cache.Cache
}

// NewClient creates a new client instance with proxy configuration if provided.
// responseCache may be nil, in which case every call reaches the API.
func NewClient(cfg *config.Config, responseCache cache.Cache) Client {
	timeout := config.ParseDurationOr(cfg.ClientTimeout, 30*time.Second, "client_timeout")

	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	// retry -> decompression -> network
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: failsafehttp.NewRoundTripper(newDecodingTransport(baseTransport), newRetryPolicy(cfg)),
	}

	pages := cfg.Catalog.Pages
	if pages < 1 {
		pages = 1
	}

	return &client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		pages:      pages,
		cache:      responseCache,
	}
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
