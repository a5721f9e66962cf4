package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/cache"
	"github.com/Belphemur/ShowCatalog/internal/config"
	"github.com/Belphemur/ShowCatalog/internal/models"
	"github.com/Belphemur/ShowCatalog/internal/testutil"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{
		APIBaseURL:    baseURL,
		ClientTimeout: "10s",
	}
	cfg.Retry.Delay = "1ms"
	cfg.Retry.MaxDelay = "2ms"
	cfg.Catalog.Pages = 1
	return cfg
}

func showNames(shows []models.Show) []string {
	out := make([]string, len(shows))
	for i, s := range shows {
		out[i] = s.Name
	}
	return out
}

func TestClient_FetchAllShows_MergesPagesInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shows" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "0":
			_, _ = w.Write(testutil.ShowsJSON(
				testutil.NewShow(1, "Under the Dome", 6.5, "Drama"),
				testutil.NewShow(2, "Person of Interest", 8.8, "Action"),
			))
		case "1":
			_, _ = w.Write(testutil.ShowsJSON(
				testutil.NewShow(2, "Person of Interest", 8.8, "Action"),
				testutil.NewShow(3, "Bitten", 7.5, "Horror"),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Catalog.Pages = 5
	c := NewClient(cfg, nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err != nil {
		t.Fatalf("FetchAllShows failed: %v", err)
	}

	want := []string{"Under the Dome", "Person of Interest", "Bitten"}
	if diff := cmp.Diff(want, showNames(shows)); diff != "" {
		t.Errorf("Shows mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_FetchAllShows_FirstPageMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err != nil {
		t.Fatalf("Expected no error for an empty catalog, got %v", err)
	}
	if len(shows) != 0 {
		t.Errorf("Expected no shows, got %d", len(shows))
	}
}

func TestClient_FetchAllShows_AllPagesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Catalog.Pages = 2
	c := NewClient(cfg, nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err == nil {
		t.Fatalf("Expected an error when every page fails, got %d shows", len(shows))
	}
	if !errors.Is(err, &apperrors.ErrUnexpectedStatus{}) {
		t.Errorf("Expected ErrUnexpectedStatus in chain, got %v", err)
	}
}

func TestClient_FetchAllShows_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write(testutil.ShowsJSON(testutil.NewShow(7, "Arrow", 7.4, "Action")))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Catalog.Pages = 2
	c := NewClient(cfg, nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err != nil {
		t.Fatalf("Expected partial success, got %v", err)
	}
	if diff := cmp.Diff([]string{"Arrow"}, showNames(shows)); diff != "" {
		t.Errorf("Shows mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(testutil.ShowsJSON(testutil.NewShow(1, "Glee", 6.8, "Music")))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Retry.MaxRetries = 2
	c := NewClient(cfg, nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if len(shows) != 1 {
		t.Errorf("Expected 1 show, got %d", len(shows))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", got)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Retry.MaxRetries = 3
	c := NewClient(cfg, nil)
	defer c.Close()

	if _, err := c.SearchShows(context.Background(), "dome"); err == nil {
		t.Fatal("Expected an error for a 400 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected a single upstream call, got %d", got)
	}
}

func TestClient_SearchShows(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/shows" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write(testutil.SearchJSON(
			models.SearchHit{Score: 0.9, Show: testutil.NewShow(1, "Under the Dome", 6.5, "Drama")},
			models.SearchHit{Score: 0.4, Show: testutil.NewUnratedShow(9, "The Dome")},
		))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	results, err := c.SearchShows(context.Background(), "  under the dome ")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if gotQuery != "under the dome" {
		t.Errorf("Expected trimmed query, got %q", gotQuery)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != 1 || results[0].Score != 0.9 || results[0].Rating.Value() != 6.5 {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[1].Name != "The Dome" || results[1].Rating.Average != nil {
		t.Errorf("Unexpected second result: %+v", results[1])
	}
}

func TestClient_SearchShows_BlankTermSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	results, err := c.SearchShows(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected an empty non-nil result, got %#v", results)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no upstream call, got %d", calls.Load())
	}
}

func TestNormalizeTerm(t *testing.T) {
	decomposed := "Poke\u0301mon "
	if got := normalizeTerm(decomposed); got != "Pok\u00e9mon" {
		t.Errorf("Expected NFC form, got %q", got)
	}
}

func TestClient_FetchShowDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shows/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		show := testutil.NewShow(42, "Lost", 8.1, "Drama", "Adventure")
		show.Summary = "<p>Survivors of a <b>plane crash</b>.</p><p>An island.</p>"
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(testutil.ShowJSON(show))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	detail, err := c.FetchShowDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchShowDetail failed: %v", err)
	}
	if detail.ID != 42 || detail.Name != "Lost" {
		t.Errorf("Unexpected detail: %+v", detail)
	}
	if detail.SummaryText != "Survivors of a plane crash.\nAn island." {
		t.Errorf("Unexpected summary text %q", detail.SummaryText)
	}
}

func TestClient_FetchShowDetail_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	detail, err := c.FetchShowDetail(context.Background(), 99999)
	if detail != nil {
		t.Errorf("Expected nil detail, got %+v", detail)
	}
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestClient_CachesResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write(testutil.ShowJSON(testutil.NewShow(5, "Fringe", 8.6, "Science-Fiction")))
	}))
	defer server.Close()

	responseCache, err := cache.New("memory", cache.ProviderConfig{Size: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	c := NewClient(testConfig(server.URL), responseCache)
	defer c.Close()

	for i := 0; i < 3; i++ {
		detail, err := c.FetchShowDetail(context.Background(), 5)
		if err != nil {
			t.Fatalf("FetchShowDetail #%d failed: %v", i, err)
		}
		if detail.Name != "Fringe" {
			t.Errorf("Unexpected detail on call %d: %+v", i, detail)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 upstream call, got %d", got)
	}
	if !responseCache.Contains(server.URL + "/shows/5") {
		t.Error("Expected the response to be cached by URL")
	}
}

func TestClient_RefetchesUndecodableCachedBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write(testutil.ShowJSON(testutil.NewShow(8, "Dexter", 8.4, "Crime")))
	}))
	defer server.Close()

	responseCache, err := cache.New("memory", cache.ProviderConfig{Size: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	key := server.URL + "/shows/8"
	responseCache.Set(key, []byte(`{"id": 8, "name": `))

	c := NewClient(testConfig(server.URL), responseCache)
	defer c.Close()

	detail, err := c.FetchShowDetail(context.Background(), 8)
	if err != nil {
		t.Fatalf("Expected the corrupt entry to be refetched, got %v", err)
	}
	if detail.Name != "Dexter" {
		t.Errorf("Unexpected detail: %+v", detail)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 upstream call, got %d", got)
	}

	body, ok := responseCache.Get(key)
	if !ok || !bytes.Equal(body, testutil.ShowJSON(testutil.NewShow(8, "Dexter", 8.4, "Crime"))) {
		t.Errorf("Expected the cache to hold the fresh body, got %q", body)
	}
}

func TestClient_DoesNotCacheFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	responseCache, err := cache.New("memory", cache.ProviderConfig{Size: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	c := NewClient(testConfig(server.URL), responseCache)
	defer c.Close()

	_, _ = c.FetchShowDetail(context.Background(), 1)
	if responseCache.Len() != 0 {
		t.Errorf("Expected an empty cache, got %d entries", responseCache.Len())
	}
}

func TestClient_DecodesCompressedResponses(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(testutil.ShowsJSON(testutil.NewShow(1, "Sherlock", 9.0, "Crime")))
	_ = gz.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	defer c.Close()

	shows, err := c.FetchAllShows(context.Background())
	if err != nil {
		t.Fatalf("FetchAllShows failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Sherlock"}, showNames(shows)); diff != "" {
		t.Errorf("Shows mismatch (-want +got):\n%s", diff)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		resp     *http.Response
		err      error
		expected bool
	}{
		{name: "ok", resp: &http.Response{StatusCode: http.StatusOK}, expected: false},
		{name: "not found", resp: &http.Response{StatusCode: http.StatusNotFound}, expected: false},
		{name: "rate limited", resp: &http.Response{StatusCode: http.StatusTooManyRequests}, expected: true},
		{name: "server error", resp: &http.Response{StatusCode: http.StatusBadGateway}, expected: true},
		{name: "transport error", err: errors.New("connection reset"), expected: true},
		{name: "cancelled", err: context.Canceled, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.resp, tt.err); got != tt.expected {
				t.Errorf("shouldRetry() = %v, want %v", got, tt.expected)
			}
		})
	}
}
