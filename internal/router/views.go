package router

import (
	"net/http"

	"github.com/Belphemur/ShowCatalog/internal/models"
	"github.com/Belphemur/ShowCatalog/internal/store"
)

// HomeView is the catalog page: loading flag, genre list and genre index.
type HomeView struct {
	Loading bool             `json:"loading"`
	Genres  []string         `json:"genres"`
	Shows   models.ShowIndex `json:"shows"`
}

// SearchView is the search page. Results are the ones fetched for Term by
// this request; /api/state/search-results reads the shared last result set.
type SearchView struct {
	Term    string                `json:"term"`
	Loading bool                  `json:"loading"`
	Results []models.SearchResult `json:"results"`
}

type views struct {
	controller *store.Controller
}

func (v *views) home(w http.ResponseWriter, r *http.Request) {
	v.controller.LoadShows(r.Context())

	state := v.controller.State()
	writeJSON(w, r, http.StatusOK, HomeView{
		Loading: state.Loading(),
		Genres:  state.Genres(),
		Shows:   state.ShowsObject(),
	})
}

func (v *views) detail(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, resolvedDetail(r.Context()))
}

func (v *views) search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	results := v.controller.SearchShows(r.Context(), term)
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, r, http.StatusOK, SearchView{
		Term:    term,
		Loading: v.controller.State().Loading(),
		Results: results,
	})
}

func (v *views) genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, v.controller.State().Genres())
}

func (v *views) shows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, v.controller.State().ShowsObject())
}

func (v *views) searchResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, v.controller.State().SearchResults())
}

func (v *views) showDetail(w http.ResponseWriter, r *http.Request) {
	detail := v.controller.State().ShowDetail()
	if detail == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "no show detail loaded")
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (v *views) loading(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"loading": v.controller.State().Loading()})
}

func (v *views) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (v *views) readyz(w http.ResponseWriter, r *http.Request) {
	if !v.controller.State().Loaded() {
		writeError(w, r, http.StatusServiceUnavailable, "not_ready", "show catalog not loaded")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (v *views) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not_found", "route not found")
}
