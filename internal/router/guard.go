package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Belphemur/ShowCatalog/internal/models"
	"github.com/Belphemur/ShowCatalog/internal/store"
)

type ctxKeyShowDetail struct{}

// resolvedDetail returns the show stored by ShowDetailResolver.
func resolvedDetail(ctx context.Context) *models.Show {
	detail, _ := ctx.Value(ctxKeyShowDetail{}).(*models.Show)
	return detail
}

// ShowDetailResolver guards the detail view. It loads the show named by
// the {id} path parameter and lets the request through only when this
// request's fetch stored that show. Anything else redirects to the home view.
func ShowDetailResolver(controller *store.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil || id <= 0 {
				logger.Debug().Str("id", chi.URLParam(r, "id")).Msg("Invalid show id, redirecting home")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			detail, ok := controller.LoadShowDetail(r.Context(), id)
			if !ok || detail.ID != id {
				logger.Debug().Int("id", id).Msg("Show detail unavailable, redirecting home")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyShowDetail{}, detail)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
