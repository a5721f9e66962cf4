// Package catalog builds the genre-indexed view of the show list.
package catalog

import (
	"cmp"
	"slices"

	"github.com/Belphemur/ShowCatalog/internal/models"
)

// Aggregate ranks shows by rating and buckets them per genre.
//
// Shows are ordered by descending average rating, an unrated show counting
// as 0. Equal ratings keep their input order. Each show is appended to the
// bucket of every genre it belongs to, so buckets inherit the ranking.
// The input slice is left untouched.
func Aggregate(shows []models.Show) (models.ShowIndex, GenreSet) {
	index := make(models.ShowIndex)
	genres := make(GenreSet)

	ranked := slices.Clone(shows)
	slices.SortStableFunc(ranked, func(a, b models.Show) int {
		return cmp.Compare(b.Rating.Value(), a.Rating.Value())
	})

	for _, show := range ranked {
		for _, genre := range show.Genres {
			genres.Add(genre)
			index[genre] = append(index[genre], show)
		}
	}

	return index, genres
}
