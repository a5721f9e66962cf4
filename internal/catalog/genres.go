package catalog

import "slices"

// GenreSet is the deduplicated set of genres seen while indexing shows.
// Members are kept unordered; ordering is applied when the set is read.
type GenreSet map[string]struct{}

// Add inserts a genre into the set.
func (g GenreSet) Add(genre string) {
	g[genre] = struct{}{}
}

// Contains reports whether the genre is part of the set.
func (g GenreSet) Contains(genre string) bool {
	_, ok := g[genre]
	return ok
}

// Sorted returns the genres in ascending lexicographic order.
func (g GenreSet) Sorted() []string {
	genres := make([]string, 0, len(g))
	for genre := range g {
		genres = append(genres, genre)
	}
	slices.Sort(genres)
	return genres
}
