package testutil

import (
	"encoding/json"

	"github.com/Belphemur/ShowCatalog/internal/models"
)

// NewShow builds a rated show fixture.
// This is a test helper and should not be used in production code.
func NewShow(id int, name string, rating float64, genres ...string) models.Show {
	avg := rating
	return models.Show{
		ID:     id,
		Name:   name,
		Rating: models.Rating{Average: &avg},
		Genres: genres,
	}
}

// NewUnratedShow builds a show fixture whose rating is absent.
func NewUnratedShow(id int, name string, genres ...string) models.Show {
	return models.Show{
		ID:     id,
		Name:   name,
		Genres: genres,
	}
}

// ShowsJSON encodes shows the way the upstream API serves /shows.
func ShowsJSON(shows ...models.Show) []byte {
	if shows == nil {
		shows = []models.Show{}
	}
	data, err := json.Marshal(shows)
	if err != nil {
		panic(err)
	}
	return data
}

// ShowJSON encodes a single show the way the upstream API serves /shows/{id}.
func ShowJSON(show models.Show) []byte {
	data, err := json.Marshal(show)
	if err != nil {
		panic(err)
	}
	return data
}

// SearchJSON encodes search hits the way the upstream API serves /search/shows.
func SearchJSON(hits ...models.SearchHit) []byte {
	if hits == nil {
		hits = []models.SearchHit{}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		panic(err)
	}
	return data
}
