package models

// SearchResult is the reduced show record returned by title searches.
// Search results are never merged into the ShowIndex.
type SearchResult struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Rating Rating  `json:"rating"`
	Image  *Image  `json:"image,omitempty"`
	Score  float64 `json:"score"` // Upstream relevance score
}

// SearchHit is one entry of the upstream search response
type SearchHit struct {
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// ToSearchResult reduces a search hit to the fields exposed to views
func (h SearchHit) ToSearchResult() SearchResult {
	return SearchResult{
		ID:     h.Show.ID,
		Name:   h.Show.Name,
		Rating: h.Show.Rating,
		Image:  h.Show.Image,
		Score:  h.Score,
	}
}
