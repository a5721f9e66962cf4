package models

// Rating holds the upstream rating of a show. Average is nil when the show
// has not been rated yet.
type Rating struct {
	Average *float64 `json:"average"`
}

// Value returns the average rating, treating an absent rating as 0.
func (r Rating) Value() float64 {
	if r.Average == nil {
		return 0
	}
	return *r.Average
}

// Image holds the poster URLs of a show
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Show represents a TV show as returned by the catalog API
type Show struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Rating       Rating   `json:"rating"`
	Genres       []string `json:"genres"`
	Language     string   `json:"language,omitempty"`
	Status       string   `json:"status,omitempty"`
	Premiered    string   `json:"premiered,omitempty"`
	Runtime      *int     `json:"runtime,omitempty"`
	OfficialSite string   `json:"officialSite,omitempty"`
	Image        *Image   `json:"image,omitempty"`
	Summary      string   `json:"summary,omitempty"`     // Raw HTML summary from the API
	SummaryText  string   `json:"summaryText,omitempty"` // Plain text summary, only filled on detail fetches
}

// ShowIndex maps a genre name to its shows, ranked by descending rating
type ShowIndex map[string][]Show
