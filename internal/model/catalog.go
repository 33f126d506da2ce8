package model

// EnrichedMedia merges a locally stored media entry with fresh provider data.
// When the provider call for an item fails, the local record is emitted
// unmodified and Enriched stays false.
type EnrichedMedia struct {
	Media

	Enriched     bool         `json:"enriched"`
	Overview     string       `json:"overview,omitempty"`
	ReleaseDate  string       `json:"release_date,omitempty"`
	VoteAverage  float64      `json:"vote_average,omitempty"`
	PosterPath   string       `json:"poster_path,omitempty"`
	TrailerKey   string       `json:"trailer_key,omitempty"`
	Director     string       `json:"director,omitempty"`
	Cast         []CastMember `json:"cast,omitempty"`
	EpisodeCount int          `json:"episode_count,omitempty"`
	ListName     *string      `json:"listname,omitempty"`
}

// CastMember is one credited actor on a catalog item.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// Pagination describes one page of a list's media collection.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// ListPage is one enriched page of a list.
type ListPage struct {
	List       List            `json:"list"`
	Items      []EnrichedMedia `json:"items"`
	Pagination Pagination      `json:"pagination"`
}
