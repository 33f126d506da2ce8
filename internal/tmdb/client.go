package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UpstreamError reports a failed provider call, carrying the HTTP status the
// provider returned so handlers can surface it.
type UpstreamError struct {
	Status int
	Path   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Path, e.Status)
}

// Client is a typed wrapper around the TMDB HTTP API. All requests carry the
// bearer credential; list-style endpoints request language=en-US.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a TMDB client for the given base URL and bearer credential.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Details is the subset of a TMDB details response the API serves. Movie
// responses populate Title/ReleaseDate, TV responses Name/FirstAirDate.
type Details struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	PosterPath       string  `json:"poster_path"`
	NumberOfEpisodes int     `json:"number_of_episodes,omitempty"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// DisplayDate returns the release date or first air date, whichever is set.
func (d *Details) DisplayDate() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

// Summary is one entry of a TMDB list response, passed through to clients.
type Summary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity,omitempty"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
}

// Page is one page of a TMDB list response.
type Page struct {
	Page         int       `json:"page"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
	Results      []Summary `json:"results"`
}

// CastMember is one credited actor.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// Credits holds the director and the first five cast members, in provider
// order.
type Credits struct {
	Director string       `json:"director,omitempty"`
	Cast     []CastMember `json:"cast"`
}

// Details fetches the details document for a catalog item.
func (c *Client) Details(ctx context.Context, mediaType string, id int64) (*Details, error) {
	var out Details
	params := url.Values{"language": {"en-US"}}
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", mediaType, id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type videoList struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// TrailerKey returns the key of the first YouTube trailer for the item, or
// the empty string when the provider lists none.
func (c *Client) TrailerKey(ctx context.Context, mediaType string, id int64) (string, error) {
	var out videoList
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/videos", mediaType, id), nil, &out); err != nil {
		return "", err
	}
	for _, v := range out.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v.Key, nil
		}
	}
	return "", nil
}

type creditsResponse struct {
	Cast []struct {
		Name      string `json:"name"`
		Character string `json:"character"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

// Credits fetches the item's credits: the first crew member whose job is
// "Director", and up to five cast members in provider order.
func (c *Client) Credits(ctx context.Context, mediaType string, id int64) (*Credits, error) {
	var out creditsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/credits", mediaType, id), nil, &out); err != nil {
		return nil, err
	}

	credits := &Credits{}
	for _, member := range out.Crew {
		if member.Job == "Director" {
			credits.Director = member.Name
			break
		}
	}
	for i, actor := range out.Cast {
		if i == 5 {
			break
		}
		credits.Cast = append(credits.Cast, CastMember{Name: actor.Name, Character: actor.Character})
	}
	return credits, nil
}

// PopularMovies fetches one page of /movie/popular.
func (c *Client) PopularMovies(ctx context.Context, page int) (*Page, error) {
	params := url.Values{
		"language": {"en-US"},
		"page":     {fmt.Sprint(page)},
	}
	var out Page
	if err := c.get(ctx, "/movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NowPlayingMovies fetches the first page of /movie/now_playing.
func (c *Client) NowPlayingMovies(ctx context.Context) (*Page, error) {
	params := url.Values{
		"language": {"en-US"},
		"page":     {"1"},
	}
	var out Page
	if err := c.get(ctx, "/movie/now_playing", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TopRatedTV fetches the first page of /tv/top_rated.
func (c *Client) TopRatedTV(ctx context.Context) (*Page, error) {
	params := url.Values{
		"language": {"en-US"},
		"page":     {"1"},
	}
	var out Page
	if err := c.get(ctx, "/tv/top_rated", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscoverQuery narrows a /discover/movie call.
type DiscoverQuery struct {
	GenreID int64 // 0 means no genre filter
	Year    int   // primary release year; 0 means no year filter
	SortBy  string
}

// DiscoverMovies fetches the first page of /discover/movie for the query.
func (c *Client) DiscoverMovies(ctx context.Context, q DiscoverQuery) (*Page, error) {
	params := url.Values{
		"language": {"en-US"},
		"page":     {"1"},
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.Year != 0 {
		params.Set("primary_release_year", fmt.Sprint(q.Year))
	}
	if q.GenreID != 0 {
		params.Set("with_genres", fmt.Sprint(q.GenreID))
	}
	var out Page
	if err := c.get(ctx, "/discover/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMulti queries /search/multi, keeping only movie and tv results and
// dropping duplicates by (id, media_type).
func (c *Client) SearchMulti(ctx context.Context, query string) ([]Summary, error) {
	params := url.Values{
		"language": {"en-US"},
		"query":    {query},
		"page":     {"1"},
	}
	var out Page
	if err := c.get(ctx, "/search/multi", params, &out); err != nil {
		return nil, err
	}

	type key struct {
		id        int64
		mediaType string
	}
	seen := make(map[key]bool)
	results := make([]Summary, 0, len(out.Results))
	for _, item := range out.Results {
		if item.MediaType != "movie" && item.MediaType != "tv" {
			continue
		}
		k := key{item.ID, item.MediaType}
		if seen[k] {
			continue
		}
		seen[k] = true
		results = append(results, item)
	}
	return results, nil
}

type genreList struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// MovieGenres returns the provider's movie genres keyed by lowercased name.
func (c *Client) MovieGenres(ctx context.Context) (map[string]int64, error) {
	var out genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &out); err != nil {
		return nil, err
	}
	genres := make(map[string]int64, len(out.Genres))
	for _, g := range out.Genres {
		genres[strings.ToLower(g.Name)] = g.ID
	}
	return genres, nil
}

// get issues an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response %s: %w", path, err)
	}
	return nil
}
