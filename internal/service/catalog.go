package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mediashelf/internal/model"
	"mediashelf/internal/tmdb"
)

// ErrUnknownCategory is returned when a category name matches no provider genre.
var ErrUnknownCategory = errors.New("unknown category")

// popularPageCap bounds the merged popular feed.
const popularPageCap = 36

// browseLimit caps the curated browse feeds.
const browseLimit = 15

// CatalogClient is the slice of the provider client the catalog service needs.
type CatalogClient interface {
	MetadataClient
	PopularMovies(ctx context.Context, page int) (*tmdb.Page, error)
	NowPlayingMovies(ctx context.Context) (*tmdb.Page, error)
	TopRatedTV(ctx context.Context) (*tmdb.Page, error)
	DiscoverMovies(ctx context.Context, q tmdb.DiscoverQuery) (*tmdb.Page, error)
	SearchMulti(ctx context.Context, query string) ([]tmdb.Summary, error)
	MovieGenres(ctx context.Context) (map[string]int64, error)
}

// CatalogPage is a merged browse response.
type CatalogPage struct {
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	Results     []tmdb.Summary `json:"results"`
}

// CatalogDetails is the merged provider view of one catalog item, independent
// of any user's lists.
type CatalogDetails struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Overview     string            `json:"overview"`
	ReleaseDate  string            `json:"release_date"`
	VoteAverage  float64           `json:"vote_average"`
	PosterPath   string            `json:"poster_path"`
	TrailerKey   string            `json:"trailer_key,omitempty"`
	Director     string            `json:"director,omitempty"`
	Cast         []tmdb.CastMember `json:"cast"`
	EpisodeCount int               `json:"episode_count,omitempty"`
}

// CatalogService serves provider browse and search feeds. It holds no state
// beyond the client; nothing here touches the database.
type CatalogService struct {
	client CatalogClient
}

func NewCatalogService(client CatalogClient) *CatalogService {
	return &CatalogService{client: client}
}

// PopularMovies merges the provider's first two popular pages into one feed,
// deduplicated and capped. Both pages are fetched concurrently.
func (s *CatalogService) PopularMovies(ctx context.Context) (*CatalogPage, error) {
	var page1, page2 *tmdb.Page

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page1, err = s.client.PopularMovies(gctx, 1)
		return err
	})
	g.Go(func() error {
		var err error
		page2, err = s.client.PopularMovies(gctx, 2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	results := make([]tmdb.Summary, 0, popularPageCap)
	for _, item := range append(page1.Results, page2.Results...) {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		item.MediaType = model.MediaTypeMovie
		results = append(results, item)
		if len(results) == popularPageCap {
			break
		}
	}

	return &CatalogPage{
		CurrentPage: 1,
		TotalPages:  page1.TotalPages,
		Results:     results,
	}, nil
}

// NewlyReleased returns the movies now in theaters, newest first.
func (s *CatalogService) NewlyReleased(ctx context.Context) ([]tmdb.Summary, error) {
	page, err := s.client.NowPlayingMovies(ctx)
	if err != nil {
		return nil, err
	}

	results := page.Results
	// ISO dates compare correctly as strings
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ReleaseDate > results[j].ReleaseDate
	})
	if len(results) > browseLimit {
		results = results[:browseLimit]
	}
	return results, nil
}

// TopRatedMovies merges the most-voted movies of the current and previous
// year into one feed.
func (s *CatalogService) TopRatedMovies(ctx context.Context) ([]tmdb.Summary, error) {
	return s.mostVotedRecent(ctx, 0)
}

// MoviesByCategory resolves the category name against the provider's genre
// list (case-insensitive) and returns that genre's most-voted recent movies.
func (s *CatalogService) MoviesByCategory(ctx context.Context, category string) ([]tmdb.Summary, error) {
	genres, err := s.client.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}

	genreID, ok := genres[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, ErrUnknownCategory
	}

	return s.mostVotedRecent(ctx, genreID)
}

// mostVotedRecent merges the current and previous year's most-voted discover
// feeds, deduplicated, sorted by vote count and capped. A zero genreID means
// no genre filter. Both years are fetched concurrently.
func (s *CatalogService) mostVotedRecent(ctx context.Context, genreID int64) ([]tmdb.Summary, error) {
	currentYear := time.Now().Year()

	var current, previous *tmdb.Page
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.client.DiscoverMovies(gctx, tmdb.DiscoverQuery{GenreID: genreID, Year: currentYear, SortBy: "vote_count.desc"})
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.client.DiscoverMovies(gctx, tmdb.DiscoverQuery{GenreID: genreID, Year: currentYear - 1, SortBy: "vote_count.desc"})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	merged := make([]tmdb.Summary, 0, len(current.Results)+len(previous.Results))
	for _, item := range append(current.Results, previous.Results...) {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		merged = append(merged, item)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].VoteCount > merged[j].VoteCount
	})
	if len(merged) > browseLimit {
		merged = merged[:browseLimit]
	}
	return merged, nil
}

// TopRatedTVShows returns the provider's top-rated TV shows.
func (s *CatalogService) TopRatedTVShows(ctx context.Context) ([]tmdb.Summary, error) {
	page, err := s.client.TopRatedTV(ctx)
	if err != nil {
		return nil, err
	}

	results := page.Results
	if len(results) > browseLimit {
		results = results[:browseLimit]
	}
	return results, nil
}

// Search runs a multi search, filtered to movies and TV shows.
func (s *CatalogService) Search(ctx context.Context, query string) ([]tmdb.Summary, error) {
	return s.client.SearchMulti(ctx, query)
}

// MediaDetails fetches the merged provider view of one catalog item. The
// details, trailer and credits calls run concurrently.
func (s *CatalogService) MediaDetails(ctx context.Context, mediaType string, id int64) (*CatalogDetails, error) {
	if mediaType != model.MediaTypeMovie && mediaType != model.MediaTypeTV {
		return nil, model.ErrInvalidMediaType
	}

	var (
		details *tmdb.Details
		trailer string
		credits *tmdb.Credits
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var derr error
		details, derr = s.client.Details(gctx, mediaType, id)
		return derr
	})
	g.Go(func() error {
		var terr error
		trailer, terr = s.client.TrailerKey(gctx, mediaType, id)
		return terr
	})
	g.Go(func() error {
		var cerr error
		credits, cerr = s.client.Credits(gctx, mediaType, id)
		return cerr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &CatalogDetails{
		ID:           details.ID,
		Title:        details.DisplayTitle(),
		Overview:     details.Overview,
		ReleaseDate:  details.DisplayDate(),
		VoteAverage:  details.VoteAverage,
		PosterPath:   details.PosterPath,
		TrailerKey:   trailer,
		Director:     credits.Director,
		Cast:         credits.Cast,
		EpisodeCount: details.NumberOfEpisodes,
	}
	return out, nil
}
