package service

import (
	"context"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"mediashelf/internal/model"
	"mediashelf/internal/repository"
	"mediashelf/internal/tmdb"
)

// latestLimit caps the recently-added feed.
const latestLimit = 15

// MediaService handles business logic for media entries within lists.
type MediaService struct {
	userRepo  repository.UserRepository
	listRepo  repository.ListRepository
	mediaRepo repository.MediaRepository
	guard     *OwnershipGuard
	client    MetadataClient
	enricher  *Enricher
}

func NewMediaService(userRepo repository.UserRepository, listRepo repository.ListRepository, mediaRepo repository.MediaRepository, guard *OwnershipGuard, client MetadataClient, enricher *Enricher) *MediaService {
	return &MediaService{
		userRepo:  userRepo,
		listRepo:  listRepo,
		mediaRepo: mediaRepo,
		guard:     guard,
		client:    client,
		enricher:  enricher,
	}
}

// AddToList creates a media entry in the list. The same catalog item can live
// in many lists, but only once per list.
func (s *MediaService) AddToList(ctx context.Context, listID int64, req *model.AddMediaRequest) (*model.Media, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrMediaTitleRequired
	}
	if !model.IsValidMediaType(req.Type) {
		return nil, model.ErrInvalidMediaType
	}
	if req.Rating < 0 || req.Rating > 10 {
		return nil, model.ErrInvalidRating
	}

	if _, err := s.guard.Verify(ctx, req.UserID, listID); err != nil {
		return nil, err
	}

	m := &model.Media{
		TmdbID: req.TmdbID,
		Title:  req.Title,
		Type:   req.Type,
		Rating: req.Rating,
		Review: req.Review,
		ListID: listID,
		UserID: req.UserID,
	}

	if err := s.mediaRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Update edits an entry's title, type, rating or review. Ownership of the
// entry's list is re-verified before anything is written.
func (s *MediaService) Update(ctx context.Context, mediaID int64, req *model.UpdateMediaRequest) (*model.Media, error) {
	m, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.Verify(ctx, m.UserID, m.ListID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, model.ErrMediaTitleRequired
		}
		m.Title = *req.Title
	}
	if req.Type != nil {
		if !model.IsValidMediaType(*req.Type) {
			return nil, model.ErrInvalidMediaType
		}
		m.Type = *req.Type
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 10 {
			return nil, model.ErrInvalidRating
		}
		m.Rating = *req.Rating
	}
	if req.Review != nil {
		m.Review = *req.Review
	}

	if err := s.mediaRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes one entry from the list after verifying it actually lives
// there and the list belongs to its owner.
func (s *MediaService) Delete(ctx context.Context, listID, mediaID int64) error {
	m, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if m.ListID != listID {
		return model.ErrMediaNotFound
	}

	if _, err := s.guard.Verify(ctx, m.UserID, listID); err != nil {
		return err
	}

	return s.mediaRepo.Delete(ctx, mediaID)
}

// GetDetails serves the full provider view of one entry, merged with the
// user's rating and review. The three provider calls run concurrently and any
// failure fails the whole request, surfacing the provider's status.
func (s *MediaService) GetDetails(ctx context.Context, listID, tmdbID int64) (*model.EnrichedMedia, error) {
	m, err := s.mediaRepo.GetByListAndTmdbID(ctx, listID, tmdbID)
	if err != nil {
		return nil, err
	}

	providerType := providerMediaType(m.Type)

	var (
		details *tmdb.Details
		trailer string
		credits *tmdb.Credits
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var derr error
		details, derr = s.client.Details(gctx, providerType, m.TmdbID)
		return derr
	})
	g.Go(func() error {
		var terr error
		trailer, terr = s.client.TrailerKey(gctx, providerType, m.TmdbID)
		return terr
	})
	g.Go(func() error {
		var cerr error
		credits, cerr = s.client.Credits(gctx, providerType, m.TmdbID)
		return cerr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &model.EnrichedMedia{
		Media:        *m,
		Enriched:     true,
		Overview:     details.Overview,
		ReleaseDate:  details.DisplayDate(),
		VoteAverage:  details.VoteAverage,
		PosterPath:   details.PosterPath,
		TrailerKey:   trailer,
		Director:     credits.Director,
		EpisodeCount: details.NumberOfEpisodes,
	}
	// The stored title may be stale; the provider's wins.
	if title := details.DisplayTitle(); title != "" {
		out.Title = title
	}
	for _, c := range credits.Cast {
		out.Cast = append(out.Cast, model.CastMember{Name: c.Name, Character: c.Character})
	}
	return out, nil
}

// LatestByType returns the user's most recently added entries of one type,
// enriched, each tagged with the name of the list it lives in.
func (s *MediaService) LatestByType(ctx context.Context, userID int64, mediaType string) ([]model.EnrichedMedia, error) {
	if !model.IsValidMediaType(mediaType) {
		return nil, model.ErrInvalidMediaType
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.mediaRepo.GetLatestByType(ctx, userID, mediaType, latestLimit)
	if err != nil {
		return nil, err
	}

	enriched := s.enricher.EnrichPage(ctx, items, false)

	lists, err := s.listRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Title
	}
	for i := range enriched {
		if name, ok := names[enriched[i].ListID]; ok {
			n := name
			enriched[i].ListName = &n
		}
	}

	return enriched, nil
}

// Stats summarizes the user's rated entries across all their lists. The
// average covers every rated entry regardless of type; the per-type totals
// report movies and TV shows.
func (s *MediaService) Stats(ctx context.Context, userID int64) (*model.MediaStats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	counts, err := s.mediaRepo.RatedCountsByType(ctx, userID)
	if err != nil {
		return nil, err
	}

	avg, err := s.mediaRepo.AverageRating(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.MediaStats{
		TotalRatedMovies:  counts[model.MediaTypeMovie],
		TotalRatedTVShows: counts[model.MediaTypeTV],
		AverageRating:     math.Round(avg*100) / 100,
	}

	listID, ok, err := s.mediaRepo.MostRatedListID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		list, err := s.listRepo.GetByID(ctx, listID)
		if err != nil {
			return nil, err
		}
		stats.MostUsedList = list
	}

	return stats, nil
}
