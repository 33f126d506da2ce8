package service

import (
	"context"
	"log"
	"sync"

	"mediashelf/internal/model"
	"mediashelf/internal/tmdb"
)

// MetadataClient is the slice of the provider client the enricher needs.
type MetadataClient interface {
	Details(ctx context.Context, mediaType string, id int64) (*tmdb.Details, error)
	TrailerKey(ctx context.Context, mediaType string, id int64) (string, error)
	Credits(ctx context.Context, mediaType string, id int64) (*tmdb.Credits, error)
}

// Enricher merges locally stored media entries with fresh provider metadata.
// Every provider call runs through the shared gate, so a page of N items never
// holds more than the gate's limit of connections at once.
type Enricher struct {
	client MetadataClient
	gate   *tmdb.Gate
}

func NewEnricher(client MetadataClient, gate *tmdb.Gate) *Enricher {
	return &Enricher{
		client: client,
		gate:   gate,
	}
}

// EnrichPage enriches every item concurrently and returns results in the same
// order as the input. Failures are isolated per item: when any provider call
// for an item fails, that item's local record passes through with Enriched
// false and the rest of the page is unaffected.
func (e *Enricher) EnrichPage(ctx context.Context, items []model.Media, withCredits bool) []model.EnrichedMedia {
	results := make([]model.EnrichedMedia, len(items))

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.enrichOne(ctx, items[i], withCredits)
		}(i)
	}
	wg.Wait()

	return results
}

// enrichOne fetches provider metadata for a single entry. Anime entries are
// looked up as TV shows, which is how the provider catalogs them.
func (e *Enricher) enrichOne(ctx context.Context, m model.Media, withCredits bool) model.EnrichedMedia {
	local := model.EnrichedMedia{Media: m}
	providerType := providerMediaType(m.Type)

	var details *tmdb.Details
	err := e.gate.Do(ctx, func() error {
		var derr error
		details, derr = e.client.Details(ctx, providerType, m.TmdbID)
		return derr
	})
	if err != nil {
		log.Printf("[Enricher] details fetch failed for %s/%d: %v", providerType, m.TmdbID, err)
		return local
	}

	var trailer string
	err = e.gate.Do(ctx, func() error {
		var terr error
		trailer, terr = e.client.TrailerKey(ctx, providerType, m.TmdbID)
		return terr
	})
	if err != nil {
		log.Printf("[Enricher] trailer fetch failed for %s/%d: %v", providerType, m.TmdbID, err)
		return local
	}

	out := local
	out.Enriched = true
	// The provider is the source of truth for display fields; the stored
	// title may be stale.
	if title := details.DisplayTitle(); title != "" {
		out.Title = title
	}
	out.Overview = details.Overview
	out.ReleaseDate = details.DisplayDate()
	out.VoteAverage = details.VoteAverage
	out.PosterPath = details.PosterPath
	out.EpisodeCount = details.NumberOfEpisodes
	out.TrailerKey = trailer

	if !withCredits {
		return out
	}

	var credits *tmdb.Credits
	err = e.gate.Do(ctx, func() error {
		var cerr error
		credits, cerr = e.client.Credits(ctx, providerType, m.TmdbID)
		return cerr
	})
	if err != nil {
		log.Printf("[Enricher] credits fetch failed for %s/%d: %v", providerType, m.TmdbID, err)
		return local
	}

	out.Director = credits.Director
	for _, c := range credits.Cast {
		out.Cast = append(out.Cast, model.CastMember{Name: c.Name, Character: c.Character})
	}
	return out
}

// providerMediaType maps a stored media type to the provider's route segment.
func providerMediaType(mediaType string) string {
	if mediaType == model.MediaTypeAnime {
		return model.MediaTypeTV
	}
	return mediaType
}
