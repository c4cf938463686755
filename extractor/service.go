package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/johnneerdael/NuvioMobile/internal/fallback"
	"github.com/johnneerdael/NuvioMobile/internal/streamcache"
)

// Service is the caching orchestration layer above the on-device extractor.
// It consults the remote fallback resolver only when local negotiation is
// exhausted, and only caches fallback URLs that pass the trust check.
type Service struct {
	extractor *Extractor
	fallback  *fallback.Client
	cache     *streamcache.Cache
	logger    zerolog.Logger
}

// CatalogItem carries the catalog metadata used for fallback search when a
// direct resolve is impossible.
type CatalogItem struct {
	Title     string
	Year      int
	TMDBID    int64
	MediaType string
}

func NewService(ex *Extractor, fb *fallback.Client) *Service {
	return &Service{
		extractor: ex,
		fallback:  fb,
		cache:     streamcache.New(0, 0),
		logger:    ex.logger,
	}
}

// BestURL resolves the best playable location for input, falling back to
// the remote service when the on-device chain is exhausted. A uniform
// ErrNoStreamFound is returned when every avenue fails.
func (s *Service) BestURL(ctx context.Context, input string, hint PlaybackHint, item CatalogItem) (string, error) {
	url, err := s.extractor.ResolveBestURL(ctx, input, hint)
	if err == nil {
		return url, nil
	}
	if errors.Is(err, ErrInvalidIdentifier) && item.Title == "" {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if s.fallback == nil {
		return "", err
	}

	key := searchKey(input, item)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	s.logger.Info().Str("input", input).Msg("on-device resolution failed, consulting remote fallback")
	if videoID, idErr := NormalizeIdentifier(input); idErr == nil {
		watchURL := "https://www.youtube.com/watch?v=" + videoID
		if url, fbErr := s.fallback.ResolveYouTubeURL(ctx, watchURL); fbErr == nil {
			s.cache.Put(key, url)
			return url, nil
		}
	}
	if item.Title != "" {
		url, fbErr := s.fallback.Search(ctx, fallback.SearchQuery{
			Title:     item.Title,
			Year:      item.Year,
			TMDBID:    item.TMDBID,
			MediaType: item.MediaType,
		})
		if fbErr == nil {
			s.cache.Put(key, url)
			return url, nil
		}
		s.logger.Debug().Err(fbErr).Str("title", item.Title).Msg("fallback search failed")
	}

	return "", ErrNoStreamFound
}

func searchKey(input string, item CatalogItem) string {
	if id, err := NormalizeIdentifier(input); err == nil {
		return "fb|" + id
	}
	return fmt.Sprintf("fb|%s|%d|%d|%s", item.Title, item.Year, item.TMDBID, item.MediaType)
}
