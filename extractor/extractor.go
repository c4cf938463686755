// Package extractor resolves playable stream locations for YouTube-hosted
// trailers using the platform's internal player API. No page scraping, no
// authentication: a fixed catalog of disguised client profiles is tried in
// order until one yields usable media descriptors, which are then ranked
// and either returned directly (muxed) or paired into a synthesized DASH
// manifest (adaptive video + audio).
package extractor

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/johnneerdael/NuvioMobile/internal/chain"
	"github.com/johnneerdael/NuvioMobile/internal/manifest"
	"github.com/johnneerdael/NuvioMobile/internal/selector"
	"github.com/johnneerdael/NuvioMobile/internal/streamcache"
)

// Extractor is the on-device stream resolver.
type Extractor struct {
	config Config
	chain  *chain.Chain
	cache  *streamcache.Cache
	fs     afero.Fs
	logger zerolog.Logger
	group  singleflight.Group
}

// New builds an Extractor. The cache starts empty and lives for the
// process; nothing is persisted across restarts.
func New(config Config) *Extractor {
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if config.CacheDir == "" {
		config.CacheDir = os.TempDir()
	}

	return &Extractor{
		config: config,
		chain: chain.New(chain.Options{
			HTTPClient:     config.HTTPClient,
			Catalog:        config.Catalog,
			AttemptTimeout: config.AttemptTimeout,
			Logger:         logger,
			BaseURL:        config.PlayerBaseURL,
		}),
		cache:  streamcache.New(config.CacheTTL, config.CacheCapacity),
		fs:     fs,
		logger: logger,
	}
}

// Resolve normalizes the input, negotiates a player response and returns
// the full extraction result. Concurrent calls for the same identifier and
// hint are coalesced; the operation is idempotent either way.
func (e *Extractor) Resolve(ctx context.Context, input string, hint PlaybackHint) (*ExtractionResult, error) {
	videoID, err := NormalizeIdentifier(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, withDefaultTimeout(e.config))
	defer cancel()

	key := videoID + "|" + strconv.FormatBool(hint.SupportsMultiTrack)
	v, err, _ := e.group.Do(key, func() (any, error) {
		return e.resolve(ctx, videoID, hint)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ExtractionResult), nil
}

// ResolveBestURL returns just the best playable location, consulting the
// resolved-stream cache first. Manifest-backed results are stored but never
// served from cache: their backing artifact may no longer exist, so they
// are recomputed on every call.
func (e *Extractor) ResolveBestURL(ctx context.Context, input string, hint PlaybackHint) (string, error) {
	videoID, err := NormalizeIdentifier(input)
	if err != nil {
		return "", err
	}
	if url, ok := e.cache.Get(videoID); ok {
		e.logger.Debug().Str("videoId", videoID).Msg("cache hit")
		return url, nil
	}

	result, err := e.Resolve(ctx, videoID, hint)
	if err != nil {
		return "", err
	}
	return result.Best.URL, nil
}

func (e *Extractor) resolve(ctx context.Context, videoID string, hint PlaybackHint) (*ExtractionResult, error) {
	accepted, err := e.chain.Negotiate(ctx, videoID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exhausted *chain.ExhaustedError
		if errors.As(err, &exhausted) {
			e.logger.Info().Str("videoId", videoID).Int("attempts", len(exhausted.Attempts)).Msg("negotiation exhausted")
			return nil, ErrNoStreamFound
		}
		return nil, ErrNoStreamFound
	}

	result := &ExtractionResult{
		VideoID: videoID,
		Title:   accepted.Response.VideoDetails.Title,
		Profile: accepted.Profile,
	}
	if s := accepted.Response.VideoDetails.LengthSeconds; s != "" {
		result.DurationSec, _ = strconv.ParseInt(s, 10, 64)
	}
	for _, d := range accepted.Classified.Muxed {
		result.Alternatives = append(result.Alternatives, toAlternative(d))
	}

	best, err := e.selectBest(accepted, videoID, result.DurationSec, hint)
	if err != nil {
		return nil, err
	}
	result.Best = best

	if best.IsManifest {
		e.cache.PutManifest(videoID, best.URL)
	} else {
		e.cache.Put(videoID, best.URL)
	}
	return result, nil
}

// selectBest applies the degradation ladder: manifest-backed adaptive pair
// when the player supports it, then best muxed, then video-only. Imperfect
// playback beats none.
func (e *Extractor) selectBest(accepted *chain.Accepted, videoID string, durationSec int64, hint PlaybackHint) (BestStream, error) {
	classified := accepted.Classified

	if hint.SupportsMultiTrack {
		video, videoOK := selector.SelectAdaptiveVideo(classified.AdaptiveVideo)
		audio, audioOK := selector.SelectAdaptiveAudio(classified.AdaptiveAudio)
		if videoOK && audioOK {
			doc, err := manifest.Synthesize(video, audio, durationSec)
			if err == nil {
				path, storeErr := manifest.Store(e.fs, e.config.CacheDir, videoID, doc)
				if storeErr == nil {
					return BestStream{
						URL:          path,
						QualityLabel: video.QualityLabel,
						MimeType:     "application/dash+xml",
						Itag:         video.Itag,
						HasAudio:     true,
						HasVideo:     true,
						Bitrate:      video.Bitrate + audio.Bitrate,
						IsManifest:   true,
					}, nil
				}
				err = storeErr
			}
			e.logger.Warn().Str("videoId", videoID).Err(err).Msg("manifest unavailable, falling back to muxed")
		}
	}

	if muxed, ok := selector.SelectMuxed(classified.Muxed); ok {
		return BestStream{
			URL:          muxed.URL,
			QualityLabel: muxed.QualityLabel,
			MimeType:     muxed.MimeType,
			Itag:         muxed.Itag,
			HasAudio:     true,
			HasVideo:     true,
			Bitrate:      muxed.Bitrate,
		}, nil
	}

	if len(classified.AdaptiveVideo) > 0 {
		best := classified.AdaptiveVideo[0]
		for _, d := range classified.AdaptiveVideo[1:] {
			if d.Bitrate > best.Bitrate {
				best = d
			}
		}
		e.logger.Info().Str("videoId", videoID).Int("itag", best.Itag).Msg("degrading to video-only stream")
		return BestStream{
			URL:          best.URL,
			QualityLabel: best.QualityLabel,
			MimeType:     best.MimeType,
			Itag:         best.Itag,
			HasAudio:     false,
			HasVideo:     true,
			Bitrate:      best.Bitrate,
		}, nil
	}

	return BestStream{}, ErrNoUsableFormats
}
