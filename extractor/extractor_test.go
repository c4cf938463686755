package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnneerdael/NuvioMobile/internal/manifest"
)

func muxedOnlyHandler(t *testing.T, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.Equal(t, "/youtubei/v1/player", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"playabilityStatus": map[string]any{"status": "OK"},
			"streamingData": map[string]any{
				"formats": []map[string]any{
					{
						"itag":         18,
						"url":          "https://r1.googlevideo.com/videoplayback?itag=18",
						"mimeType":     `video/mp4; codecs="avc1.42001E, mp4a.40.2"`,
						"bitrate":      500000,
						"width":        640,
						"height":       360,
						"qualityLabel": "360p",
					},
					{
						"itag":         22,
						"url":          "https://r1.googlevideo.com/videoplayback?itag=22",
						"mimeType":     `video/mp4; codecs="avc1.64001F, mp4a.40.2"`,
						"bitrate":      1500000,
						"width":        1280,
						"height":       720,
						"qualityLabel": "720p",
					},
				},
			},
			"videoDetails": map[string]any{"title": "Official Trailer", "lengthSeconds": "152"},
		})
	}
}

func adaptiveHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"playabilityStatus": map[string]any{"status": "OK"},
			"streamingData": map[string]any{
				"formats": []map[string]any{
					{
						"itag":         18,
						"url":          "https://r1.googlevideo.com/videoplayback?itag=18",
						"mimeType":     `video/mp4; codecs="avc1.42001E, mp4a.40.2"`,
						"bitrate":      500000,
						"qualityLabel": "360p",
					},
				},
				"adaptiveFormats": []map[string]any{
					{
						"itag":         137,
						"url":          "https://r1.googlevideo.com/videoplayback?itag=137",
						"mimeType":     `video/mp4; codecs="avc1.64001F"`,
						"bitrate":      4500000,
						"width":        1920,
						"height":       1080,
						"qualityLabel": "1080p",
						"initRange":    map[string]string{"start": "0", "end": "740"},
						"indexRange":   map[string]string{"start": "741", "end": "1228"},
					},
					{
						"itag":            140,
						"url":             "https://r1.googlevideo.com/videoplayback?itag=140",
						"mimeType":        `audio/mp4; codecs="mp4a.40.2"`,
						"bitrate":         130000,
						"audioQuality":    "AUDIO_QUALITY_MEDIUM",
						"audioSampleRate": "44100",
					},
				},
			},
			"videoDetails": map[string]any{"title": "Official Trailer", "lengthSeconds": "152"},
		})
	}
}

func TestResolve_MuxedBest(t *testing.T) {
	var calls int
	srv := httptest.NewServer(muxedOnlyHandler(t, &calls))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewMemMapFs(),
	})

	got, err := ex.Resolve(context.Background(), "https://youtu.be/jNQXAC9IVRw", PlaybackHint{})
	require.NoError(t, err)
	assert.Equal(t, "jNQXAC9IVRw", got.VideoID)
	assert.Equal(t, "Official Trailer", got.Title)
	assert.Equal(t, int64(152), got.DurationSec)
	assert.Equal(t, "ANDROID", got.Profile)
	assert.Len(t, got.Alternatives, 2)

	assert.Equal(t, 22, got.Best.Itag)
	assert.Equal(t, "720p", got.Best.QualityLabel)
	assert.True(t, got.Best.HasAudio)
	assert.True(t, got.Best.HasVideo)
	assert.False(t, got.Best.IsManifest)
	assert.Equal(t, "https://r1.googlevideo.com/videoplayback?itag=22", got.Best.URL)
}

func TestResolve_ManifestWhenMultiTrackSupported(t *testing.T) {
	srv := httptest.NewServer(adaptiveHandler(t))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            fs,
		CacheDir:      "/cache",
	})

	got, err := ex.Resolve(context.Background(), "jNQXAC9IVRw", PlaybackHint{SupportsMultiTrack: true})
	require.NoError(t, err)
	assert.True(t, got.Best.IsManifest)
	assert.Equal(t, "application/dash+xml", got.Best.MimeType)
	assert.Equal(t, 137, got.Best.Itag)
	assert.Equal(t, 4500000+130000, got.Best.Bitrate)
	assert.Equal(t, manifest.ArtifactPath("/cache", "jNQXAC9IVRw"), got.Best.URL)

	body, err := afero.ReadFile(fs, got.Best.URL)
	require.NoError(t, err)
	doc, err := manifest.Parse(string(body))
	require.NoError(t, err)
	assert.Equal(t, "PT152S", doc.MediaPresentationDuration)
	require.Len(t, doc.Period.AdaptationSets, 2)
}

func TestResolve_MuxedWhenMultiTrackUnsupported(t *testing.T) {
	srv := httptest.NewServer(adaptiveHandler(t))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewMemMapFs(),
	})

	got, err := ex.Resolve(context.Background(), "jNQXAC9IVRw", PlaybackHint{SupportsMultiTrack: false})
	require.NoError(t, err)
	assert.False(t, got.Best.IsManifest)
	assert.Equal(t, 18, got.Best.Itag)
}

func TestResolve_ManifestStoreFailureFallsBackToMuxed(t *testing.T) {
	srv := httptest.NewServer(adaptiveHandler(t))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewReadOnlyFs(afero.NewMemMapFs()),
	})

	got, err := ex.Resolve(context.Background(), "jNQXAC9IVRw", PlaybackHint{SupportsMultiTrack: true})
	require.NoError(t, err)
	assert.False(t, got.Best.IsManifest)
	assert.Equal(t, 18, got.Best.Itag)
}

func TestResolveBestURL_CachesDirectStreams(t *testing.T) {
	var calls int
	srv := httptest.NewServer(muxedOnlyHandler(t, &calls))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewMemMapFs(),
	})

	first, err := ex.ResolveBestURL(context.Background(), "jNQXAC9IVRw", PlaybackHint{})
	require.NoError(t, err)
	second, err := ex.ResolveBestURL(context.Background(), "jNQXAC9IVRw", PlaybackHint{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup must be a cache hit")
}

func TestResolveBestURL_ManifestNeverServedFromCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		adaptiveHandler(t)(w, r)
	}))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewMemMapFs(),
		CacheDir:      "/cache",
	})

	hint := PlaybackHint{SupportsMultiTrack: true}
	_, err := ex.ResolveBestURL(context.Background(), "jNQXAC9IVRw", hint)
	require.NoError(t, err)
	_, err = ex.ResolveBestURL(context.Background(), "jNQXAC9IVRw", hint)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "manifest results must be recomputed, never cached")
}

func TestResolve_ExhaustionMapsToNoStreamFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"playabilityStatus": map[string]any{"status": "UNPLAYABLE", "reason": "Video unavailable"},
		})
	}))
	defer srv.Close()

	ex := New(Config{
		HTTPClient:    srv.Client(),
		PlayerBaseURL: srv.URL,
		Fs:            afero.NewMemMapFs(),
	})

	_, err := ex.Resolve(context.Background(), "jNQXAC9IVRw", PlaybackHint{})
	assert.ErrorIs(t, err, ErrNoStreamFound)
}

func TestResolve_InvalidInput(t *testing.T) {
	ex := New(Config{Fs: afero.NewMemMapFs()})
	_, err := ex.Resolve(context.Background(), "not a video", PlaybackHint{})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
