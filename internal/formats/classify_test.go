package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnneerdael/NuvioMobile/internal/innertube"
)

func TestClassify_MuxedByMultiCodec(t *testing.T) {
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			Formats: []innertube.Format{
				{Itag: 18, URL: "https://example.test/18", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`},
			},
		},
	}

	got := Classify(resp)
	require.Len(t, got.Muxed, 1)
	assert.Equal(t, 18, got.Muxed[0].Itag)
	assert.Equal(t, "avc1.42001E, mp4a.40.2", got.Muxed[0].Codecs)
}

func TestClassify_MuxedByDualSignals(t *testing.T) {
	// Single codec token, but both the audio-quality marker and a quality
	// label are present: the heuristic still counts it as muxed.
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			Formats: []innertube.Format{
				{Itag: 22, URL: "https://example.test/22", MimeType: `video/mp4; codecs="avc1.64001F"`, AudioQuality: "AUDIO_QUALITY_MEDIUM", QualityLabel: "720p"},
			},
		},
	}

	got := Classify(resp)
	require.Len(t, got.Muxed, 1)
	assert.Equal(t, 22, got.Muxed[0].Itag)
}

func TestClassify_DropsLocatorlessDescriptors(t *testing.T) {
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			Formats: []innertube.Format{
				{Itag: 18, MimeType: `video/mp4; codecs="avc1, mp4a"`}, // ciphered: no URL
			},
			AdaptiveFormats: []innertube.Format{
				{Itag: 137, MimeType: `video/mp4; codecs="avc1.64001F"`, QualityLabel: "1080p"},
			},
		},
	}

	got := Classify(resp)
	assert.Empty(t, got.Muxed)
	assert.Empty(t, got.AdaptiveVideo)
	assert.Empty(t, got.AdaptiveAudio)
	assert.False(t, got.HasUsable())
}

func TestClassify_MuxedFoldedFromAdaptiveList(t *testing.T) {
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			AdaptiveFormats: []innertube.Format{
				// Upstream occasionally misplaces muxed entries here.
				{Itag: 18, URL: "https://example.test/18", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`},
				{Itag: 137, URL: "https://example.test/137", MimeType: `video/mp4; codecs="avc1.64001F"`, QualityLabel: "1080p"},
			},
		},
	}

	got := Classify(resp)
	require.Len(t, got.Muxed, 1)
	assert.Equal(t, 18, got.Muxed[0].Itag)
	require.Len(t, got.AdaptiveVideo, 1)
	assert.Equal(t, 137, got.AdaptiveVideo[0].Itag)
}

func TestClassify_AdaptiveCandidateFilters(t *testing.T) {
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			AdaptiveFormats: []innertube.Format{
				{Itag: 137, URL: "https://example.test/137", MimeType: `video/mp4; codecs="avc1.64001F"`, QualityLabel: "1080p", Width: 1920, Height: 1080, Bitrate: 4_500_000},
				{Itag: 140, URL: "https://example.test/140", MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioQuality: "AUDIO_QUALITY_MEDIUM", Bitrate: 130_000, AudioSampleRate: "44100"},
				// Audio-quality marker on a video mime: neither candidate pool.
				{Itag: 300, URL: "https://example.test/300", MimeType: `video/mp4; codecs="avc1"`, AudioQuality: "AUDIO_QUALITY_LOW"},
			},
		},
	}

	got := Classify(resp)
	require.Len(t, got.AdaptiveVideo, 1)
	assert.Equal(t, 137, got.AdaptiveVideo[0].Itag)
	require.Len(t, got.AdaptiveAudio, 1)
	assert.Equal(t, 140, got.AdaptiveAudio[0].Itag)
	assert.Equal(t, 44100, got.AdaptiveAudio[0].AudioSampleRate)
	assert.True(t, got.HasUsable())
}

func TestClassify_RangeAndLengthCoercion(t *testing.T) {
	resp := &innertube.PlayerResponse{
		StreamingData: innertube.StreamingData{
			AdaptiveFormats: []innertube.Format{
				{
					Itag: 137, URL: "https://example.test/137",
					MimeType:         `video/mp4; codecs="avc1.64001F"`,
					QualityLabel:     "1080p",
					InitRange:        &innertube.Range{Start: "0", End: "740"},
					IndexRange:       &innertube.Range{Start: "741", End: "1228"},
					ContentLength:    "12345678",
					ApproxDurationMs: "123456",
				},
			},
		},
	}

	got := Classify(resp)
	require.Len(t, got.AdaptiveVideo, 1)
	d := got.AdaptiveVideo[0]
	require.NotNil(t, d.InitRange)
	assert.Equal(t, int64(0), d.InitRange.Start)
	assert.Equal(t, int64(740), d.InitRange.End)
	require.NotNil(t, d.IndexRange)
	assert.Equal(t, int64(741), d.IndexRange.Start)
	assert.Equal(t, int64(1228), d.IndexRange.End)
	assert.Equal(t, int64(12345678), d.ContentLength)
	assert.Equal(t, int64(123456), d.ApproxDurationMs)
}
