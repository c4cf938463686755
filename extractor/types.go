package extractor

import "github.com/johnneerdael/NuvioMobile/internal/formats"

// PlaybackHint tells the resolver what the host player supports.
type PlaybackHint struct {
	// SupportsMultiTrack enables manifest-backed playback pairing separate
	// video and audio tracks. When false only single-file (muxed) streams
	// and video-only degradation are considered.
	SupportsMultiTrack bool
}

// BestStream is the playable representation a resolution settled on:
// either a direct upstream locator or a reference to a synthesized
// manifest artifact. Immutable once computed.
type BestStream struct {
	URL          string
	QualityLabel string
	MimeType     string
	Itag         int
	HasAudio     bool
	HasVideo     bool
	// Bitrate is the combined bitrate for manifest-backed streams.
	Bitrate int
	// IsManifest marks manifest-artifact references; those are never
	// served from cache and must always be recomputed.
	IsManifest bool
}

// Alternative is one muxed format surfaced alongside the best stream so
// the host player can offer quality choices.
type Alternative struct {
	Itag         int
	URL          string
	MimeType     string
	QualityLabel string
	Bitrate      int
	Width        int
	Height       int
}

// ExtractionResult is the full outcome of one successful resolution.
type ExtractionResult struct {
	VideoID      string
	Title        string
	DurationSec  int64
	Profile      string // accepted client profile, diagnostic only
	Best         BestStream
	Alternatives []Alternative
}

func toAlternative(d formats.Descriptor) Alternative {
	return Alternative{
		Itag:         d.Itag,
		URL:          d.URL,
		MimeType:     d.MimeType,
		QualityLabel: d.QualityLabel,
		Bitrate:      d.Bitrate,
		Width:        d.Width,
		Height:       d.Height,
	}
}
