// Package manifest synthesizes a segment-indexed DASH document pairing one
// adaptive video track with one adaptive audio track. The document is built
// from typed structs and serialized with encoding/xml so every dynamic
// string (locators above all) is escaped by the marshaller, never spliced
// in raw.
package manifest

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/johnneerdael/NuvioMobile/internal/formats"
)

// DefaultDurationSec is used when the upstream duration is unknown.
const DefaultDurationSec = 300

// sentinelRange stands in when a descriptor carries no explicit byte range.
// Players treat it as "range unknown" and degrade; it is not an error.
const sentinelRange = "0-0"

// MPD mirrors the subset of the DASH schema this module emits: one static
// Period with exactly two adaptation sets (video, audio).
type MPD struct {
	XMLName                   xml.Name `xml:"MPD"`
	Xmlns                     string   `xml:"xmlns,attr"`
	Profiles                  string   `xml:"profiles,attr"`
	Type                      string   `xml:"type,attr"`
	MediaPresentationDuration string   `xml:"mediaPresentationDuration,attr"`
	MinBufferTime             string   `xml:"minBufferTime,attr"`
	Period                    Period   `xml:"Period"`
}

type Period struct {
	Duration       string          `xml:"duration,attr"`
	AdaptationSets []AdaptationSet `xml:"AdaptationSet"`
}

type AdaptationSet struct {
	MimeType       string           `xml:"mimeType,attr"`
	Codecs         string           `xml:"codecs,attr"`
	Representation []Representation `xml:"Representation"`
}

type Representation struct {
	ID                string       `xml:"id,attr"`
	Bandwidth         int          `xml:"bandwidth,attr"`
	Width             int          `xml:"width,attr,omitempty"`
	Height            int          `xml:"height,attr,omitempty"`
	AudioSamplingRate int          `xml:"audioSamplingRate,attr,omitempty"`
	BaseURL           string       `xml:"BaseURL"`
	SegmentBase       *SegmentBase `xml:"SegmentBase"`
}

type SegmentBase struct {
	IndexRange     string         `xml:"indexRange,attr"`
	Initialization Initialization `xml:"Initialization"`
}

type Initialization struct {
	Range string `xml:"range,attr"`
}

// Synthesize builds the DASH document text for one video/audio descriptor
// pair. durationSec <= 0 falls back to DefaultDurationSec.
func Synthesize(video, audio formats.Descriptor, durationSec int64) (string, error) {
	if durationSec <= 0 {
		durationSec = DefaultDurationSec
	}
	dur := fmt.Sprintf("PT%dS", durationSec)

	doc := MPD{
		Xmlns:                     "urn:mpeg:dash:schema:mpd:2011",
		Profiles:                  "urn:mpeg:dash:profile:isoff-on-demand:2011",
		Type:                      "static",
		MediaPresentationDuration: dur,
		MinBufferTime:             "PT1.5S",
		Period: Period{
			Duration: dur,
			AdaptationSets: []AdaptationSet{
				{
					MimeType: baseMime(video),
					Codecs:   video.Codecs,
					Representation: []Representation{{
						ID:          fmt.Sprintf("%d", video.Itag),
						Bandwidth:   video.Bitrate,
						Width:       video.Width,
						Height:      video.Height,
						BaseURL:     video.URL,
						SegmentBase: segmentBase(video),
					}},
				},
				{
					MimeType: baseMime(audio),
					Codecs:   audio.Codecs,
					Representation: []Representation{{
						ID:                fmt.Sprintf("%d", audio.Itag),
						Bandwidth:         audio.Bitrate,
						AudioSamplingRate: audio.AudioSampleRate,
						BaseURL:           audio.URL,
						SegmentBase:       segmentBase(audio),
					}},
				},
			},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(body), nil
}

// Parse reads a synthesized document back. Used by tests and by callers
// that need to inspect a stored artifact.
func Parse(doc string) (*MPD, error) {
	var out MPD
	if err := xml.Unmarshal([]byte(doc), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Store writes the document into the transient cache directory under a
// deterministic per-video name and returns the artifact path. Any failure
// means "manifest unavailable"; callers fall back to muxed selection.
func Store(fs afero.Fs, cacheDir, videoID, doc string) (string, error) {
	if err := fs.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}
	path := ArtifactPath(cacheDir, videoID)
	if err := afero.WriteFile(fs, path, []byte(doc), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ArtifactPath is the deterministic storage location for a video's manifest.
func ArtifactPath(cacheDir, videoID string) string {
	return filepath.Join(cacheDir, "manifest_"+videoID+".mpd")
}

func segmentBase(d formats.Descriptor) *SegmentBase {
	sb := &SegmentBase{
		IndexRange:     sentinelRange,
		Initialization: Initialization{Range: sentinelRange},
	}
	if d.IndexRange != nil {
		sb.IndexRange = fmt.Sprintf("%d-%d", d.IndexRange.Start, d.IndexRange.End)
	}
	if d.InitRange != nil {
		sb.Initialization.Range = fmt.Sprintf("%d-%d", d.InitRange.Start, d.InitRange.End)
	}
	return sb
}

// baseMime strips codec parameters from an upstream mime string.
func baseMime(d formats.Descriptor) string {
	major := d.MajorMime()
	container := d.Container()
	if major == "" || container == "" {
		return d.MimeType
	}
	return major + "/" + container
}
