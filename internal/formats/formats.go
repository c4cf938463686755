package formats

import (
	"mime"
	"strconv"
	"strings"

	"github.com/johnneerdael/NuvioMobile/internal/innertube"
)

// Descriptor is one normalized upstream format entry.
type Descriptor struct {
	Itag             int
	URL              string
	MimeType         string
	Codecs           string
	Bitrate          int
	Width            int
	Height           int
	QualityLabel     string
	AudioQuality     string
	AudioSampleRate  int
	AudioChannels    int
	ApproxDurationMs int64
	ContentLength    int64
	InitRange        *ByteRange
	IndexRange       *ByteRange
}

// ByteRange is an inclusive byte span inside a media file.
type ByteRange struct {
	Start int64
	End   int64
}

// MajorMime returns the mime major type ("video", "audio") of the descriptor.
func (d Descriptor) MajorMime() string {
	mediaType, _, err := mime.ParseMediaType(d.MimeType)
	if err != nil {
		// Fall back to a raw prefix split for upstream mime strings the
		// stdlib parser rejects.
		mediaType = strings.TrimSpace(strings.SplitN(d.MimeType, ";", 2)[0])
	}
	parts := strings.SplitN(mediaType, "/", 2)
	return strings.ToLower(parts[0])
}

// Container returns the mime subtype ("mp4", "webm", "3gpp").
func (d Descriptor) Container() string {
	mediaType, _, err := mime.ParseMediaType(d.MimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(d.MimeType, ";", 2)[0])
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

func fromRaw(f innertube.Format) Descriptor {
	d := Descriptor{
		Itag:          f.Itag,
		URL:           f.URL,
		MimeType:      f.MimeType,
		Codecs:        parseCodecs(f.MimeType),
		Bitrate:       f.Bitrate,
		Width:         f.Width,
		Height:        f.Height,
		QualityLabel:  f.QualityLabel,
		AudioQuality:  f.AudioQuality,
		AudioChannels: f.AudioChannels,
	}
	if f.AudioSampleRate != "" {
		d.AudioSampleRate, _ = strconv.Atoi(f.AudioSampleRate)
	}
	if f.ApproxDurationMs != "" {
		d.ApproxDurationMs, _ = strconv.ParseInt(f.ApproxDurationMs, 10, 64)
	}
	if f.ContentLength != "" {
		d.ContentLength, _ = strconv.ParseInt(f.ContentLength, 10, 64)
	}
	if f.InitRange != nil {
		s, _ := strconv.ParseInt(f.InitRange.Start, 10, 64)
		e, _ := strconv.ParseInt(f.InitRange.End, 10, 64)
		d.InitRange = &ByteRange{Start: s, End: e}
	}
	if f.IndexRange != nil {
		s, _ := strconv.ParseInt(f.IndexRange.Start, 10, 64)
		e, _ := strconv.ParseInt(f.IndexRange.End, 10, 64)
		d.IndexRange = &ByteRange{Start: s, End: e}
	}
	return d
}

// parseCodecs extracts the codecs parameter from an upstream mime string,
// e.g. `video/mp4; codecs="avc1.64001F, mp4a.40.2"` -> `avc1.64001F, mp4a.40.2`.
func parseCodecs(mimeType string) string {
	_, params, err := mime.ParseMediaType(mimeType)
	if err == nil {
		if c, ok := params["codecs"]; ok {
			return c
		}
	}
	// Upstream occasionally emits mime strings with unquoted plus signs the
	// stdlib parser rejects; recover the codecs value by hand.
	idx := strings.Index(mimeType, "codecs=")
	if idx < 0 {
		return ""
	}
	c := mimeType[idx+len("codecs="):]
	c = strings.Trim(c, `"`)
	return c
}
