package formats

import (
	"strings"

	"github.com/johnneerdael/NuvioMobile/internal/innertube"
)

// Classified splits one player response's descriptors into muxed formats and
// adaptive candidate pools. Descriptors without a direct locator never make
// it into any list.
type Classified struct {
	Muxed         []Descriptor
	AdaptiveVideo []Descriptor
	AdaptiveAudio []Descriptor
}

// HasUsable reports whether the response produced anything the orchestrator
// can turn into a playable stream (muxed, or at least adaptive video).
func (c Classified) HasUsable() bool {
	return len(c.Muxed) > 0 || len(c.AdaptiveVideo) > 0
}

// Classify normalizes and partitions the raw format lists of a player
// response.
//
// Muxed detection is heuristic: a descriptor counts as muxed when its codec
// string carries more than one comma-separated token, or when it carries
// both an audio-quality marker and a quality label. The upstream API
// sometimes places muxed entries in adaptiveFormats; those are folded into
// the muxed list as well. The heuristic can drift with upstream shape
// changes and is kept as-is on purpose (misfolds are visible in debug logs,
// not silently corrected).
func Classify(resp *innertube.PlayerResponse) Classified {
	var out Classified
	if resp == nil {
		return out
	}

	for _, raw := range resp.StreamingData.Formats {
		if raw.URL == "" {
			continue
		}
		d := fromRaw(raw)
		if isMuxed(d) {
			out.Muxed = append(out.Muxed, d)
		}
	}

	for _, raw := range resp.StreamingData.AdaptiveFormats {
		if raw.URL == "" {
			continue
		}
		d := fromRaw(raw)
		if isMuxed(d) {
			out.Muxed = append(out.Muxed, d)
			continue
		}
		switch {
		case isAdaptiveVideo(d):
			out.AdaptiveVideo = append(out.AdaptiveVideo, d)
		case isAdaptiveAudio(d):
			out.AdaptiveAudio = append(out.AdaptiveAudio, d)
		}
	}

	return out
}

func isMuxed(d Descriptor) bool {
	if codecTokens(d.Codecs) > 1 {
		return true
	}
	return d.AudioQuality != "" && d.QualityLabel != ""
}

func isAdaptiveVideo(d Descriptor) bool {
	return d.QualityLabel != "" && d.AudioQuality == "" && d.MajorMime() == "video"
}

func isAdaptiveAudio(d Descriptor) bool {
	return d.AudioQuality != "" && d.QualityLabel == "" && d.MajorMime() == "audio"
}

func codecTokens(codecs string) int {
	if strings.TrimSpace(codecs) == "" {
		return 0
	}
	n := 0
	for _, tok := range strings.Split(codecs, ",") {
		if strings.TrimSpace(tok) != "" {
			n++
		}
	}
	return n
}
