package selector

import (
	"github.com/johnneerdael/NuvioMobile/internal/formats"
)

// Fixed itag preference tables, best to worst. Itags identify one specific
// upstream encoding profile; the tables encode which profiles play reliably
// on the embedded player.
var (
	muxedPreference = []int{22, 18, 59, 37, 78, 76, 74, 72}

	adaptiveVideoPreference = []int{137, 248, 136, 247, 135, 244, 134, 243, 133, 242, 160, 278}

	adaptiveAudioPreference = []int{140, 251, 250, 249, 139}
)

const (
	preferenceWeight = 100
	heightCap        = 720
	bitrateCap       = 3_000_000
)

// ScoreMuxed computes the ranking score for one muxed descriptor:
// preference bonus plus capped height and bitrate signals.
func ScoreMuxed(d formats.Descriptor) int {
	score := preferenceBonus(d.Itag, muxedPreference)
	score += minInt(d.Height, heightCap) * 10
	score += minInt(d.Bitrate, bitrateCap) / 1000
	return score
}

// SelectMuxed picks the best muxed descriptor. mp4-container candidates are
// preferred when any exist; within the pool the highest score wins, first
// occurrence on ties.
func SelectMuxed(muxed []formats.Descriptor) (formats.Descriptor, bool) {
	if len(muxed) == 0 {
		return formats.Descriptor{}, false
	}

	pool := muxed
	mp4 := make([]formats.Descriptor, 0, len(muxed))
	for _, d := range muxed {
		if d.Container() == "mp4" {
			mp4 = append(mp4, d)
		}
	}
	if len(mp4) > 0 {
		pool = mp4
	}

	best := pool[0]
	bestScore := ScoreMuxed(best)
	for _, d := range pool[1:] {
		if s := ScoreMuxed(d); s > bestScore {
			best = d
			bestScore = s
		}
	}
	return best, true
}

// SelectAdaptiveVideo picks the adaptive video track by preference rank,
// falling back to the highest-bitrate candidate when no itag is listed.
func SelectAdaptiveVideo(candidates []formats.Descriptor) (formats.Descriptor, bool) {
	return selectByPreference(candidates, adaptiveVideoPreference)
}

// SelectAdaptiveAudio picks the adaptive audio track the same way.
func SelectAdaptiveAudio(candidates []formats.Descriptor) (formats.Descriptor, bool) {
	return selectByPreference(candidates, adaptiveAudioPreference)
}

// selectByPreference scans the preference list in rank order (not candidate
// order) and returns the first matching candidate. When nothing matches the
// table, the max-bitrate candidate wins, so a non-empty pool always yields a
// deterministic winner.
func selectByPreference(candidates []formats.Descriptor, pref []int) (formats.Descriptor, bool) {
	if len(candidates) == 0 {
		return formats.Descriptor{}, false
	}
	for _, itag := range pref {
		for _, d := range candidates {
			if d.Itag == itag {
				return d, true
			}
		}
	}
	best := candidates[0]
	for _, d := range candidates[1:] {
		if d.Bitrate > best.Bitrate {
			best = d
		}
	}
	return best, true
}

func preferenceBonus(itag int, pref []int) int {
	for rank, preferred := range pref {
		if itag == preferred {
			return (len(pref) - rank) * preferenceWeight
		}
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
