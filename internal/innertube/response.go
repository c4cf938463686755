package innertube

import "strings"

// PlayerResponse is the subset of the /player response this module consumes.
type PlayerResponse struct {
	PlayabilityStatus PlayabilityStatus `json:"playabilityStatus"`
	StreamingData     StreamingData     `json:"streamingData"`
	VideoDetails      VideoDetails      `json:"videoDetails"`
}

type PlayabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (p *PlayabilityStatus) IsOK() bool {
	// Some profiles omit the block entirely on success.
	return p.Status == "" || p.Status == "OK"
}

// IsBlocked reports explicit unplayable / login-gated statuses.
func (p *PlayabilityStatus) IsBlocked() bool {
	s := strings.ToUpper(p.Status)
	return s == "UNPLAYABLE" || s == "LOGIN_REQUIRED" || s == "ERROR" || s == "CONTENT_CHECK_REQUIRED"
}

type StreamingData struct {
	ExpiresInSeconds string   `json:"expiresInSeconds"`
	Formats          []Format `json:"formats"`
	AdaptiveFormats  []Format `json:"adaptiveFormats"`
}

// Format is one raw descriptor from either format list. Entries carrying
// only a signatureCipher have no URL and are dropped during classification.
type Format struct {
	Itag             int    `json:"itag"`
	URL              string `json:"url"`
	MimeType         string `json:"mimeType"`
	Bitrate          int    `json:"bitrate"`
	AverageBitrate   int    `json:"averageBitrate"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	InitRange        *Range `json:"initRange"`
	IndexRange       *Range `json:"indexRange"`
	ContentLength    string `json:"contentLength"`
	Quality          string `json:"quality"`
	QualityLabel     string `json:"qualityLabel"`
	AudioQuality     string `json:"audioQuality"`
	ApproxDurationMs string `json:"approxDurationMs"`
	AudioSampleRate  string `json:"audioSampleRate"`
	AudioChannels    int    `json:"audioChannels"`
}

type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type VideoDetails struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	LengthSeconds string `json:"lengthSeconds"`
	Author        string `json:"author"`
	IsLiveContent bool   `json:"isLiveContent"`
}
