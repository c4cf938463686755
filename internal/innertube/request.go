package innertube

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// PlayerRequest is the JSON body for the /player endpoint.
type PlayerRequest struct {
	Context        Context `json:"context"`
	VideoID        string  `json:"videoId"`
	CPN            string  `json:"cpn,omitempty"`
	ContentCheckOk bool    `json:"contentCheckOk"`
	RacyCheckOk    bool    `json:"racyCheckOk"`
}

type Context struct {
	Client     ClientInfo  `json:"client"`
	ThirdParty *ThirdParty `json:"thirdParty,omitempty"`
}

type ClientInfo struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	DeviceMake        string `json:"deviceMake,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	UserAgent         string `json:"userAgent,omitempty"`
	OsName            string `json:"osName,omitempty"`
	OsVersion         string `json:"osVersion,omitempty"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	AcceptLanguage    string `json:"hl"`
	Region            string `json:"gl"`
	TimeZone          string `json:"timeZone"`
	UtcOffsetMinutes  int    `json:"utcOffsetMinutes"`
}

type ThirdParty struct {
	EmbedUrl string `json:"embedUrl"`
}

// NewPlayerRequest builds the player request for one profile attempt. The
// content-policy acknowledgement flags are always set; embedded profiles get
// a thirdParty embed context pointing at the watch page.
func NewPlayerRequest(profile ClientProfile, videoID string) *PlayerRequest {
	req := &PlayerRequest{
		VideoID:        videoID,
		CPN:            newCPN(),
		ContentCheckOk: true,
		RacyCheckOk:    true,
		Context: Context{
			Client: ClientInfo{
				ClientName:        profile.Name,
				ClientVersion:     profile.Version,
				DeviceMake:        profile.DeviceMake,
				DeviceModel:       profile.DeviceModel,
				UserAgent:         profile.UserAgent,
				OsName:            profile.OsName,
				OsVersion:         profile.OsVersion,
				AndroidSdkVersion: profile.AndroidSdkVersion,
				AcceptLanguage:    profile.acceptLanguage(),
				Region:            profile.region(),
				TimeZone:          "UTC",
			},
		},
	}
	if profile.Screen == "EMBED" {
		req.Context.ThirdParty = &ThirdParty{
			EmbedUrl: "https://" + profile.Host + "/watch?v=" + videoID,
		}
	}
	return req
}

// MarshalRequest serializes the request body.
func MarshalRequest(req *PlayerRequest) ([]byte, error) {
	return json.Marshal(req)
}

// newCPN derives a 16-character client playback nonce from a random UUID.
// The nonce alphabet tolerates hex plus dashes, so the raw UUID prefix is
// fine.
func newCPN() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:16]
}
