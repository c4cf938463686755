package innertube

// ClientProfile is one disguised request identity for the player endpoint.
// The catalog is closed: every profile is a fully-typed record defined at
// process start, never assembled from loose properties at runtime.
type ClientProfile struct {
	// Name is the Innertube clientName ("ANDROID", "IOS", ...).
	Name    string
	Version string
	// ContextNameID is the numeric id sent in the X-YouTube-Client-Name
	// header.
	ContextNameID int
	UserAgent     string
	APIKey        string
	Host          string

	// DeviceMake, DeviceModel, OsName, OsVersion and AndroidSdkVersion fill
	// the client context payload for mobile profiles.
	DeviceMake        string
	DeviceModel       string
	OsName            string
	OsVersion         string
	AndroidSdkVersion int

	// Locale-bound profiles pin hl/gl; empty values fall back to "en"/"US".
	AcceptLanguage string
	Region         string

	// Embedded-playback profiles carry a thirdParty embed context.
	Screen string // "EMBED" for embedded players
}

func (p ClientProfile) acceptLanguage() string {
	if p.AcceptLanguage == "" {
		return "en"
	}
	return p.AcceptLanguage
}

func (p ClientProfile) region() string {
	if p.Region == "" {
		return "US"
	}
	return p.Region
}
