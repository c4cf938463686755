package extractor

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/johnneerdael/NuvioMobile/internal/innertube"
)

// Config holds construction-time settings. The host application supplies
// everything; zero values fall back to library defaults.
type Config struct {
	// HTTPClient is used for all upstream requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// RequestTimeout bounds one whole resolution. Defaults to 30s.
	RequestTimeout time.Duration

	// AttemptTimeout bounds one profile attempt inside the negotiation
	// chain. Defaults to 10s.
	AttemptTimeout time.Duration

	// CacheTTL and CacheCapacity bound the resolved-stream cache.
	CacheTTL      time.Duration
	CacheCapacity int

	// CacheDir is the transient platform cache directory receiving
	// synthesized manifest artifacts. Defaults to os.TempDir().
	CacheDir string

	// Fs is the filesystem manifests are written to. Defaults to the OS
	// filesystem; tests inject afero.NewMemMapFs().
	Fs afero.Fs

	// Logger receives diagnostic events. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// Catalog overrides the client profile trial order (tests only; the
	// production catalog is fixed).
	Catalog []innertube.ClientProfile

	// PlayerBaseURL overrides the upstream endpoint host (tests only).
	PlayerBaseURL string
}

const defaultRequestTimeout = 30 * time.Second

func withDefaultTimeout(cfg Config) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return defaultRequestTimeout
}
