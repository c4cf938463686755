// Package chain drives player-endpoint negotiation across the ordered
// catalog of disguised client profiles. Profiles are tried strictly in
// order with at most one outstanding request; the first profile whose
// response classifies into usable descriptors wins. No backoff, no retries
// of the same profile, no parallel fan-out.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/johnneerdael/NuvioMobile/internal/formats"
	"github.com/johnneerdael/NuvioMobile/internal/innertube"
)

const defaultAttemptTimeout = 10 * time.Second

// Chain negotiates a player response across the profile catalog.
type Chain struct {
	httpClient     *http.Client
	catalog        []innertube.ClientProfile
	attemptTimeout time.Duration
	logger         zerolog.Logger

	// baseURL overrides the per-profile host when non-empty (tests).
	baseURL string
}

// Options configures a Chain.
type Options struct {
	HTTPClient     *http.Client
	Catalog        []innertube.ClientProfile
	AttemptTimeout time.Duration
	Logger         zerolog.Logger
	BaseURL        string
}

func New(opts Options) *Chain {
	c := &Chain{
		httpClient:     opts.HTTPClient,
		catalog:        opts.Catalog,
		attemptTimeout: opts.AttemptTimeout,
		logger:         opts.Logger,
		baseURL:        opts.BaseURL,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if len(c.catalog) == 0 {
		c.catalog = innertube.DefaultCatalog()
	}
	if c.attemptTimeout <= 0 {
		c.attemptTimeout = defaultAttemptTimeout
	}
	return c
}

// Accepted is the outcome of a successful negotiation: the winning profile,
// its raw response, and the classified descriptor pools.
type Accepted struct {
	Profile    string
	Response   *innertube.PlayerResponse
	Classified formats.Classified
}

// Negotiate walks the catalog in order and returns the first acceptable
// response. Transport errors, timeouts, non-success statuses, blocked
// playability and descriptor-free responses all advance to the next
// profile; only catalog exhaustion is an error. Caller cancellation aborts
// the in-flight attempt and stops the walk.
func (c *Chain) Negotiate(ctx context.Context, videoID string) (*Accepted, error) {
	var attempts []AttemptError

	for _, profile := range c.catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		accepted, err := c.attempt(ctx, profile, videoID)
		if err == nil {
			c.logger.Debug().
				Str("profile", profile.Name).
				Str("videoId", videoID).
				Int("muxed", len(accepted.Classified.Muxed)).
				Int("adaptiveVideo", len(accepted.Classified.AdaptiveVideo)).
				Int("adaptiveAudio", len(accepted.Classified.AdaptiveAudio)).
				Msg("profile accepted")
			return accepted, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.logger.Debug().
			Str("profile", profile.Name).
			Str("videoId", videoID).
			Err(err).
			Msg("profile rejected, advancing")
		attempts = append(attempts, AttemptError{Profile: profile.Name, Err: err})
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

func (c *Chain) attempt(ctx context.Context, profile innertube.ClientProfile, videoID string) (*Accepted, error) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	resp, err := c.fetch(ctx, profile, videoID)
	if err != nil {
		return nil, err
	}

	classified := formats.Classify(resp)
	if !classified.HasUsable() {
		return nil, &NoUsableFormatsError{Profile: profile.Name}
	}

	return &Accepted{
		Profile:    profile.Name,
		Response:   resp,
		Classified: classified,
	}, nil
}

func (c *Chain) fetch(ctx context.Context, profile innertube.ClientProfile, videoID string) (*innertube.PlayerResponse, error) {
	base := c.baseURL
	if base == "" {
		base = "https://" + profile.Host
	}
	url := base + "/youtubei/v1/player"
	if profile.APIKey != "" {
		url += "?key=" + neturl.QueryEscape(profile.APIKey)
	}

	body, err := innertube.MarshalRequest(innertube.NewPlayerRequest(profile, videoID))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", profile.UserAgent)
	httpReq.Header.Set("X-YouTube-Client-Name", strconv.Itoa(profile.ContextNameID))
	httpReq.Header.Set("X-YouTube-Client-Version", profile.Version)
	httpReq.Header.Set("Origin", "https://"+profile.Host)
	httpReq.Header.Set("Referer", "https://"+profile.Host+"/watch?v="+videoID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{Profile: profile.Name, StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var playerResp innertube.PlayerResponse
	if err := json.Unmarshal(respBody, &playerResp); err != nil {
		return nil, err
	}

	if !playerResp.PlayabilityStatus.IsOK() {
		return nil, &PlayabilityError{
			Profile: profile.Name,
			Status:  playerResp.PlayabilityStatus.Status,
			Reason:  playerResp.PlayabilityStatus.Reason,
		}
	}

	return &playerResp, nil
}
