// Package fallback talks to the remote resolution service that is consulted
// only after on-device negotiation is exhausted. URLs returned by the
// service are untrusted input and must pass the host allow-list or carry a
// recognized media extension before being used or cached.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// ErrUntrustedURL is returned when the service hands back a URL outside the
// allow-list with no recognized media extension.
var ErrUntrustedURL = errors.New("fallback returned untrusted url")

// ErrNoResult is returned when the service has nothing for the query.
var ErrNoResult = errors.New("fallback returned no url")

var trustedHostSuffixes = []string{
	"googlevideo.com",
	"youtube.com",
	"ytimg.com",
	"commondatastorage.googleapis.com",
}

var trustedExtensions = []string{".mp4", ".m4a", ".webm", ".mpd", ".m3u8"}

// Client queries the remote fallback endpoints.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  zerolog.Logger
}

func New(baseURL string, httpc *http.Client, logger zerolog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}
}

// SearchQuery describes one fallback search.
type SearchQuery struct {
	Title     string
	Year      int
	TMDBID    int64
	MediaType string // "movie" or "tv"
}

// Search asks the service to find a stream by catalog metadata.
func (c *Client) Search(ctx context.Context, q SearchQuery) (string, error) {
	params := url.Values{}
	params.Set("title", q.Title)
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	if q.TMDBID > 0 {
		params.Set("tmdbId", strconv.FormatInt(q.TMDBID, 10))
	}
	if q.MediaType != "" {
		params.Set("type", q.MediaType)
	}
	return c.fetchURL(ctx, c.baseURL+"/search?"+params.Encode())
}

// ResolveYouTubeURL asks the service to resolve a specific watch URL.
func (c *Client) ResolveYouTubeURL(ctx context.Context, youtubeURL string) (string, error) {
	params := url.Values{}
	params.Set("youtube_url", youtubeURL)
	return c.fetchURL(ctx, c.baseURL+"/resolve?"+params.Encode())
}

func (c *Client) fetchURL(ctx context.Context, endpoint string) (string, error) {
	var result struct {
		URL string `json:"url"`
	}

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("fallback request failed: %s", resp.Status)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("fallback request failed: %s", resp.Status))
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	if result.URL == "" {
		return "", ErrNoResult
	}
	if !Trusted(result.URL) {
		c.logger.Warn().Str("url", result.URL).Msg("fallback url rejected by trust check")
		return "", ErrUntrustedURL
	}
	return result.URL, nil
}

// Trusted reports whether a fallback-provided URL may be used or cached:
// its host must sit under a known hosting domain, or its path must end in
// a recognized media extension.
func Trusted(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range trustedHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, trusted := range trustedExtensions {
		if ext == trusted {
			return true
		}
	}
	return false
}
