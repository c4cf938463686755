package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern   = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	queryParamSearch = regexp.MustCompile(`[?&]v=([0-9A-Za-z_-]{11})`)
)

// NormalizeIdentifier turns arbitrary input (bare id, watch link, short
// link, embed/shorts path, or any string embedding a v= parameter) into the
// canonical 11-character video id. Pure and idempotent: a canonical id
// normalizes to itself.
//
// Resolution priority: bare id, short-link path, v= query parameter,
// embed/shorts/v path segment, then a raw-string v= search for inputs that
// do not parse as URLs.
func NormalizeIdentifier(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidIdentifier
	}
	if videoIDPattern.MatchString(s) {
		return s, nil
	}

	u, parseErr := url.Parse(withScheme(s))
	if parseErr == nil && u.Host != "" {
		if host := strings.ToLower(u.Hostname()); host == "youtu.be" {
			if id := firstPathSegment(u.Path); videoIDPattern.MatchString(id) {
				return id, nil
			}
		}
		if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		if id := idAfterPathMarker(u.Path); videoIDPattern.MatchString(id) {
			return id, nil
		}
		return "", ErrInvalidIdentifier
	}

	if m := queryParamSearch.FindStringSubmatch(s); len(m) == 2 {
		return m[1], nil
	}
	return "", ErrInvalidIdentifier
}

// withScheme makes scheme-less inputs like "youtube.com/watch?v=x"
// parseable as absolute URLs.
func withScheme(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	if strings.HasPrefix(s, "youtube.com/") ||
		strings.HasPrefix(s, "www.youtube.com/") ||
		strings.HasPrefix(s, "m.youtube.com/") ||
		strings.HasPrefix(s, "youtu.be/") {
		return "https://" + s
	}
	return s
}

func firstPathSegment(p string) string {
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// idAfterPathMarker handles /embed/<id>, /shorts/<id>, /v/<id> and
// /live/<id> shapes.
func idAfterPathMarker(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i := 0; i < len(segs)-1; i++ {
		switch segs[i] {
		case "embed", "shorts", "v", "live":
			return segs[i+1]
		}
	}
	return ""
}
