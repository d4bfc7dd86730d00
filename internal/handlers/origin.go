package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/gommon/log"
)

// originChecker builds the websocket origin policy from the configured
// allow-list. "*" allows every origin; entries are compared on normalized
// scheme://host. A request without an Origin header (non-browser client) is
// allowed.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	normalized := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if norm, ok := normalizeOrigin(trimmed); ok {
			normalized[norm] = struct{}{}
		} else if trimmed != "" {
			log.Warnf("ignoring invalid origin in configuration: %q", origin)
		}
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" {
			return true
		}
		if allowAll {
			return true
		}
		norm, ok := normalizeOrigin(header)
		if !ok {
			return false
		}
		if _, exists := normalized[norm]; exists {
			return true
		}
		log.Warnf("blocked websocket connection from disallowed origin %q", header)
		return false
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
