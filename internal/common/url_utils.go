package common

import (
	"fmt"
	"net/url"
	"strings"
)

// APIPrefix is the fixed base path of every backend endpoint
const APIPrefix = "/api/v1"

// NormalizeBaseURL parses a backend base URL and strips trailing slashes and any
// already-present /api/v1 suffix, so "http://h:8000/", "http://h:8000/api/v1" and
// "http://h:8000" all normalize to "http://h:8000".
func NormalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid backend url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid backend url %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid backend url %q: missing host", raw)
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, APIPrefix)
	parsed.Path = strings.TrimRight(path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return parsed.String(), nil
}

// JoinAPIPath builds base + /api/v1 + path. path may be given with or without a leading slash.
func JoinAPIPath(base, path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + APIPrefix + path
}
