package extractor

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitize replaces every character outside [A-Za-z0-9._-] with '_'.
func sanitize(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// HostPathName derives the artifact base name from host and path.
// Distinct URLs can map to the same name: queries are dropped and
// "/a b" and "/a_b" both become "a_b". The later write wins.
func HostPathName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return sanitize(pageURL)
	}
	return sanitize(u.Host + u.Path)
}

// PathName derives a directory name from the URL path alone.
func PathName(pageURL string) string {
	p := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		p = u.Path
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return "index"
	}
	return sanitize(p)
}

// writeArtifact writes data under reportDir at rel (slash separated) and
// returns rel.
func writeArtifact(reportDir, rel string, data []byte) (string, error) {
	full := filepath.Join(reportDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", err
	}
	return path.Clean(rel), nil
}
