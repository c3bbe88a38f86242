package httputil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxFilenameBytes keeps generated names under common filesystem limits
// with room for an extension.
const maxFilenameBytes = 200

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// NormalizeLink turns a scheme-less or protocol-relative link into an
// HTTPS URL. Links with any other scheme are rejected.
func NormalizeLink(link string) (string, error) {
	switch {
	case strings.HasPrefix(link, "//"):
		link = "https:" + link
	case strings.HasPrefix(link, "http://"):
		link = "https://" + strings.TrimPrefix(link, "http://")
	case !strings.Contains(link, "://"):
		link = "https://" + link
	}
	if err := ValidateURL(link); err != nil {
		return "", err
	}
	return link, nil
}

// SanitizeFilename turns an arbitrary title into a single safe path element.
// Separators and characters reserved on common filesystems become "_", and
// the result never starts with a dot or exceeds maxFilenameBytes.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"\n", " ",
		"\r", " ",
		"\t", " ",
	)
	name = replacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.TrimLeft(name, ". ")

	for len(name) > maxFilenameBytes {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	name = strings.TrimRight(name, ". ")

	if name == "" {
		return "untitled"
	}
	return name
}

// SafeDownloadPath resolves and validates a download path ensuring it stays within the target directory.
func SafeDownloadPath(dir, filename string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	full := filepath.Join(absDir, filepath.Base(filename))
	if !strings.HasPrefix(full, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", full, absDir)
	}

	return full, nil
}
