// Package httputil fetches watch pages for metadata and sanitizes the
// strings that end up in links and file names.
package httputil

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageBytes caps how much of a page is read. Watch pages carry the
// metadata in <head>, well inside this limit.
const maxPageBytes = 5 << 20

const maxRedirects = 5

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// ErrRedirect is returned when a page redirects too often or off HTTPS.
var ErrRedirect = errors.New("refusing redirect")

// NewClient returns a client for metadata lookups. TLS 1.2 is the floor and
// redirects must stay on HTTPS.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        2,
			IdleConnTimeout:     15 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
		CheckRedirect: checkRedirect,
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: more than %d hops", ErrRedirect, maxRedirects)
	}
	if err := ValidateURL(req.URL.String()); err != nil {
		return fmt.Errorf("%w to %s: %v", ErrRedirect, req.URL.Redacted(), err)
	}
	return nil
}

// GetPage returns up to maxPageBytes of the page at url. Responses outside
// 2xx are errors. The consent cookie skips the EU consent interstitial, which
// has no video title.
func GetPage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en")
	req.AddCookie(&http.Cookie{Name: "SOCS", Value: "CAI"})

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: HTTP %s", url, resp.Status)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return page, nil
}
