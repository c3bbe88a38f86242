// Package meta looks up display metadata for a link. Lookups are best
// effort: callers fall back to the bare link when they fail.
package meta

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ytresolve/internal/httputil"
)

// titleSuffix is appended by YouTube to the <title> element.
const titleSuffix = " - YouTube"

// FetchTitle fetches the page for link and returns its title.
func FetchTitle(ctx context.Context, client *http.Client, link string) (string, error) {
	pageURL, err := httputil.NormalizeLink(link)
	if err != nil {
		return "", fmt.Errorf("invalid link: %w", err)
	}

	body, err := httputil.GetPage(ctx, client, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	title := ParseTitle(doc)
	if title == "" {
		return "", fmt.Errorf("no title on %s", pageURL)
	}
	return title, nil
}

// ParseTitle reads og:title, falling back to the <title> element.
func ParseTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
}
