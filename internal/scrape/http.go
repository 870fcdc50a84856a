// Package scrape contains one adapter per listing site. Each adapter fetches
// a listing page, extracts raw postings with layered selector fallbacks, and
// returns the common Posting shape. Markup on these sites is unversioned and
// changes without notice; the fallbacks exist to survive that.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fetchDocument performs a GET with the configured User-Agent and parses the
// response body into a goquery document.
func fetchDocument(ctx context.Context, client *http.Client, url, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// absoluteURL resolves an href against the site base.
func absoluteURL(base, href string) string {
	switch {
	case strings.HasPrefix(href, "/"):
		return base + href
	case !strings.HasPrefix(href, "http"):
		return base + "/" + href
	default:
		return href
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
