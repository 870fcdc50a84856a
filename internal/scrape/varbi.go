package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/andrada/kijobs/internal/config"
	"github.com/andrada/kijobs/internal/model"
	"github.com/andrada/kijobs/internal/ratelimit"
)

const (
	doctoralBaseURL = "https://kidoktorand.varbi.com"
	staffBaseURL    = "https://ki.varbi.com"
	listingPath     = "/en/"
)

// Varbi job URLs carry the posting ID as /what:job/jobID:12345/ or jobID=12345.
var varbiJobIDRe = regexp.MustCompile(`jobID[=:](\d+)`)

// Structured listing containers Varbi boards have been seen to use. When none
// match, the adapter falls back to scanning raw job links.
const varbiListingSelector = `.job-listing, .vacancy, article.job, .list-item, tr.job-row, .job-item, a[href*="/what:job/"]`

// Ensure Varbi implements model.Fetcher.
var _ model.Fetcher = (*Varbi)(nil)

// Varbi scrapes a Varbi-hosted job board. KI runs two: the doctoral board
// (deadlines only on detail pages) and the staff board (deadlines near the
// listing link).
type Varbi struct {
	source        model.Source
	baseURL       string
	client        *http.Client
	userAgent     string
	fetchDetails  bool // fetch each posting's detail page to read the deadline
	titleFallback bool // fall back to parent text when the link text is too short
	limiter       *ratelimit.HostLimiter
	detailTimeout time.Duration
	logger        *slog.Logger
}

// NewKIDoctoral returns the adapter for kidoktorand.varbi.com. Detail pages
// are fetched per posting to read deadlines, throttled by the shared limiter.
func NewKIDoctoral(client *http.Client, httpCfg config.HTTPConfig, limiter *ratelimit.HostLimiter, logger *slog.Logger) *Varbi {
	return &Varbi{
		source:        model.SourceKIDoctoral,
		baseURL:       doctoralBaseURL,
		client:        client,
		userAgent:     httpCfg.UserAgent,
		fetchDetails:  true,
		limiter:       limiter,
		detailTimeout: httpCfg.DetailTimeout,
		logger:        logger,
	}
}

// NewKIStaff returns the adapter for ki.varbi.com. Deadlines are parsed from
// the text surrounding each listing link.
func NewKIStaff(client *http.Client, httpCfg config.HTTPConfig, logger *slog.Logger) *Varbi {
	return &Varbi{
		source:        model.SourceKIStaff,
		baseURL:       staffBaseURL,
		client:        client,
		userAgent:     httpCfg.UserAgent,
		titleFallback: true,
		logger:        logger,
	}
}

// FetchPostings scrapes the board's listing page and returns its postings.
func (v *Varbi) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	listURL := v.baseURL + listingPath
	v.logger.Info("fetching listing", "source", v.source, "url", listURL)

	doc, err := fetchDocument(ctx, v.client, listURL, v.userAgent)
	if err != nil {
		return nil, err
	}

	var postings []model.Posting
	listings := doc.Find(varbiListingSelector)
	if listings.Length() > 0 {
		listings.Each(func(_ int, sel *goquery.Selection) {
			if p, ok := v.parseListing(sel); ok {
				postings = append(postings, p)
			}
		})
	} else {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if p, ok := v.parseLink(sel); ok {
				postings = append(postings, p)
			}
		})
	}

	postings = dedupeByID(postings)

	if v.fetchDetails {
		v.logger.Info("fetching deadlines from detail pages", "source", v.source, "postings", len(postings))
		for i := range postings {
			deadline, date := v.fetchDeadline(ctx, postings[i].URL)
			if deadline != "" {
				postings[i].Deadline = deadline
				postings[i].DeadlineDate = date
			}
		}
	}

	return postings, nil
}

// parseListing extracts a posting from a structured listing container.
func (v *Varbi) parseListing(sel *goquery.Selection) (model.Posting, bool) {
	link := sel
	if !sel.Is("a") {
		link = sel.Find("a[href]").First()
		if link.Length() == 0 {
			return model.Posting{}, false
		}
	}

	href := link.AttrOr("href", "")
	jobID := extractVarbiJobID(href)
	if jobID == "" {
		return model.Posting{}, false
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		return model.Posting{}, false
	}

	deadline, date := parseDeadlineText(sel.Text())

	return model.Posting{
		ID:           string(v.source) + "_" + jobID,
		Title:        truncate(title, 200),
		URL:          absoluteURL(v.baseURL, href),
		Deadline:     deadline,
		DeadlineDate: date,
		Source:       v.source,
	}, true
}

// parseLink extracts a posting from a bare job link found in the fallback scan.
func (v *Varbi) parseLink(sel *goquery.Selection) (model.Posting, bool) {
	href := sel.AttrOr("href", "")
	jobID := extractVarbiJobID(href)
	if jobID == "" {
		return model.Posting{}, false
	}

	title := strings.TrimSpace(sel.Text())
	if v.titleFallback && len(title) < 5 {
		title = strings.TrimSpace(sel.Parent().Text())
	}
	if len(title) < 5 {
		return model.Posting{}, false
	}

	var deadline string
	var date *time.Time
	if !v.fetchDetails {
		deadline, date = findNearbyDeadline(sel)
	}

	return model.Posting{
		ID:           string(v.source) + "_" + jobID,
		Title:        truncate(title, 200),
		URL:          absoluteURL(v.baseURL, href),
		Deadline:     deadline,
		DeadlineDate: date,
		Source:       v.source,
	}, true
}

// fetchDeadline loads a posting's detail page and scans it for the
// "Last application date" label. Failures only cost the deadline, never the run.
func (v *Varbi) fetchDeadline(ctx context.Context, postingURL string) (string, *time.Time) {
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx, hostOf(postingURL)); err != nil {
			return "", nil
		}
	}

	detailCtx := ctx
	if v.detailTimeout > 0 {
		var cancel context.CancelFunc
		detailCtx, cancel = context.WithTimeout(ctx, v.detailTimeout)
		defer cancel()
	}

	doc, err := fetchDocument(detailCtx, v.client, postingURL, v.userAgent)
	if err != nil {
		v.logger.Debug("could not fetch deadline", "url", postingURL, "error", err)
		return "", nil
	}

	return parseDetailDeadline(doc.Text())
}

// findNearbyDeadline walks up to 5 ancestor levels looking for deadline text
// around the listing link.
func findNearbyDeadline(sel *goquery.Selection) (string, *time.Time) {
	parent := sel.Parent()
	for i := 0; i < 5 && parent.Length() > 0; i++ {
		if deadline, date := parseDeadlineText(parent.Text()); deadline != "" {
			return deadline, date
		}
		parent = parent.Parent()
	}
	return "", nil
}

func extractVarbiJobID(href string) string {
	m := varbiJobIDRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

func dedupeByID(postings []model.Posting) []model.Posting {
	seen := make(map[string]struct{}, len(postings))
	unique := postings[:0]
	for _, p := range postings {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
