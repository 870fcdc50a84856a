package scrape

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/andrada/kijobs/internal/config"
	"github.com/andrada/kijobs/internal/model"
)

const academicPositionsBaseURL = "https://academicpositions.com"

// KI's PhD listings, pre-filtered by the site.
const academicPositionsListingPath = "/jobs/employer/karolinska-institutet/position/phd"

var (
	apJobIDRe  = regexp.MustCompile(`/jobs?/(\d+)`)
	apSlugRe   = regexp.MustCompile(`/jobs?/([a-z0-9-]+)`)
	apJobHref  = regexp.MustCompile(`/jobs/\d+`)
)

const apCardSelector = `article, .job-card, .job-listing, .job-item, [class*="JobCard"], [class*="job-card"]`

// Ensure AcademicPositions implements model.Fetcher.
var _ model.Fetcher = (*AcademicPositions)(nil)

// AcademicPositions scrapes KI PhD listings from academicpositions.com.
type AcademicPositions struct {
	baseURL   string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewAcademicPositions returns the adapter for academicpositions.com.
func NewAcademicPositions(client *http.Client, httpCfg config.HTTPConfig, logger *slog.Logger) *AcademicPositions {
	return &AcademicPositions{
		baseURL:   academicPositionsBaseURL,
		client:    client,
		userAgent: httpCfg.UserAgent,
		logger:    logger,
	}
}

// FetchPostings scrapes the listing page and returns its postings.
func (a *AcademicPositions) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	listURL := a.baseURL + academicPositionsListingPath
	a.logger.Info("fetching listing", "source", model.SourceAcademicPositions, "url", listURL)

	doc, err := fetchDocument(ctx, a.client, listURL, a.userAgent)
	if err != nil {
		return nil, err
	}

	var postings []model.Posting
	cards := doc.Find(apCardSelector)
	if cards.Length() > 0 {
		cards.Each(func(_ int, card *goquery.Selection) {
			if p, ok := a.parseCard(card); ok {
				postings = append(postings, p)
			}
		})
	} else {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if p, ok := a.parseLink(sel); ok {
				postings = append(postings, p)
			}
		})
	}

	return dedupeByID(postings), nil
}

// parseCard extracts a posting from a job-card container.
func (a *AcademicPositions) parseCard(card *goquery.Selection) (model.Posting, bool) {
	link := card.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return apJobHref.MatchString(s.AttrOr("href", ""))
	}).First()
	if link.Length() == 0 {
		link = card.Find("a[href]").First()
	}
	if link.Length() == 0 {
		return model.Posting{}, false
	}

	href := link.AttrOr("href", "")
	jobID := extractAPJobID(href)
	if jobID == "" {
		// Pathological markup: derive a stable ID from the href itself.
		sum := md5.Sum([]byte(href))
		jobID = hex.EncodeToString(sum[:])[:10]
	}

	title := strings.TrimSpace(card.Find("h2, h3, h4").First().Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	if len(title) < 5 {
		return model.Posting{}, false
	}

	deadline, date := parseDeadlineText(card.Text())

	description := strings.TrimSpace(card.Find("p, .description").First().Text())

	return model.Posting{
		ID:           string(model.SourceAcademicPositions) + "_" + jobID,
		Title:        title,
		URL:          absoluteURL(a.baseURL, href),
		Deadline:     deadline,
		DeadlineDate: date,
		Source:       model.SourceAcademicPositions,
		Description:  truncate(description, 200),
	}, true
}

// parseLink extracts a posting from a bare job link found in the fallback scan.
func (a *AcademicPositions) parseLink(sel *goquery.Selection) (model.Posting, bool) {
	href := sel.AttrOr("href", "")
	if !apJobHref.MatchString(href) {
		return model.Posting{}, false
	}
	jobID := extractAPJobID(href)
	if jobID == "" {
		return model.Posting{}, false
	}

	title := strings.TrimSpace(sel.Text())
	if len(title) < 5 {
		return model.Posting{}, false
	}

	deadline, date := findNearbyDeadline(sel)

	return model.Posting{
		ID:           string(model.SourceAcademicPositions) + "_" + jobID,
		Title:        title,
		URL:          absoluteURL(a.baseURL, href),
		Deadline:     deadline,
		DeadlineDate: date,
		Source:       model.SourceAcademicPositions,
	}, true
}

func extractAPJobID(href string) string {
	if m := apJobIDRe.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	if m := apSlugRe.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return ""
}
