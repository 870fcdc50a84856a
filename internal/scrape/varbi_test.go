package scrape

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/andrada/kijobs/internal/config"
	"github.com/andrada/kijobs/internal/model"
	"github.com/andrada/kijobs/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHTTPConfig() config.HTTPConfig {
	return config.Default().HTTP
}

const doctoralListingHTML = `<!DOCTYPE html>
<html><body>
<nav><a href="/en/about">About us</a></nav>
<ul>
  <li><a href="/en/what:job/jobID:12345/type:job/apply:1">PhD student in brain organoid modeling</a></li>
  <li><a href="/en/what:job/jobID:67890/type:job/apply:1">PhD student in cancer genomics</a></li>
  <li><a href="/en/what:job/jobID:12345/type:job/apply:1">PhD student in brain organoid modeling</a></li>
</ul>
</body></html>`

const doctoralDetailHTML = `<!DOCTYPE html>
<html><body>
<h1>PhD student position</h1>
<dl><dt>Last application date</dt><dd>15.Mar.2026</dd></dl>
</body></html>`

func TestVarbi_Doctoral_FetchPostings(t *testing.T) {
	var detailRequests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/en/" {
			io.WriteString(w, doctoralListingHTML)
			return
		}
		detailRequests.Add(1)
		io.WriteString(w, doctoralDetailHTML)
	}))
	defer srv.Close()

	v := NewKIDoctoral(srv.Client(), testHTTPConfig(), ratelimit.NewHostLimiter(0), discardLogger())
	v.baseURL = srv.URL

	postings, err := v.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("FetchPostings() failed: %v", err)
	}

	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2 (duplicate link collapsed)", len(postings))
	}

	p := postings[0]
	if p.ID != "ki_doktorand_12345" {
		t.Errorf("ID = %q, want ki_doktorand_12345", p.ID)
	}
	if p.Title != "PhD student in brain organoid modeling" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.HasPrefix(p.URL, srv.URL+"/en/what:job/jobID:12345") {
		t.Errorf("URL = %q, want it resolved against the board base", p.URL)
	}
	if p.Source != model.SourceKIDoctoral {
		t.Errorf("Source = %q", p.Source)
	}
	if p.Deadline != "15.Mar.2026" {
		t.Errorf("Deadline = %q, want 15.Mar.2026", p.Deadline)
	}
	if p.DeadlineDate == nil || p.DeadlineDate.Format("2006-01-02") != "2026-03-15" {
		t.Errorf("DeadlineDate = %v, want 2026-03-15", p.DeadlineDate)
	}

	if got := detailRequests.Load(); got != 2 {
		t.Errorf("fetched %d detail pages, want 2", got)
	}
}

func TestVarbi_Doctoral_DetailFailureCostsOnlyDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/en/" {
			io.WriteString(w, doctoralListingHTML)
			return
		}
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewKIDoctoral(srv.Client(), testHTTPConfig(), ratelimit.NewHostLimiter(0), discardLogger())
	v.baseURL = srv.URL

	postings, err := v.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("FetchPostings() failed: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}
	for _, p := range postings {
		if p.Deadline != "" || p.DeadlineDate != nil {
			t.Errorf("posting %s has deadline %q, want none", p.ID, p.Deadline)
		}
	}
}

const staffStructuredHTML = `<!DOCTYPE html>
<html><body>
<div class="job-listing">
  <a href="/en/what:job/jobID:11111/apply:1">Research assistant in bioinformatics</a>
  <span>Last application date: 2026-04-01</span>
</div>
<div class="job-listing">
  <a href="/en/what:job/jobID:22222/apply:1">Biomedical analyst</a>
</div>
<div class="job-listing">
  <span>No link in this one</span>
</div>
</body></html>`

func TestVarbi_Staff_StructuredListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, staffStructuredHTML)
	}))
	defer srv.Close()

	v := NewKIStaff(srv.Client(), testHTTPConfig(), discardLogger())
	v.baseURL = srv.URL

	postings, err := v.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("FetchPostings() failed: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	p := postings[0]
	if p.ID != "ki_varbi_11111" {
		t.Errorf("ID = %q, want ki_varbi_11111", p.ID)
	}
	if p.Title != "Research assistant in bioinformatics" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Deadline != "2026-04-01" {
		t.Errorf("Deadline = %q, want 2026-04-01", p.Deadline)
	}
	if p.DeadlineDate == nil {
		t.Error("DeadlineDate = nil, want parsed date")
	}

	if postings[1].Deadline != "" {
		t.Errorf("second posting Deadline = %q, want none", postings[1].Deadline)
	}
}

const staffFallbackHTML = `<!DOCTYPE html>
<html><body>
<nav><a href="/en/contact">Contact</a></nav>
<table><tr><td>
  <a href="/en/job?jobID=33333">Research engineer in genomics</a>
  <span>Deadline: 2026-03-20</span>
</td></tr>
<tr><td>
  <a href="/en/job?jobID=44444">x</a> PhD student in neuroscience
</td></tr></table>
</body></html>`

func TestVarbi_Staff_FallbackLinkScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, staffFallbackHTML)
	}))
	defer srv.Close()

	v := NewKIStaff(srv.Client(), testHTTPConfig(), discardLogger())
	v.baseURL = srv.URL

	postings, err := v.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("FetchPostings() failed: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	if postings[0].ID != "ki_varbi_33333" {
		t.Errorf("ID = %q, want ki_varbi_33333", postings[0].ID)
	}
	if postings[0].Deadline != "2026-03-20" {
		t.Errorf("Deadline = %q, want 2026-03-20 from surrounding text", postings[0].Deadline)
	}

	// The second link's text is too short; the title comes from the parent cell.
	if !strings.Contains(postings[1].Title, "PhD student in neuroscience") {
		t.Errorf("fallback title = %q, want the parent cell text", postings[1].Title)
	}
}

func TestVarbi_ListingFetchErrorFailsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := NewKIStaff(srv.Client(), testHTTPConfig(), discardLogger())
	v.baseURL = srv.URL

	if _, err := v.FetchPostings(context.Background()); err == nil {
		t.Fatal("expected an error for a 503 listing page")
	}
}

func TestExtractVarbiJobID(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/en/what:job/jobID:12345/type:job/apply:1", "12345"},
		{"/en/job?jobID=67890", "67890"},
		{"https://ki.varbi.com/en/what:job/jobID:1/", "1"},
		{"/en/about", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractVarbiJobID(tt.href); got != tt.want {
			t.Errorf("extractVarbiJobID(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestDedupeByID(t *testing.T) {
	postings := []model.Posting{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "duplicate"},
	}
	got := dedupeByID(postings)
	if len(got) != 2 {
		t.Fatalf("got %d postings, want 2", len(got))
	}
	if got[0].Title != "first" {
		t.Error("expected the first occurrence to win")
	}
}
