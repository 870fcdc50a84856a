package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchDocument_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, "<html><body><h1>hello</h1></body></html>")
	}))
	defer srv.Close()

	doc, err := fetchDocument(context.Background(), srv.Client(), srv.URL, "KI-Job-Scraper-Test/1.0")
	if err != nil {
		t.Fatalf("fetchDocument() failed: %v", err)
	}
	if gotUA != "KI-Job-Scraper-Test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if doc.Find("h1").Text() != "hello" {
		t.Error("document not parsed")
	}
}

func TestFetchDocument_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := fetchDocument(context.Background(), srv.Client(), srv.URL, "ua")
	if err == nil {
		t.Fatal("expected an error for status 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error %q does not mention the status", err)
	}
}

func TestFetchDocument_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fetchDocument(ctx, srv.Client(), srv.URL, "ua"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://ki.varbi.com", "/en/what:job/jobID:1/", "https://ki.varbi.com/en/what:job/jobID:1/"},
		{"https://ki.varbi.com", "en/jobs", "https://ki.varbi.com/en/jobs"},
		{"https://ki.varbi.com", "https://other.example.com/x", "https://other.example.com/x"},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("ansökningsdag", 5); got != "ansök" {
		t.Errorf("truncate on rune boundary = %q, want ansök", got)
	}
}
