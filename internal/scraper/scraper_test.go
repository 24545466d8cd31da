package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompanyFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", "Acme"},
		{"https://job-boards.greenhouse.io/big-co/jobs/9", "Big Co"},
		{"https://jobs.lever.co/initech/abc-123", "Initech"},
		{"https://jobs.ashbyhq.com/hooli/xyz", "Hooli"},
		{"https://www.globex.com/careers/pm", "Globex"},
		{"https://careers.umbrella.com/roles/7", "Umbrella"},
		{"not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := CompanyFromURL(tt.url); got != tt.expected {
				t.Errorf("CompanyFromURL(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	doc := `<html><head><style>body{color:red}</style><script>var x = 1;</script></head>
<body><h1>Senior PM</h1><p>Own the   roadmap &amp; ship.</p><ul><li>5+ years</li><li>SQL</li></ul></body></html>`

	got := StripTags(doc)
	expected := "Senior PM\nOwn the roadmap & ship.\n5+ years\nSQL"
	if got != expected {
		t.Errorf("StripTags() = %q, expected %q", got, expected)
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		switch r.URL.Path {
		case "/jobs/1":
			w.Write([]byte(`<html><head><title>Product Manager - Payments | Careers</title>
<meta name="description" content="Lead our payments roadmap"></head>
<body><p>We are hiring a PM.</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	page, err := FetchHTTP(context.Background(), srv.Client(), srv.URL+"/jobs/1")
	if err != nil {
		t.Fatalf("FetchHTTP() error = %v", err)
	}
	if page.Title != "Product Manager" {
		t.Errorf("title = %q", page.Title)
	}
	if page.Description != "Lead our payments roadmap" {
		t.Errorf("description = %q", page.Description)
	}
	if !strings.Contains(page.Text, "We are hiring a PM.") {
		t.Errorf("text = %q", page.Text)
	}

	if _, err := FetchHTTP(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Error("expected an error for HTTP 404")
	}
}

func TestFetchWithoutBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<title>Staff PM</title><p>Body text</p>`))
	}))
	defer srv.Close()

	s := New(srv.Client(), false, nil)
	page, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != "Staff PM" {
		t.Errorf("title = %q", page.Title)
	}

	if _, err := s.Fetch(context.Background(), "::bad"); err == nil {
		t.Error("expected invalid URL error")
	}
}
