// Package scraper pulls the readable text of a job posting so it can be fed
// to extraction.
package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pageLoadTimeout = 30 * time.Second
	maxBodySize     = 2 << 20
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	titleRegex  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descRegex   = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']+)["']`)
	scriptRegex = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	blockRegex  = regexp.MustCompile(`(?i)</?(p|div|li|ul|ol|br|h[1-6]|section|article|tr)[^>]*>`)
	tagRegex    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRegex  = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRegex  = regexp.MustCompile(`\n\s*\n+`)
)

// Page is what we could read from a posting
type Page struct {
	URL         string
	Title       string
	Company     string
	Description string
	Text        string
}

// Scraper renders postings in headless Chrome when enabled and falls back to
// a plain HTTP fetch.
type Scraper struct {
	client  *http.Client
	browser bool
	log     *slog.Logger
}

func New(client *http.Client, browser bool, log *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{client: client, browser: browser, log: log}
}

// Fetch returns the posting at rawURL
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (Page, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return Page{}, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if s.browser {
		page, err := FetchBrowser(ctx, rawURL)
		if err == nil && strings.TrimSpace(page.Text) != "" {
			return page, nil
		}
		s.log.Warn("browser fetch failed, falling back to HTTP", "url", rawURL, "error", err)
	}
	return FetchHTTP(ctx, s.client, rawURL)
}

// FetchHTTP downloads the page and strips markup from it
func FetchHTTP(ctx context.Context, client *http.Client, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	// some sites block the default Go user agent
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("fetch URL: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}
	return parseHTML(rawURL, string(body)), nil
}

func parseHTML(rawURL, doc string) Page {
	page := Page{URL: rawURL, Company: CompanyFromURL(rawURL)}
	if m := titleRegex.FindStringSubmatch(doc); len(m) > 1 {
		page.Title = cleanTitle(html.UnescapeString(m[1]))
	}
	if m := descRegex.FindStringSubmatch(doc); len(m) > 1 {
		page.Description = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	page.Text = StripTags(doc)
	return page
}

// FetchBrowser renders the page in headless Chrome and reads its visible text
func FetchBrowser(ctx context.Context, rawURL string) (Page, error) {
	ctx, cancel := createBrowserContext(ctx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, pageLoadTimeout)
	defer cancel()

	var title, text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second), // client-rendered boards fill in late
		chromedp.Title(&title),
		chromedp.Evaluate(`document.body.innerText`, &text),
	)
	if err != nil {
		return Page{}, fmt.Errorf("render page: %w", err)
	}
	return Page{
		URL:     rawURL,
		Title:   cleanTitle(title),
		Company: CompanyFromURL(rawURL),
		Text:    strings.TrimSpace(text),
	}, nil
}

func createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...any) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		slog.Debug("chromedp", "msg", msg)
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// StripTags reduces an HTML document to its text, one block per line
func StripTags(doc string) string {
	s := scriptRegex.ReplaceAllString(doc, " ")
	s = blockRegex.ReplaceAllString(s, "\n")
	s = tagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = spaceRegex.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRegex.ReplaceAllString(s, "\n"))
}

// CompanyFromURL guesses the employer from a posting URL. Hosted job boards
// carry the company in the path; otherwise the domain name is used.
func CompanyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		for i, seg := range segments {
			if seg == "boards" && i+1 < len(segments) {
				return titleCase(segments[i+1])
			}
		}
		if len(segments) > 0 {
			return titleCase(segments[0])
		}
	case strings.HasSuffix(host, "lever.co"), strings.HasSuffix(host, "ashbyhq.com"), strings.HasSuffix(host, "workable.com"):
		if len(segments) > 0 {
			return titleCase(segments[0])
		}
	}

	labels := strings.Split(host, ".")
	name := labels[0]
	if len(labels) > 2 && (labels[0] == "jobs" || labels[0] == "careers" || labels[0] == "apply") {
		name = labels[1]
	}
	return titleCase(name)
}

// cleanTitle drops the site suffix from "Role - Company | Board" titles
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Split(s, " | ")[0]
	s = strings.Split(s, " - ")[0]
	return strings.TrimSpace(s)
}

func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
