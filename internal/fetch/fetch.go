// Package fetch downloads job postings by URL and reduces them to the description text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAuditor/1.0)"
	// DefaultMaxBytes bounds how much of a response body is read.
	DefaultMaxBytes = 5 << 20
)

// Result is a fetched job posting.
type Result struct {
	URL        string
	HTML       string
	Text       string
	Platform   Platform
	StatusCode int
	Rendered   bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the caller.
func (e *Error) UserMessage() string {
	return "Could not load the job posting: " + e.Message
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// Browser enables headless Chrome rendering when the static page has too little text.
	Browser bool
	Client  *http.Client
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	out.Browser = o.Browser
	out.Client = o.Client
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	if o.MaxBytes > 0 {
		out.MaxBytes = o.MaxBytes
	}
	return out
}

// renderPage is replaced in tests.
var renderPage = WithBrowser

// JobPosting fetches a job posting and extracts its description with the selectors of the
// detected job board.
func JobPosting(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	opts = opts.withDefaults()

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	platform := DetectPlatform(urlStr)
	html, status, err := get(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{URL: urlStr, HTML: html, Platform: platform, StatusCode: status}
	result.Text, err = ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse page", Cause: err}
	}

	if opts.Browser && ShouldUseBrowser(result.Text) {
		log.Printf("[fetch] %s yielded %d chars, rendering in browser", urlStr, len(result.Text))
		rendered, err := renderPage(ctx, urlStr, opts.Timeout)
		if err != nil {
			log.Printf("[fetch] browser rendering failed for %s: %v", urlStr, err)
		} else if text, err := ExtractMainText(rendered, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); err == nil && len(text) > len(result.Text) {
			result.HTML = rendered
			result.Text = text
			result.Rendered = true
		}
	}

	if strings.TrimSpace(result.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "no job description text found"}
	}
	log.Printf("[fetch] %s platform=%s chars=%d rendered=%t", urlStr, platform, len(result.Text), result.Rendered)
	return result, nil
}

func get(ctx context.Context, urlStr string, opts *Options) (string, int, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil {
		return "", resp.StatusCode, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return string(body), resp.StatusCode, nil
}

// ExtractMainText parses HTML and returns the text of the first element matching
// contentSelectors, falling back to the body. Elements matching noiseSelectors are removed first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}
	doc.Find("p, li, br, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// JobPostingSelectors returns selectors for job pages on boards without specific rules.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	}
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
