package fetcher

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Config holds fetcher configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Fetcher retrieves a document URL and turns the response into normalized
// plain text. A single best-effort attempt: no retries, redirects only as
// far as the underlying client follows them.
type Fetcher struct {
	config Config
}

// New creates a new Fetcher with the given configuration.
func New(config Config) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "clausewise/1.0"
	}
	return &Fetcher{config: config}
}

// FetchText fetches the URL and returns its normalized plain text.
// HTML responses are stripped of script/style blocks and markup before
// whitespace collapsing. Any failure returns ok=false; callers treat that
// as "no usable text", never as a crash.
func (f *Fetcher) FetchText(docURL string) (string, bool) {
	var body string
	var contentType string

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(f.config.UserAgent),
	)
	c.SetRequestTimeout(f.config.Timeout)

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= 400 {
			return
		}
		body = string(r.Body)
		contentType = r.Headers.Get("Content-Type")
	})

	if err := c.Visit(docURL); err != nil {
		slog.Warn("fetch failed", "url", docURL, "error", err)
		return "", false
	}
	c.Wait()

	if body == "" {
		slog.Debug("fetch returned no usable body", "url", docURL)
		return "", false
	}

	if IsHTML(contentType, body) {
		body = stripHTML(body)
	}

	text := Normalize(body)
	if text == "" {
		return "", false
	}
	return text, true
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
)

// NormalizeRaw prepares pasted document text: whitespace runs collapse but
// blank lines survive as paragraph boundaries for the chunker.
func NormalizeRaw(text string) (string, bool) {
	text = horizontalWS.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	return text, text != ""
}

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
