package fetcher

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// IsHTMLContentType checks if the Content-Type header indicates HTML.
func IsHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}

// looksLikeHTML checks if content appears to be an HTML document.
func looksLikeHTML(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(lower, "<!doctype") ||
		strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") ||
		strings.HasPrefix(lower, "<body")
}

// IsHTML combines the Content-Type check with a content sniff for servers
// that mislabel HTML responses.
func IsHTML(contentType, content string) bool {
	if IsHTMLContentType(contentType) {
		return true
	}
	return looksLikeHTML(content)
}

// stripHTML reduces an HTML document to its text. Conversion through
// markdown drops script/style blocks and markup while keeping the prose;
// if the converter rejects the input, a raw tokenizer walk does the same.
func stripHTML(htmlContent string) string {
	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err == nil && strings.TrimSpace(markdown) != "" {
		return markdown
	}
	return stripTags(htmlContent)
}

// stripTags walks the token stream, keeping text nodes and skipping
// script/style elements entirely.
func stripTags(htmlContent string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}
