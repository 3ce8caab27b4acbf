package answer

import (
	"bufio"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// documentBase resolves relative links when a full page goes through readability.
var documentBase = &url.URL{Scheme: "about", Opaque: "blank"}

// PlainText strips markup from an answer. Whole HTML documents are first
// reduced to their main content with readability; fragments go straight to goquery.
func PlainText(input string) string {
	if !strings.Contains(input, "<") {
		return normalizeText(input)
	}

	html := input
	if looksLikeDocument(input) {
		parser := readability.NewParser()
		article, err := parser.Parse(strings.NewReader(input), documentBase)
		if err == nil && strings.TrimSpace(article.Content) != "" {
			html = article.Content
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeText(input)
	}
	doc.Find("script,style").Remove()
	doc.Find("br,p,li,div,h1,h2,h3,h4,tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return normalizeText(doc.Text())
}

func looksLikeDocument(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body")
}

// normalizeText trims each line, drops empty ones and joins the rest with a single space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
