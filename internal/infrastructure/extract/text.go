package extract

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MinContentLength is the rune count a candidate body must exceed.
const MinContentLength = 100

const maxFallbackParagraphs = 10

// noiseSelector matches ad containers by whole class token so wrappers such
// as "thread-container" survive.
const noiseSelector = "script, style, noscript, nav, footer, ads, .ad, .ads, .advert, .advertisement, [class~='ad-container'], [class^='ad-container-']"

// contentSelectors are tried in order; the first whose text is long enough wins.
var contentSelectors = []string{
	"article",
	`[role="main"]`,
	".article-content",
	".post-content",
	".entry-content",
	"main",
}

// ExtractText strips non-content elements from doc and returns the best
// body candidate. The result may still be shorter than MinContentLength.
func ExtractText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	for _, selector := range contentSelectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := nodeText(node); LongEnough(text) {
			return text
		}
	}

	return paragraphText(doc)
}

// LongEnough reports whether text exceeds MinContentLength runes.
func LongEnough(text string) bool {
	return utf8.RuneCountInString(text) > MinContentLength
}

func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= maxFallbackParagraphs {
			return false
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, "\n")
}

// nodeText joins every non-blank text run under sel with newlines.
func nodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

func readabilityText(raw []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}
	article, err := readability.FromReader(bytes.NewReader(raw), parsed)
	if err != nil {
		return ""
	}
	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
