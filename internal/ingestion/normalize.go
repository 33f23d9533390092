package ingestion

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// noiseSelectors matches page chrome that carries no job content.
const noiseSelectors = "script, style, form, nav, footer, iframe, a.button, .apply_now, .apply-button, .social-share"

// NormalizeDescription strips HTML markup and page noise from a raw job
// description and collapses whitespace. Plain-text input passes through with
// whitespace collapsed.
func NormalizeDescription(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseWhitespace(raw)
	}

	doc.Find(noiseSelectors).Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}
