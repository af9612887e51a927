package dataflows

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var markupPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>|&(?:[a-zA-Z]+|#[0-9]+|#x[0-9a-fA-F]+);`)

// CleanText reduces an article description to plain text. Text without
// markup is returned unchanged; blank text becomes "".
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !markupPattern.MatchString(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
