package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Leading decimal number, the rest of the text is ignored ("1500 rub" -> 1500).
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber parses the leading number of text. ok is false when there is none.
func ParseNumber(text string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// ParsePrice never fails: missing, unparsable or negative prices are 0 ("price on request").
func ParsePrice(text string) float64 {
	value, ok := ParseNumber(text)
	if !ok || value < 0 {
		return 0
	}
	return value
}

// ParseOldPrice returns nil unless text holds a positive number.
func ParseOldPrice(text string) *float64 {
	value, ok := ParseNumber(text)
	if !ok || value <= 0 {
		return nil
	}
	return &value
}

// PlainText strips markup from a description and collapses whitespace.
func PlainText(html string) string {
	if !strings.Contains(html, "<") {
		return collapseSpaces(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseSpaces(html)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return collapseSpaces(doc.Text())
}

// Excerpt shortens text to at most limit runes, cutting at a word boundary.
func Excerpt(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
