// Package parser normalises text payloads returned by the show API.
package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// SummaryText flattens an HTML show summary into plain text.
// Paragraphs and line breaks become newlines; runs of spaces collapse.
func SummaryText(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lineBreak.ReplaceAllString(summary, "\n")))
	if err != nil {
		return strings.TrimSpace(summary)
	}

	var paragraphs []string
	blocks := doc.Find("p, li")
	if blocks.Length() == 0 {
		blocks = doc.Find("body")
	}
	blocks.Each(func(_ int, s *goquery.Selection) {
		text := collapseSpaces(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n")
}

// collapseSpaces trims every line and squeezes inner whitespace.
func collapseSpaces(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
