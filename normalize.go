package fundamental

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// NormalizeFactText cleans one CSV cell value before it becomes part of a
// FactRow: XBRL-to-CSV export pipelines routinely leave HTML entities,
// non-breaking spaces, and zero-width characters in concept labels and raw
// fact values, which would otherwise break parseNumeric's numeric-literal
// match or cause two otherwise-identical concepts to dedup key apart.
func NormalizeFactText(text string) string {
	text = normalizeHTMLEntities(text)
	text = normalizeWhitespace(text)
	text = removeInvisibleChars(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// normalizeHTMLEntities decodes named and numeric HTML entities (&nbsp;,
// &amp;, &#8217;, ...) via golang.org/x/net/html rather than a
// hand-maintained replacement table, since iXBRL renderers emit the full
// named-entity set, not just the handful common in SEC filings.
func normalizeHTMLEntities(text string) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}
	return html.UnescapeString(text)
}

// normalizeWhitespace converts Unicode whitespace variants to a plain ASCII space.
func normalizeWhitespace(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case ' ': // non-breaking space
			result.WriteRune(' ')
		case ' ', ' ', ' ', ' ', ' ', ' ': // en/em quads
			result.WriteRune(' ')
		case ' ', ' ', ' ', ' ', ' ': // figure/thin/hair space
			result.WriteRune(' ')
		case ' ': // narrow no-break space
			result.WriteRune(' ')
		case ' ': // medium mathematical space
			result.WriteRune(' ')
		case '　': // ideographic space
			result.WriteRune(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// removeInvisibleChars strips zero-width and other invisible format characters.
func removeInvisibleChars(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '​': // zero-width space
			continue
		case '‌': // zero-width non-joiner
			continue
		case '‍': // zero-width joiner
			continue
		case '﻿': // zero-width no-break space / BOM
			continue
		case '᠎': // Mongolian vowel separator
			continue
		default:
			if unicode.Is(unicode.Cf, r) && r != '\t' && r != '\n' && r != '\r' {
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}
