package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Trailing amount, comma and two decimals: either thousands groups
	// separated by one space or a plain digit run.
	amountTail = regexp.MustCompile(`(?:^|\s)((?:\d{1,3}(?: \d{3})*|\d+),\d{2})\s*$`)
	// Balance lines and leading TOTAL rows.
	summaryLine = regexp.MustCompile(`(?i)^\s*(?:(?:nouveau\s+)?solde\s+(?:(?:final|d[eé]part|initial|pr[eé]c[eé]dent|au)\b|\d)|total\b)`)
	// DD MM YYYY, DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY embedded in descriptions
	embeddedDate = regexp.MustCompile(`\b\d{2}(?:\s|/|-|\.)\d{2}(?:\s|/|-|\.)\d{4}\b`)
	// DD/MM
	embeddedShortDate = regexp.MustCompile(`\b\d{2}/\d{2}\b`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// splitAmount separates the trailing amount from the text before it.
func splitAmount(s string) (head, amount string, ok bool) {
	loc := amountTail.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", "", false
	}
	return s[:loc[2]], s[loc[2]:loc[3]], true
}

// cleanDescription removes date-looking substrings and collapses whitespace.
func cleanDescription(s string) string {
	s = embeddedDate.ReplaceAllString(s, " ")
	s = embeddedShortDate.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// isSummaryLine reports balance and total rows, which never carry a transaction.
func isSummaryLine(line string) bool {
	return summaryLine.MatchString(line)
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// containsWord reports whether any needle occurs in text bounded by
// non-alphanumeric runes or the ends of text.
func containsWord(text string, needles []string) bool {
	for _, needle := range needles {
		for from := 0; from < len(text); {
			i := strings.Index(text[from:], needle)
			if i < 0 {
				break
			}
			start, end := from+i, from+i+len(needle)
			if isBoundary(text[:start], true) && isBoundary(text[end:], false) {
				return true
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			from = start + size
		}
	}
	return false
}

func isBoundary(s string, before bool) bool {
	if s == "" {
		return true
	}
	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(s)
	} else {
		r, _ = utf8.DecodeRuneInString(s)
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
