package usecase

import (
	"strings"
	"unicode/utf8"
)

// maxQueryLength caps the query forwarded to the marketplaces
const maxQueryLength = 100

// NormalizeQuery drops invalid UTF-8, trims and collapses whitespace in a
// search query and cuts it to maxQueryLength, preferring a word boundary.
func NormalizeQuery(query string) string {
	cleaned := strings.ToValidUTF8(query, "")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		// The cut can only split the final rune
		for i := 0; i < utf8.UTFMax-1; i++ {
			if r, size := utf8.DecodeLastRuneInString(cleaned); r != utf8.RuneError || size != 1 {
				break
			}
			cleaned = cleaned[:len(cleaned)-1]
		}
		// Try to cut at word boundary
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	return cleaned
}
