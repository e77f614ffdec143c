package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// Scoring adjustments applied on top of word overlap
const (
	startingWordBonus  = 10.0 // First tokens agree (usually brand or model line)
	sequenceWordBonus  = 5.0  // Per word in the longest shared run, when the run is > 1
	colorMismatchScore = 10.0 // Only one of the names states a color
	maxSimilarity      = 100.0
)

// colorFamily maps a canonical color to the marketing names that denote it
type colorFamily struct {
	color    string
	synonyms []string
}

// colorFamilies is checked in order; the first family whose name or synonym
// occurs anywhere in the lowercased listing name wins.
var colorFamilies = []colorFamily{
	{"black", []string{"midnight", "graphite", "space grey", "space gray", "cosmic black"}},
	{"white", []string{"starlight", "pearl", "cream", "arctic"}},
	{"blue", []string{"navy", "pacific", "sierra blue", "sky"}},
	{"red", []string{"product red", "crimson", "burgundy", "(red)", "wine"}},
	{"purple", []string{"violet", "lavender", "mauve", "lilac"}},
	{"green", []string{"sage", "forest", "olive", "alpine"}},
	{"pink", []string{"rose", "blush", "coral"}},
	{"gold", []string{"copper", "champagne", "bronze"}},
	{"silver", []string{"platinum", "chrome", "metallic"}},
	{"gray", []string{"grey", "space gray", "space grey", "graphite"}},
}

// colorTerms holds every canonical color and synonym; such words are ignored
// when comparing the base product.
var colorTerms = func() map[string]bool {
	terms := make(map[string]bool)
	for _, family := range colorFamilies {
		terms[family.color] = true
		for _, synonym := range family.synonyms {
			terms[synonym] = true
		}
	}
	return terms
}()

// CalculateSimilarity scores how likely two listing names denote the same
// product, from 0 to 100. The score is order-sensitive: the starting-word and
// sequence bonuses walk nameA's tokens. Differently colored variants score 0.
// The result may drop below zero when a color is stated on one side only.
func CalculateSimilarity(nameA, nameB string) float64 {
	if nameA == "" || nameB == "" {
		return 0
	}

	colorA := extractColor(nameA)
	colorB := extractColor(nameB)
	if colorA != "" && colorB != "" && colorA != colorB {
		return 0
	}

	wordsA := nameTokens(nameA)
	wordsB := nameTokens(nameB)
	if len(wordsA)+len(wordsB) == 0 {
		return 0
	}

	inB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		inB[w] = true
	}

	// Occurrence-based: each word of A present anywhere in B counts once.
	common := 0
	for _, w := range wordsA {
		if inB[w] {
			common++
		}
	}
	score := float64(common*2) / float64(len(wordsA)+len(wordsB)) * 100

	if len(wordsA) > 0 && len(wordsB) > 0 && wordsA[0] == wordsB[0] {
		score += startingWordBonus
	}

	if run := longestSharedRun(wordsA, inB); run > 1 {
		score += float64(run) * sequenceWordBonus
	}

	if (colorA == "") != (colorB == "") {
		score -= colorMismatchScore
	}

	if score > maxSimilarity {
		return maxSimilarity
	}
	return score
}

// normalizeName lowercases, strips everything outside [a-z0-9 ] and collapses whitespace
func normalizeName(name string) string {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(name), "")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// extractColor returns the canonical color named in the raw name, or "".
// Matching is by substring, so "Redmi" reads as red.
func extractColor(name string) string {
	lower := strings.ToLower(name)
	for _, family := range colorFamilies {
		if strings.Contains(lower, family.color) {
			return family.color
		}
		for _, synonym := range family.synonyms {
			if strings.Contains(lower, synonym) {
				return family.color
			}
		}
	}
	return ""
}

// nameTokens splits a normalized name into words, dropping color terms
func nameTokens(name string) []string {
	words := strings.Fields(normalizeName(name))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if colorTerms[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// longestSharedRun is the longest run of consecutive words of a that each
// appear somewhere in the other name.
func longestSharedRun(a []string, inOther map[string]bool) int {
	longest, current := 0, 0
	for _, w := range a {
		if inOther[w] {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}
	return longest
}
