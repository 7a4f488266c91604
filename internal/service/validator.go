package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CountryMatcher resolves typed country names with fuzzy matching support.
type CountryMatcher struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
	names     []string
	byKey     map[string]string
}

// NewCountryMatcher indexes the known country names. Duplicates are ignored.
func NewCountryMatcher(names ...[]string) *CountryMatcher {
	m := &CountryMatcher{
		threshold: 0.8, // 80% similarity required
		byKey:     make(map[string]string),
	}

	for _, list := range names {
		for _, name := range list {
			key := normalizeCountry(name)
			if key == "" {
				continue
			}
			if _, dup := m.byKey[key]; dup {
				continue
			}
			m.byKey[key] = strings.TrimSpace(name)
			m.names = append(m.names, key)
		}
	}

	return m
}

// Match returns the known country closest to input. Case, accents and spacing are
// ignored; small typos are tolerated.
func (m *CountryMatcher) Match(input string) (string, bool) {
	key := normalizeCountry(input)
	if key == "" {
		return "", false
	}

	// Exact match
	if name, ok := m.byKey[key]; ok {
		return name, true
	}

	// Fuzzy match using Levenshtein distance
	best, bestScore := "", 0.0
	for _, candidate := range m.names {
		if s := similarity(key, candidate); s > bestScore {
			best, bestScore = candidate, s
		}
	}
	if bestScore < m.threshold {
		return "", false
	}
	return m.byKey[best], true
}

// normalizeCountry lowercases, strips accents and collapses whitespace.
func normalizeCountry(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("’", "'", "-", " ", ".", "").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	rows := len(r1) + 1
	cols := len(r2) + 1

	// Use two rows instead of full matrix for space optimization
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // Insertion
				prev[j]+1,      // Deletion
				prev[j-1]+cost, // Substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
