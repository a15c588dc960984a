// Package search ranks library entries against a free-text query using
// trigram coverage. Every word of the query must match.
package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minCoverage is the fraction of a word's trigrams an entry must contain.
const minCoverage = 0.4

// Match is a ranked hit: the index of the entry in the matcher's input and
// its score. Higher is better.
type Match struct {
	Index int
	Score float64
}

// Matcher holds the precomputed trigrams of a fixed set of texts.
type Matcher struct {
	normalized []string
	trigrams   []map[string]struct{}
}

// NewMatcher indexes texts. Match indexes refer back to this slice.
func NewMatcher(texts []string) *Matcher {
	m := &Matcher{
		normalized: make([]string, len(texts)),
		trigrams:   make([]map[string]struct{}, len(texts)),
	}
	for i, text := range texts {
		n := Normalize(text)
		m.normalized[i] = n
		m.trigrams[i] = trigrams(n)
	}
	return m
}

// Len returns the number of indexed texts.
func (m *Matcher) Len() int { return len(m.normalized) }

// Search returns the entries matching query, best first. Ties keep input
// order. An empty query matches everything with a zero score.
func (m *Matcher) Search(query string) []Match {
	words := strings.Fields(Normalize(query))
	if len(words) == 0 {
		matches := make([]Match, len(m.normalized))
		for i := range matches {
			matches[i] = Match{Index: i}
		}
		return matches
	}

	wordTris := make([]map[string]struct{}, len(words))
	for i, w := range words {
		wordTris[i] = trigrams(w)
	}

	var matches []Match
	for i := range m.normalized {
		if score := m.score(i, words, wordTris); score > 0 {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	return matches
}

func (m *Matcher) score(idx int, words []string, wordTris []map[string]struct{}) float64 {
	text := m.normalized[idx]
	total := 0.0
	for i, word := range words {
		// Too short for trigrams to say anything.
		if len([]rune(word)) <= 2 {
			if !strings.Contains(text, word) {
				return 0
			}
			total++
			continue
		}

		c := coverage(wordTris[i], m.trigrams[idx])
		if c < minCoverage {
			return 0
		}
		if strings.Contains(text, word) {
			c += 0.5
		}
		total += c
	}
	return total / float64(len(words))
}

// Filter returns the items whose text matches query, best first.
func Filter[T any](items []T, text func(T) string, query string) []T {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = text(it)
	}
	matches := NewMatcher(texts).Search(query)
	out := make([]T, len(matches))
	for i, match := range matches {
		out[i] = items[match.Index]
	}
	return out
}

// Normalize lowercases s and strips diacritics, so "Café" and "cafe"
// compare equal.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trigrams pads s with two spaces on each side so prefixes and suffixes
// produce their own trigrams.
func trigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}
	runes := []rune("  " + s + "  ")
	tris := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}
	return tris
}

// coverage is |query ∩ item| / |query|.
func coverage(query, item map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hit := 0
	for tri := range query {
		if _, ok := item[tri]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(query))
}
