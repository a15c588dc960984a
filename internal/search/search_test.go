package search

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "hello"},
		{"Café del Mar", "cafe del mar"},
		{"SIGUR RÓS", "sigur ros"},
		{"", ""},
		{"123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrigrams(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"word", "cat", []string{"  c", " ca", "cat", "at ", "t  "}},
		{"short", "ab", []string{"  a", " ab", "ab ", "b  "}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trigrams(tt.input)
			if len(got) != len(tt.contains) {
				t.Errorf("trigrams(%q) has %d entries, want %d", tt.input, len(got), len(tt.contains))
			}
			for _, tri := range tt.contains {
				if _, ok := got[tri]; !ok {
					t.Errorf("trigrams(%q) missing %q", tt.input, tri)
				}
			}
		})
	}
}

func TestMatcherSearch(t *testing.T) {
	texts := []string{
		"Radiohead - OK Computer - Paranoid Android",
		"Portishead - Dummy - Roads",
		"Radiohead - Kid A - Idioteque",
		"Björk - Homogenic - Jóga",
	}
	m := NewMatcher(texts)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty query keeps everything", "  ", []int{0, 1, 2, 3}},
		{"single word", "radiohead", []int{0, 2}},
		{"all words must match", "radiohead idioteque", []int{2}},
		{"diacritics ignored", "bjork joga", []int{3}},
		{"short word substring", "ok", []int{0}},
		{"no match", "metallica", nil},
		{"typo within coverage", "portished", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := m.Search(tt.query)
			var got []int
			for _, match := range matches {
				got = append(got, match.Index)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
					break
				}
			}
		})
	}
}

func TestMatcherRanksExactSubstringFirst(t *testing.T) {
	m := NewMatcher([]string{"the roadside", "roads"})
	matches := m.Search("roads")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("matches not sorted by score: %+v", matches)
	}
}

func TestFilter(t *testing.T) {
	type track struct {
		title  string
		artist string
	}
	tracks := []track{
		{"Teardrop", "Massive Attack"},
		{"Angel", "Massive Attack"},
		{"Glory Box", "Portishead"},
	}

	got := Filter(tracks, func(tr track) string { return tr.artist + " " + tr.title }, "massive angel")
	if len(got) != 1 || got[0].title != "Angel" {
		t.Errorf("Filter = %+v, want only Angel", got)
	}

	if all := Filter(tracks, func(tr track) string { return tr.title }, ""); len(all) != 3 {
		t.Errorf("empty query returned %d items, want 3", len(all))
	}
}
