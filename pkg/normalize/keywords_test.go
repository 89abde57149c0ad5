package normalize

import (
	"strings"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  []string
		truncated bool
	}{
		{"empty", "", []string{}, false},
		{"whitespace only", "  ,  , ", []string{}, false},
		{"duplicates", "Python, Data Science, Python", []string{"Python", "Data Science"}, false},
		{"quotes", `"Python", 'Go', “Rust”, ‘Zig’`, []string{"Python", "Go", "Rust", "Zig"}, false},
		{"case sensitive", "go, Go", []string{"go", "Go"}, false},
		{"truncated", "a,b,c,d,e,f,g", []string{"a", "b", "c", "d", "e"}, true},
		{"exactly five", "a,b,c,d,e", []string{"a", "b", "c", "d", "e"}, false},
		{"dupes do not count as truncation", "a,a,b,b,c", []string{"a", "b", "c"}, false},
		{"inner spaces kept", "  machine   learning ", []string{"machine   learning"}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, truncated := ParseKeywords(test.raw)
			if strings.Join(got, "|") != strings.Join(test.expected, "|") || len(got) != len(test.expected) {
				t.Errorf("Expected %q, got %q", test.expected, got)
			}
			if truncated != test.truncated {
				t.Errorf("Expected truncated=%v, got %v", test.truncated, truncated)
			}
		})
	}
}

func TestParseKeywords_Properties(t *testing.T) {
	inputs := []string{
		"",
		",,,,",
		"a, b, a, c, , d, e, f, b",
		`"x", x, 'x', “x”`,
		"one,two,three,four,five,six,seven,eight,nine,ten",
		" spaced , out ,, entries ,",
	}

	for _, raw := range inputs {
		got, _ := ParseKeywords(raw)
		if len(got) > MaxKeywords {
			t.Errorf("For %q, expected at most %d keywords, got %d", raw, MaxKeywords, len(got))
		}
		seen := map[string]bool{}
		for _, kw := range got {
			if strings.TrimSpace(kw) == "" {
				t.Errorf("For %q, got empty keyword in %q", raw, got)
			}
			if seen[kw] {
				t.Errorf("For %q, got duplicate %q", raw, kw)
			}
			seen[kw] = true
		}
	}
}

func TestFilterNames(t *testing.T) {
	filters := []Filter{TrimFilter{}, EmptyFilter{}, DuplicateFilter{}, LimitFilter{Max: 1}}
	expected := []string{"trim", "empty", "duplicate", "limit"}
	for i, f := range filters {
		if f.Name() != expected[i] {
			t.Errorf("Expected filter name %s, got %s", expected[i], f.Name())
		}
	}
}
