package normalize

import "strings"

// MaxKeywords is the provider's hard limit on keywords per comparison.
const MaxKeywords = 5

// quoteChars are stripped from both ends of each keyword after whitespace.
const quoteChars = "\"'“”‘’"

// Filter transforms a keyword list. Filters are chained in order.
type Filter interface {
	Apply(keywords []string) []string
	Name() string
}

// TrimFilter strips whitespace and quote characters from each keyword.
type TrimFilter struct{}

func (TrimFilter) Apply(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.Trim(strings.TrimSpace(kw), quoteChars)
	}
	return out
}

func (TrimFilter) Name() string { return "trim" }

// EmptyFilter drops empty keywords.
type EmptyFilter struct{}

func (EmptyFilter) Apply(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func (EmptyFilter) Name() string { return "empty" }

// DuplicateFilter keeps the first occurrence of each keyword. Matching is
// exact: "Python" and "python" are different searches to the provider.
type DuplicateFilter struct{}

func (DuplicateFilter) Apply(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}

func (DuplicateFilter) Name() string { return "duplicate" }

// LimitFilter keeps the first Max keywords.
type LimitFilter struct {
	Max int
}

func (f LimitFilter) Apply(keywords []string) []string {
	if len(keywords) <= f.Max {
		return keywords
	}
	return keywords[:f.Max]
}

func (LimitFilter) Name() string { return "limit" }

// KeywordParser splits comma separated input and runs it through a filter chain.
type KeywordParser struct {
	filters []Filter
	limit   LimitFilter
}

// NewKeywordParser returns the parser used by the dashboard: trim, drop
// empties, dedupe, then cap at MaxKeywords.
func NewKeywordParser() *KeywordParser {
	return &KeywordParser{
		filters: []Filter{TrimFilter{}, EmptyFilter{}, DuplicateFilter{}},
		limit:   LimitFilter{Max: MaxKeywords},
	}
}

// Parse returns the cleaned keywords and whether the limit cut any off.
func (p *KeywordParser) Parse(raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, false
	}

	keywords := strings.Split(raw, ",")
	for _, f := range p.filters {
		keywords = f.Apply(keywords)
	}

	limited := p.limit.Apply(keywords)
	return limited, len(limited) < len(keywords)
}

var defaultParser = NewKeywordParser()

// ParseKeywords cleans raw comma separated keyword input. See KeywordParser.
func ParseKeywords(raw string) ([]string, bool) {
	return defaultParser.Parse(raw)
}
