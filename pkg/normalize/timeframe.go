package normalize

// DefaultTimeframe is used when the request carries no usable timeframe.
const DefaultTimeframe = "today 1-m"

// TimeframeOption is one entry of the timeframe selector.
type TimeframeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var timeframeOptions = []TimeframeOption{
	{Label: "Now 1 hour", Value: "now 1-H"},
	{Label: "Now 4 hours", Value: "now 4-H"},
	{Label: "Now 1 day", Value: "now 1-d"},
	{Label: "Today 1 month", Value: "today 1-m"},
	{Label: "Today 3 months", Value: "today 3-m"},
	{Label: "Today 12 months", Value: "today 12-m"},
	{Label: "Today 5 years", Value: "today 5-y"},
	{Label: "All time", Value: "all"},
}

// TimeframeOptions returns the selector entries, shortest range first.
func TimeframeOptions() []TimeframeOption {
	out := make([]TimeframeOption, len(timeframeOptions))
	copy(out, timeframeOptions)
	return out
}

// IsTimeframe reports whether token is one of the supported timeframes.
func IsTimeframe(token string) bool {
	for _, o := range timeframeOptions {
		if o.Value == token {
			return true
		}
	}
	return false
}

// Timeframe returns token when supported and DefaultTimeframe otherwise.
func Timeframe(token string) string {
	if IsTimeframe(token) {
		return token
	}
	return DefaultTimeframe
}

// Slider bounds for the regional filters.
const (
	MinTopN            = 5
	MaxTopN            = 50
	DefaultTopN        = 10
	MinInterestStep    = 5
	MaxInterest        = 100
	DefaultMinInterest = 0
)

// ClampTopN keeps n within the top-N slider range; 0 means the default.
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return DefaultTopN
	case n < MinTopN:
		return MinTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

// ClampMinInterest keeps n within 0..100 and snaps it down to the slider step.
func ClampMinInterest(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxInterest:
		return MaxInterest
	}
	return n - n%MinInterestStep
}
