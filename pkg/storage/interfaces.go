package storage

import (
	"time"

	"trends-go/pkg/frame"
	"trends-go/pkg/gateway"
)

// Status is the overall outcome of one analysis.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
	StatusInvalid Status = "invalid"
)

// AnalysisResult is everything one fetch cycle produced. It is stored and
// replaced as a whole and must not be modified once stored.
type AnalysisResult struct {
	TimeSeries *frame.Frame        `json:"time_series"`
	Region     *frame.Frame        `json:"region"`
	Related    frame.RelatedBundle `json:"related"`
	Status     Status              `json:"status"`
	Message    string              `json:"message,omitempty"`
	Query      gateway.Query       `json:"query"`
	Truncated  bool                `json:"truncated"`
	CreatedAt  time.Time           `json:"created_at"`
}

// HasTimeSeries reports whether the result carries a non-empty time series.
func (r *AnalysisResult) HasTimeSeries() bool {
	return r != nil && !r.TimeSeries.Empty()
}

// Slot holds the most recent analysis for one consumer.
type Slot interface {
	Store(result *AnalysisResult)
	Load() *AnalysisResult
	Clear()
}

// Cache is a keyed store with LRU eviction.
type Cache interface {
	Set(key string, value interface{}) error
	Get(key string) (interface{}, bool)
	Delete(key string) error
	Clear() error
}
