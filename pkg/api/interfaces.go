package api

import (
	"context"
	"errors"
	"fmt"

	"trends-go/pkg/frame"
)

// Resolution is the granularity of interest-by-region data.
type Resolution string

const (
	ResolutionCountry Resolution = "COUNTRY"
	ResolutionRegion  Resolution = "REGION"
	ResolutionCity    Resolution = "CITY"
	ResolutionDMA     Resolution = "DMA"
)

// RelatedQueries maps a keyword to its top and rising related-query tables.
type RelatedQueries map[string]frame.RelatedBundle

// Provider is the trends data source. A provider is a stateful session:
// BuildPayload selects the comparison that the fetch calls then read.
type Provider interface {
	BuildPayload(ctx context.Context, keywords []string, timeframe, geo string) error
	InterestOverTime(ctx context.Context) (*frame.Frame, error)
	InterestByRegion(ctx context.Context, resolution Resolution) (*frame.Frame, error)
	RelatedQueries(ctx context.Context) (RelatedQueries, error)
}

var (
	// ErrNoPayload is returned by fetch calls made before BuildPayload.
	ErrNoPayload = errors.New("no payload built")
	// ErrNoKeywords is returned by BuildPayload for an empty keyword list.
	ErrNoKeywords = errors.New("no keywords provided")
	// ErrWidgetMissing means the explore response lacked the widget a fetch needs.
	ErrWidgetMissing = errors.New("widget not present in explore response")
)

// StatusError is a non-200 response from the provider.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// ParseError is a response body the client could not decode.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
