package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trends-go/pkg/api"
	"trends-go/pkg/frame"
	"trends-go/pkg/logger"
	"trends-go/pkg/normalize"
)

// DefaultRelatedDelay is the pause before the related-queries call.
const DefaultRelatedDelay = time.Second

// Query is the comparison the gateway fetches. It is replaced wholesale by
// SetQuery and never mutated afterwards.
type Query struct {
	Keywords  []string `json:"keywords"`
	Timeframe string   `json:"timeframe"`
	Geo       string   `json:"geo"`
}

// Options tunes a Gateway.
type Options struct {
	RelatedDelay time.Duration
}

// Gateway wraps a trends provider. Every fetch degrades to an empty or
// absent result when no keywords are set; only the time series reports
// provider errors to the caller.
type Gateway struct {
	provider     api.Provider
	relatedDelay time.Duration
	log          *logger.Logger

	mu    sync.RWMutex
	query Query
}

func New(provider api.Provider, opts Options) *Gateway {
	delay := opts.RelatedDelay
	if delay < 0 {
		delay = 0
	}
	return &Gateway{
		provider:     provider,
		relatedDelay: delay,
		log:          logger.GetLogger().Component("gateway"),
		query:        Query{Timeframe: normalize.DefaultTimeframe},
	}
}

// SetQuery replaces the stored query. Blank keywords are dropped and an
// empty timeframe falls back to the default. Nothing is fetched.
func (g *Gateway) SetQuery(keywords []string, timeframe, geo string) {
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			kws = append(kws, kw)
		}
	}
	if timeframe == "" {
		timeframe = normalize.DefaultTimeframe
	}

	g.mu.Lock()
	g.query = Query{Keywords: kws, Timeframe: timeframe, Geo: geo}
	g.mu.Unlock()
}

// Query returns a copy of the stored query.
func (g *Gateway) Query() Query {
	g.mu.RLock()
	defer g.mu.RUnlock()
	q := g.query
	q.Keywords = append([]string(nil), q.Keywords...)
	return q
}

// FetchInterestOverTime builds the payload and fetches the time series with
// the partial-period flag removed.
func (g *Gateway) FetchInterestOverTime(ctx context.Context) (*frame.Frame, error) {
	q := g.Query()
	if len(q.Keywords) == 0 {
		return frame.New("date"), nil
	}

	if err := g.provider.BuildPayload(ctx, q.Keywords, q.Timeframe, q.Geo); err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	ts, err := g.provider.InterestOverTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("interest over time: %w", err)
	}
	if ts == nil {
		return frame.New("date", q.Keywords...), nil
	}
	return ts.Drop(api.PartialColumn), nil
}

// FetchInterestByRegion rebuilds the payload for the current query and
// returns the comparison map. Failures yield an empty table.
func (g *Gateway) FetchInterestByRegion(ctx context.Context, resolution api.Resolution) *frame.Frame {
	q := g.Query()
	if len(q.Keywords) == 0 {
		return frame.New("geoName")
	}
	if resolution == "" {
		resolution = api.ResolutionCountry
	}

	if err := g.provider.BuildPayload(ctx, q.Keywords, q.Timeframe, q.Geo); err != nil {
		g.log.WithError(err).Warn("Could not build payload for interest by region")
		return frame.New("geoName")
	}

	region, err := g.provider.InterestByRegion(ctx, resolution)
	if err != nil {
		g.log.WithError(err).WithField("resolution", string(resolution)).Warn("Interest by region unavailable")
		return frame.New("geoName")
	}
	if region == nil {
		return frame.New("geoName")
	}
	return region
}

// FetchRelatedQueries rebuilds the payload, waits RelatedDelay and fetches
// related queries for every keyword. Any failure yields nil.
func (g *Gateway) FetchRelatedQueries(ctx context.Context) api.RelatedQueries {
	q := g.Query()
	if len(q.Keywords) == 0 {
		return nil
	}

	if err := g.provider.BuildPayload(ctx, q.Keywords, q.Timeframe, q.Geo); err != nil {
		g.log.WithError(err).Warn("Related queries payload failed")
		return nil
	}

	if g.relatedDelay > 0 {
		timer := time.NewTimer(g.relatedDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}

	related, err := g.provider.RelatedQueries(ctx)
	if err != nil {
		g.log.WithError(err).Warn("Related queries unavailable")
		return nil
	}
	return related
}

// FetchRelatedFramesForPrimaryKeyword returns the related-query tables for
// the first keyword, with empty tables reported as absent.
func (g *Gateway) FetchRelatedFramesForPrimaryKeyword(ctx context.Context) frame.RelatedBundle {
	related := g.FetchRelatedQueries(ctx)
	if related == nil {
		return frame.RelatedBundle{}
	}
	q := g.Query()
	if len(q.Keywords) == 0 {
		return frame.RelatedBundle{}
	}
	return related[q.Keywords[0]].Compact()
}

// TopRelatedForPrimaryKeyword returns at most n related queries for the
// first keyword, preferring top over rising. nil when neither exists.
func (g *Gateway) TopRelatedForPrimaryKeyword(ctx context.Context, n int) *frame.Frame {
	bundle := g.FetchRelatedFramesForPrimaryKeyword(ctx)
	switch {
	case bundle.Top != nil:
		return bundle.Top.Head(n)
	case bundle.Rising != nil:
		return bundle.Rising.Head(n)
	default:
		return nil
	}
}
