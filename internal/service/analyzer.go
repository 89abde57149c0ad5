package service

import (
	"context"
	"errors"
	"io"
	"time"

	"trends-go/pkg/api"
	"trends-go/pkg/charts"
	"trends-go/pkg/frame"
	"trends-go/pkg/gateway"
	"trends-go/pkg/logger"
	"trends-go/pkg/monitor"
	"trends-go/pkg/normalize"
	"trends-go/pkg/storage"
)

// ErrNoData is returned by readers when the slot holds no time series.
var ErrNoData = errors.New("no analysis data")

// AnalyzeRequest is the raw form input.
type AnalyzeRequest struct {
	Keywords  string `json:"keywords" form:"keywords"`
	Timeframe string `json:"timeframe" form:"timeframe"`
	Country   string `json:"country" form:"country"`
}

// Analyzer runs fetch cycles and renders cached results. The provider
// session is shared, so fetch cycles run one at a time.
type Analyzer struct {
	gateway    *gateway.Gateway
	countries  *normalize.CountryDB
	charts     *charts.Builder
	executor   *api.SequentialExecutor
	resolution api.Resolution
	log        *logger.Logger
	now        func() time.Time
}

type Options struct {
	Resolution api.Resolution
}

func NewAnalyzer(gw *gateway.Gateway, countries *normalize.CountryDB, builder *charts.Builder, opts Options) *Analyzer {
	resolution := opts.Resolution
	if resolution == "" {
		resolution = api.ResolutionCountry
	}
	if countries == nil {
		countries = normalize.DefaultCountryDB()
	}
	return &Analyzer{
		gateway:    gw,
		countries:  countries,
		charts:     builder,
		executor:   api.NewSequentialExecutor(),
		resolution: resolution,
		log:        logger.GetLogger().Component("analyzer"),
		now:        time.Now,
	}
}

// Analyze normalizes req, fetches all three datasets and replaces the
// contents of slot. The returned result is what was stored, or for
// failures a record of the outcome while the slot is cleared. The error
// is nil or an *AnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, slot storage.Slot, req AnalyzeRequest) (*storage.AnalysisResult, error) {
	start := a.now()
	keywords, truncated := normalize.ParseKeywords(req.Keywords)
	query := gateway.Query{
		Keywords:  keywords,
		Timeframe: normalize.Timeframe(req.Timeframe),
		Geo:       a.countries.Resolve(req.Country),
	}

	result := &storage.AnalysisResult{
		Query:     query,
		Truncated: truncated,
		CreatedAt: start,
	}

	if len(keywords) == 0 {
		slot.Clear()
		aerr := newNoKeywords()
		result.Status, result.Message = storage.StatusInvalid, aerr.Detail
		a.record(result, start)
		return result, aerr
	}

	log := a.log.WithFields(map[string]interface{}{
		"keywords":  len(keywords),
		"timeframe": query.Timeframe,
		"geo":       query.Geo,
	})

	var ts, region *frame.Frame
	var related frame.RelatedBundle
	err := a.executor.Execute(ctx, func() error {
		a.gateway.SetQuery(query.Keywords, query.Timeframe, query.Geo)

		var err error
		ts, err = a.gateway.FetchInterestOverTime(ctx)
		if err != nil {
			return err
		}
		region = a.gateway.FetchInterestByRegion(ctx, a.resolution)
		related = a.gateway.FetchRelatedFramesForPrimaryKeyword(ctx)
		return nil
	})
	if err != nil {
		slot.Clear()
		aerr := newProviderFailure(err)
		result.Status, result.Message = storage.StatusError, aerr.Detail
		log.WithError(err).Error("Analysis failed")
		a.record(result, start)
		return result, aerr
	}

	result.Related = related
	if ts.Empty() {
		aerr := newEmptyResult(truncated)
		result.Status, result.Message = storage.StatusEmpty, aerr.Detail
		slot.Store(result)
		log.Warn("Provider returned no time series")
		a.record(result, start)
		return result, aerr
	}

	result.TimeSeries = ts
	if !region.Empty() {
		result.Region = region
	}
	result.Status = storage.StatusSuccess
	if truncated {
		result.Message = msgTruncated
	}
	slot.Store(result)

	log.WithFields(map[string]interface{}{
		"points":  ts.Len(),
		"regions": region.Len(),
		"related": !related.Empty(),
	}).Info("Analysis complete")
	a.record(result, start)
	return result, nil
}

func (a *Analyzer) record(result *storage.AnalysisResult, start time.Time) {
	monitor.AnalysesTotal.WithLabelValues(string(result.Status)).Inc()
	monitor.AnalysisDuration.Observe(time.Since(start).Seconds())
}

// TimeSeriesFigure renders the cached time series, or nil.
func (a *Analyzer) TimeSeriesFigure(result *storage.AnalysisResult) *charts.Figure {
	if result == nil {
		return nil
	}
	return a.charts.InterestOverTime(result.TimeSeries)
}

// RegionMapFigure renders the cached region table as a map, or nil.
func (a *Analyzer) RegionMapFigure(result *storage.AnalysisResult) *charts.Figure {
	if result == nil {
		return nil
	}
	return a.charts.InterestMap(result.Region)
}

// TopRegionsFigure ranks regions for the first keyword of the cached time
// series. The thresholds are applied on every call.
func (a *Analyzer) TopRegionsFigure(result *storage.AnalysisResult, topN, minInterest int) *charts.Figure {
	if result == nil || result.Region.Empty() || result.TimeSeries.Empty() {
		return nil
	}
	keyword := result.TimeSeries.Columns[0]
	return a.charts.TopRegions(result.Region, keyword, normalize.ClampMinInterest(minInterest), normalize.ClampTopN(topN))
}

// RelatedTable renders the cached related queries. Without a completed
// fetch the table is empty and carries no note.
func (a *Analyzer) RelatedTable(result *storage.AnalysisResult) charts.TableView {
	if result == nil || (result.Status != storage.StatusSuccess && result.Status != storage.StatusEmpty) {
		return charts.TableView{
			Columns:  []charts.TableColumn{},
			Data:     []map[string]interface{}{},
			PageSize: charts.RelatedPageSize,
		}
	}
	return charts.RelatedTable(result.Related)
}

// TimeSeriesCSV writes the cached time series with a Date column first.
func (a *Analyzer) TimeSeriesCSV(result *storage.AnalysisResult, w io.Writer) error {
	if !result.HasTimeSeries() {
		return ErrNoData
	}
	return result.TimeSeries.WriteCSV(w, "Date")
}
