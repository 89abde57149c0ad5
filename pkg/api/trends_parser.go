package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trends-go/pkg/frame"
)

// PartialColumn flags rows whose period is still in progress.
const PartialColumn = "isPartial"

// Widget is one entry of the explore response. Request is sent back verbatim
// (sometimes with tweaks) to fetch the widget's data.
type Widget struct {
	ID      string                 `json:"id"`
	Title   string                 `json:"title"`
	Token   string                 `json:"token"`
	Request map[string]interface{} `json:"request"`
}

// Keyword returns the keyword a related-queries widget was built for.
func (w Widget) Keyword() string {
	restriction, _ := w.Request["restriction"].(map[string]interface{})
	complexKw, _ := restriction["complexKeywordsRestriction"].(map[string]interface{})
	keywords, _ := complexKw["keyword"].([]interface{})
	if len(keywords) == 0 {
		return ""
	}
	first, _ := keywords[0].(map[string]interface{})
	value, _ := first["value"].(string)
	return value
}

// ExploreWidgets is the subset of explore widgets the dashboard uses.
type ExploreWidgets struct {
	TimeSeries *Widget
	GeoMap     *Widget
	Related    []Widget
}

// Parser decodes provider responses. Every response starts with an
// anti-JSON-hijacking prefix such as ")]}'," which is skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// stripPrefix drops everything before the first '{'.
func stripPrefix(body []byte) ([]byte, error) {
	idx := bytes.IndexByte(body, '{')
	if idx < 0 {
		return nil, errors.New("no JSON object in response")
	}
	return body[idx:], nil
}

func (p *Parser) decode(endpoint string, body []byte, v interface{}) error {
	if len(body) == 0 {
		return &ParseError{Endpoint: endpoint, Err: errors.New("empty response body")}
	}
	raw, err := stripPrefix(body)
	if err != nil {
		return &ParseError{Endpoint: endpoint, Err: fmt.Errorf("%w (response: %s)", err, snippet(body))}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{Endpoint: endpoint, Err: fmt.Errorf("%w (response: %s)", err, snippet(body))}
	}
	return nil
}

// ParseExplore picks out the time series, the comparison geo map and every
// related-queries widget.
func (p *Parser) ParseExplore(body []byte) (*ExploreWidgets, error) {
	var resp struct {
		Widgets []Widget `json:"widgets"`
	}
	if err := p.decode("explore", body, &resp); err != nil {
		return nil, err
	}

	out := &ExploreWidgets{}
	for i := range resp.Widgets {
		w := resp.Widgets[i]
		switch {
		case w.ID == "TIMESERIES":
			out.TimeSeries = &w
		case w.ID == "GEO_MAP" && out.GeoMap == nil:
			out.GeoMap = &w
		case strings.Contains(w.ID, "RELATED_QUERIES"):
			out.Related = append(out.Related, w)
		}
	}
	return out, nil
}

// ParseTimeline converts multiline data into a frame indexed by RFC3339 UTC
// timestamps with one column per keyword plus PartialColumn.
func (p *Parser) ParseTimeline(body []byte, keywords []string) (*frame.Frame, error) {
	var resp struct {
		Default struct {
			TimelineData []struct {
				Time      string `json:"time"`
				Value     []int  `json:"value"`
				IsPartial bool   `json:"isPartial"`
			} `json:"timelineData"`
		} `json:"default"`
	}
	if err := p.decode("multiline", body, &resp); err != nil {
		return nil, err
	}

	points := resp.Default.TimelineData
	if len(points) == 0 {
		return frame.New("date", keywords...), nil
	}

	out := frame.New("date", append(append([]string{}, keywords...), PartialColumn)...)
	for _, pt := range points {
		secs, err := strconv.ParseInt(pt.Time, 10, 64)
		if err != nil {
			return nil, &ParseError{Endpoint: "multiline", Err: fmt.Errorf("bad timestamp %q: %w", pt.Time, err)}
		}
		if len(pt.Value) != len(keywords) {
			return nil, &ParseError{Endpoint: "multiline", Err: fmt.Errorf("got %d values for %d keywords", len(pt.Value), len(keywords))}
		}
		partial := 0
		if pt.IsPartial {
			partial = 1
		}
		label := time.Unix(secs, 0).UTC().Format(time.RFC3339)
		if err := out.AppendRow(label, append(append([]int{}, pt.Value...), partial)...); err != nil {
			return nil, &ParseError{Endpoint: "multiline", Err: err}
		}
	}
	return out, nil
}

// ParseGeoMap converts comparedgeo data into a frame indexed by region name.
func (p *Parser) ParseGeoMap(body []byte, keywords []string) (*frame.Frame, error) {
	var resp struct {
		Default struct {
			GeoMapData []struct {
				GeoCode string `json:"geoCode"`
				GeoName string `json:"geoName"`
				Value   []int  `json:"value"`
			} `json:"geoMapData"`
		} `json:"default"`
	}
	if err := p.decode("comparedgeo", body, &resp); err != nil {
		return nil, err
	}

	out := frame.New("geoName", keywords...)
	for _, g := range resp.Default.GeoMapData {
		name := g.GeoName
		if name == "" {
			name = g.GeoCode
		}
		values := make([]int, len(keywords))
		copy(values, g.Value)
		if err := out.AppendRow(name, values...); err != nil {
			return nil, &ParseError{Endpoint: "comparedgeo", Err: err}
		}
	}
	return out, nil
}

// ParseRelated converts relatedsearches data. The first ranked list is the
// top queries, the second the rising ones; a missing or empty list is nil.
func (p *Parser) ParseRelated(body []byte) (frame.RelatedBundle, error) {
	var resp struct {
		Default struct {
			RankedList []struct {
				RankedKeyword []struct {
					Query string `json:"query"`
					Value int    `json:"value"`
				} `json:"rankedKeyword"`
			} `json:"rankedList"`
		} `json:"default"`
	}
	if err := p.decode("relatedsearches", body, &resp); err != nil {
		return frame.RelatedBundle{}, err
	}

	table := func(i int) *frame.Frame {
		if i >= len(resp.Default.RankedList) || len(resp.Default.RankedList[i].RankedKeyword) == 0 {
			return nil
		}
		f := frame.New("query", "value")
		for _, kw := range resp.Default.RankedList[i].RankedKeyword {
			_ = f.AppendRow(kw.Query, kw.Value)
		}
		return f
	}

	return frame.RelatedBundle{Top: table(0), Rising: table(1)}, nil
}

func snippet(body []byte) string {
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
