package charts

import (
	"fmt"

	"trends-go/pkg/frame"
)

const (
	gridColor        = "rgba(0,0,0,0.06)"
	transparent      = "rgba(0,0,0,0)"
	DefaultTemplate  = "plotly_white"
	TimeSeriesTitle  = "Interest Over Time"
	RegionMapTitle   = "Interest by Country"
	topRegionsFormat = "Top Regions for '%s'"
)

// Builder renders trend tables as figures with a shared look. Builders are
// stateless after construction and safe for concurrent use.
type Builder struct {
	template   *Template
	colors     []string
	colorScale ColorScale
}

// Options selects the template and palettes. Zero values pick the defaults.
type Options struct {
	Template   string
	Colors     []string
	ColorScale []string
}

func NewBuilder(opts Options) (*Builder, error) {
	name := opts.Template
	if name == "" {
		name = DefaultTemplate
	}
	tmpl, err := LookupTemplate(name)
	if err != nil {
		return nil, err
	}
	colors := opts.Colors
	if len(colors) == 0 {
		colors = Vivid
	}
	scale := opts.ColorScale
	if len(scale) == 0 {
		scale = Tealgrn
	}
	return &Builder{
		template:   tmpl,
		colors:     append([]string(nil), colors...),
		colorScale: Scale(scale),
	}, nil
}

// MustBuilder is NewBuilder for options known to be valid.
func MustBuilder(opts Options) *Builder {
	b, err := NewBuilder(opts)
	if err != nil {
		panic(err)
	}
	return b
}

// InterestOverTime draws one line per keyword column against the date index.
func (b *Builder) InterestOverTime(ts *frame.Frame) *Figure {
	if ts.Empty() {
		return nil
	}

	fig := &Figure{}
	for i, col := range ts.Columns {
		values, _ := ts.Column(col)
		fig.Data = append(fig.Data, Trace{
			Type:          "scatter",
			Name:          col,
			Mode:          "lines+markers",
			X:             append([]string(nil), ts.Index...),
			Y:             values,
			HoverTemplate: "Keyword=" + col + "<br>Date=%{x}<br>Interest=%{y}<extra></extra>",
			Marker:        &Marker{Size: 6, Color: b.colors[i%len(b.colors)]},
			Line:          &Line{Width: 3, Color: b.colors[i%len(b.colors)]},
			ShowLegend:    boolPtr(true),
		})
	}
	fig.Layout.XAxis = &Axis{Title: &Title{Text: "Date"}}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Interest"}}
	return b.Polish(fig, TimeSeriesTitle)
}

// InterestMap colors countries by interest. The row labels are country
// names and the first column holds the value; other columns are ignored.
func (b *Builder) InterestMap(region *frame.Frame) *Figure {
	if region.Empty() {
		return nil
	}

	names := append([]string(nil), region.Index...)
	values := make([]int, len(region.Data))
	for i, row := range region.Data {
		values[i] = row[0]
	}

	fig := &Figure{
		Data: []Trace{{
			Type:          "choropleth",
			Locations:     names,
			LocationMode:  "country names",
			Z:             values,
			HoverText:     names,
			HoverTemplate: "<b>%{hovertext}</b><br><br>Interest=%{z}<extra></extra>",
			ColorAxis:     "coloraxis",
		}},
		Layout: Layout{
			ColorAxis: &ColorAxis{ColorScale: b.colorScale, ColorBar: &ColorBar{Title: &Title{Text: "Interest"}}},
			Geo:       &Geo{ShowFrame: false, ShowCoastlines: true, BgColor: transparent},
		},
	}
	return b.Polish(fig, RegionMapTitle)
}

// TopRegions ranks regions by one keyword's column: rows below minInterest
// are dropped, the rest sorted descending and cut to topN. nil when the
// column is missing or nothing is left.
func (b *Builder) TopRegions(region *frame.Frame, keyword string, minInterest, topN int) *Figure {
	if region.Empty() || !region.HasColumn(keyword) {
		return nil
	}
	col := region.ColumnIndex(keyword)

	kept := region.Filter(func(_ string, row []int) bool {
		return row[col] >= minInterest
	})
	sorted, err := kept.SortBy(keyword, true)
	if err != nil {
		return nil
	}
	top := sorted.Head(topN)
	if top.Empty() {
		return nil
	}

	values, _ := top.Column(keyword)
	fig := &Figure{
		Data: []Trace{{
			Type:          "bar",
			X:             append([]string(nil), top.Index...),
			Y:             values,
			HoverTemplate: "%{x}: %{y}",
			Marker: &Marker{
				Color:     values,
				ColorAxis: "coloraxis",
				Line:      &Line{Width: 0},
			},
		}},
		Layout: Layout{
			XAxis:     &Axis{Title: &Title{Text: "Region"}, TickAngle: -30},
			YAxis:     &Axis{Title: &Title{Text: "Interest"}},
			ColorAxis: &ColorAxis{ColorScale: b.colorScale, ColorBar: &ColorBar{Title: &Title{Text: "Interest"}}},
		},
	}
	return b.Polish(fig, fmt.Sprintf(topRegionsFormat, keyword))
}

// Polish applies the shared styling to fig and returns it.
func (b *Builder) Polish(fig *Figure, title string) *Figure {
	if fig == nil {
		return nil
	}
	l := &fig.Layout
	l.Template = b.template
	l.Title = &Title{Text: title, X: 0.02}
	l.Margin = &Margin{L: 20, R: 20, T: 50, B: 20}
	l.HoverMode = "x unified"
	l.PaperBgColor = transparent
	l.PlotBgColor = transparent
	l.Legend = &Legend{Title: &Title{Text: "Keyword"}}

	if l.XAxis == nil {
		l.XAxis = &Axis{}
	}
	if l.YAxis == nil {
		l.YAxis = &Axis{}
	}
	for _, ax := range []*Axis{l.XAxis, l.YAxis} {
		ax.ShowGrid = boolPtr(true)
		ax.GridColor = gridColor
	}
	return fig
}
