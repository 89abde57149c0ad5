// Package charts turns cached trend tables into plotly.js figure
// descriptions and the related-queries table view.
package charts

// Figure is a plotly.js figure: {"data": [...], "layout": {...}}.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string   `json:"type"`
	Name          string   `json:"name,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	X             []string `json:"x,omitempty"`
	Y             []int    `json:"y,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	LocationMode  string   `json:"locationmode,omitempty"`
	Z             []int    `json:"z,omitempty"`
	HoverText     []string `json:"hovertext,omitempty"`
	HoverTemplate string   `json:"hovertemplate,omitempty"`
	ColorAxis     string   `json:"coloraxis,omitempty"`
	Marker        *Marker  `json:"marker,omitempty"`
	Line          *Line    `json:"line,omitempty"`
	ShowLegend    *bool    `json:"showlegend,omitempty"`
}

type Marker struct {
	Size      int         `json:"size,omitempty"`
	Color     interface{} `json:"color,omitempty"`
	ColorAxis string      `json:"coloraxis,omitempty"`
	Line      *Line       `json:"line,omitempty"`
}

type Line struct {
	Width int    `json:"width"`
	Color string `json:"color,omitempty"`
}

type Title struct {
	Text string  `json:"text,omitempty"`
	X    float64 `json:"x,omitempty"`
}

type Axis struct {
	Title     *Title `json:"title,omitempty"`
	ShowGrid  *bool  `json:"showgrid,omitempty"`
	GridColor string `json:"gridcolor,omitempty"`
	TickAngle int    `json:"tickangle,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Legend struct {
	Title *Title `json:"title,omitempty"`
}

type ColorAxis struct {
	ColorScale ColorScale `json:"colorscale,omitempty"`
	ColorBar   *ColorBar  `json:"colorbar,omitempty"`
}

type ColorBar struct {
	Title *Title `json:"title,omitempty"`
}

type Geo struct {
	ShowFrame      bool   `json:"showframe"`
	ShowCoastlines bool   `json:"showcoastlines"`
	BgColor        string `json:"bgcolor,omitempty"`
}

type Layout struct {
	Template     *Template  `json:"template,omitempty"`
	Title        *Title     `json:"title,omitempty"`
	Margin       *Margin    `json:"margin,omitempty"`
	HoverMode    string     `json:"hovermode,omitempty"`
	PaperBgColor string     `json:"paper_bgcolor,omitempty"`
	PlotBgColor  string     `json:"plot_bgcolor,omitempty"`
	Legend       *Legend    `json:"legend,omitempty"`
	XAxis        *Axis      `json:"xaxis,omitempty"`
	YAxis        *Axis      `json:"yaxis,omitempty"`
	ColorAxis    *ColorAxis `json:"coloraxis,omitempty"`
	Geo          *Geo       `json:"geo,omitempty"`
}

// Template is a plotly.js layout template. Name is kept server side.
type Template struct {
	Name   string         `json:"-"`
	Layout TemplateLayout `json:"layout"`
}

type TemplateLayout struct {
	Colorway     []string `json:"colorway,omitempty"`
	Font         *Font    `json:"font,omitempty"`
	PaperBgColor string   `json:"paper_bgcolor,omitempty"`
	PlotBgColor  string   `json:"plot_bgcolor,omitempty"`
	XAxis        *Axis    `json:"xaxis,omitempty"`
	YAxis        *Axis    `json:"yaxis,omitempty"`
}

type Font struct {
	Color string `json:"color,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}
