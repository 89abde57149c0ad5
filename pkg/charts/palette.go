package charts

import "fmt"

// Vivid is the categorical palette used for keyword lines.
var Vivid = []string{
	"rgb(229, 134, 6)",
	"rgb(93, 105, 177)",
	"rgb(82, 188, 163)",
	"rgb(153, 201, 69)",
	"rgb(204, 97, 176)",
	"rgb(36, 121, 108)",
	"rgb(218, 165, 27)",
	"rgb(47, 138, 196)",
	"rgb(118, 78, 159)",
	"rgb(237, 100, 90)",
	"rgb(165, 170, 153)",
}

// Tealgrn is the sequential scale used for interest values.
var Tealgrn = []string{
	"rgb(176, 242, 188)",
	"rgb(137, 232, 172)",
	"rgb(103, 219, 165)",
	"rgb(76, 200, 163)",
	"rgb(56, 178, 163)",
	"rgb(44, 152, 160)",
	"rgb(37, 125, 152)",
}

// ColorScale is a list of [position, color] stops.
type ColorScale [][2]interface{}

// Scale spreads colors evenly over [0, 1].
func Scale(colors []string) ColorScale {
	if len(colors) == 0 {
		return nil
	}
	if len(colors) == 1 {
		return ColorScale{{0.0, colors[0]}, {1.0, colors[0]}}
	}
	out := make(ColorScale, len(colors))
	for i, c := range colors {
		out[i] = [2]interface{}{float64(i) / float64(len(colors)-1), c}
	}
	return out
}

var templates = map[string]*Template{
	"plotly_white": {
		Name: "plotly_white",
		Layout: TemplateLayout{
			Colorway:     []string{"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A", "#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52"},
			Font:         &Font{Color: "#2a3f5f"},
			PaperBgColor: "white",
			PlotBgColor:  "white",
			XAxis:        &Axis{GridColor: "#EBF0F8"},
			YAxis:        &Axis{GridColor: "#EBF0F8"},
		},
	},
	"simple_white": {
		Name: "simple_white",
		Layout: TemplateLayout{
			Font:         &Font{Color: "rgb(36,36,36)"},
			PaperBgColor: "white",
			PlotBgColor:  "white",
			XAxis:        &Axis{ShowGrid: boolPtr(false)},
			YAxis:        &Axis{ShowGrid: boolPtr(false)},
		},
	},
	"plotly": {
		Name: "plotly",
		Layout: TemplateLayout{
			Font:         &Font{Color: "#2a3f5f"},
			PaperBgColor: "white",
			PlotBgColor:  "#E5ECF6",
			XAxis:        &Axis{GridColor: "white"},
			YAxis:        &Axis{GridColor: "white"},
		},
	},
}

// LookupTemplate returns the named template.
func LookupTemplate(name string) (*Template, error) {
	t, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown chart template %q", name)
	}
	return t, nil
}
