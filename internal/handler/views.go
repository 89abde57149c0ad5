package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"trends-go/pkg/normalize"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData is passed to the dashboard template.
type PageData struct {
	Title            string
	Timeframes       []normalize.TimeframeOption
	DefaultTimeframe string
	MinTopN          int
	MaxTopN          int
	DefaultTopN      int
	InterestStep     int
	MaxInterest      int
}

func newPageData(title string) PageData {
	return PageData{
		Title:            title,
		Timeframes:       normalize.TimeframeOptions(),
		DefaultTimeframe: normalize.DefaultTimeframe,
		MinTopN:          normalize.MinTopN,
		MaxTopN:          normalize.MaxTopN,
		DefaultTopN:      normalize.DefaultTopN,
		InterestStep:     normalize.MinInterestStep,
		MaxInterest:      normalize.MaxInterest,
	}
}

// Page is the parsed dashboard template.
type Page struct {
	tmpl *template.Template
}

func ParsePage() (*Page, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"marks": marks,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

func (p *Page) Render(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// marks lists slider tick values from lo to hi inclusive.
func marks(lo, hi, step int) []int {
	if step <= 0 {
		return nil
	}
	var out []int
	for v := lo; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}
