package charts

import "trends-go/pkg/frame"

const (
	RelatedPageSize = 10

	NoteTop     = "Showing top related queries."
	NoteRising  = "‘Top’ not available for this combo — showing rising queries instead."
	NoteMissing = "No related queries available for this keyword/timeframe/region."
)

// TableColumn describes one column of a paginated table.
type TableColumn struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// TableView is the related-queries table plus the note shown under it.
type TableView struct {
	Columns  []TableColumn            `json:"columns"`
	Data     []map[string]interface{} `json:"data"`
	Note     string                   `json:"note"`
	PageSize int                      `json:"page_size"`
}

// RelatedTable shows top related queries when there are any, otherwise the
// rising ones, otherwise an empty table with an explanatory note.
func RelatedTable(bundle frame.RelatedBundle) TableView {
	bundle = bundle.Compact()

	var f *frame.Frame
	var note string
	switch {
	case bundle.Top != nil:
		f, note = bundle.Top, NoteTop
	case bundle.Rising != nil:
		f, note = bundle.Rising, NoteRising
	default:
		return TableView{
			Columns:  []TableColumn{},
			Data:     []map[string]interface{}{},
			Note:     NoteMissing,
			PageSize: RelatedPageSize,
		}
	}

	names := f.RecordColumns()
	cols := make([]TableColumn, len(names))
	for i, n := range names {
		cols[i] = TableColumn{Name: n, ID: n}
	}
	return TableView{
		Columns:  cols,
		Data:     f.Records(),
		Note:     note,
		PageSize: RelatedPageSize,
	}
}
