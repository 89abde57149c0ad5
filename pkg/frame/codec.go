package frame

import (
	"encoding/json"
	"fmt"
)

// splitFrame is the wire form: index, columns and row data kept apart so
// that column order survives transport.
type splitFrame struct {
	IndexName string   `json:"index_name,omitempty"`
	Columns   []string `json:"columns"`
	Index     []string `json:"index"`
	Data      [][]int  `json:"data"`
}

// MarshalJSON encodes f in split orientation.
func (f Frame) MarshalJSON() ([]byte, error) {
	s := splitFrame{
		IndexName: f.IndexName,
		Columns:   f.Columns,
		Index:     f.Index,
		Data:      f.Data,
	}
	if s.Columns == nil {
		s.Columns = []string{}
	}
	if s.Index == nil {
		s.Index = []string{}
	}
	if s.Data == nil {
		s.Data = [][]int{}
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes the split orientation and rejects ragged tables.
func (f *Frame) UnmarshalJSON(b []byte) error {
	var s splitFrame
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	decoded := Frame{
		IndexName: s.IndexName,
		Columns:   s.Columns,
		Index:     s.Index,
		Data:      s.Data,
	}
	if decoded.Columns == nil {
		decoded.Columns = []string{}
	}
	if decoded.Index == nil {
		decoded.Index = []string{}
	}
	if decoded.Data == nil {
		decoded.Data = [][]int{}
	}
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	*f = decoded
	return nil
}

// Encode is a convenience for callers holding a *Frame that may be nil.
// A nil frame encodes as JSON null.
func Encode(f *Frame) ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Decode is the inverse of Encode. JSON null yields a nil frame.
func Decode(b []byte) (*Frame, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
