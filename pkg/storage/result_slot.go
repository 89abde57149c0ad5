package storage

import "sync/atomic"

// ResultSlot is a single-slot holder. Store swaps the whole result in one
// step, so Load never observes a partially written analysis.
type ResultSlot struct {
	current atomic.Pointer[AnalysisResult]
}

var _ Slot = (*ResultSlot)(nil)

func NewResultSlot() *ResultSlot {
	return &ResultSlot{}
}

// Store replaces the held result. A nil result clears the slot.
func (s *ResultSlot) Store(result *AnalysisResult) {
	s.current.Store(result)
}

// Load returns the latest result or nil.
func (s *ResultSlot) Load() *AnalysisResult {
	return s.current.Load()
}

func (s *ResultSlot) Clear() {
	s.current.Store(nil)
}
