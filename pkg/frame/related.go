package frame

// RelatedBundle pairs the top and rising related-query tables for one
// keyword. Either table may be nil when the provider has nothing.
type RelatedBundle struct {
	Top    *Frame `json:"top"`
	Rising *Frame `json:"rising"`
}

// Empty reports whether neither table has rows.
func (b RelatedBundle) Empty() bool {
	return b.Top.Empty() && b.Rising.Empty()
}

// Compact returns b with empty tables replaced by nil.
func (b RelatedBundle) Compact() RelatedBundle {
	if b.Top.Empty() {
		b.Top = nil
	}
	if b.Rising.Empty() {
		b.Rising = nil
	}
	return b
}
