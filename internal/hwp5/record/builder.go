package record

// Builder helps compute the Insert offset for the two positions spec
// §4.3 item 3 names: append at stream end, or insert immediately after
// a named anchor record (itself found by scanning).
type Builder struct {
	recs []Record
}

// NewBuilder scans data once and remembers its records so repeated
// anchor lookups don't re-scan.
func NewBuilder(data []byte) (*Builder, error) {
	recs, err := ScanAll(data)
	if err != nil {
		return nil, err
	}
	return &Builder{recs: recs}, nil
}

// EndOffset returns the offset one past the last record in the stream —
// the append-at-end insertion point.
func (b *Builder) EndOffset() int {
	if len(b.recs) == 0 {
		return 0
	}
	return b.recs[len(b.recs)-1].End()
}

// AfterAnchor returns the offset immediately after the anchor record at
// the given index into Records(), i.e. anchorRec.End() — the insertion
// point for "insert one record immediately after an existing one".
func (b *Builder) AfterAnchor(anchorIndex int) int {
	return b.recs[anchorIndex].End()
}

// Records exposes the scanned record list (offsets, tags, levels) so
// callers can locate an anchor by tag/level/encounter-order.
func (b *Builder) Records() []Record { return b.recs }
