package record

import "sort"

// Edit describes one planned change to a record stream: replace the
// record that starts at RecordOffset (its Record.Offset) with a record
// carrying NewPayload, or, if Remove is set, delete the
// record (header and payload both) entirely — used when a PARA_TEXT
// becomes empty (spec §4.7(a): "the record must be removed entirely,
// not zero-sized").
type Edit struct {
	RecordOffset int // Record.Offset of the record being replaced/removed
	HeaderLen    int // Record.HeaderLen of the record being replaced/removed (old)
	OldSize      int // Record.Size of the record being replaced/removed (old)
	Tag          Tag
	Level        uint16
	NewPayload   []byte // ignored if Remove
	Remove       bool
}

// Insert describes a brand-new record to splice in at a byte offset
// (spec §4.3 item 3: append at end, or insert immediately after an
// anchor record).
type Insert struct {
	AtOffset int
	Tag      Tag
	Level    uint16
	Payload  []byte
}

// Rewrite performs the single-forward-pass splice spec §9 describes:
// collect planned edits and inserts, compute per-record byte-length
// deltas, and emit a new stream that copies unchanged spans verbatim
// and only re-encodes the headers of touched records. Edits and
// inserts may be given in any order; Rewrite sorts by offset itself.
func Rewrite(data []byte, edits []Edit, inserts []Insert) []byte {
	type op struct {
		offset int
		order  int // inserts sort after edits at the same offset
		kind   int // 0 = edit, 1 = insert
		edit   Edit
		insert Insert
	}
	var ops []op
	for _, e := range edits {
		ops = append(ops, op{offset: e.RecordOffset, order: 0, kind: 0, edit: e})
	}
	for _, ins := range inserts {
		ops = append(ops, op{offset: ins.AtOffset, order: 1, kind: 1, insert: ins})
	}
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].offset != ops[j].offset {
			return ops[i].offset < ops[j].offset
		}
		return ops[i].order < ops[j].order
	})

	out := make([]byte, 0, len(data))
	cursor := 0
	for _, o := range ops {
		if o.kind == 1 {
			// Insert: copy everything up to the insert point, then the
			// new record, and do not advance past any original bytes.
			if o.insert.AtOffset < cursor {
				continue // overlapping insert point already passed; caller error, skip defensively
			}
			out = append(out, data[cursor:o.insert.AtOffset]...)
			hdr := Header{Tag: o.insert.Tag, Level: o.insert.Level, Size: uint32(len(o.insert.Payload))}
			out = append(out, hdr.Pack()...)
			out = append(out, o.insert.Payload...)
			cursor = o.insert.AtOffset
			continue
		}

		e := o.edit
		if e.RecordOffset < cursor {
			continue
		}
		out = append(out, data[cursor:e.RecordOffset]...)
		if !e.Remove {
			hdr := Header{Tag: e.Tag, Level: e.Level, Size: uint32(len(e.NewPayload))}
			out = append(out, hdr.Pack()...)
			out = append(out, e.NewPayload...)
		}
		cursor = e.RecordOffset + e.HeaderLen + e.OldSize
	}
	out = append(out, data[cursor:]...)
	return out
}

// Append encodes a single new record and returns its bytes, for the
// common case of appending a header-table entry (e.g. a new CHAR_SHAPE)
// to the end of a stream.
func Append(tag Tag, level uint16, payload []byte) []byte {
	hdr := Header{Tag: tag, Level: level, Size: uint32(len(payload))}
	return append(hdr.Pack(), payload...)
}
