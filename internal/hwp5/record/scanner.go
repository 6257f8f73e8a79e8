package record

import (
	"fmt"
	"io"

	"github.com/hanpama/hwped/internal/byteio"
)

// Record is one decoded tagged record: its header, the absolute offset
// its header starts at, the header's own wire length, and a payload
// view into the original stream (never copied).
type Record struct {
	Offset    int
	HeaderLen int
	Tag       Tag
	Level     uint16
	Size      uint32
	Payload   []byte
}

// End returns the offset one past this record's payload — where the
// next sibling or child record, if any, begins.
func (r Record) End() int { return r.Offset + r.HeaderLen + int(r.Size) }

// Scanner is a forward iterator over a flat tagged-record stream held
// entirely in memory (spec §4.3 item 1). Operating on a byte slice
// rather than an io.Reader, unlike the teacher's RecScanner, is what
// lets Rewrite/Builder address records by byte offset.
type Scanner struct {
	data []byte
	pos  int
}

// NewScanner wraps data (typically an already-decompressed DocInfo or
// BodyText/Section<k> stream) for forward iteration.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next record, or io.EOF at end of stream. A payload
// size that would overflow the remaining stream is a fatal error (spec
// §4.3): "Any overflow past declared size is fatal."
func (s *Scanner) Next() (Record, error) {
	if s.pos >= len(s.data) {
		return Record{}, io.EOF
	}
	offset := s.pos
	r := byteio.NewReader(s.data[s.pos:])
	hdr, err := UnpackHeader(r)
	if err != nil {
		return Record{}, fmt.Errorf("record header at offset %d: %w", offset, err)
	}
	headerLen := r.Pos()
	payload, err := r.Bytes(int(hdr.Size))
	if err != nil {
		return Record{}, fmt.Errorf("record payload at offset %d (tag %d, declared size %d): %w", offset, hdr.Tag, hdr.Size, err)
	}
	s.pos = offset + headerLen + int(hdr.Size)
	return Record{
		Offset:    offset,
		HeaderLen: headerLen,
		Tag:       hdr.Tag,
		Level:     hdr.Level,
		Size:      hdr.Size,
		Payload:   payload,
	}, nil
}

// ScanAll reads every record in the stream. A level that skips more
// than one step deeper than its predecessor (spec §4.3: "a level-3
// appearing after a level-1 with no level-2 in between") is tolerated,
// not rejected — the format permits malformed-but-parseable input here
// and the core must never crash on it.
func ScanAll(data []byte) ([]Record, error) {
	s := NewScanner(data)
	var recs []Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
