package record

import (
	"io"
	"testing"
)

func buildStream(recs ...Record) []byte {
	var out []byte
	for _, r := range recs {
		out = append(out, Append(r.Tag, r.Level, r.Payload)...)
	}
	return out
}

func TestScannerNextSequence(t *testing.T) {
	data := buildStream(
		Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1, 2, 3}},
		Record{Tag: TagParaText, Level: 1, Payload: []byte{4, 5}},
	)
	s := NewScanner(data)

	r1, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r1.Tag != TagParaHeader || r1.Level != 0 || string(r1.Payload) != "\x01\x02\x03" {
		t.Errorf("unexpected first record: %+v", r1)
	}

	r2, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r2.Tag != TagParaText || r2.Level != 1 {
		t.Errorf("unexpected second record: %+v", r2)
	}

	if _, err := s.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestScanAllTolerant(t *testing.T) {
	// A level-3 record immediately following a level-0 record (skipping
	// level 1 and 2) must still parse, not be rejected.
	data := buildStream(
		Record{Tag: TagParaHeader, Level: 0, Payload: nil},
		Record{Tag: TagCtrlHeader, Level: 3, Payload: []byte{9}},
	)
	recs, err := ScanAll(data)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Level != 3 {
		t.Errorf("expected second record level 3, got %d", recs[1].Level)
	}
}

func TestScannerOverflowIsFatal(t *testing.T) {
	// A header declaring a size larger than the remaining stream.
	h := Header{Tag: TagParaHeader, Level: 0, Size: 10}
	data := append(h.Pack(), []byte{1, 2, 3}...) // only 3 bytes of the declared 10
	s := NewScanner(data)
	if _, err := s.Next(); err == nil {
		t.Error("expected an error for a payload overflowing the stream")
	}
}

func TestRecordEnd(t *testing.T) {
	data := buildStream(Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1, 2, 3, 4}})
	recs, err := ScanAll(data)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if recs[0].End() != len(data) {
		t.Errorf("End() = %d, want %d", recs[0].End(), len(data))
	}
}
