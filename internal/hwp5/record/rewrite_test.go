package record

import "testing"

func TestRewriteReplacesPayload(t *testing.T) {
	data := buildStream(
		Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1}},
		Record{Tag: TagParaText, Level: 1, Payload: []byte{2, 3}},
		Record{Tag: TagParaLineSeg, Level: 1, Payload: []byte{4}},
	)
	recs, err := ScanAll(data)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	target := recs[1]

	out := Rewrite(data, []Edit{{
		RecordOffset: target.Offset,
		HeaderLen:    target.HeaderLen,
		OldSize:      int(target.Size),
		Tag:          target.Tag,
		Level:        target.Level,
		NewPayload:   []byte{9, 9, 9, 9},
	}}, nil)

	got, err := ScanAll(out)
	if err != nil {
		t.Fatalf("ScanAll(out): %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records after rewrite, got %d", len(got))
	}
	if string(got[1].Payload) != "\x09\x09\x09\x09" {
		t.Errorf("expected replaced payload, got %v", got[1].Payload)
	}
	if string(got[0].Payload) != "\x01" || string(got[2].Payload) != "\x04" {
		t.Errorf("unchanged records should be byte-identical, got %+v and %+v", got[0], got[2])
	}
}

func TestRewriteRemovesRecord(t *testing.T) {
	data := buildStream(
		Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1}},
		Record{Tag: TagParaText, Level: 1, Payload: []byte{2, 3}},
	)
	recs, err := ScanAll(data)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	target := recs[1]

	out := Rewrite(data, []Edit{{
		RecordOffset: target.Offset,
		HeaderLen:    target.HeaderLen,
		OldSize:      int(target.Size),
		Remove:       true,
	}}, nil)

	got, err := ScanAll(out)
	if err != nil {
		t.Fatalf("ScanAll(out): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record after removal, got %d", len(got))
	}
	if got[0].Tag != TagParaHeader {
		t.Errorf("expected the surviving record to be PARA_HEADER, got %v", got[0].Tag)
	}
}

func TestRewriteInsertsAtEnd(t *testing.T) {
	data := buildStream(Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1}})
	b, err := NewBuilder(data)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	end := b.EndOffset()

	out := Rewrite(data, nil, []Insert{{
		AtOffset: end,
		Tag:      TagCtrlHeader,
		Level:    0,
		Payload:  []byte{7, 7},
	}})

	got, err := ScanAll(out)
	if err != nil {
		t.Fatalf("ScanAll(out): %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records after insert, got %d", len(got))
	}
	if got[1].Tag != TagCtrlHeader || string(got[1].Payload) != "\x07\x07" {
		t.Errorf("unexpected inserted record: %+v", got[1])
	}
}

func TestRewriteInsertAfterAnchor(t *testing.T) {
	data := buildStream(
		Record{Tag: TagParaHeader, Level: 0, Payload: []byte{1}},
		Record{Tag: TagParaLineSeg, Level: 1, Payload: []byte{2}},
	)
	b, err := NewBuilder(data)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	anchor := b.AfterAnchor(0)

	out := Rewrite(data, nil, []Insert{{
		AtOffset: anchor,
		Tag:      TagCtrlHeader,
		Level:    1,
		Payload:  []byte{5},
	}})

	got, err := ScanAll(out)
	if err != nil {
		t.Fatalf("ScanAll(out): %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[1].Tag != TagCtrlHeader {
		t.Errorf("expected inserted record immediately after anchor, got %+v", got[1])
	}
	if got[2].Tag != TagParaLineSeg {
		t.Errorf("expected original second record to follow the insert, got %+v", got[2])
	}
}
