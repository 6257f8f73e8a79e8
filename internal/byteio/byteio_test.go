package byteio

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Uint16(0x1234)
	w.Uint32(0xDEADBEEF)
	w.Uint64(0x0102030405060708)
	w.Raw([]byte{0xAA, 0xBB})

	r := NewReader(w.Bytes())
	if v, err := r.Uint16(); err != nil || v != 0x1234 {
		t.Fatalf("Uint16 = %#x, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("Uint32 = %#x, %v", v, err)
	}
	if v, err := r.Uint64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("Uint64 = %#x, %v", v, err)
	}
	b, err := r.Bytes(2)
	if err != nil || b[0] != 0xAA || b[1] != 0xBB {
		t.Fatalf("Bytes = %v, %v", b, err)
	}
	if r.Len() != 0 {
		t.Errorf("expected reader to be exhausted, %d bytes left", r.Len())
	}
}

func TestReaderOutOfBoundsReturnsError(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.Uint32(); err == nil {
		t.Error("expected an error reading 4 bytes from a 2-byte buffer")
	}
}

func TestReaderSkip(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if r.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2", r.Pos())
	}
	if err := r.Skip(10); err == nil {
		t.Error("expected an error skipping past the buffer end")
	}
}
