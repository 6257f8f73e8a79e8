package byteio

import (
	"bytes"
	"testing"
)

func TestDeflateInflateRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50)
	compressed, err := DeflateRaw(original)
	if err != nil {
		t.Fatalf("DeflateRaw: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("expected compression to shrink repetitive input: got %d bytes from %d", len(compressed), len(original))
	}
	restored, err := InflateRaw(compressed)
	if err != nil {
		t.Fatalf("InflateRaw: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Error("round trip did not reproduce the original bytes")
	}
}

func TestInflateRawEmptyInput(t *testing.T) {
	compressed, err := DeflateRaw(nil)
	if err != nil {
		t.Fatalf("DeflateRaw(nil): %v", err)
	}
	restored, err := InflateRaw(compressed)
	if err != nil {
		t.Fatalf("InflateRaw: %v", err)
	}
	if len(restored) != 0 {
		t.Errorf("expected empty round trip, got %d bytes", len(restored))
	}
}
