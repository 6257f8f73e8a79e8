package record

import (
	"testing"

	"github.com/hanpama/hwped/internal/byteio"
)

func TestHeaderPackUnpackShort(t *testing.T) {
	h := Header{Tag: TagParaHeader, Level: 3, Size: 42}
	packed := h.Pack()
	if len(packed) != 4 {
		t.Fatalf("expected 4-byte short header, got %d bytes", len(packed))
	}

	got, err := UnpackHeader(byteio.NewReader(packed))
	if err != nil {
		t.Fatalf("UnpackHeader: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
	if h.HeaderLen() != 4 {
		t.Errorf("HeaderLen() = %d, want 4", h.HeaderLen())
	}
}

func TestHeaderPackUnpackExtended(t *testing.T) {
	h := Header{Tag: TagParaText, Level: 1, Size: 0x2000}
	packed := h.Pack()
	if len(packed) != 8 {
		t.Fatalf("expected 8-byte extended header, got %d bytes", len(packed))
	}
	if h.HeaderLen() != 8 {
		t.Errorf("HeaderLen() = %d, want 8", h.HeaderLen())
	}

	got, err := UnpackHeader(byteio.NewReader(packed))
	if err != nil {
		t.Fatalf("UnpackHeader: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderExtendedMarkerThreshold(t *testing.T) {
	h := Header{Tag: TagTable, Level: 0, Size: extendedSizeMarker - 1}
	if h.HeaderLen() != 4 {
		t.Errorf("size just under the marker should stay short form, got HeaderLen()=%d", h.HeaderLen())
	}
	h2 := Header{Tag: TagTable, Level: 0, Size: extendedSizeMarker}
	if h2.HeaderLen() != 8 {
		t.Errorf("size at the marker should switch to extended form, got HeaderLen()=%d", h2.HeaderLen())
	}
}
