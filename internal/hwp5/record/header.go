package record

import "github.com/hanpama/hwped/internal/byteio"

// extendedSizeMarker is the sizeShort value signaling a following 32-bit
// extended size field (spec §4.3).
const extendedSizeMarker = 0xFFF

// Header is the packed per-record header: a 32-bit word of
// tagId(10)/level(10)/sizeShort(12), plus an optional 32-bit extended
// size. HeaderLen reports how many bytes the packed form actually
// occupies (4 or 8), needed by Rewrite to compute byte deltas.
type Header struct {
	Tag   Tag
	Level uint16
	Size  uint32
}

// HeaderLen returns 4 if Size is below the 0xFFF extended-size marker,
// else 8 (a Size of exactly 0xFFF also takes the extended form).
func (h Header) HeaderLen() int {
	if h.Size >= extendedSizeMarker {
		return 8
	}
	return 4
}

// Pack encodes the header (choosing short or extended form by Size) into
// its wire bytes.
func (h Header) Pack() []byte {
	w := byteio.NewWriter()
	if h.Size >= extendedSizeMarker {
		packed := uint32(h.Tag)&0x3ff | (uint32(h.Level)&0x3ff)<<10 | extendedSizeMarker<<20
		w.Uint32(packed)
		w.Uint32(h.Size)
	} else {
		packed := uint32(h.Tag)&0x3ff | (uint32(h.Level)&0x3ff)<<10 | h.Size<<20
		w.Uint32(packed)
	}
	return w.Bytes()
}

// UnpackHeader reads one packed record header starting at r's current
// position, returning the header and its own encoded length in bytes.
func UnpackHeader(r *byteio.Reader) (Header, error) {
	word, err := r.Uint32()
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Tag:   Tag(word & 0x3ff),
		Level: uint16((word >> 10) & 0x3ff),
		Size:  (word >> 20) & 0xfff,
	}
	if h.Size == extendedSizeMarker {
		ext, err := r.Uint32()
		if err != nil {
			return Header{}, err
		}
		h.Size = ext
	}
	return h, nil
}
