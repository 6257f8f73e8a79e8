package decode

import (
	"crypto/cipher"
	"encoding/binary"
	"io"

	"github.com/hanpama/hwped/hwperr"
)

// cryptoReader decrypts a distribution document's BodyText/Section<k>
// stream on the fly with AES-128 in ECB mode, one 16-byte block at a time.
type cryptoReader struct {
	r     io.Reader
	block cipher.Block
	buf   []byte
	ptr   int
}

func (cr *cryptoReader) Read(p []byte) (int, error) {
	if cr.ptr < len(cr.buf) {
		n := copy(p, cr.buf[cr.ptr:])
		cr.ptr += n
		return n, nil
	}
	blk := make([]byte, 16)
	n, err := io.ReadFull(cr.r, blk)
	if err != nil {
		if err == io.EOF && n == 0 {
			return 0, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return 0, hwperr.New(hwperr.CorruptDocument, "encrypted section stream not aligned to AES block size")
		}
		return 0, err
	}
	cr.block.Decrypt(blk, blk)
	cr.buf = blk
	cr.ptr = 0
	return cr.Read(p)
}

// deriveKey extracts the AES-128 key embedded in a distribution
// document's 256-byte DISTRIBUTE_DOC_DATA record, following HWP's
// seeded-PRNG obfuscation: the seed (first 4 bytes) feeds an MSVC-style
// rand() stream that is XORed against the record to recover the key at
// a seed-dependent offset.
func deriveKey(distData []byte) ([]byte, error) {
	if len(distData) != 256 {
		return nil, hwperr.New(hwperr.CorruptDocument, "distribution document data must be 256 bytes")
	}
	seed := binary.LittleEndian.Uint32(distData[0:4])

	rng := &msvcRand{state: seed}
	randomArray := make([]byte, 256)
	for i := 0; i < 256; {
		val := rng.next()
		cnt := rng.next()
		v := byte(val & 0xFF)
		c := int((cnt & 0x0F) + 1)
		for j := 0; j < c && i < 256; j++ {
			randomArray[i] = v
			i++
		}
	}

	xorData := make([]byte, 256)
	for i := range xorData {
		xorData[i] = distData[i] ^ randomArray[i]
	}

	offset := int((seed & 0x0F) + 4)
	if offset+16 > 256 {
		return nil, hwperr.New(hwperr.CorruptDocument, "invalid distribution document key offset")
	}
	key := make([]byte, 16)
	copy(key, xorData[offset:offset+16])
	return key, nil
}

// msvcRand reproduces the linear congruential generator MS Visual C++'s
// rand() uses: next = previous*214013 + 2531011, result in bits 16..30.
type msvcRand struct{ state uint32 }

func (r *msvcRand) next() uint32 {
	r.state = r.state*214013 + 2531011
	return (r.state >> 16) & 0x7FFF
}
