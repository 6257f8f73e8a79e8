package byteio

import (
	"bytes"
	"compress/flate"
	"io"
)

// InflateRaw decompresses a headerless (raw) deflate stream, the
// convention HWP uses for every non-FileHeader stream when the
// compressed flag bit is set (spec §4.1, §6).
func InflateRaw(data []byte) ([]byte, error) {
	zr := flate.NewReader(bytes.NewReader(data))
	defer zr.Close()
	return io.ReadAll(zr)
}

// DeflateRaw compresses data into a headerless (raw) deflate stream
// using the standard library's default window, matching the teacher's
// and the format's own use of compress/flate (spec §9: never
// "re-compress with a different window size").
func DeflateRaw(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
