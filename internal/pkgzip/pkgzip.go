// Package pkgzip is a thin archive/zip adapter matching the part layout
// HWPX documents need: an ordered-name reader and a writer that lets the
// "mimetype" part be stored first and uncompressed, per the OPC
// convention HWPX inherits (spec §5.1).
package pkgzip

import (
	"archive/zip"
	"io"

	"github.com/hanpama/hwped/hwperr"
)

// Archive is a read-only view over an HWPX ZIP container.
type Archive struct {
	zr *zip.Reader
}

func OpenArchive(ra io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "open HWPX as ZIP", err)
	}
	return &Archive{zr: zr}, nil
}

// Open returns a reader for the named part, or a NotFound-flavored
// CorruptDocument error (spec's container-well-formedness check, §4.9).
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, err := a.zr.Open(name)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "open part "+name, err)
	}
	return f, nil
}

// Names lists every part path present, in archive order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.zr.File))
	for i, f := range a.zr.File {
		names[i] = f.Name
	}
	return names
}

func (a *Archive) ReadAll(name string) ([]byte, error) {
	f, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "read part "+name, err)
	}
	return data, nil
}

// Writer builds a fresh HWPX ZIP container. A part can be carried over
// from a source Archive via CopyFrom, which reads its content and stores
// it again through Put (the content is unchanged; the compressed bytes
// are produced anew). The codec re-encodes header.xml and every section
// part on each write and carries the other parts over this way.
type Writer struct {
	zw *zip.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{zw: zip.NewWriter(w)} }

// Put stores data under name. The "mimetype" part must be the first
// Put call and is stored without compression, per the OPC convention.
func (w *Writer) Put(name string, data []byte) error {
	method := zip.Deflate
	if name == "mimetype" {
		method = zip.Store
	}
	fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "create part "+name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "write part "+name, err)
	}
	return nil
}

// CopyFrom copies a part unchanged from src.
func (w *Writer) CopyFrom(src *Archive, name string) error {
	data, err := src.ReadAll(name)
	if err != nil {
		return err
	}
	return w.Put(name, data)
}

func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "close HWPX archive", err)
	}
	return nil
}
