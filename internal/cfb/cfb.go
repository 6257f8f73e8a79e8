// Package cfb provides OLE2 Compound File Binary container access: a
// thin read adapter over mscfb, and a minimum-diff writer for streams
// this core needs to replace in place (spec §4.2's container model).
package cfb

import (
	"fmt"
	"io"

	"github.com/hanpama/hwped/hwperr"
	"github.com/richardlehane/mscfb"
)

// Reader gives named-stream access into an OLE2 container. mscfb only
// exposes forward iteration over its directory, so OpenStream rescans
// from the start of ra each time — acceptable here since FileHeader,
// DocInfo and each BodyText/Section<k> stream are each opened once per
// decode pass.
type Reader struct {
	ra io.ReaderAt
}

func NewReader(ra io.ReaderAt) *Reader { return &Reader{ra: ra} }

// OpenStream returns a forward-only reader positioned at the start of
// the named stream (e.g. "FileHeader", "BodyText/Section0").
func (r *Reader) OpenStream(name string) (io.Reader, error) {
	doc, err := mscfb.New(r.ra)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "open OLE2 container", err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if streamPath(entry) == name {
			return doc, nil
		}
	}
	return nil, hwperr.New(hwperr.CorruptDocument, fmt.Sprintf("stream %q not found", name)).WithPath(name)
}

// StreamNames lists every stream path present, for diagnostics and for
// the validator's container-well-formedness check (spec §4.9 check 1).
func (r *Reader) StreamNames() ([]string, error) {
	doc, err := mscfb.New(r.ra)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "open OLE2 container", err)
	}
	var names []string
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		names = append(names, streamPath(entry))
	}
	return names, nil
}

func streamPath(entry *mscfb.File) string {
	full := ""
	for _, p := range entry.Path {
		full += p + "/"
	}
	return full + entry.Name
}
