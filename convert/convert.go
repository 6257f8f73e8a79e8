// Package convert implements a one-way HWP5 → HWPX conversion: decode
// the source HWP document into the shared document.Document model, flip
// its format tag, and serialize it as a fresh HWPX container. No
// structural difference exists between a decoded-then-reencoded HWPX
// document and this path's output, since both target the same
// format-agnostic model.
package convert

import (
	"io"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/hwp5/decode"
	"github.com/hanpama/hwped/internal/hwpx/codec"
)

// ToHWPX reads an HWP 5.0 document from src and writes it as an HWPX
// container to dst. Embedded images are not carried over: this core's
// HWP decode path does not resolve SHAPE_COMPONENT_PICTURE's own
// BinData reference to concrete bytes (see internal/hwp5/decode
// section.go), so the source document's Image metadata has no bytes to
// carry across containers. Rather than write an Image entry whose
// BinDataPath points at a BinData/ part this path never creates (which
// a reference HWPX viewer would flag as a dangling reference), dropImages
// strips every Image from the converted model before it is serialized.
func ToHWPX(src io.ReaderAt, dst io.Writer) error {
	doc, err := decode.Decode(src)
	if err != nil {
		return err
	}
	doc.Format = document.FormatHWPX
	dropImages(doc)
	if err := codec.Write(dst, doc, nil, nil); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "write converted HWPX", err)
	}
	return nil
}

// dropImages clears every section's Image list in place. Converting an
// Image's metadata without its binary payload would leave a reference a
// reader expects to resolve to BinData/ bytes that were never written.
func dropImages(doc *document.Document) {
	for _, sec := range doc.Sections {
		sec.Images = nil
	}
}
