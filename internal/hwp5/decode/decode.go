package decode

import (
	"io"

	"github.com/hanpama/hwped/document"
)

// Decode opens an HWP 5.0 OLE2 document and builds the unified
// document.Document model from its DocInfo header table and BodyText (or,
// for distribution documents, ViewText) sections (spec §4.2, §4.6).
func Decode(ra io.ReaderAt) (*document.Document, error) {
	c, err := Open(ra)
	if err != nil {
		return nil, err
	}

	docInfoBytes, err := c.DocInfoBytes()
	if err != nil {
		return nil, err
	}
	header, err := DecodeDocInfo(docInfoBytes)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{Format: document.FormatHWP, Header: header}
	for i := 0; i < c.SectionCount(); i++ {
		sectionBytes, err := c.SectionBytes(i)
		if err != nil {
			return nil, err
		}
		sec, err := DecodeSection(sectionBytes)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}
