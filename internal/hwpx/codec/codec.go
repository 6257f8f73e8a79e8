// Package codec implements the HWPX container format: a ZIP archive of
// namespaced XML parts (spec §5.1). It builds the shared document.Document
// model from Contents/header.xml and Contents/section<k>.xml, and writes
// it back out, copying every untouched part verbatim (spec §9's
// minimum-diff guarantee, applied at the part level here rather than
// the byte-splice level HWP5 records use).
package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/hwpx/xmlpart"
	"github.com/hanpama/hwped/internal/pkgzip"
)

const expectedMimetype = "application/hwp+zip"

// Open validates the mimetype part, then decodes Contents/header.xml and
// every Contents/section<k>.xml part in the order the archive lists them.
// version.xml is not read.
func Open(ra io.ReaderAt, size int64) (*document.Document, *pkgzip.Archive, error) {
	ar, err := pkgzip.OpenArchive(ra, size)
	if err != nil {
		return nil, nil, err
	}

	mt, err := ar.ReadAll("mimetype")
	if err != nil {
		return nil, nil, hwperr.Wrap(hwperr.FormatError, "read mimetype", err)
	}
	if string(mt) != expectedMimetype {
		return nil, nil, hwperr.New(hwperr.FormatError, fmt.Sprintf("unexpected HWPX mimetype %q", string(mt)))
	}

	headerBytes, err := ar.ReadAll("Contents/header.xml")
	if err != nil {
		return nil, nil, err
	}
	header, err := xmlpart.DecodeHeader(bytes.NewReader(headerBytes))
	if err != nil {
		return nil, nil, err
	}

	var sectionNames []string
	for _, name := range ar.Names() {
		if strings.HasPrefix(name, "Contents/section") && strings.HasSuffix(name, ".xml") {
			sectionNames = append(sectionNames, name)
		}
	}
	if len(sectionNames) == 0 {
		return nil, nil, hwperr.New(hwperr.CorruptDocument, "no Contents/section*.xml parts found")
	}

	doc := &document.Document{Format: document.FormatHWPX, Header: header}
	for _, name := range sectionNames {
		data, err := ar.ReadAll(name)
		if err != nil {
			return nil, nil, err
		}
		sec, err := xmlpart.DecodeSection(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", name, err)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, ar, nil
}

// BinDataPut is one new or replaced BinData/<name> part an edit owes the
// archive on write, bypassing the verbatim src copy for that name.
type BinDataPut struct {
	Name string
	Data []byte
}

// Write serializes doc as a fresh HWPX ZIP. src, if non-nil, is the
// Archive the document was originally opened from; every part other
// than header.xml and the section files is copied from it unchanged
// (version.xml, META-INF/manifest.xml, Contents/content.hpf, BinData/*),
// preserving whatever the source document carried there. pending
// overrides or adds BinData parts (spec §4.7(g) image insert/replace).
func Write(w io.Writer, doc *document.Document, src *pkgzip.Archive, pending []BinDataPut) error {
	zw := pkgzip.NewWriter(w)

	pendingNames := make(map[string][]byte, len(pending))
	for _, p := range pending {
		pendingNames[p.Name] = p.Data
	}

	if src != nil {
		if err := zw.CopyFrom(src, "mimetype"); err != nil {
			return err
		}
	} else {
		if err := zw.Put("mimetype", []byte(expectedMimetype)); err != nil {
			return err
		}
	}

	headerBytes, err := xmlpart.EncodeHeader(doc.Header)
	if err != nil {
		return err
	}
	if err := zw.Put("Contents/header.xml", headerBytes); err != nil {
		return err
	}

	for i, sec := range doc.Sections {
		data, err := xmlpart.EncodeSection(sec)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("Contents/section%d.xml", i)
		if err := zw.Put(name, data); err != nil {
			return err
		}
	}

	if src != nil {
		for _, name := range src.Names() {
			if name == "mimetype" || name == "Contents/header.xml" {
				continue
			}
			if strings.HasPrefix(name, "Contents/section") && strings.HasSuffix(name, ".xml") {
				continue
			}
			if data, ok := pendingNames[name]; ok {
				delete(pendingNames, name)
				if err := zw.Put(name, data); err != nil {
					return err
				}
				continue
			}
			if err := zw.CopyFrom(src, name); err != nil {
				return err
			}
		}
	} else {
		if err := zw.Put("version.xml", defaultVersionXML()); err != nil {
			return err
		}
		if err := zw.Put("META-INF/manifest.xml", defaultManifestXML()); err != nil {
			return err
		}
		if err := zw.Put("Contents/content.hpf", defaultContentHPF()); err != nil {
			return err
		}
	}

	// Any pending BinData entries not already covered by a src part
	// (new inserts, or a replace on a document with no src archive at
	// all) are written fresh.
	for name, data := range pendingNames {
		if err := zw.Put(name, data); err != nil {
			return err
		}
	}

	return zw.Close()
}

func defaultVersionXML() []byte {
	v := struct {
		XMLName     xml.Name `xml:"HCFVersion"`
		Major       int      `xml:"major,attr"`
		Minor       int      `xml:"minor,attr"`
		Micro       int      `xml:"micro,attr"`
		BuildNumber int      `xml:"buildNumber,attr"`
		XMLVersion  string   `xml:"xmlVersion,attr"`
	}{Major: 1, Minor: 3, Micro: 1, BuildNumber: 1, XMLVersion: "1.4"}
	out, _ := xml.MarshalIndent(v, "", "  ")
	return append([]byte(xml.Header), out...)
}

func defaultContentHPF() []byte {
	return []byte(xml.Header + `<opf:package xmlns:opf="http://www.idpf.org/2007/opf/" unique-identifier="hwp-id">
  <opf:metadata>
    <opf:title>hwped document</opf:title>
  </opf:metadata>
  <opf:manifest>
    <opf:item id="header" href="Contents/header.xml" media-type="application/xml"/>
  </opf:manifest>
</opf:package>
`)
}

func defaultManifestXML() []byte {
	return []byte(xml.Header + `<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0">
  <manifest:file-entry manifest:media-type="application/hwp+zip" manifest:full-path="/"/>
  <manifest:file-entry manifest:media-type="application/xml" manifest:full-path="Contents/header.xml"/>
</manifest:manifest>
`)
}
