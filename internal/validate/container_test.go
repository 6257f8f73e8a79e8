package validate

import (
	"testing"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

func fixtureFileHeader() []byte {
	var raw [40]byte
	copy(raw[:], "HWP Document File")
	return raw[:]
}

func fixtureDocInfo(charShapeCount uint32) []byte {
	return record.Append(record.TagIDMappings, 0, record.EncodeIDMappings(record.IDMappingsPayload{
		CharShapeCount: charShapeCount,
	}))
}

func fixtureParagraph(nChars uint32, text string) []byte {
	header := record.Append(record.TagParaHeader, 0, record.EncodeParaHeader(record.ParaHeaderPayload{NChars: nChars}))
	body := record.Append(record.TagParaText, 1, byteio.EncodeParaText(byteio.NewPlainTextElements(text)))
	return append(header, body...)
}

func fixtureDoc() *document.Document {
	return &document.Document{
		Header:   document.NewBaseHeader(),
		Format:   document.FormatHWP,
		Sections: []*document.Section{{}},
	}
}

func TestDocumentHWPPassesOnWellFormedFixture(t *testing.T) {
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if !res.Valid() {
		t.Errorf("expected a well-formed fixture to validate clean, got failures: %+v", res.Failures)
	}
}

func TestDocumentCatchesMissingContainerEntry(t *testing.T) {
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo"}, // BodyText/Section0 missing
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for a missing container entry")
	}
	if res.Failures[0].Kind != CheckContainerWellFormed {
		t.Errorf("expected CheckContainerWellFormed, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesBadFileHeaderSignature(t *testing.T) {
	raw := fixtureFileHeader()
	raw[0] = 'X'
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: raw,
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for a bad FileHeader signature")
	}
	if res.Failures[0].Kind != CheckFileHeader {
		t.Errorf("expected CheckFileHeader, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesEncryptionFlag(t *testing.T) {
	raw := fixtureFileHeader()
	raw[36] = 0x2
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: raw,
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for the encryption bit")
	}
}

func TestDocumentCatchesRecordStreamOverflow(t *testing.T) {
	h := record.Header{Tag: record.TagParaHeader, Level: 0, Size: 99}
	truncated := append(h.Pack(), []byte{1, 2, 3}...)
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{truncated},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for an overflowing record size")
	}
	if res.Failures[0].Kind != CheckRecordStream {
		t.Errorf("expected CheckRecordStream, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesNCharsMismatch(t *testing.T) {
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  fixtureDocInfo(0),
		SectionBytes:  [][]byte{fixtureParagraph(99999, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for a mismatched nChars")
	}
	if res.Failures[0].Kind != CheckNCharsLaw {
		t.Errorf("expected CheckNCharsLaw, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesIDMappingMismatch(t *testing.T) {
	// Declares one CHAR_SHAPE but DocInfo has none.
	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  fixtureDocInfo(1),
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for an ID_MAPPINGS count mismatch")
	}
	if res.Failures[0].Kind != CheckIDMappingLaw {
		t.Errorf("expected CheckIDMappingLaw, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesCharShapeDiscontiguity(t *testing.T) {
	docInfo := record.Append(record.TagIDMappings, 0, record.EncodeIDMappings(record.IDMappingsPayload{CharShapeCount: 2}))
	docInfo = append(docInfo, record.Append(record.TagCharShape, 0, []byte{0})...)
	docInfo = append(docInfo, record.Append(record.TagFaceName, 0, []byte{0})...) // interleaved
	docInfo = append(docInfo, record.Append(record.TagCharShape, 0, []byte{0})...)

	cc := &ContainerContext{
		StreamNames:   []string{"FileHeader", "DocInfo", "BodyText/Section0"},
		FileHeaderRaw: fixtureFileHeader(),
		DocInfoBytes:  docInfo,
		SectionBytes:  [][]byte{fixtureParagraph(5, "hello")},
		SectionNames:  []string{"BodyText/Section0"},
	}
	res := Document(fixtureDoc(), cc)
	if res.Valid() {
		t.Fatal("expected a validation failure for discontiguous CHAR_SHAPE records")
	}
	found := false
	for _, f := range res.Failures {
		if f.Kind == CheckCharShapeContiguity {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a CheckCharShapeContiguity failure, got %+v", res.Failures)
	}
}
