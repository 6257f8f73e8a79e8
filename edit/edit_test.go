package edit

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hanpama/hwped/convert"
	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/cfb"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// fixtureFileHeader builds a minimal, uncompressed, unencrypted 256-byte
// FileHeader stream.
func fixtureFileHeader() []byte {
	var raw [256]byte
	copy(raw[:], "HWP Document File")
	return raw[:]
}

// fixtureDocInfo builds a minimal DocInfo stream: one ID_MAPPINGS record
// (no fonts/shapes/styles, so DecodeDocInfo falls back to
// document.NewBaseHeader) plus DOCUMENT_PROPERTIES declaring 1 section.
func fixtureDocInfo() []byte {
	data := record.Append(record.TagIDMappings, 0, record.EncodeIDMappings(record.IDMappingsPayload{}))
	data = append(data, record.Append(record.TagDocumentProperties, 0, []byte{1, 0})...)
	return data
}

// fixtureSection builds a single-paragraph BodyText/Section0 stream whose
// PARA_HEADER.nChars matches text's UTF-16 code-unit count.
func fixtureSection(text string) []byte {
	els := byteio.NewPlainTextElements(text)
	header := record.Append(record.TagParaHeader, 0, record.EncodeParaHeader(record.ParaHeaderPayload{
		NChars: uint32(byteio.CodeUnitLen(els)),
	}))
	body := record.Append(record.TagParaText, 1, byteio.EncodeParaText(els))
	return append(header, body...)
}

// writeHWPFixture assembles a full HWP5 OLE2 file with one section
// containing a single paragraph with the given text, and writes it under
// dir, returning its path.
func writeHWPFixture(t *testing.T, dir, name, text string) string {
	t.Helper()
	cw := cfb.NewWriter()
	cw.PutStream("FileHeader", fixtureFileHeader())
	cw.PutStream("DocInfo", fixtureDocInfo())
	cw.PutStream("BodyText/Section0", fixtureSection(text))
	out, err := cw.WriteTo()
	if err != nil {
		t.Fatalf("build HWP fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("write HWP fixture: %v", err)
	}
	return path
}

// Scenario 2: edit paragraph text on HWP and re-read it.
func TestSetTextOnHWPParagraphRoundTrips(t *testing.T) {
	path := writeHWPFixture(t, t.TempDir(), "fixture.hwp", "사업주")

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const newText = "(주)테스트코리아(이하 \"갑\")"
	if err := doc.SetText("s0.p0", newText); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if got := doc.Model().Sections[0].Paragraphs[0].Text(); got != newText {
		t.Errorf("paragraph text = %q, want %q", got, newText)
	}

	res := doc.Validate()
	if !res.Valid() {
		t.Errorf("expected edited document to validate clean, got failures: %+v", res.Failures)
	}

	recs, err := record.ScanAll(doc.sectionBytes[0])
	if err != nil {
		t.Fatalf("scan edited section: %v", err)
	}
	var sawHeader bool
	for _, rec := range recs {
		if rec.Tag != record.TagParaHeader {
			continue
		}
		sawHeader = true
		ph, err := record.DecodeParaHeader(rec.Payload)
		if err != nil {
			t.Fatalf("decode PARA_HEADER: %v", err)
		}
		wantLen := uint32(byteio.CodeUnitLen(byteio.NewPlainTextElements(newText)))
		if ph.NCharsValue() != wantLen {
			t.Errorf("PARA_HEADER.nChars = %d, want %d", ph.NCharsValue(), wantLen)
		}
	}
	if !sawHeader {
		t.Fatal("expected a PARA_HEADER record in the rewritten section")
	}
}

// Scenario 6: corruption detection. A PARA_HEADER.nChars mismatching its
// paired PARA_TEXT must be rejected by Validate, not silently accepted.
func TestValidateDetectsNCharsCorruption(t *testing.T) {
	dir := t.TempDir()
	cw := cfb.NewWriter()
	cw.PutStream("FileHeader", fixtureFileHeader())
	cw.PutStream("DocInfo", fixtureDocInfo())

	els := byteio.NewPlainTextElements("hello")
	header := record.Append(record.TagParaHeader, 0, record.EncodeParaHeader(record.ParaHeaderPayload{NChars: 99999}))
	body := record.Append(record.TagParaText, 1, byteio.EncodeParaText(els))
	cw.PutStream("BodyText/Section0", append(header, body...))

	out, err := cw.WriteTo()
	if err != nil {
		t.Fatalf("build corrupt HWP fixture: %v", err)
	}
	path := filepath.Join(dir, "corrupt.hwp")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("write corrupt HWP fixture: %v", err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res := doc.Validate()
	if res.Valid() {
		t.Fatal("expected validation to fail on a corrupted nChars field")
	}
	var sawNCharsFailure bool
	for _, f := range res.Failures {
		if f.Kind == "nchars-law" {
			sawNCharsFailure = true
		}
	}
	if !sawNCharsFailure {
		t.Errorf("expected a nchars-law failure naming the mismatch, got: %+v", res.Failures)
	}
}

// Scenario 3: apply a heading level to a freshly added paragraph.
func TestAddParagraphAppliesHeadingLevel(t *testing.T) {
	doc := &Document{model: document.NewBlank(document.FormatHWPX)}

	if err := doc.AddParagraph("", true, "제1장 서론", 1, ""); err != nil {
		t.Fatalf("AddParagraph: %v", err)
	}

	sec := doc.Model().Sections[0]
	added := sec.Paragraphs[len(sec.Paragraphs)-1]
	if added.Text() != "제1장 서론" {
		t.Errorf("paragraph text = %q, want %q", added.Text(), "제1장 서론")
	}
	if added.StyleRef != 1 {
		t.Errorf("styleRef = %d, want 1", added.StyleRef)
	}
	ps := doc.Model().Header.ParaShapes[added.ParaShapeRef]
	if ps.HeadingLevel != 1 {
		t.Errorf("paraShape.HeadingLevel = %d, want 1", ps.HeadingLevel)
	}
	style := doc.Model().Header.Styles[added.StyleRef]
	if style.Name != "개요 1" {
		t.Errorf("style name = %q, want %q", style.Name, "개요 1")
	}
}

// Scenario 4: a partial bold format over a prefix of a paragraph's text
// must split it into multiple runs without altering the visible text.
func TestSetFormatAppliesPartialBold(t *testing.T) {
	doc := &Document{model: document.NewBlank(document.FormatHWPX)}

	if err := doc.SetText("s0.p0", "Hello World"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	baseCharShapeCount := len(doc.Model().Header.CharShapes)

	bold := true
	if err := doc.SetFormat("s0.p0", 0, 5, FormatDelta{Bold: &bold}); err != nil {
		t.Fatalf("SetFormat: %v", err)
	}

	para := doc.Model().Sections[0].Paragraphs[0]
	if para.Text() != "Hello World" {
		t.Errorf("paragraph text = %q, want %q", para.Text(), "Hello World")
	}
	if len(para.Runs) < 2 {
		t.Errorf("expected at least 2 runs after a partial format, got %d", len(para.Runs))
	}
	if len(doc.Model().Header.CharShapes) <= baseCharShapeCount {
		t.Error("expected a new CharShape to be appended for the bold run")
	}
}

// Scenario 5: converting an HWP document to HWPX preserves paragraph
// text as plain XML content the reader can see directly.
func TestConvertCrossValidation(t *testing.T) {
	const marker = "CROSSVAL_UNIQUE_MARKER"
	path := writeHWPFixture(t, t.TempDir(), "crossval.hwp", marker)

	src, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer src.Close()

	var out bytes.Buffer
	if err := convert.ToHWPX(src, &out); err != nil {
		t.Fatalf("ToHWPX: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatalf("open converted archive: %v", err)
	}
	f, err := zr.Open("Contents/section0.xml")
	if err != nil {
		t.Fatalf("open Contents/section0.xml: %v", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read Contents/section0.xml: %v", err)
	}
	if !bytes.Contains(content, []byte(marker)) {
		t.Errorf("expected marker %q in Contents/section0.xml, got:\n%s", marker, content)
	}
}
