// Package validate implements the structural checks a document must
// pass on demand and before every write (spec §4.9).
package validate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// CheckKind names one of the seven structural invariants.
type CheckKind string

const (
	CheckContainerWellFormed CheckKind = "container-well-formed"
	CheckFileHeader          CheckKind = "file-header"
	CheckRecordStream        CheckKind = "record-stream"
	CheckNCharsLaw           CheckKind = "nchars-law"
	CheckReferenceIntegrity  CheckKind = "reference-integrity"
	CheckIDMappingLaw        CheckKind = "id-mapping-law"
	CheckCharShapeContiguity CheckKind = "charshape-contiguity"
)

// Failure is one failed check, with enough detail to locate the problem.
type Failure struct {
	Kind    CheckKind
	Message string
}

// Result enumerates every failing check found; Valid is a convenience
// for len(Failures) == 0.
type Result struct {
	Failures []Failure
}

func (r Result) Valid() bool { return len(r.Failures) == 0 }

func (r *Result) fail(kind CheckKind, format string, args ...any) {
	r.Failures = append(r.Failures, Failure{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// ContainerContext carries the raw HWP5 container bytes checks 1-4 and
// 6-7 need on top of the decoded model: the container's own directory
// listing, the verbatim FileHeader stream, and the (decompressed)
// DocInfo/section record streams. A document opened from HWPX has no
// such binary container, so Document skips these six checks for it —
// HWPX's own well-formedness is whatever encoding/xml and archive/zip
// already enforced when the part was opened.
type ContainerContext struct {
	StreamNames   []string
	FileHeaderRaw []byte
	DocInfoBytes  []byte
	SectionBytes  [][]byte
	SectionNames  []string
}

// Document runs check 5 (reference integrity), which applies to any
// decoded document.Document regardless of source format, plus checks
// 1-4 and 6-7 when cc is non-nil (an HWP5 document, whose container and
// record streams those checks re-parse independently of decode). This
// is the one entry point edit.Document.Validate calls before every
// write.
func Document(doc *document.Document, cc *ContainerContext) Result {
	var res Result
	checkReferenceIntegrity(doc, &res)
	if cc != nil {
		checkContainerWellFormed(cc, &res)
		checkFileHeader(cc.FileHeaderRaw, &res)
		checkRecordStream(cc, &res)
		checkNCharsLaw(cc.SectionBytes, &res)
		checkIDMappingLaw(cc.DocInfoBytes, &res)
		checkCharShapeContiguity(cc.DocInfoBytes, &res)
	}
	return res
}

// checkContainerWellFormed is check 1: FileHeader, DocInfo, and every
// section stream this document was decoded from must still be present
// in the container's directory listing under their original names.
func checkContainerWellFormed(cc *ContainerContext, res *Result) {
	present := make(map[string]bool, len(cc.StreamNames))
	for _, name := range cc.StreamNames {
		present[name] = true
	}
	required := append([]string{"FileHeader", "DocInfo"}, cc.SectionNames...)
	for _, name := range required {
		if !present[name] {
			res.fail(CheckContainerWellFormed, "required entry %q is missing from the container", name)
		}
	}
}

// checkFileHeader is check 2: signature bytes and the encryption flag,
// re-read directly off the fixed 256-byte layout rather than trusting
// that decode.ReadFileHeader was ever called on this exact data.
func checkFileHeader(raw []byte, res *Result) {
	if len(raw) < 40 {
		res.fail(CheckFileHeader, "FileHeader stream is shorter than the fixed 256-byte layout requires")
		return
	}
	sig := bytes.TrimRight(raw[0:32], "\x00")
	if string(sig) != "HWP Document File" {
		res.fail(CheckFileHeader, "unexpected FileHeader signature %q", sig)
	}
	flags := binary.LittleEndian.Uint32(raw[36:40])
	if flags&0x2 != 0 {
		res.fail(CheckFileHeader, "encryption bit is set in FileHeader feature flags")
	}
}

// checkRecordStream is check 3: DocInfo and every section stream parse
// as a clean sequence of tagged records with no record declaring a size
// that would overflow the remaining stream.
func checkRecordStream(cc *ContainerContext, res *Result) {
	if _, err := record.ScanAll(cc.DocInfoBytes); err != nil {
		res.fail(CheckRecordStream, "DocInfo: %v", err)
	}
	for i, sb := range cc.SectionBytes {
		if _, err := record.ScanAll(sb); err != nil {
			res.fail(CheckRecordStream, "section %d: %v", i, err)
		}
	}
}

// checkNCharsLaw is check 4: for every PARA_HEADER, its nChars (high
// bit masked off) equals the UTF-16 code-unit count of the PARA_TEXT
// immediately nested under it, or zero when no PARA_TEXT is present
// (the representation an empty paragraph's text takes, per spec §4.7(a)).
func checkNCharsLaw(sectionBytes [][]byte, res *Result) {
	for si, sb := range sectionBytes {
		recs, err := record.ScanAll(sb)
		if err != nil {
			continue // already reported by checkRecordStream
		}
		for i, rec := range recs {
			if rec.Tag != record.TagParaHeader {
				continue
			}
			ph, err := record.DecodeParaHeader(rec.Payload)
			if err != nil {
				continue
			}
			wantLen := 0
			for j := i + 1; j < len(recs) && recs[j].Level > rec.Level; j++ {
				if recs[j].Level == rec.Level+1 && recs[j].Tag == record.TagParaText {
					wantLen = byteio.CodeUnitLen(byteio.DecodeParaText(recs[j].Payload))
					break
				}
			}
			if ph.NCharsValue() != uint32(wantLen) {
				res.fail(CheckNCharsLaw, "s%d: PARA_HEADER at offset %d declares nChars=%d, PARA_TEXT has %d code units",
					si, rec.Offset, ph.NCharsValue(), wantLen)
			}
		}
	}
}

// checkIDMappingLaw is check 6: ID_MAPPINGS' declared counts equal the
// number of records of each corresponding kind actually present in
// DocInfo.
func checkIDMappingLaw(docInfoBytes []byte, res *Result) {
	recs, err := record.ScanAll(docInfoBytes)
	if err != nil {
		return // already reported by checkRecordStream
	}

	var mapping record.IDMappingsPayload
	haveMapping := false
	var fontCount, charShapeCount, paraShapeCount, styleCount, binDataCount int
	for _, rec := range recs {
		switch rec.Tag {
		case record.TagIDMappings:
			if m, err := record.DecodeIDMappings(rec.Payload); err == nil {
				mapping, haveMapping = m, true
			}
		case record.TagFaceName:
			fontCount++
		case record.TagCharShape:
			charShapeCount++
		case record.TagParaShape:
			paraShapeCount++
		case record.TagStyle:
			styleCount++
		case record.TagBinData:
			binDataCount++
		}
	}
	if !haveMapping {
		res.fail(CheckIDMappingLaw, "DocInfo has no ID_MAPPINGS record")
		return
	}

	check := func(name string, declared uint32, actual int) {
		if int(declared) != actual {
			res.fail(CheckIDMappingLaw, "%s count: ID_MAPPINGS declares %d, DocInfo has %d", name, declared, actual)
		}
	}
	check("font", mapping.FontCount, fontCount)
	check("char-shape", mapping.CharShapeCount, charShapeCount)
	check("para-shape", mapping.ParaShapeCount, paraShapeCount)
	check("style", mapping.StyleCount, styleCount)
	check("bin-data", mapping.BinDataCount, binDataCount)
}

// checkCharShapeContiguity is check 7: CHAR_SHAPE records occupy a
// single contiguous run of the DocInfo record sequence.
func checkCharShapeContiguity(docInfoBytes []byte, res *Result) {
	recs, err := record.ScanAll(docInfoBytes)
	if err != nil {
		return // already reported by checkRecordStream
	}
	first, last, count := -1, -1, 0
	for i, rec := range recs {
		if rec.Tag != record.TagCharShape {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
		count++
	}
	if count == 0 {
		return
	}
	if last-first+1 != count {
		res.fail(CheckCharShapeContiguity,
			"CHAR_SHAPE records are not contiguous in DocInfo (span covers %d records, only %d are CHAR_SHAPE)",
			last-first+1, count)
	}
}

func checkReferenceIntegrity(doc *document.Document, res *Result) {
	maxCharShape := len(doc.Header.CharShapes) - 1
	maxParaShape := len(doc.Header.ParaShapes) - 1
	maxStyle := len(doc.Header.Styles) - 1

	checkPara := func(loc string, p *document.Paragraph) {
		if p.ParaShapeRef < 0 || p.ParaShapeRef > maxParaShape {
			res.fail(CheckReferenceIntegrity, "%s: paraShapeRef %d out of range [0,%d]", loc, p.ParaShapeRef, maxParaShape)
		}
		if p.StyleRef < 0 || p.StyleRef > maxStyle {
			res.fail(CheckReferenceIntegrity, "%s: styleRef %d out of range [0,%d]", loc, p.StyleRef, maxStyle)
		}
		for i, r := range p.Runs {
			if r.CharShapeRef < 0 || r.CharShapeRef > maxCharShape {
				res.fail(CheckReferenceIntegrity, "%s.r%d: charShapeRef %d out of range [0,%d]", loc, i, r.CharShapeRef, maxCharShape)
			}
		}
	}

	for si, sec := range doc.Sections {
		for pi, p := range sec.Paragraphs {
			checkPara(fmt.Sprintf("s%d.p%d", si, pi), p)
		}
		for ti, t := range sec.Tables {
			for ri, row := range t.Rows {
				for ci, cell := range row.Cells {
					if cell == nil {
						continue
					}
					for pi, p := range cell.Paragraphs {
						checkPara(fmt.Sprintf("s%d.t%d.r%d.c%d.p%d", si, ti, ri, ci, pi), p)
					}
				}
			}
		}
		for bi, tb := range sec.TextBoxes {
			for pi, p := range tb.Paragraphs {
				checkPara(fmt.Sprintf("s%d.tb%d.p%d", si, bi, pi), p)
			}
		}
	}
}

// WordCount is an informational diagnostic (not a structural check):
// total word count across every section's top-level paragraphs (table
// cell and text-box paragraphs are not counted), counted with
// full Unicode UAX#29 word segmentation (clipperhouse/uax29/v2) so that
// Korean syllable blocks and mixed-script runs split the way a real
// word processor's status bar would, not just on ASCII whitespace.
func WordCount(doc *document.Document) int {
	n := 0
	for _, sec := range doc.Sections {
		for _, p := range sec.Paragraphs {
			n += countWords(p.Text())
		}
	}
	return n
}

// countWords segments text into UAX#29 words and counts only the
// segments that contain a letter or digit, skipping the whitespace and
// punctuation segments the algorithm also yields.
func countWords(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	seg := words.NewSegmenter([]byte(text))
	for seg.Next() {
		if isWordLike(seg.Value()) {
			n++
		}
	}
	return n
}

func isWordLike(b []byte) bool {
	for _, r := range string(b) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
