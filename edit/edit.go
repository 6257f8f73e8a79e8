// Package edit is the edit executor (spec §4.10): it opens a document
// either as an HWP5 byte-level container (for minimum-diff record
// splicing) or as an HWPX in-memory model, resolves references through
// document/ref, dispatches mutations to internal/hwp5/encode or
// internal/hwpx/codec, validates the result, and commits atomically.
package edit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/document/ref"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/cfb"
	"github.com/hanpama/hwped/internal/hwp5/decode"
	"github.com/hanpama/hwped/internal/hwp5/encode"
	"github.com/hanpama/hwped/internal/hwpx/codec"
	"github.com/hanpama/hwped/internal/pkgzip"
	"github.com/hanpama/hwped/internal/validate"
)

// Document is an open, editable document. For HWP it keeps the raw
// DocInfo/section byte streams alongside a decoded model that is
// re-derived after every mutation (ref resolution and validation both
// need the model; the bytes are what actually get written). For HWPX it
// keeps only the model plus the source archive for a minimum-diff write.
type Document struct {
	path string

	container     *decode.Container // hwp only, kept for passthrough of untouched streams on write
	docInfoBytes  []byte            // hwp only
	sectionBytes  [][]byte          // hwp only
	sectionNames  []string          // hwp only, original stream name per section index (BodyText/ or ViewText/)
	fileHeaderRaw []byte            // hwp only, written back byte-for-byte
	compressed    bool              // hwp only, whether non-FileHeader streams are raw-deflate compressed

	pendingHWPBinData []hwpBinDataPut // hwp only, new/replaced BinData streams to flush on write

	srcArchive         *pkgzip.Archive  // hwpx only
	pendingHWPXBinData []hwpxBinDataPut // hwpx only, new/replaced BinData parts to flush on write

	model *document.Document
}

// hwpBinDataPut is one BinData/BIN%04X.dat stream (new or replaced) still
// owed to the OLE2 container on the next write.
type hwpBinDataPut struct {
	id   uint16
	data []byte
}

// hwpxBinDataPut is one BinData/<name> archive part (new or replaced)
// still owed to the ZIP container on the next write.
type hwpxBinDataPut struct {
	name string
	data []byte
}

// Open reads path, auto-detecting HWP5 (OLE2) vs HWPX (ZIP) by the
// leading magic bytes rather than the file extension, since spec §2
// scopes this core to the file's actual container format.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "open "+path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "stat "+path, err)
	}

	var magic [8]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return nil, hwperr.Wrap(hwperr.FormatError, "read magic", err)
	}

	d := &Document{path: path}
	switch {
	case bytes.Equal(magic[:], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}):
		c, err := decode.Open(f)
		if err != nil {
			return nil, err
		}
		d.container = c
		d.compressed = c.Header.Properties.Compressed()
		d.fileHeaderRaw, err = c.RawFileHeaderBytes()
		if err != nil {
			return nil, err
		}
		d.docInfoBytes, err = c.DocInfoBytes()
		if err != nil {
			return nil, err
		}
		header, err := decode.DecodeDocInfo(d.docInfoBytes)
		if err != nil {
			return nil, err
		}
		d.model = &document.Document{Format: document.FormatHWP, Header: header}
		sectionPrefix := "BodyText/Section"
		if c.Header.Properties.DistributionDoc() {
			sectionPrefix = "ViewText/Section"
		}
		for i := 0; i < c.SectionCount(); i++ {
			sb, err := c.SectionBytes(i)
			if err != nil {
				return nil, err
			}
			d.sectionBytes = append(d.sectionBytes, sb)
			d.sectionNames = append(d.sectionNames, fmt.Sprintf("%s%d", sectionPrefix, i))
			sec, err := decode.DecodeSection(sb)
			if err != nil {
				return nil, err
			}
			d.model.Sections = append(d.model.Sections, sec)
		}
	case magic[0] == 'P' && magic[1] == 'K':
		doc, ar, err := codec.Open(f, info.Size())
		if err != nil {
			return nil, err
		}
		d.model, d.srcArchive = doc, ar
	default:
		return nil, hwperr.New(hwperr.FormatError, "unrecognized container format").WithPath(path)
	}
	return d, nil
}

// Model exposes the decoded document for inspection and for resolving
// references before issuing a mutation.
func (d *Document) Model() *document.Document { return d.model }

func (d *Document) resolve(refStr string) (*ref.Resolved, *ref.Ref, error) {
	r, err := ref.Parse(refStr)
	if err != nil {
		return nil, nil, err
	}
	res, err := ref.Resolve(d.model, r)
	if err != nil {
		return nil, nil, err
	}
	return res, r, nil
}

// resyncSection re-decodes section index i from its current bytes so
// the in-memory model reflects the just-applied mutation (needed before
// resolving the next ref, or before the final validate pass).
func (d *Document) resyncSection(i int) error {
	sec, err := decode.DecodeSection(d.sectionBytes[i])
	if err != nil {
		return err
	}
	d.model.Sections[i] = sec
	return nil
}

func (d *Document) isHWP() bool { return d.sectionBytes != nil }

// SetText implements spec §4.7(a)/(b)/(c): replace the text of the
// paragraph, table cell, or text-box paragraph ref points at.
func (d *Document) SetText(refStr, text string) error {
	res, r, err := d.resolve(refStr)
	if err != nil {
		return err
	}

	if !d.isHWP() {
		switch r.Kind {
		case ref.KindParagraph:
			res.Paragraph.Runs = document.NewTextRuns(text)
		case ref.KindTableCell:
			cellParaIdx := r.CellParaIndex
			if cellParaIdx < 0 {
				cellParaIdx = 0
			}
			if cellParaIdx >= len(res.Cell.Paragraphs) {
				return hwperr.New(hwperr.RefError, "cell paragraph index out of bounds").WithRef(r.Raw)
			}
			res.Cell.Paragraphs[cellParaIdx].Runs = document.NewTextRuns(text)
		case ref.KindTextBox:
			boxParaIdx := r.TextBoxParaIndex
			if boxParaIdx < 0 {
				boxParaIdx = 0
			}
			if boxParaIdx >= len(res.TextBox.Paragraphs) {
				return hwperr.New(hwperr.RefError, "text box paragraph index out of bounds").WithRef(r.Raw)
			}
			res.TextBox.Paragraphs[boxParaIdx].Runs = document.NewTextRuns(text)
		default:
			return hwperr.New(hwperr.ConflictingOptions, "ref does not address an editable text container")
		}
		return nil
	}

	sb := d.sectionBytes[r.Section]
	var out []byte
	switch r.Kind {
	case ref.KindParagraph:
		out, err = encode.SetParagraphText(sb, r.ParaIndex, text)
	case ref.KindTableCell:
		cellParaIdx := r.CellParaIndex
		if cellParaIdx < 0 {
			cellParaIdx = 0
		}
		out, err = encode.SetTableCellText(sb, r.TableIndex, r.RowIndex, r.ColIndex, cellParaIdx, text)
	case ref.KindTextBox:
		boxParaIdx := r.TextBoxParaIndex
		if boxParaIdx < 0 {
			boxParaIdx = 0
		}
		out, err = encode.SetTextBoxParagraphText(sb, r.TextBoxIndex, boxParaIdx, text)
	default:
		return hwperr.New(hwperr.ConflictingOptions, "ref does not address an editable text container")
	}
	if err != nil {
		return err
	}
	d.sectionBytes[r.Section] = out
	return d.resyncSection(r.Section)
}

// AddParagraph implements spec §4.7(e).
func (d *Document) AddParagraph(refStr string, after bool, text string, headingLevel int, styleName string) error {
	var sectionIdx, paraIdx int
	atEnd := refStr == ""
	if !atEnd {
		res, r, err := d.resolve(refStr)
		if err != nil {
			return err
		}
		if r.Kind != ref.KindParagraph {
			return hwperr.New(hwperr.ConflictingOptions, "add-paragraph position ref must address a top-level paragraph")
		}
		_ = res
		sectionIdx, paraIdx = r.Section, r.ParaIndex
	}

	paraShapeRef, styleRef := 0, 0
	if headingLevel > 0 && styleName != "" {
		return hwperr.New(hwperr.ConflictingOptions, "heading level and style name are mutually exclusive")
	}
	paraShapeCountBefore, styleCountBefore := len(d.model.Header.ParaShapes), len(d.model.Header.Styles)
	if headingLevel > 0 {
		paraShapeRef = d.model.Header.FindOrAppendParaShape(document.ParaShape{Align: document.AlignLeft, HeadingLevel: headingLevel})
		styleRef = headingStyleRef(d.model.Header, headingLevel, paraShapeRef)
	} else if styleName != "" {
		found := findStyleRef(d.model.Header, styleName)
		if found < 0 {
			return hwperr.New(hwperr.RefError, "no style named "+styleName)
		}
		styleRef = found
		paraShapeRef = d.model.Header.Styles[styleRef].ParaShapeRef
	}
	if d.isHWP() {
		if err := d.syncHeaderGrowth(paraShapeCountBefore, styleCountBefore); err != nil {
			return err
		}
	}

	if !d.isHWP() {
		para := &document.Paragraph{ParaShapeRef: paraShapeRef, StyleRef: styleRef, Runs: document.NewTextRuns(text)}
		sec := d.model.Sections[sectionIdx]
		if atEnd {
			sec.Paragraphs = append(sec.Paragraphs, para)
		} else {
			idx := paraIdx
			if after {
				idx++
			}
			sec.Paragraphs = append(sec.Paragraphs[:idx], append([]*document.Paragraph{para}, sec.Paragraphs[idx:]...)...)
		}
		return nil
	}

	pos := encode.InsertPosition{AtEnd: atEnd, Before: !after, After: after, ParagraphRef: paraIdx}
	out, err := encode.AddParagraph(d.sectionBytes[sectionIdx], pos, paraShapeRef, styleRef, text)
	if err != nil {
		return err
	}
	d.sectionBytes[sectionIdx] = out
	return d.resyncSection(sectionIdx)
}

// AddTable implements spec §4.7(f).
func (d *Document) AddTable(sectionIdx, rows, cols int) error {
	if sectionIdx < 0 || sectionIdx >= len(d.model.Sections) {
		return hwperr.New(hwperr.RefError, fmt.Sprintf("section %d does not exist", sectionIdx))
	}
	if !d.isHWP() {
		tbl := &document.Table{}
		for r := 0; r < rows; r++ {
			row := document.Row{}
			for c := 0; c < cols; c++ {
				row.Cells = append(row.Cells, &document.Cell{ColSpan: 1, RowSpan: 1})
			}
			tbl.Rows = append(tbl.Rows, row)
		}
		d.model.Sections[sectionIdx].Tables = append(d.model.Sections[sectionIdx].Tables, tbl)
		return nil
	}
	out, err := encode.AddTable(d.sectionBytes[sectionIdx], encode.InsertPosition{AtEnd: true}, rows, cols)
	if err != nil {
		return err
	}
	d.sectionBytes[sectionIdx] = out
	return d.resyncSection(sectionIdx)
}

// syncHeaderGrowth appends any ParaShape/Style entries the in-memory
// model gained past paraShapeCountBefore/styleCountBefore to the HWP
// DocInfo byte stream, keeping ID_MAPPINGS' declared counts in step
// (spec §4.7(d)/(e)). Callers compare header table lengths before and
// after calling FindOrAppendParaShape/headingStyleRef/FindOrAppendCharShape.
func (d *Document) syncHeaderGrowth(paraShapeCountBefore, styleCountBefore int) error {
	data := d.docInfoBytes
	for i := paraShapeCountBefore; i < len(d.model.Header.ParaShapes); i++ {
		out, err := encode.AppendParaShape(data, d.model.Header.ParaShapes[i])
		if err != nil {
			return err
		}
		data = out
	}
	for i := styleCountBefore; i < len(d.model.Header.Styles); i++ {
		out, err := encode.AppendStyle(data, d.model.Header.Styles[i])
		if err != nil {
			return err
		}
		data = out
	}
	d.docInfoBytes = data
	return nil
}

// SetFormat implements spec §4.7(d): apply a character-format delta over
// [start,end) of a top-level paragraph (the whole paragraph when end<0).
// delta is applied to the paragraph's current base CharShape (its first
// run's, or the document's default if the paragraph has no runs yet);
// the resulting CharShape is reused by structural equality or appended.
func (d *Document) SetFormat(refStr string, start, end int, delta FormatDelta) error {
	res, r, err := d.resolve(refStr)
	if err != nil {
		return err
	}
	if r.Kind != ref.KindParagraph {
		return hwperr.New(hwperr.ConflictingOptions, "format ref must address a paragraph")
	}
	if start < 0 {
		start = 0
	}
	if end >= 0 && start >= end {
		return hwperr.New(hwperr.ConflictingOptions, "format range start must be less than end")
	}

	base := document.CharShape{}
	baseRef := 0
	if len(res.Paragraph.Runs) > 0 {
		baseRef = res.Paragraph.Runs[0].CharShapeRef
	}
	if baseRef >= 0 && baseRef < len(d.model.Header.CharShapes) {
		base = d.model.Header.CharShapes[baseRef]
	}
	want := delta.apply(base)

	csCountBefore := len(d.model.Header.CharShapes)
	newRef := d.model.Header.FindOrAppendCharShape(want)
	if d.isHWP() {
		if newRef >= csCountBefore {
			out, err := encode.AppendCharShape(d.docInfoBytes, want)
			if err != nil {
				return err
			}
			d.docInfoBytes = out
		}
		endArg := end
		if endArg < 0 {
			endArg = -1
		}
		sb, err := encode.ApplyCharFormat(d.sectionBytes[r.Section], r.ParaIndex, start, endArg, newRef)
		if err != nil {
			return err
		}
		d.sectionBytes[r.Section] = sb
		return d.resyncSection(r.Section)
	}

	applyFormatToModel(res.Paragraph, start, end, newRef)
	return nil
}

// FormatDelta is the set of character-property overrides SetFormat
// applies; a nil pointer field leaves that property unchanged.
type FormatDelta struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	Color     *uint32
	FontSize  *float64
	FontRef   *int
}

func (f FormatDelta) apply(base document.CharShape) document.CharShape {
	if f.Bold != nil {
		base.Bold = *f.Bold
	}
	if f.Italic != nil {
		base.Italic = *f.Italic
	}
	if f.Underline != nil {
		base.Underline = *f.Underline
	}
	if f.Color != nil {
		base.Color = *f.Color
	}
	if f.FontSize != nil {
		base.FontSize = *f.FontSize
	}
	if f.FontRef != nil {
		base.FontRef = *f.FontRef
	}
	return base
}

// applyFormatToModel splits a paragraph's runs at [start,end) and
// assigns newCharShapeRef to the covered span, for the HWPX (in-memory
// model) path — the mirror of encode.ApplyCharFormat's record splice.
func applyFormatToModel(p *document.Paragraph, start, end, newCharShapeRef int) {
	text := p.Text()
	if end < 0 || end > len([]rune(text)) {
		end = len([]rune(text))
	}
	runes := []rune(text)
	if start > len(runes) {
		start = len(runes)
	}
	var newRuns []document.Run
	if start > 0 {
		newRuns = append(newRuns, document.Run{Text: string(runes[:start]), CharShapeRef: baseRefOf(p)})
	}
	if end > start {
		newRuns = append(newRuns, document.Run{Text: string(runes[start:end]), CharShapeRef: newCharShapeRef})
	}
	if end < len(runes) {
		newRuns = append(newRuns, document.Run{Text: string(runes[end:]), CharShapeRef: baseRefOf(p)})
	}
	p.Runs = newRuns
}

func baseRefOf(p *document.Paragraph) int {
	if len(p.Runs) > 0 {
		return p.Runs[0].CharShapeRef
	}
	return 0
}

// InsertImage implements spec §4.7(g): attach new binary image data as a
// BinData entry and append an Image to the section's collection. HWP
// inline-picture record synthesis (linking the new BinData entry from a
// section's paragraph stream) is out of scope (spec §4.7(g): "full
// inline-picture synthesis on HWP is not in scope and must fail with a
// clear capability error"); the bytes are attached and addressable via
// extract/replace, but do not appear as a visible picture control.
func (d *Document) InsertImage(sectionIdx int, data []byte, format document.ImageFormat) error {
	if sectionIdx < 0 || sectionIdx >= len(d.model.Sections) {
		return hwperr.New(hwperr.RefError, fmt.Sprintf("section %d does not exist", sectionIdx))
	}
	sec := d.model.Sections[sectionIdx]
	if d.isHWP() {
		binCountBefore := 0
		for _, s := range d.model.Sections {
			binCountBefore += len(s.Images)
		}
		id := uint16(binCountBefore + 1)
		out, err := encode.AppendBinData(d.docInfoBytes, id)
		if err != nil {
			return err
		}
		d.docInfoBytes = out
		path := fmt.Sprintf("BinData/BIN%04X.dat", id)
		d.pendingHWPBinData = append(d.pendingHWPBinData, hwpBinDataPut{id: id, data: data})
		sec.Images = append(sec.Images, &document.Image{BinDataPath: path, Format: format})
		return nil
	}
	name := fmt.Sprintf("image%d.%s", len(sec.Images)+1, format)
	path := "BinData/" + name
	d.pendingHWPXBinData = append(d.pendingHWPXBinData, hwpxBinDataPut{name: path, data: data})
	sec.Images = append(sec.Images, &document.Image{BinDataPath: path, Format: format})
	return nil
}

// ReplaceImage implements spec §4.7(g): overwrite the binary content of
// an existing image reference without touching any other part.
func (d *Document) ReplaceImage(refStr string, data []byte) error {
	res, r, err := d.resolve(refStr)
	if err != nil {
		return err
	}
	if r.Kind != ref.KindImage {
		return hwperr.New(hwperr.ConflictingOptions, "replace-image ref must address an image")
	}
	if d.isHWP() {
		id, err := encode.ExtractBinDataID(d.docInfoBytes, r.ImageIndex)
		if err != nil {
			return err
		}
		d.pendingHWPBinData = append(d.pendingHWPBinData, hwpBinDataPut{id: id, data: data})
		return nil
	}
	d.pendingHWPXBinData = append(d.pendingHWPXBinData, hwpxBinDataPut{name: res.Image.BinDataPath, data: data})
	return nil
}

// ExtractImage implements spec §4.7(g): return the raw bytes the
// reference's BinDataPath names. Bytes inserted or replaced since Open
// (not yet saved) are returned from the pending set, the latest first.
func (d *Document) ExtractImage(refStr string) ([]byte, error) {
	res, r, err := d.resolve(refStr)
	if err != nil {
		return nil, err
	}
	if r.Kind != ref.KindImage {
		return nil, hwperr.New(hwperr.ConflictingOptions, "extract-image ref must address an image")
	}
	if d.isHWP() {
		id, err := encode.ExtractBinDataID(d.docInfoBytes, r.ImageIndex)
		if err != nil {
			return nil, err
		}
		for i := len(d.pendingHWPBinData) - 1; i >= 0; i-- {
			if d.pendingHWPBinData[i].id == id {
				return d.pendingHWPBinData[i].data, nil
			}
		}
		return d.container.RawStream(fmt.Sprintf("BinData/BIN%04X.dat", id))
	}
	for i := len(d.pendingHWPXBinData) - 1; i >= 0; i-- {
		if d.pendingHWPXBinData[i].name == res.Image.BinDataPath {
			return d.pendingHWPXBinData[i].data, nil
		}
	}
	return d.srcArchive.ReadAll(res.Image.BinDataPath)
}

func headingStyleRef(h *document.Header, level, paraShapeRef int) int {
	name := document.HeadingStyleName(level)
	if id := findStyleRef(h, name); id >= 0 {
		return id
	}
	id := len(h.Styles)
	h.Styles = append(h.Styles, document.Style{ID: id, Name: name, Kind: document.StyleKindPara, ParaShapeRef: paraShapeRef})
	return id
}

func findStyleRef(h *document.Header, name string) int {
	for _, s := range h.Styles {
		if s.Name == name {
			return s.ID
		}
	}
	return -1
}

// writeHWP rebuilds the OLE2 container fresh (internal/cfb.Writer does
// not patch sector chains in place): FileHeader is copied back verbatim,
// DocInfo and every section stream are recompressed only if the source
// document itself was compressed, every other original stream this core
// never interprets (BinData/*, Scripts/, PrvText, PrvImage, Summary
// Information) is passed through unchanged, and any pending inserted or
// replaced BinData streams are added last.
func (d *Document) writeHWP(w io.Writer) error {
	if d.container.Header.Properties.DistributionDoc() {
		return hwperr.New(hwperr.Unsupported, "re-encrypting a distribution document on write is not supported")
	}

	cw := cfb.NewWriter()
	cw.PutStream("FileHeader", d.fileHeaderRaw)

	docInfo := d.docInfoBytes
	if d.compressed {
		out, err := byteio.DeflateRaw(docInfo)
		if err != nil {
			return hwperr.Wrap(hwperr.IOFailure, "compress DocInfo", err)
		}
		docInfo = out
	}
	cw.PutStream("DocInfo", docInfo)

	written := map[string]bool{"FileHeader": true, "DocInfo": true}
	for i, name := range d.sectionNames {
		sb := d.sectionBytes[i]
		if d.compressed {
			out, err := byteio.DeflateRaw(sb)
			if err != nil {
				return hwperr.Wrap(hwperr.IOFailure, "compress "+name, err)
			}
			sb = out
		}
		cw.PutStream(name, sb)
		written[name] = true
	}

	names, err := d.container.StreamNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if written[name] {
			continue
		}
		raw, err := d.container.RawStream(name)
		if err != nil {
			return err
		}
		cw.PutStream(name, raw)
		written[name] = true
	}

	for _, put := range d.pendingHWPBinData {
		name := fmt.Sprintf("BinData/BIN%04X.dat", put.id)
		cw.PutStream(name, put.data)
	}

	out, err := cw.WriteTo()
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "write HWP container", err)
	}
	return nil
}

// Validate runs the structural checks spec §4.9 requires before every
// write. For HWP, checks 1-4 and 6-7 re-parse the container and record
// streams directly; for HWPX only check 5 (reference integrity) applies.
func (d *Document) Validate() validate.Result {
	var cc *validate.ContainerContext
	if d.isHWP() {
		names, err := d.container.StreamNames()
		if err != nil {
			names = nil
		}
		cc = &validate.ContainerContext{
			StreamNames:   names,
			FileHeaderRaw: d.fileHeaderRaw,
			DocInfoBytes:  d.docInfoBytes,
			SectionBytes:  d.sectionBytes,
			SectionNames:  d.sectionNames,
		}
	}
	return validate.Document(d.model, cc)
}

// Save validates the document and writes it atomically (temp file then
// rename) to path, refusing to overwrite an existing file unless force
// is set.
func (d *Document) Save(path string, force bool) error {
	if res := d.Validate(); !res.Valid() {
		return hwperr.New(hwperr.CorruptDocument, fmt.Sprintf("document fails validation: %d check(s) failed", len(res.Failures)))
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return hwperr.New(hwperr.ConflictingOptions, path+" already exists; use force to overwrite")
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hwped-*.tmp")
	if err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var writeErr error
	if d.isHWP() {
		writeErr = d.writeHWP(tmp)
	} else {
		pending := make([]codec.BinDataPut, len(d.pendingHWPXBinData))
		for i, p := range d.pendingHWPXBinData {
			pending[i] = codec.BinDataPut{Name: p.name, Data: p.data}
		}
		writeErr = codec.Write(tmp, d.model, d.srcArchive, pending)
	}
	if writeErr != nil {
		tmp.Close()
		return writeErr
	}
	if err := tmp.Close(); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return hwperr.Wrap(hwperr.IOFailure, "rename temp file into place", err)
	}
	return nil
}
