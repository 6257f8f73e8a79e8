// Package encode implements the HWP 5.0 in-place mutator (spec §4.7):
// minimum-diff rewrites of the BodyText/Section<k> record stream and the
// DocInfo header tables, built on internal/hwp5/record's splice
// primitives (Scanner/Builder/Rewrite) rather than a full re-serialize.
package encode

import (
	"sort"

	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// paragraphSpan locates one decoded paragraph's constituent records
// within a section's flat record list, for operations that need to
// replace or extend part of it without touching anything else.
type paragraphSpan struct {
	headerIdx    int // index into recs of the PARA_HEADER
	headerRec    record.Record
	textIdx      int // index of PARA_TEXT, or -1 if absent
	charShapeIdx int // index of PARA_CHAR_SHAPE, or -1 if absent
	endOffset    int // byte offset one past the paragraph's full subtree
}

// findTopLevelParagraph locates the paragraphIndex-th (0-based, in
// encounter order) level-0 PARA_HEADER subtree.
func findTopLevelParagraph(recs []record.Record, paragraphIndex int) (paragraphSpan, error) {
	count := -1
	for i, rec := range recs {
		if rec.Tag == record.TagParaHeader && rec.Level == 0 {
			count++
			if count == paragraphIndex {
				return spanFrom(recs, i)
			}
		}
	}
	return paragraphSpan{}, hwperr.New(hwperr.RefError, "paragraph index out of range").
		WithHint("section has fewer top-level paragraphs than requested")
}

// spanFrom builds a paragraphSpan for the PARA_HEADER at recs[headerIdx],
// scanning its immediate children for PARA_TEXT/PARA_CHAR_SHAPE and
// computing where its whole subtree (any nested controls included) ends.
func spanFrom(recs []record.Record, headerIdx int) (paragraphSpan, error) {
	header := recs[headerIdx]
	span := paragraphSpan{headerIdx: headerIdx, headerRec: header, textIdx: -1, charShapeIdx: -1}
	i := headerIdx + 1
	for i < len(recs) && recs[i].Level > header.Level {
		if recs[i].Level == header.Level+1 {
			switch recs[i].Tag {
			case record.TagParaText:
				span.textIdx = i
			case record.TagParaCharShape:
				span.charShapeIdx = i
			}
		}
		i++
	}
	span.endOffset = header.End()
	if i > headerIdx+1 {
		span.endOffset = recs[i-1].End()
	}
	return span, nil
}

// SetParagraphText implements spec §4.7(a). sectionData is the fully
// decompressed section stream; it returns the rewritten stream.
func SetParagraphText(sectionData []byte, paragraphIndex int, newText string) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	span, err := findTopLevelParagraph(recs, paragraphIndex)
	if err != nil {
		return nil, err
	}
	return applyParagraphTextEdit(sectionData, recs, span, newText)
}

// applyParagraphTextEdit performs the actual record splice for a single
// paragraph's text, shared by SetParagraphText/SetTableCellText/
// SetTextBoxParagraphText once they have located the target span.
func applyParagraphTextEdit(sectionData []byte, recs []record.Record, span paragraphSpan, newText string) ([]byte, error) {
	els := byteio.NewPlainTextElements(newText)
	newPayload := byteio.EncodeParaText(els)
	nChars := uint32(byteio.CodeUnitLen(els))

	ph, err := record.DecodeParaHeader(span.headerRec.Payload)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode PARA_HEADER", err)
	}
	ph = ph.WithNChars(nChars)
	if newText == "" {
		ph.CharShapeCount = 0
	} else {
		ph.CharShapeCount = 1
	}

	var edits []record.Edit
	edits = append(edits, record.Edit{
		RecordOffset: span.headerRec.Offset, HeaderLen: span.headerRec.HeaderLen, OldSize: int(span.headerRec.Size),
		Tag: record.TagParaHeader, Level: span.headerRec.Level, NewPayload: record.EncodeParaHeader(ph),
	})

	if span.textIdx >= 0 {
		old := recs[span.textIdx]
		if newText == "" {
			edits = append(edits, record.Edit{RecordOffset: old.Offset, HeaderLen: old.HeaderLen, OldSize: int(old.Size), Remove: true})
		} else {
			edits = append(edits, record.Edit{
				RecordOffset: old.Offset, HeaderLen: old.HeaderLen, OldSize: int(old.Size),
				Tag: record.TagParaText, Level: old.Level, NewPayload: newPayload,
			})
		}
	}

	if span.charShapeIdx >= 0 {
		old := recs[span.charShapeIdx]
		pairs, _ := record.DecodeParaCharShape(old.Payload)
		var ref uint32
		if len(pairs) > 0 {
			ref = pairs[0].CharShapeRef
		}
		if newText == "" {
			edits = append(edits, record.Edit{RecordOffset: old.Offset, HeaderLen: old.HeaderLen, OldSize: int(old.Size), Remove: true})
		} else {
			kept := []record.CharShapePosition{{Position: 0, CharShapeRef: ref}}
			edits = append(edits, record.Edit{
				RecordOffset: old.Offset, HeaderLen: old.HeaderLen, OldSize: int(old.Size),
				Tag: record.TagParaCharShape, Level: old.Level, NewPayload: record.EncodeParaCharShape(kept),
			})
		}
	}

	return record.Rewrite(sectionData, edits, nil), nil
}

// findTableCellParagraph locates a table's (row, col) cell's
// paragraphIndex-th paragraph subtree, descending CTRL_HEADER('tbl ') →
// TABLE/LIST_HEADER as spec §4.7(b) describes.
func findTableCellParagraph(recs []record.Record, tableIndex, row, col, paragraphIndex int) (paragraphSpan, error) {
	tableSeen := -1
	for i, rec := range recs {
		if rec.Tag != record.TagCtrlHeader {
			continue
		}
		ch := record.DecodeCtrlHeader(rec.Payload)
		if ch.CtrlID != record.CtrlIDTable {
			continue
		}
		tableSeen++
		if tableSeen != tableIndex {
			continue
		}
		cellLevel := rec.Level + 1
		for j := i + 1; j < len(recs) && recs[j].Level >= cellLevel; j++ {
			if recs[j].Level != cellLevel || recs[j].Tag != record.TagListHeader {
				continue
			}
			lh := record.DecodeListHeader(recs[j].Payload)
			if int(lh.RowIndex) != row || int(lh.ColIndex) != col {
				continue
			}
			paraSeen := -1
			for k := j + 1; k < len(recs) && recs[k].Level > cellLevel; k++ {
				if recs[k].Level == cellLevel+1 && recs[k].Tag == record.TagParaHeader {
					paraSeen++
					if paraSeen == paragraphIndex {
						return spanFrom(recs, k)
					}
				}
			}
			return paragraphSpan{}, hwperr.New(hwperr.RefError, "table cell paragraph index out of range")
		}
		return paragraphSpan{}, hwperr.New(hwperr.RefError, "table cell row/col out of range")
	}
	return paragraphSpan{}, hwperr.New(hwperr.RefError, "table index out of range")
}

// SetTableCellText implements spec §4.7(b).
func SetTableCellText(sectionData []byte, tableIndex, row, col, paragraphIndex int, newText string) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	span, err := findTableCellParagraph(recs, tableIndex, row, col, paragraphIndex)
	if err != nil {
		return nil, err
	}
	return applyParagraphTextEdit(sectionData, recs, span, newText)
}

// findTextBoxParagraph locates a CTRL_HEADER('gso ') text box's
// paragraphIndex-th nested paragraph (spec §4.7(c)).
func findTextBoxParagraph(recs []record.Record, textBoxIndex, paragraphIndex int) (paragraphSpan, error) {
	boxSeen := -1
	for i, rec := range recs {
		if rec.Tag != record.TagCtrlHeader {
			continue
		}
		ch := record.DecodeCtrlHeader(rec.Payload)
		if ch.CtrlID != record.CtrlIDGso {
			continue
		}
		// A text box (as opposed to an image) carries a LIST_HEADER
		// among its SHAPE_COMPONENT_RECTANGLE's children rather than a
		// SHAPE_COMPONENT_PICTURE; anything with no nested LIST_HEADER
		// at all is not addressable as a text box.
		hasList := false
		for j := i + 1; j < len(recs) && recs[j].Level > rec.Level; j++ {
			if recs[j].Tag == record.TagListHeader {
				hasList = true
				break
			}
			if recs[j].Tag == record.TagShapeComponentPicture {
				break
			}
		}
		if !hasList {
			continue
		}
		boxSeen++
		if boxSeen != textBoxIndex {
			continue
		}
		paraSeen := -1
		for j := i + 1; j < len(recs) && recs[j].Level > rec.Level; j++ {
			if recs[j].Tag == record.TagParaHeader {
				paraSeen++
				if paraSeen == paragraphIndex {
					return spanFrom(recs, j)
				}
			}
		}
		return paragraphSpan{}, hwperr.New(hwperr.RefError, "text box paragraph index out of range")
	}
	return paragraphSpan{}, hwperr.New(hwperr.RefError, "text box index out of range")
}

// SetTextBoxParagraphText implements spec §4.7(c).
func SetTextBoxParagraphText(sectionData []byte, textBoxIndex, paragraphIndex int, newText string) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	span, err := findTextBoxParagraph(recs, textBoxIndex, paragraphIndex)
	if err != nil {
		return nil, err
	}
	return applyParagraphTextEdit(sectionData, recs, span, newText)
}

// ApplyCharFormat implements spec §4.7(d): rewrite PARA_CHAR_SHAPE as a
// sorted, position-keyed sequence covering [start,end) with
// newCharShapeRef and the rest of the paragraph with its prior shapes.
func ApplyCharFormat(sectionData []byte, paragraphIndex, start, end, newCharShapeRef int) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	span, err := findTopLevelParagraph(recs, paragraphIndex)
	if err != nil {
		return nil, err
	}
	return applyCharFormatEdit(sectionData, recs, span, start, end, newCharShapeRef)
}

func applyCharFormatEdit(sectionData []byte, recs []record.Record, span paragraphSpan, start, end, newRef int) ([]byte, error) {
	var prior []record.CharShapePosition
	if span.charShapeIdx >= 0 {
		prior, _ = record.DecodeParaCharShape(recs[span.charShapeIdx].Payload)
	}
	priorRefAt := func(pos int) uint32 {
		var ref uint32
		for _, p := range prior {
			if int(p.Position) <= pos {
				ref = p.CharShapeRef
			}
		}
		return ref
	}

	positions := map[int]uint32{0: priorRefAt(0)}
	for _, p := range prior {
		if int(p.Position) < start || (end >= 0 && int(p.Position) > end) {
			positions[int(p.Position)] = p.CharShapeRef
		}
	}
	positions[start] = uint32(newRef)
	if end >= 0 {
		positions[end] = priorRefAt(end)
	}
	var keys []int
	for k := range positions {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var out []record.CharShapePosition
	var lastRef uint32 = ^uint32(0)
	for _, k := range keys {
		ref := positions[k]
		if ref == lastRef {
			continue // dedupe: identical consecutive refs collapse to one pair
		}
		out = append(out, record.CharShapePosition{Position: uint32(k), CharShapeRef: ref})
		lastRef = ref
	}

	newPayload := record.EncodeParaCharShape(out)
	if span.charShapeIdx >= 0 {
		old := recs[span.charShapeIdx]
		edit := record.Edit{
			RecordOffset: old.Offset, HeaderLen: old.HeaderLen, OldSize: int(old.Size),
			Tag: record.TagParaCharShape, Level: old.Level, NewPayload: newPayload,
		}
		return record.Rewrite(sectionData, []record.Edit{edit}, nil), nil
	}
	// No PARA_CHAR_SHAPE existed (an empty paragraph); insert one as the
	// first child right after PARA_HEADER.
	ins := record.Insert{AtOffset: span.headerRec.End(), Tag: record.TagParaCharShape, Level: span.headerRec.Level + 1, Payload: newPayload}
	return record.Rewrite(sectionData, nil, []record.Insert{ins}), nil
}
