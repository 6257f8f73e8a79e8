package encode

import (
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// InsertPosition names where a new top-level paragraph or table is
// spliced in (spec §4.7(e)/(f)): immediately before or after an existing
// top-level paragraph, or at the end of the section.
type InsertPosition struct {
	Before       bool // mutually exclusive with After; ignored if AtEnd
	After        bool
	AtEnd        bool
	ParagraphRef int // index of the reference paragraph, when not AtEnd
}

func resolveInsertOffset(recs []record.Record, pos InsertPosition) (int, error) {
	if pos.AtEnd {
		if len(recs) == 0 {
			return 0, nil
		}
		return recs[len(recs)-1].End(), nil
	}
	span, err := findTopLevelParagraph(recs, pos.ParagraphRef)
	if err != nil {
		return 0, err
	}
	if pos.Before {
		return span.headerRec.Offset, nil
	}
	return span.endOffset, nil
}

// AddParagraph implements spec §4.7(e): build a PARA_HEADER+PARA_TEXT(+
// PARA_CHAR_SHAPE) triple at level 0 and splice it in at pos.
func AddParagraph(sectionData []byte, pos InsertPosition, paraShapeRef, styleRef int, text string) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	offset, err := resolveInsertOffset(recs, pos)
	if err != nil {
		return nil, err
	}

	els := byteio.NewPlainTextElements(text)
	nChars := uint32(byteio.CodeUnitLen(els))
	ph := record.ParaHeaderPayload{
		NChars: nChars, ParaShapeRef: uint16(paraShapeRef), StyleRef: uint8(styleRef),
	}
	if text != "" {
		ph.CharShapeCount = 1
	}

	headerBytes := record.Append(record.TagParaHeader, 0, record.EncodeParaHeader(ph))
	var body []byte
	if text != "" {
		body = append(body, record.Append(record.TagParaText, 1, byteio.EncodeParaText(els))...)
		body = append(body, record.Append(record.TagParaCharShape, 1, record.EncodeParaCharShape([]record.CharShapePosition{{Position: 0, CharShapeRef: 0}}))...)
	}
	newSubtree := append(headerBytes, body...)

	out := make([]byte, 0, len(sectionData)+len(newSubtree))
	out = append(out, sectionData[:offset]...)
	out = append(out, newSubtree...)
	out = append(out, sectionData[offset:]...)
	return out, nil
}

// AddTable implements spec §4.7(f): a CTRL_HEADER('tbl ')+TABLE+per-cell
// LIST_HEADER(+empty paragraph) subtree, hosted inside a new trailing
// paragraph at pos.
func AddTable(sectionData []byte, pos InsertPosition, rows, cols int) ([]byte, error) {
	recs, err := record.ScanAll(sectionData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section", err)
	}
	offset, err := resolveInsertOffset(recs, pos)
	if err != nil {
		return nil, err
	}

	// Host paragraph: level 0, carries the table as its sole control
	// child (no visible text of its own).
	hostHeader := record.Append(record.TagParaHeader, 0, record.EncodeParaHeader(record.ParaHeaderPayload{NChars: 0}))

	ctrlPayload := record.EncodeCtrlHeader(record.CtrlHeaderPayload{CtrlID: record.CtrlIDTable})
	ctrlHeader := record.Append(record.TagCtrlHeader, 1, ctrlPayload)

	tablePayload := record.EncodeTable(record.TablePayload{RowCount: uint16(rows), ColCount: uint16(cols)})
	tableRec := record.Append(record.TagTable, 2, tablePayload)

	var cellRecs []byte
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lh := record.ListHeaderPayload{ParaCount: 1, IsCell: true, ColIndex: uint16(c), RowIndex: uint16(r), ColSpan: 1, RowSpan: 1}
			cellRecs = append(cellRecs, record.Append(record.TagListHeader, 2, record.EncodeListHeader(lh))...)
			emptyPara := record.Append(record.TagParaHeader, 3, record.EncodeParaHeader(record.ParaHeaderPayload{NChars: 0}))
			cellRecs = append(cellRecs, emptyPara...)
		}
	}

	subtree := append([]byte{}, hostHeader...)
	subtree = append(subtree, ctrlHeader...)
	subtree = append(subtree, tableRec...)
	subtree = append(subtree, cellRecs...)

	out := make([]byte, 0, len(sectionData)+len(subtree))
	out = append(out, sectionData[:offset]...)
	out = append(out, subtree...)
	out = append(out, sectionData[offset:]...)
	return out, nil
}
