package decode

import (
	"fmt"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// DecodeSection builds a document.Section from one BodyText/Section<k>
// (or ViewText/Section<k>) stream's flat, leveled record table. This
// generalizes the teacher's ContentScanner state machine (which flattened
// everything into a linear stream of document.ContentNode) into a
// level-aware recursive descent that instead reconstructs the nested
// shape (paragraph → table → cell → paragraph, paragraph → text box →
// paragraph) the unified document model needs (spec §3, §4.6 item 3).
func DecodeSection(data []byte) (*document.Section, error) {
	recs, err := record.ScanAll(data)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan section records", err)
	}
	sec := &document.Section{}
	imageSeq := 0
	idx := 0
	for idx < len(recs) {
		rec := recs[idx]
		if rec.Tag != record.TagParaHeader {
			idx++
			continue
		}
		para, err := decodeParagraph(recs, &idx, sec, &imageSeq)
		if err != nil {
			return nil, err
		}
		sec.Paragraphs = append(sec.Paragraphs, para)
	}
	return sec, nil
}

// decodeParagraph decodes the PARA_HEADER at recs[*idx] and all of its
// children (*idx is advanced past the whole subtree), appending any
// table/image/text-box objects anchored in the paragraph to sec.
// imageSeq counts pictures across the whole section in encounter order;
// this core has no decoded view of SHAPE_COMPONENT_PICTURE's own BinData
// reference, so it resolves an image's BinData stream by assuming
// BIN_DATA entries are declared in the same order their pictures are
// anchored.
func decodeParagraph(recs []record.Record, idx *int, sec *document.Section, imageSeq *int) (*document.Paragraph, error) {
	header := recs[*idx]
	level := header.Level
	*idx++

	ph, err := record.DecodeParaHeader(header.Payload)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode PARA_HEADER", err)
	}
	para := &document.Paragraph{
		ParaShapeRef: int(ph.ParaShapeRef),
		StyleRef:     int(ph.StyleRef),
	}

	var textEls []byteio.ParaTextElement
	var charShapeRef int

	for *idx < len(recs) && recs[*idx].Level > level {
		child := recs[*idx]
		if child.Level != level+1 {
			// Deeper than an immediate child without a recognized parent
			// (malformed or an unmodeled record kind); skip defensively.
			*idx++
			continue
		}
		switch child.Tag {
		case record.TagParaText:
			textEls = byteio.DecodeParaText(child.Payload)
			*idx++
		case record.TagParaCharShape:
			pairs, err := record.DecodeParaCharShape(child.Payload)
			if err == nil && len(pairs) > 0 {
				charShapeRef = int(pairs[0].CharShapeRef)
			}
			*idx++
		case record.TagParaLineSeg, record.TagParaRangeTag:
			*idx++
		case record.TagCtrlHeader:
			if err := decodeControl(recs, idx, child, sec, imageSeq); err != nil {
				return nil, err
			}
		default:
			*idx++
		}
	}

	if text := byteio.PlainText(textEls); text != "" {
		para.Runs = []document.Run{{Text: text, CharShapeRef: charShapeRef}}
	}
	return para, nil
}

// decodeControl dispatches a CTRL_HEADER subtree by its CtrlID: a table
// control builds a document.Table, a drawing-object ("gso") control
// builds either an Image or a TextBox depending on what shape component
// it carries. *idx starts at the CTRL_HEADER record itself and ctrl is
// that same record (passed in to avoid re-reading recs[*idx]).
func decodeControl(recs []record.Record, idx *int, ctrl record.Record, sec *document.Section, imageSeq *int) error {
	ctrlLevel := ctrl.Level
	*idx++ // consume CTRL_HEADER itself
	ch := record.DecodeCtrlHeader(ctrl.Payload)

	switch ch.CtrlID {
	case record.CtrlIDTable:
		tbl, err := decodeTable(recs, idx, ctrlLevel, sec, imageSeq)
		if err != nil {
			return err
		}
		sec.Tables = append(sec.Tables, tbl)
	case record.CtrlIDGso:
		obj, isImage, err := decodeGso(recs, idx, ctrlLevel, sec, imageSeq)
		if err != nil {
			return err
		}
		if isImage {
			img := obj.(*document.Image)
			*imageSeq++
			img.BinDataPath = fmt.Sprintf("BinData/BIN%04X.dat", *imageSeq)
			sec.Images = append(sec.Images, img)
		} else {
			sec.TextBoxes = append(sec.TextBoxes, obj.(*document.TextBox))
		}
	default:
		skipSubtree(recs, idx, ctrlLevel)
	}
	return nil
}

// decodeTable reads the TABLE descriptor and its sibling LIST_HEADER
// cells (each followed by the cell's own paragraphs as children) and
// assembles them into a row/column grid (spec §4.6 item 3, §3's
// Table/Row/Cell shape).
func decodeTable(recs []record.Record, idx *int, ctrlLevel uint16, sec *document.Section, imageSeq *int) (*document.Table, error) {
	level := ctrlLevel + 1
	var t record.TablePayload
	type placedCell struct {
		row, col, rowSpan, colSpan int
		cell                       *document.Cell
	}
	var placed []placedCell
	rowCount, colCount := 0, 0

	for *idx < len(recs) && recs[*idx].Level >= level {
		if recs[*idx].Level > level {
			// Orphaned deeper record with no recognized parent at this
			// level; skip rather than loop forever.
			*idx++
			continue
		}
		rec := recs[*idx]
		switch rec.Tag {
		case record.TagTable:
			t = record.DecodeTable(rec.Payload)
			rowCount, colCount = int(t.RowCount), int(t.ColCount)
			*idx++
		case record.TagListHeader:
			lh := record.DecodeListHeader(rec.Payload)
			*idx++
			paras, err := decodeParagraphList(recs, idx, level, sec, imageSeq)
			if err != nil {
				return nil, err
			}
			cell := &document.Cell{Paragraphs: paras, ColSpan: int(lh.ColSpan), RowSpan: int(lh.RowSpan)}
			if cell.ColSpan == 0 {
				cell.ColSpan = 1
			}
			if cell.RowSpan == 0 {
				cell.RowSpan = 1
			}
			placed = append(placed, placedCell{
				row: int(lh.RowIndex), col: int(lh.ColIndex),
				rowSpan: cell.RowSpan, colSpan: cell.ColSpan, cell: cell,
			})
			if int(lh.RowIndex)+cell.RowSpan > rowCount {
				rowCount = int(lh.RowIndex) + cell.RowSpan
			}
			if int(lh.ColIndex)+cell.ColSpan > colCount {
				colCount = int(lh.ColIndex) + cell.ColSpan
			}
		default:
			*idx++
		}
	}

	grid := make([][]*document.Cell, rowCount)
	for r := range grid {
		grid[r] = make([]*document.Cell, colCount)
	}
	for _, pc := range placed {
		for r := pc.row; r < pc.row+pc.rowSpan && r < rowCount; r++ {
			for c := pc.col; c < pc.col+pc.colSpan && c < colCount; c++ {
				if grid[r][c] == nil {
					grid[r][c] = pc.cell
				}
			}
		}
	}

	tbl := &document.Table{}
	for r := 0; r < rowCount; r++ {
		row := document.Row{}
		for c := 0; c < colCount; c++ {
			if grid[r][c] != nil {
				row.Cells = append(row.Cells, grid[r][c])
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// decodeGso reads a drawing-object subtree. A SHAPE_COMPONENT_PICTURE
// child anywhere in the subtree means this is an image (spec's Image
// type); otherwise it is a text box and any nested LIST_HEADER carries
// its paragraphs.
func decodeGso(recs []record.Record, idx *int, ctrlLevel uint16, sec *document.Section, imageSeq *int) (any, bool, error) {
	level := ctrlLevel + 1
	isImage := false
	var paras []*document.Paragraph

	for *idx < len(recs) && recs[*idx].Level > ctrlLevel {
		rec := recs[*idx]
		switch {
		case rec.Tag == record.TagShapeComponentPicture:
			isImage = true
			*idx++
		case rec.Tag == record.TagListHeader && rec.Level == level:
			*idx++
			p, err := decodeParagraphList(recs, idx, level, sec, imageSeq)
			if err != nil {
				return nil, false, err
			}
			paras = append(paras, p...)
		default:
			*idx++
		}
	}

	if isImage {
		return &document.Image{}, true, nil
	}
	return &document.TextBox{Paragraphs: paras}, false, nil
}

// decodeParagraphList decodes a run of sibling PARA_HEADER subtrees at
// parentLevel+1 (a cell's or text box's paragraph list), stopping at the
// first record at parentLevel or shallower.
func decodeParagraphList(recs []record.Record, idx *int, parentLevel uint16, sec *document.Section, imageSeq *int) ([]*document.Paragraph, error) {
	childLevel := parentLevel + 1
	var paras []*document.Paragraph
	for *idx < len(recs) && recs[*idx].Level >= childLevel {
		if recs[*idx].Level > childLevel || recs[*idx].Tag != record.TagParaHeader {
			*idx++
			continue
		}
		p, err := decodeParagraph(recs, idx, sec, imageSeq)
		if err != nil {
			return nil, err
		}
		paras = append(paras, p)
	}
	return paras, nil
}

// skipSubtree advances *idx past every record deeper than parentLevel.
func skipSubtree(recs []record.Record, idx *int, parentLevel uint16) {
	for *idx < len(recs) && recs[*idx].Level > parentLevel {
		*idx++
	}
}
