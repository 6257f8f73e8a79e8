// Package xmlpart decodes and encodes the namespaced XML parts an HWPX
// document is built from (Contents/section<k>.xml, Contents/header.xml)
// into and out of the shared document model (spec §4.6 item 3, §5.1).
// Elements are matched by local name only, same as the teacher's HWPX
// reader did, rather than by full namespace URI — the hp:/hh: prefixes
// HWPX declares are fixed by convention and this core never needs to
// tell one document's prefix choice from another's.
package xmlpart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
)

type paragraphXML struct {
	XMLName xml.Name `xml:"p"`
	ParaPr  string   `xml:"paraPrIDRef,attr"`
	StyleID string   `xml:"styleIDRef,attr"`
	Runs    []runXML `xml:"run"`
}

type runXML struct {
	XMLName   xml.Name     `xml:"run"`
	CharPr    string       `xml:"charPrIDRef,attr"`
	Texts     []textXML    `xml:"t"`
	LineBreak *struct{}    `xml:"lineBreak"`
	Table     *tableXML    `xml:"tbl"`
	Picture   *pictureXML  `xml:"pic"`
	Container *containerXML `xml:"container"`
}

type textXML struct {
	Text string `xml:",chardata"`
}

type tableXML struct {
	XMLName xml.Name   `xml:"tbl"`
	RowCnt  int        `xml:"rowCnt,attr"`
	ColCnt  int        `xml:"colCnt,attr"`
	Rows    []rowXML   `xml:"tr"`
}

type rowXML struct {
	XMLName xml.Name  `xml:"tr"`
	Cells   []cellXML `xml:"tc"`
}

type cellXML struct {
	XMLName  xml.Name    `xml:"tc"`
	SubList  subListXML  `xml:"subList"`
	CellAddr cellAddrXML `xml:"cellAddr"`
	CellSpan cellSpanXML `xml:"cellSpan"`
}

type subListXML struct {
	XMLName    xml.Name       `xml:"subList"`
	Paragraphs []paragraphXML `xml:"p"`
}

type cellAddrXML struct {
	ColAddr int `xml:"colAddr,attr"`
	RowAddr int `xml:"rowAddr,attr"`
}

type cellSpanXML struct {
	ColSpan int `xml:"colSpan,attr"`
	RowSpan int `xml:"rowSpan,attr"`
}

// pictureXML is a drawing-object picture (hp:pic), referencing a
// BinData/ part by relationship ID.
type pictureXML struct {
	XMLName xml.Name `xml:"pic"`
	BinItem string   `xml:"binItem,attr"`
}

// containerXML is a drawing-object container used for text boxes: a
// shape with its own nested paragraph subList rather than a picture.
type containerXML struct {
	XMLName xml.Name   `xml:"container"`
	SubList subListXML `xml:"subList"`
}

// DecodeSection parses one Contents/section<k>.xml document into a
// document.Section, walking the top-level <p> elements the way the
// teacher's ContentScanner did but building the full paragraph/table/
// textbox/image graph instead of a flat node stream.
func DecodeSection(r io.Reader) (*document.Section, error) {
	var body struct {
		XMLName    xml.Name       `xml:"sec"`
		Paragraphs []paragraphXML `xml:"p"`
	}
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&body); err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode section XML", err)
	}

	sec := &document.Section{}
	for _, p := range body.Paragraphs {
		decodeParagraphInto(sec, p)
	}
	return sec, nil
}

func decodeParagraphInto(sec *document.Section, p paragraphXML) {
	for _, run := range p.Runs {
		if run.Table != nil {
			sec.Tables = append(sec.Tables, decodeTable(*run.Table))
			return
		}
		if run.Picture != nil {
			sec.Images = append(sec.Images, &document.Image{})
			return
		}
		if run.Container != nil {
			sec.TextBoxes = append(sec.TextBoxes, &document.TextBox{
				Paragraphs: decodeParagraphs(run.Container.SubList.Paragraphs),
			})
			return
		}
	}
	sec.Paragraphs = append(sec.Paragraphs, decodeParagraph(p))
}

func decodeParagraph(p paragraphXML) *document.Paragraph {
	para := &document.Paragraph{
		ParaShapeRef: atoiOr0(p.ParaPr),
		StyleRef:     atoiOr0(p.StyleID),
	}
	for _, run := range p.Runs {
		text := runText(run)
		if text == "" {
			continue
		}
		para.Runs = append(para.Runs, document.Run{Text: text, CharShapeRef: atoiOr0(run.CharPr)})
	}
	return para
}

func decodeParagraphs(ps []paragraphXML) []*document.Paragraph {
	out := make([]*document.Paragraph, 0, len(ps))
	for _, p := range ps {
		out = append(out, decodeParagraph(p))
	}
	return out
}

func runText(r runXML) string {
	var buf bytes.Buffer
	for _, t := range r.Texts {
		buf.WriteString(t.Text)
	}
	if r.LineBreak != nil {
		buf.WriteByte('\n')
	}
	return buf.String()
}

func decodeTable(t tableXML) *document.Table {
	rowCount, colCount := t.RowCnt, t.ColCnt
	grid := make([][]*document.Cell, rowCount)
	for i := range grid {
		grid[i] = make([]*document.Cell, colCount)
	}
	for _, tr := range t.Rows {
		for _, tc := range tr.Cells {
			colSpan, rowSpan := tc.CellSpan.ColSpan, tc.CellSpan.RowSpan
			if colSpan == 0 {
				colSpan = 1
			}
			if rowSpan == 0 {
				rowSpan = 1
			}
			cell := &document.Cell{
				Paragraphs: decodeParagraphs(tc.SubList.Paragraphs),
				ColSpan:    colSpan,
				RowSpan:    rowSpan,
			}
			for r := tc.CellAddr.RowAddr; r < tc.CellAddr.RowAddr+rowSpan && r < rowCount; r++ {
				for c := tc.CellAddr.ColAddr; c < tc.CellAddr.ColAddr+colSpan && c < colCount; c++ {
					if grid[r][c] == nil {
						grid[r][c] = cell
					}
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
	return tbl
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// EncodeSection is the inverse of DecodeSection: it re-serializes a
// document.Section into Contents/section<k>.xml. Object anchoring is
// reconstructed as a single-run paragraph wrapping the object, the
// simplest layout HWPX accepts.
func EncodeSection(sec *document.Section) ([]byte, error) {
	var body struct {
		XMLName xml.Name       `xml:"hp:sec"`
		Xmlns   string         `xml:"xmlns:hp,attr"`
		Paras   []paragraphXML `xml:"hp:p"`
	}
	body.Xmlns = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	for _, p := range sec.Paragraphs {
		body.Paras = append(body.Paras, encodeParagraph(p))
	}
	for _, t := range sec.Tables {
		body.Paras = append(body.Paras, wrapParagraph(runXML{Table: encodeTable(t)}))
	}
	for _, tb := range sec.TextBoxes {
		body.Paras = append(body.Paras, wrapParagraph(runXML{Container: &containerXML{
			SubList: subListXML{Paragraphs: encodeParagraphs(tb.Paragraphs)},
		}}))
	}
	for range sec.Images {
		body.Paras = append(body.Paras, wrapParagraph(runXML{Picture: &pictureXML{}}))
	}

	out, err := xml.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "encode section XML", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func wrapParagraph(r runXML) paragraphXML {
	return paragraphXML{Runs: []runXML{r}}
}

func encodeParagraph(p *document.Paragraph) paragraphXML {
	out := paragraphXML{ParaPr: itoaOr(p.ParaShapeRef), StyleID: itoaOr(p.StyleRef)}
	for _, run := range p.Runs {
		out.Runs = append(out.Runs, runXML{
			CharPr: itoaOr(run.CharShapeRef),
			Texts:  []textXML{{Text: run.Text}},
		})
	}
	return out
}

func encodeParagraphs(ps []*document.Paragraph) []paragraphXML {
	out := make([]paragraphXML, 0, len(ps))
	for _, p := range ps {
		out = append(out, encodeParagraph(p))
	}
	return out
}

func encodeTable(t *document.Table) *tableXML {
	out := &tableXML{RowCnt: len(t.Rows)}
	if len(t.Rows) > 0 {
		out.ColCnt = len(t.Rows[0].Cells)
	}
	seen := map[*document.Cell]bool{}
	for r, row := range t.Rows {
		trow := rowXML{}
		for c, cell := range row.Cells {
			if cell == nil || seen[cell] {
				continue
			}
			seen[cell] = true
			trow.Cells = append(trow.Cells, cellXML{
				SubList:  subListXML{Paragraphs: encodeParagraphs(cell.Paragraphs)},
				CellAddr: cellAddrXML{ColAddr: c, RowAddr: r},
				CellSpan: cellSpanXML{ColSpan: cell.ColSpan, RowSpan: cell.RowSpan},
			})
		}
		out.Rows = append(out.Rows, trow)
	}
	return out
}

func itoaOr(n int) string {
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%d", n)
}
