package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hanpama/hwped/document"
	"github.com/mattn/go-runewidth"
)

// RenderSection renders one document.Section to plain text with ASCII
// tables, in top-level paragraph order, followed by its tables, one
// "[IMAGE]" line per image, and its text boxes (spec §3: Section holds
// paragraphs plus the tables/images/text
// boxes anchored from them, navigated by reference rather than inline
// position).
func RenderSection(sec *document.Section, w io.Writer) error {
	for _, p := range sec.Paragraphs {
		if err := renderParagraph(p, w); err != nil {
			return err
		}
	}
	for _, t := range sec.Tables {
		if err := renderTable(t, w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	for range sec.Images {
		if err := renderImage(w); err != nil {
			return err
		}
	}
	for _, tb := range sec.TextBoxes {
		for _, p := range tb.Paragraphs {
			if err := renderParagraph(p, w); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderParagraph(para *document.Paragraph, w io.Writer) error {
	text := strings.TrimRight(para.Text(), "\n")
	if text != "" {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// renderTable flattens a document.Table's row/col/span grid into the
// Cell coordinates tableLayout expects, skipping the nil grid positions
// a merged cell's span leaves behind.
func renderTable(docTable *document.Table, w io.Writer) error {
	if len(docTable.Rows) == 0 {
		return nil
	}

	t := &Table{Rows: len(docTable.Rows)}
	for _, row := range docTable.Rows {
		if len(row.Cells) > t.Cols {
			t.Cols = len(row.Cells)
		}
	}
	for r, row := range docTable.Rows {
		for c, cell := range row.Cells {
			if cell == nil {
				continue
			}
			var texts []string
			for _, p := range cell.Paragraphs {
				if pt := p.Text(); pt != "" {
					texts = append(texts, pt)
				}
			}
			t.Cells = append(t.Cells, &Cell{
				Row:     r,
				Col:     c,
				Text:    strings.TrimSpace(strings.Join(texts, "\n")),
				RowSpan: cell.RowSpan,
				ColSpan: cell.ColSpan,
			})
		}
	}

	_, err := fmt.Fprint(w, t.Render())
	return err
}

func renderImage(w io.Writer) error {
	_, err := fmt.Fprintln(w, "[IMAGE]")
	return err
}

// Cell is one grid position of a Table, addressed by row/col with its
// span, the coordinates document.Row/document.Cell already carry.
type Cell struct {
	Row     int
	Col     int
	Text    string
	RowSpan int
	ColSpan int
}

// Table is the ASCII grid a rendered document.Table lowers to.
type Table struct {
	Rows  int
	Cols  int
	Cells []*Cell
}

// tableLayout is the computed layout of a Table: column widths, per-row
// display height (a cell's text may wrap across several lines), and
// which Cell owns which grid position once spans are accounted for.
type tableLayout struct {
	table *Table

	cellOwner  [][]*Cell
	colWidths  []int
	rowHeights []int
	cellLines  map[*Cell][]string
}

// Render lays the table out and renders it to a bordered ASCII grid.
func (t *Table) Render() string {
	layout := t.buildLayout()
	return layout.render()
}

func (t *Table) buildLayout() *tableLayout {
	layout := &tableLayout{
		table:      t,
		cellOwner:  make([][]*Cell, t.Rows),
		colWidths:  make([]int, t.Cols),
		rowHeights: make([]int, t.Rows),
		cellLines:  make(map[*Cell][]string),
	}

	for i := range layout.cellOwner {
		layout.cellOwner[i] = make([]*Cell, t.Cols)
	}

	for _, cell := range t.Cells {
		for r := 0; r < cell.RowSpan && cell.Row+r < t.Rows; r++ {
			for c := 0; c < cell.ColSpan && cell.Col+c < t.Cols; c++ {
				layout.cellOwner[cell.Row+r][cell.Col+c] = cell
			}
		}
	}

	for _, cell := range t.Cells {
		layout.cellLines[cell] = strings.Split(cell.Text, "\n")
	}

	layout.computeColWidths()
	layout.computeRowHeights()

	return layout
}

func (l *tableLayout) computeColWidths() {
	for i := range l.colWidths {
		l.colWidths[i] = 1
	}

	// Single-column cells set the initial per-column width.
	for _, cell := range l.table.Cells {
		if cell.ColSpan != 1 {
			continue
		}
		maxWidth := 0
		for _, line := range l.cellLines[cell] {
			if w := displayWidth(line); w > maxWidth {
				maxWidth = w
			}
		}
		if maxWidth > l.colWidths[cell.Col] {
			l.colWidths[cell.Col] = maxWidth
		}
	}

	// Spanning cells that need more room distribute the shortfall
	// evenly across the columns they cover, remainder to the leftmost.
	for _, cell := range l.table.Cells {
		if cell.ColSpan <= 1 {
			continue
		}
		maxWidth := 0
		for _, line := range l.cellLines[cell] {
			if w := displayWidth(line); w > maxWidth {
				maxWidth = w
			}
		}

		totalWidth := 0
		for c := 0; c < cell.ColSpan; c++ {
			totalWidth += l.colWidths[cell.Col+c]
		}
		if maxWidth <= totalWidth {
			continue
		}
		extra := maxWidth - totalWidth
		perCol := extra / cell.ColSpan
		remainder := extra % cell.ColSpan
		for c := 0; c < cell.ColSpan; c++ {
			l.colWidths[cell.Col+c] += perCol
			if c < remainder {
				l.colWidths[cell.Col+c]++
			}
		}
	}
}

func (l *tableLayout) computeRowHeights() {
	for row := 0; row < l.table.Rows; row++ {
		maxLines := 1
		for _, cell := range l.table.Cells {
			if cell.Row == row {
				if n := len(l.cellLines[cell]); n > maxLines {
					maxLines = n
				}
			}
		}
		l.rowHeights[row] = maxLines
	}
}

func (l *tableLayout) render() string {
	var sb strings.Builder

	sb.WriteString(l.renderBorderLine(-1))
	sb.WriteString("\n")

	for rowIdx := 0; rowIdx < l.table.Rows; rowIdx++ {
		for displayRowIdx := 0; displayRowIdx < l.rowHeights[rowIdx]; displayRowIdx++ {
			sb.WriteString(l.renderContentLine(rowIdx, displayRowIdx))
			sb.WriteString("\n")
		}
		sb.WriteString(l.renderBorderLine(rowIdx))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderBorderLine renders the horizontal rule above rowIdx (-1 for the
// very top), drawing a '+' wherever the cells on either side differ.
func (l *tableLayout) renderBorderLine(rowIdx int) string {
	var sb strings.Builder
	sb.WriteString("+")

	for colIdx := 0; colIdx < l.table.Cols; colIdx++ {
		if l.needsHorizontalLine(rowIdx, colIdx) {
			sb.WriteString(strings.Repeat("-", l.colWidths[colIdx]+2))
		} else {
			sb.WriteString(strings.Repeat(" ", l.colWidths[colIdx]+2))
		}
		if colIdx < l.table.Cols-1 {
			if l.needsVerticalLine(rowIdx, colIdx) {
				sb.WriteString("+")
			} else {
				sb.WriteString("-")
			}
		}
	}

	sb.WriteString("+")
	return sb.String()
}

func (l *tableLayout) needsHorizontalLine(rowIdx, colIdx int) bool {
	if rowIdx == -1 || rowIdx == l.table.Rows-1 {
		return true
	}
	return l.cellOwner[rowIdx][colIdx] != l.cellOwner[rowIdx+1][colIdx]
}

func (l *tableLayout) needsVerticalLine(rowIdx, colIdx int) bool {
	if rowIdx == -1 || rowIdx == l.table.Rows-1 {
		return true
	}
	aboveLeft, aboveRight := l.cellOwner[rowIdx][colIdx], l.cellOwner[rowIdx][colIdx+1]
	belowLeft, belowRight := l.cellOwner[rowIdx+1][colIdx], l.cellOwner[rowIdx+1][colIdx+1]
	return aboveLeft != aboveRight || belowLeft != belowRight
}

func (l *tableLayout) renderContentLine(rowIdx, displayRowIdx int) string {
	var sb strings.Builder
	sb.WriteString("|")

	colIdx := 0
	for colIdx < l.table.Cols {
		owner := l.cellOwner[rowIdx][colIdx]
		if owner == nil || owner.Col != colIdx {
			colIdx++
			continue
		}

		colspan := owner.ColSpan
		totalContentWidth := 0
		for c := 0; c < colspan; c++ {
			totalContentWidth += l.colWidths[colIdx+c]
		}
		if colspan > 1 {
			totalContentWidth += (colspan - 1) * 3
		}

		var text string
		if owner.Row == rowIdx {
			lines := l.cellLines[owner]
			if displayRowIdx < len(lines) {
				text = lines[displayRowIdx]
			}
		}
		// A rowspan cell only shows text on its starting row; later
		// rows leave it blank.

		sb.WriteString(" ")
		padding := totalContentWidth - displayWidth(text)
		if padding < 0 {
			padding = 0
		}
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", padding))
		sb.WriteString(" ")

		colIdx += colspan
		if colIdx < l.table.Cols {
			sb.WriteString("|")
		}
	}

	sb.WriteString("|")
	return sb.String()
}

// displayWidth measures s the way a terminal would: CJK and other wide
// runes count as 2 columns, combining marks as 0.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
