// Package ref implements the hierarchical reference grammar (spec §4.5)
// used to address a specific element of a document.Document, and its
// resolver against a loaded document.
//
//	ref      := section (dot element)?
//	section  := 's' N
//	element  := paragraph | table-path | textbox-path | image
//	paragraph     := 'p' N ('.r' N)?
//	table-path    := 't' N ('.r' N '.c' N ('.p' N)?)?
//	textbox-path  := 'tb' N ('.p' N)?
//	image         := 'img' N
//
// Parse accepts only refs that carry an element part: a bare section
// ref such as "s0" is rejected.
package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
)

// Kind identifies which element grammar form a Ref parsed as.
type Kind int

const (
	KindParagraph Kind = iota
	KindTableCell
	KindTextBox
	KindImage
)

// Ref is a parsed reference. Absent optional trailing indices (marked
// below, plus RowIndex/ColIndex for a bare table ref) are -1; indices of
// other kinds than Kind stay 0.
type Ref struct {
	Raw     string
	Section int
	Kind    Kind

	// KindParagraph
	ParaIndex int
	RunIndex  int // -1 if absent

	// KindTableCell
	TableIndex    int
	RowIndex      int
	ColIndex      int
	CellParaIndex int // -1 if absent ("t.r.c" with no ".p")

	// KindTextBox
	TextBoxIndex     int
	TextBoxParaIndex int // -1 if absent

	// KindImage
	ImageIndex int
}

// Parse parses a reference string per the grammar above. It never
// consults a document; Resolve does that.
func Parse(s string) (*Ref, error) {
	p := &parser{s: s, raw: s}
	r, err := p.parseRef()
	if err != nil {
		return nil, hwperr.Wrap(hwperr.RefError, "malformed reference", err).WithRef(s)
	}
	if p.pos != len(p.s) {
		return nil, hwperr.New(hwperr.RefError, fmt.Sprintf("unexpected trailing input %q", p.s[p.pos:])).WithRef(s)
	}
	return r, nil
}

type parser struct {
	s   string
	raw string
	pos int
}

func (p *parser) parseRef() (*Ref, error) {
	if !p.consumeByte('s') {
		return nil, fmt.Errorf("expected 's' at position %d", p.pos)
	}
	sectionN, err := p.parseInt()
	if err != nil {
		return nil, fmt.Errorf("section index: %w", err)
	}

	r := &Ref{
		Raw:              p.raw,
		Section:          sectionN,
		RunIndex:         -1,
		CellParaIndex:    -1,
		TextBoxParaIndex: -1,
	}

	if p.pos == len(p.s) {
		return nil, fmt.Errorf("reference has no element component")
	}
	if !p.consumeByte('.') {
		return nil, fmt.Errorf("expected '.' at position %d", p.pos)
	}

	switch {
	case p.consumeLiteral("tb"):
		r.Kind = KindTextBox
		idx, err := p.parseInt()
		if err != nil {
			return nil, fmt.Errorf("textbox index: %w", err)
		}
		r.TextBoxIndex = idx
		if p.consumeByte('.') {
			if !p.consumeByte('p') {
				return nil, fmt.Errorf("expected 'p' at position %d", p.pos)
			}
			pIdx, err := p.parseInt()
			if err != nil {
				return nil, fmt.Errorf("textbox paragraph index: %w", err)
			}
			r.TextBoxParaIndex = pIdx
		}

	case p.consumeLiteral("img"):
		r.Kind = KindImage
		idx, err := p.parseInt()
		if err != nil {
			return nil, fmt.Errorf("image index: %w", err)
		}
		r.ImageIndex = idx

	case p.consumeByte('t'):
		r.Kind = KindTableCell
		idx, err := p.parseInt()
		if err != nil {
			return nil, fmt.Errorf("table index: %w", err)
		}
		r.TableIndex = idx
		if p.consumeByte('.') {
			if !p.consumeByte('r') {
				return nil, fmt.Errorf("expected 'r' at position %d", p.pos)
			}
			rowIdx, err := p.parseInt()
			if err != nil {
				return nil, fmt.Errorf("row index: %w", err)
			}
			r.RowIndex = rowIdx
			if !p.consumeByte('.') || !p.consumeByte('c') {
				return nil, fmt.Errorf("expected '.c' at position %d", p.pos)
			}
			colIdx, err := p.parseInt()
			if err != nil {
				return nil, fmt.Errorf("col index: %w", err)
			}
			r.ColIndex = colIdx
			if p.consumeByte('.') {
				if !p.consumeByte('p') {
					return nil, fmt.Errorf("expected 'p' at position %d", p.pos)
				}
				pIdx, err := p.parseInt()
				if err != nil {
					return nil, fmt.Errorf("cell paragraph index: %w", err)
				}
				r.CellParaIndex = pIdx
			}
		} else {
			r.RowIndex, r.ColIndex = -1, -1
		}

	case p.consumeByte('p'):
		r.Kind = KindParagraph
		idx, err := p.parseInt()
		if err != nil {
			return nil, fmt.Errorf("paragraph index: %w", err)
		}
		r.ParaIndex = idx
		if p.consumeByte('.') {
			if !p.consumeByte('r') {
				return nil, fmt.Errorf("expected 'r' at position %d", p.pos)
			}
			rIdx, err := p.parseInt()
			if err != nil {
				return nil, fmt.Errorf("run index: %w", err)
			}
			r.RunIndex = rIdx
		}

	default:
		return nil, fmt.Errorf("unrecognized element at position %d", p.pos)
	}

	return r, nil
}

func (p *parser) consumeByte(b byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == b {
		p.pos++
		return true
	}
	return false
}

func (p *parser) consumeLiteral(lit string) bool {
	if strings.HasPrefix(p.s[p.pos:], lit) {
		p.pos += len(lit)
		return true
	}
	return false
}

// parseInt reads a run of ASCII digits (at least one) as a decimal,
// non-negative integer. No leading-zero restriction per spec §4.5.
func (p *parser) parseInt() (int, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected digits at position %d", p.pos)
	}
	return strconv.Atoi(p.s[start:p.pos])
}

// String formats the Ref back into its canonical textual form.
func (r *Ref) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "s%d.", r.Section)
	switch r.Kind {
	case KindParagraph:
		fmt.Fprintf(&b, "p%d", r.ParaIndex)
		if r.RunIndex >= 0 {
			fmt.Fprintf(&b, ".r%d", r.RunIndex)
		}
	case KindTableCell:
		fmt.Fprintf(&b, "t%d", r.TableIndex)
		if r.RowIndex >= 0 {
			fmt.Fprintf(&b, ".r%d.c%d", r.RowIndex, r.ColIndex)
			if r.CellParaIndex >= 0 {
				fmt.Fprintf(&b, ".p%d", r.CellParaIndex)
			}
		}
	case KindTextBox:
		fmt.Fprintf(&b, "tb%d", r.TextBoxIndex)
		if r.TextBoxParaIndex >= 0 {
			fmt.Fprintf(&b, ".p%d", r.TextBoxParaIndex)
		}
	case KindImage:
		fmt.Fprintf(&b, "img%d", r.ImageIndex)
	}
	return b.String()
}

// Resolved is the outcome of resolving a Ref against a Document: Section
// is always set, plus the field matching r.Kind (a cell ref sets both
// Table and Cell; a bare table ref sets only Table).
type Resolved struct {
	Section   *document.Section
	Paragraph *document.Paragraph
	Table     *document.Table
	Cell      *document.Cell
	TextBox   *document.TextBox
	Image     *document.Image
}

// Resolve locates the element a Ref addresses inside doc, returning a
// RefError with a bounds hint when any index is out of range.
func Resolve(doc *document.Document, r *Ref) (*Resolved, error) {
	if r.Section < 0 || r.Section >= len(doc.Sections) {
		return nil, hwperr.New(hwperr.RefError, "section index out of bounds").
			WithRef(r.Raw).
			WithHint(fmt.Sprintf("document has sections 0..%d", len(doc.Sections)-1))
	}
	sec := doc.Sections[r.Section]
	res := &Resolved{Section: sec}

	switch r.Kind {
	case KindParagraph:
		if r.ParaIndex < 0 || r.ParaIndex >= len(sec.Paragraphs) {
			return nil, hwperr.New(hwperr.RefError, "paragraph index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("section %d has paragraphs 0..%d", r.Section, len(sec.Paragraphs)-1))
		}
		res.Paragraph = sec.Paragraphs[r.ParaIndex]
		if r.RunIndex >= 0 && (r.RunIndex >= len(res.Paragraph.Runs)) {
			return nil, hwperr.New(hwperr.RefError, "run index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("paragraph s%d.p%d has runs 0..%d", r.Section, r.ParaIndex, len(res.Paragraph.Runs)-1))
		}

	case KindTableCell:
		if r.TableIndex < 0 || r.TableIndex >= len(sec.Tables) {
			return nil, hwperr.New(hwperr.RefError, "table index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("section %d has tables 0..%d", r.Section, len(sec.Tables)-1))
		}
		tbl := sec.Tables[r.TableIndex]
		res.Table = tbl
		if r.RowIndex < 0 {
			return res, nil
		}
		if r.RowIndex >= len(tbl.Rows) {
			return nil, hwperr.New(hwperr.RefError, "row index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("table s%d.t%d has rows 0..%d", r.Section, r.TableIndex, len(tbl.Rows)-1))
		}
		row := tbl.Rows[r.RowIndex]
		if r.ColIndex < 0 || r.ColIndex >= len(row.Cells) {
			return nil, hwperr.New(hwperr.RefError, "col index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("row s%d.t%d.r%d has cols 0..%d", r.Section, r.TableIndex, r.RowIndex, len(row.Cells)-1))
		}
		res.Cell = row.Cells[r.ColIndex]
		if r.CellParaIndex >= 0 && r.CellParaIndex >= len(res.Cell.Paragraphs) {
			return nil, hwperr.New(hwperr.RefError, "cell paragraph index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("cell s%d.t%d.r%d.c%d has paragraphs 0..%d", r.Section, r.TableIndex, r.RowIndex, r.ColIndex, len(res.Cell.Paragraphs)-1))
		}

	case KindTextBox:
		if r.TextBoxIndex < 0 || r.TextBoxIndex >= len(sec.TextBoxes) {
			return nil, hwperr.New(hwperr.RefError, "text box index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("section %d has text boxes 0..%d", r.Section, len(sec.TextBoxes)-1))
		}
		tb := sec.TextBoxes[r.TextBoxIndex]
		res.TextBox = tb
		if r.TextBoxParaIndex >= 0 && r.TextBoxParaIndex >= len(tb.Paragraphs) {
			return nil, hwperr.New(hwperr.RefError, "text box paragraph index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("text box s%d.tb%d has paragraphs 0..%d", r.Section, r.TextBoxIndex, len(tb.Paragraphs)-1))
		}

	case KindImage:
		if r.ImageIndex < 0 || r.ImageIndex >= len(sec.Images) {
			return nil, hwperr.New(hwperr.RefError, "image index out of bounds").
				WithRef(r.Raw).
				WithHint(fmt.Sprintf("section %d has images 0..%d", r.Section, len(sec.Images)-1))
		}
		res.Image = sec.Images[r.ImageIndex]
	}

	return res, nil
}
