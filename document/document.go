// Package document defines the unified in-memory document model that
// both the HWP 5.0 and HWPX codecs decode into and encode from. It holds
// no parsing or serialization logic itself — decoders build a Document,
// the edit executor mutates it, encoders serialize it back out.
package document

// Format tags the on-disk container a Document was loaded from, or will
// be serialized to.
type Format string

const (
	FormatHWP  Format = "hwp"
	FormatHWPX Format = "hwpx"
)

// Document is the root of the model: a format tag, the shared header
// tables, and an ordered list of sections.
type Document struct {
	Format   Format
	Header   *Header
	Sections []*Section
}

// Align is a paragraph's horizontal alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// StyleKind distinguishes paragraph styles from character styles.
type StyleKind string

const (
	StyleKindPara StyleKind = "PARA"
	StyleKindChar StyleKind = "CHAR"
)

// Font is a header font-table entry. IDs form a dense range starting at 0.
type Font struct {
	ID   int
	Name string
}

// CharShape is a header character-property entry. FontSize is stored in
// points in the model; wire codecs multiply/divide by 100 as needed.
type CharShape struct {
	ID        int
	FontRef   int
	FontSize  float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     uint32 // 24-bit RGB
}

// Equal reports whether two CharShapes have identical visual properties,
// ignoring ID. Used by format operations to reuse an existing entry by
// structural equality instead of always appending (spec §9).
func (c CharShape) Equal(o CharShape) bool {
	return c.FontRef == o.FontRef &&
		c.FontSize == o.FontSize &&
		c.Bold == o.Bold &&
		c.Italic == o.Italic &&
		c.Underline == o.Underline &&
		c.Color == o.Color
}

// ParaShape is a header paragraph-property entry. HeadingLevel is 0 when
// the paragraph is not a heading, else 1..7.
type ParaShape struct {
	ID           int
	Align        Align
	HeadingLevel int
}

func (p ParaShape) Equal(o ParaShape) bool {
	return p.Align == o.Align && p.HeadingLevel == o.HeadingLevel
}

// Style is a header style-table entry. Style 0 is always the base body
// style named "Normal"; styles 1..7 are the heading styles "개요 1".."개요 7"
// whose ParaShape.HeadingLevel equals the style id.
type Style struct {
	ID           int
	Name         string
	CharShapeRef int
	ParaShapeRef int
	Kind         StyleKind
}

// HeadingStyleName returns the fixed Korean heading-style name for level
// 1..7 ("개요 N").
func HeadingStyleName(level int) string {
	digits := []string{"", "1", "2", "3", "4", "5", "6", "7"}
	if level < 1 || level > 7 {
		return ""
	}
	return "개요 " + digits[level]
}

// Header holds the document's four ordered, id-referenced tables.
type Header struct {
	Fonts      []Font
	CharShapes []CharShape
	ParaShapes []ParaShape
	Styles     []Style
}

// NewBaseHeader builds the minimal header every blank document starts
// with: one font, one base CharShape/ParaShape, and the 8 fixed styles
// (0="Normal" plus heading levels 1..7), per spec §8 scenario 1.
func NewBaseHeader() *Header {
	h := &Header{
		Fonts:      []Font{{ID: 0, Name: "함초롬바탕"}},
		CharShapes: []CharShape{{ID: 0, FontRef: 0, FontSize: 10, Color: 0}},
		ParaShapes: []ParaShape{{ID: 0, Align: AlignLeft}},
		Styles:     []Style{{ID: 0, Name: "Normal", CharShapeRef: 0, ParaShapeRef: 0, Kind: StyleKindPara}},
	}
	for level := 1; level <= 7; level++ {
		psID := len(h.ParaShapes)
		h.ParaShapes = append(h.ParaShapes, ParaShape{ID: psID, Align: AlignLeft, HeadingLevel: level})
		h.Styles = append(h.Styles, Style{
			ID:           level,
			Name:         HeadingStyleName(level),
			CharShapeRef: 0,
			ParaShapeRef: psID,
			Kind:         StyleKindPara,
		})
	}
	return h
}

// FindOrAppendCharShape returns the id of an existing CharShape equal to
// want, or appends want and returns its new id. Header tables only ever
// grow by append (spec §9): inserting in the middle would invalidate
// every existing reference.
func (h *Header) FindOrAppendCharShape(want CharShape) int {
	for _, cs := range h.CharShapes {
		if cs.Equal(want) {
			return cs.ID
		}
	}
	want.ID = len(h.CharShapes)
	h.CharShapes = append(h.CharShapes, want)
	return want.ID
}

// FindOrAppendParaShape mirrors FindOrAppendCharShape for ParaShape.
func (h *Header) FindOrAppendParaShape(want ParaShape) int {
	for _, ps := range h.ParaShapes {
		if ps.Equal(want) {
			return ps.ID
		}
	}
	want.ID = len(h.ParaShapes)
	h.ParaShapes = append(h.ParaShapes, want)
	return want.ID
}

// NewBlank builds a minimal valid Document in the given format: one
// section with a single empty top-level paragraph, and the base header
// from NewBaseHeader.
func NewBlank(format Format) *Document {
	return &Document{
		Format: format,
		Header: NewBaseHeader(),
		Sections: []*Section{
			{
				Paragraphs: []*Paragraph{{ParaShapeRef: 0, StyleRef: 0}},
			},
		},
	}
}

// Section is an ordered list of top-level paragraphs, plus the tables,
// images, and text boxes anchored from them. Tables/text boxes are
// children of a paragraph in the underlying record/XML tree but are
// flattened into per-section collections here and navigated by
// reference (spec §3).
type Section struct {
	Paragraphs []*Paragraph
	Tables     []*Table
	Images     []*Image
	TextBoxes  []*TextBox
}

// Paragraph is a sequence of Runs sharing a paragraph shape and style.
type Paragraph struct {
	Runs         []Run
	ParaShapeRef int
	StyleRef     int
}

// Text concatenates the paragraph's run texts.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 0 {
		return ""
	}
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	total := 0
	for _, r := range p.Runs {
		total += len(r.Text)
	}
	buf := make([]byte, 0, total)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// Run is a maximal contiguous substring of a paragraph sharing one
// character shape. Ownership of a Run is exclusive to its Paragraph.
type Run struct {
	Text         string
	CharShapeRef int
}

// Table is a grid of rows of cells, anchored inline inside a host
// paragraph (not modeled here — the host link is maintained by the
// codec, not the unified model, per spec §3).
type Table struct {
	Rows []Row
}

// Row is one row of a Table.
type Row struct {
	Cells []*Cell
}

// Cell is one cell of a Table row.
type Cell struct {
	Paragraphs []*Paragraph
	ColSpan    int
	RowSpan    int
}

// TextBox is a rectangular shape component whose content is its own
// paragraph sub-stream.
type TextBox struct {
	Paragraphs []*Paragraph
}

// ImageFormat is one of the three raster formats this core understands.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageJPG ImageFormat = "jpg"
	ImageGIF ImageFormat = "gif"
)

// Image holds only a path into the owning container; image bytes
// themselves are owned by the container (spec §3).
type Image struct {
	BinDataPath string
	Width       int
	Height      int
	Format      ImageFormat
}

// NewTextRuns builds the single-run slice a freshly set or inserted
// paragraph gets at the model level (HWPX path and in-memory HWP model
// resync both need this): one run carrying the whole text at CharShapeRef
// 0, or no runs at all for empty text.
func NewTextRuns(text string) []Run {
	if text == "" {
		return nil
	}
	return []Run{{Text: text, CharShapeRef: 0}}
}

// ExtractAllText concatenates the plain text of every paragraph in the
// document (top-level, then table cells, then text boxes, in section
// order), one paragraph per line, skipping empty lines. Used for the
// cross-format agreement property (spec §8).
func ExtractAllText(doc *Document) string {
	var lines []string
	for _, sec := range doc.Sections {
		for _, p := range sec.Paragraphs {
			if t := p.Text(); t != "" {
				lines = append(lines, t)
			}
		}
		for _, tbl := range sec.Tables {
			for _, row := range tbl.Rows {
				for _, cell := range row.Cells {
					for _, p := range cell.Paragraphs {
						if t := p.Text(); t != "" {
							lines = append(lines, t)
						}
					}
				}
			}
		}
		for _, tb := range sec.TextBoxes {
			for _, p := range tb.Paragraphs {
				if t := p.Text(); t != "" {
					lines = append(lines, t)
				}
			}
		}
	}
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
