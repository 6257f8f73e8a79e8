package document

import "testing"

func TestNewBaseHeaderHasFixedHeadingStyles(t *testing.T) {
	h := NewBaseHeader()
	if len(h.Styles) != 8 {
		t.Fatalf("expected 8 styles (Normal + 7 heading levels), got %d", len(h.Styles))
	}
	if h.Styles[0].Name != "Normal" {
		t.Errorf("Styles[0].Name = %q, want Normal", h.Styles[0].Name)
	}
	for level := 1; level <= 7; level++ {
		s := h.Styles[level]
		if s.Name != HeadingStyleName(level) {
			t.Errorf("Styles[%d].Name = %q, want %q", level, s.Name, HeadingStyleName(level))
		}
		ps := h.ParaShapes[s.ParaShapeRef]
		if ps.HeadingLevel != level {
			t.Errorf("style %d's ParaShape.HeadingLevel = %d, want %d", level, ps.HeadingLevel, level)
		}
	}
}

func TestFindOrAppendCharShapeReusesEqual(t *testing.T) {
	h := NewBaseHeader()
	want := CharShape{FontRef: 0, FontSize: 12, Bold: true}
	id1 := h.FindOrAppendCharShape(want)
	id2 := h.FindOrAppendCharShape(want)
	if id1 != id2 {
		t.Errorf("expected structurally equal CharShape to be reused: got %d then %d", id1, id2)
	}
	different := want
	different.Bold = false
	id3 := h.FindOrAppendCharShape(different)
	if id3 == id1 {
		t.Error("expected a distinct CharShape to get a new id")
	}
}

func TestFindOrAppendParaShapeReusesEqual(t *testing.T) {
	h := NewBaseHeader()
	want := ParaShape{Align: AlignCenter, HeadingLevel: 0}
	id1 := h.FindOrAppendParaShape(want)
	id2 := h.FindOrAppendParaShape(want)
	if id1 != id2 {
		t.Errorf("expected structurally equal ParaShape to be reused: got %d then %d", id1, id2)
	}
}

func TestNewTextRuns(t *testing.T) {
	if runs := NewTextRuns(""); runs != nil {
		t.Errorf("expected nil runs for empty text, got %v", runs)
	}
	runs := NewTextRuns("hello")
	if len(runs) != 1 || runs[0].Text != "hello" || runs[0].CharShapeRef != 0 {
		t.Errorf("unexpected runs for non-empty text: %+v", runs)
	}
}

func TestParagraphTextConcatenatesRuns(t *testing.T) {
	p := &Paragraph{Runs: []Run{{Text: "foo"}, {Text: "bar"}}}
	if got := p.Text(); got != "foobar" {
		t.Errorf("Text() = %q, want %q", got, "foobar")
	}
	empty := &Paragraph{}
	if got := empty.Text(); got != "" {
		t.Errorf("Text() on empty paragraph = %q, want empty string", got)
	}
}

func TestNewBlankIsWellFormed(t *testing.T) {
	doc := NewBlank(FormatHWPX)
	if doc.Format != FormatHWPX {
		t.Errorf("Format = %v, want %v", doc.Format, FormatHWPX)
	}
	if len(doc.Sections) != 1 || len(doc.Sections[0].Paragraphs) != 1 {
		t.Fatalf("expected exactly one section with one paragraph, got %+v", doc.Sections)
	}
}

func TestExtractAllTextSkipsEmptyParagraphs(t *testing.T) {
	doc := &Document{
		Header: NewBaseHeader(),
		Sections: []*Section{{
			Paragraphs: []*Paragraph{
				{Runs: []Run{{Text: "first"}}},
				{},
				{Runs: []Run{{Text: "second"}}},
			},
		}},
	}
	if got := ExtractAllText(doc); got != "first\nsecond" {
		t.Errorf("ExtractAllText = %q, want %q", got, "first\nsecond")
	}
}

func TestExtractAllTextIncludesTablesAndTextBoxes(t *testing.T) {
	doc := &Document{
		Header: NewBaseHeader(),
		Sections: []*Section{{
			Tables: []*Table{{Rows: []Row{{Cells: []*Cell{
				{Paragraphs: []*Paragraph{{Runs: []Run{{Text: "cell"}}}}},
			}}}}},
			TextBoxes: []*TextBox{{Paragraphs: []*Paragraph{{Runs: []Run{{Text: "box"}}}}}},
		}},
	}
	got := ExtractAllText(doc)
	if got != "cell\nbox" {
		t.Errorf("ExtractAllText = %q, want %q", got, "cell\nbox")
	}
}
