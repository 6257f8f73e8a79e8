package ref

import (
	"testing"

	"github.com/hanpama/hwped/document"
)

func sampleDoc() *document.Document {
	return &document.Document{
		Header: document.NewBaseHeader(),
		Sections: []*document.Section{{
			Paragraphs: []*document.Paragraph{
				{Runs: []document.Run{{Text: "hello"}, {Text: "world"}}},
			},
			Tables: []*document.Table{{
				Rows: []document.Row{{
					Cells: []*document.Cell{
						{Paragraphs: []*document.Paragraph{{Runs: []document.Run{{Text: "cell"}}}}},
					},
				}},
			}},
			TextBoxes: []*document.TextBox{{
				Paragraphs: []*document.Paragraph{{Runs: []document.Run{{Text: "box"}}}},
			}},
			Images: []*document.Image{{BinDataPath: "BinData/BIN0001.dat"}},
		}},
	}
}

func TestParseAndStringRoundTrip(t *testing.T) {
	cases := []string{
		"s0.p1",
		"s0.p1.r2",
		"s2.t0.r1.c3",
		"s2.t0.r1.c3.p0",
		"s0.tb1",
		"s0.tb1.p2",
		"s1.img0",
	}
	for _, s := range cases {
		r, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := r.String(); got != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{"", "p0", "s0", "s0.x1", "s0.p", "s0.t0.r1", "s0.p1.extra"}
	for _, s := range cases {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error, got none", s)
		}
	}
}

func TestResolveParagraphAndRun(t *testing.T) {
	doc := sampleDoc()
	r, err := Parse("s0.p0.r1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Resolve(doc, r)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Paragraph.Runs[1].Text != "world" {
		t.Errorf("unexpected resolved paragraph: %+v", res.Paragraph)
	}
}

func TestResolveOutOfBoundsErrors(t *testing.T) {
	doc := sampleDoc()
	cases := []string{"s5.p0", "s0.p9", "s0.p0.r9", "s0.t9", "s0.t0.r9.c0", "s0.t0.r0.c9", "s0.tb9", "s0.img9"}
	for _, s := range cases {
		r, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if _, err := Resolve(doc, r); err == nil {
			t.Errorf("Resolve(%q): expected an out-of-bounds error, got none", s)
		}
	}
}

func TestResolveTableCellAndImage(t *testing.T) {
	doc := sampleDoc()

	r, err := Parse("s0.t0.r0.c0.p0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Resolve(doc, r)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Cell.Paragraphs[0].Text() != "cell" {
		t.Errorf("unexpected resolved cell: %+v", res.Cell)
	}

	r2, err := Parse("s0.img0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res2, err := Resolve(doc, r2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res2.Image.BinDataPath != "BinData/BIN0001.dat" {
		t.Errorf("unexpected resolved image: %+v", res2.Image)
	}
}
