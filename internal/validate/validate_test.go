package validate

import (
	"testing"

	"github.com/hanpama/hwped/document"
)

func TestDocumentPassesOnBlank(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	res := Document(doc, nil)
	if !res.Valid() {
		t.Errorf("expected a freshly built blank document to validate clean, got failures: %+v", res.Failures)
	}
}

func TestDocumentCatchesOutOfRangeCharShapeRef(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Paragraphs[0].Runs = []document.Run{{Text: "x", CharShapeRef: 99}}
	res := Document(doc, nil)
	if res.Valid() {
		t.Fatal("expected a validation failure for an out-of-range CharShapeRef")
	}
	if res.Failures[0].Kind != CheckReferenceIntegrity {
		t.Errorf("expected CheckReferenceIntegrity, got %v", res.Failures[0].Kind)
	}
}

func TestDocumentCatchesOutOfRangeStyleRef(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Paragraphs[0].StyleRef = 42
	res := Document(doc, nil)
	if res.Valid() {
		t.Fatal("expected a validation failure for an out-of-range StyleRef")
	}
}

func TestDocumentCatchesTableCellReferenceErrors(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Tables = []*document.Table{{
		Rows: []document.Row{{Cells: []*document.Cell{
			{Paragraphs: []*document.Paragraph{{ParaShapeRef: 77}}},
		}}},
	}}
	res := Document(doc, nil)
	if res.Valid() {
		t.Fatal("expected a validation failure for a bad cell paragraph reference")
	}
}

func TestWordCountBasic(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Paragraphs[0].Runs = []document.Run{{Text: "hello world again"}}
	if got := WordCount(doc); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
}

func TestWordCountKorean(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Paragraphs[0].Runs = []document.Run{{Text: "한글 테스트 입니다"}}
	if got := WordCount(doc); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
}

func TestWordCountIgnoresPunctuationOnlySegments(t *testing.T) {
	doc := document.NewBlank(document.FormatHWPX)
	doc.Sections[0].Paragraphs[0].Runs = []document.Run{{Text: "hello, world!"}}
	if got := WordCount(doc); got != 2 {
		t.Errorf("WordCount = %d, want 2", got)
	}
}
