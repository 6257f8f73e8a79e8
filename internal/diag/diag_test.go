package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	forced := false
	p := NewPrinter(&buf, &forced)
	p.Warn("skipped %d records", 3)
	p.Info("word count: %d", 42)
	p.Fail("section %d missing", 0)

	out := buf.String()
	for _, want := range []string{"warning: skipped 3 records", "info: word count: 42", "fail: section 0 missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestPrinterForcedColor(t *testing.T) {
	var buf bytes.Buffer
	forced := true
	p := NewPrinter(&buf, &forced)
	p.Warn("test")
	if !strings.Contains(buf.String(), "test") {
		t.Errorf("expected message to survive color wrapping, got %q", buf.String())
	}
}
