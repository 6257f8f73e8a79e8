package byteio

import "testing"

func TestParaTextPlainRoundTrip(t *testing.T) {
	els := NewPlainTextElements("hello\nworld")
	wire := EncodeParaText(els)
	decoded := DecodeParaText(wire)
	if got := PlainText(decoded); got != "hello\nworld" {
		t.Errorf("PlainText round trip = %q, want %q", got, "hello\nworld")
	}
}

func TestParaTextKoreanRoundTrip(t *testing.T) {
	text := "한글 테스트"
	els := NewPlainTextElements(text)
	wire := EncodeParaText(els)
	decoded := DecodeParaText(wire)
	if got := PlainText(decoded); got != text {
		t.Errorf("PlainText round trip = %q, want %q", got, text)
	}
}

func TestParaTextTabControlCode(t *testing.T) {
	els := []ParaTextElement{{Code: 0, Text: "a"}, {Code: CodeTab}, {Code: 0, Text: "b"}}
	wire := EncodeParaText(els)
	decoded := DecodeParaText(wire)
	if got := PlainText(decoded); got != "a\tb" {
		t.Errorf("PlainText = %q, want %q", got, "a\tb")
	}
}

func TestCodeUnitLenMatchesWireLength(t *testing.T) {
	els := NewPlainTextElements("ab\ncd")
	n := CodeUnitLen(els)
	wire := EncodeParaText(els)
	if n != len(wire)/2 {
		t.Errorf("CodeUnitLen = %d, want %d (wire length / 2)", n, len(wire)/2)
	}
}

func TestParaTextExtendedPayloadPreserved(t *testing.T) {
	payload := make([]byte, 14)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	els := []ParaTextElement{{Code: CodeHyphen}, {Code: CodeFootnoteEndnote, Payload: payload}}
	wire := EncodeParaText(els)
	decoded := DecodeParaText(wire)
	if len(decoded) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(decoded))
	}
	if decoded[1].Code != CodeFootnoteEndnote {
		t.Fatalf("expected second element to be CodeFootnoteEndnote, got %d", decoded[1].Code)
	}
	for i, b := range decoded[1].Payload {
		if b != payload[i] {
			t.Errorf("payload byte %d = %d, want %d", i, b, payload[i])
		}
	}
}
