package byteio

import (
	"encoding/binary"
)

// Paragraph-text control codes (spec §4.1). Code points below U+0020
// denote inline controls instead of characters; most occupy one 16-bit
// code unit followed by a fixed 14-byte (7 WCHAR) extended payload that
// must be skipped (or, on encode, re-emitted) without interpretation.
// This table is the authoritative source spec §4.1 requires: an
// implementation that mis-counts it corrupts every downstream offset.
const (
	CodeUnusable        uint16 = 0
	CodeReserved1       uint16 = 1
	CodeSectionColDef   uint16 = 2
	CodeFieldStart      uint16 = 3
	CodeFieldEnd        uint16 = 4
	CodeReserved5       uint16 = 5
	CodeReserved6       uint16 = 6
	CodeReserved7       uint16 = 7
	CodeTitleMark       uint16 = 8
	CodeTab             uint16 = 9
	CodeLineBreak       uint16 = 10
	CodeGsoTable        uint16 = 11
	CodeReserved12      uint16 = 12
	CodeParaBreak       uint16 = 13
	CodeReserved14      uint16 = 14
	CodeHiddenComment   uint16 = 15
	CodeHeaderFooter    uint16 = 16
	CodeFootnoteEndnote uint16 = 17
	CodeAutoNumber      uint16 = 18
	CodeReserved19      uint16 = 19
	CodeReserved20      uint16 = 20
	CodePageControl     uint16 = 21
	CodeBookmarkIndex   uint16 = 22
	CodeAddTextOverlap  uint16 = 23
	CodeHyphen          uint16 = 24
	CodeReserved25      uint16 = 25
	CodeReserved26      uint16 = 26
	CodeReserved27      uint16 = 27
	CodeReserved28      uint16 = 28
	CodeReserved29      uint16 = 29
	CodeBundleSpace     uint16 = 30
	CodeFixedSpace      uint16 = 31
)

// hasExtendedPayload reports whether a control code is followed by the
// fixed 14-byte (7 WCHAR) extended payload. Char controls (line break,
// para break, hyphen, bundle/fixed space) and codes 0 and 1 are exactly
// one code unit; everything else in the low range carries the extended
// payload.
func hasExtendedPayload(code uint16) bool {
	switch code {
	case CodeLineBreak, CodeParaBreak, CodeHyphen, CodeBundleSpace, CodeFixedSpace,
		CodeUnusable, CodeReserved1:
		return false
	default:
		return true
	}
}

// ParaTextElement is one decoded element of a paragraph's wire text:
// either a run of plain characters, or a control-code marker together
// with its raw extended payload (kept verbatim so re-encoding without
// touching surrounding text round-trips byte-for-byte, per spec §9).
type ParaTextElement struct {
	Code    uint16 // 0 means "plain string"
	Text    string // valid when Code == 0
	Payload []byte // raw extended payload, valid when Code != 0 and hasExtendedPayload(Code)
}

// DecodeParaText decodes the UTF-16LE wire bytes of a PARA_TEXT record
// into a sequence of elements, applying the control-code skip table
// above. It takes no declared length: it decodes whatever is present,
// and any cross-check against PARA_HEADER.nChars is the caller's.
func DecodeParaText(data []byte) []ParaTextElement {
	var elements []ParaTextElement
	var strBuf []uint16

	flush := func() {
		if len(strBuf) > 0 {
			elements = append(elements, ParaTextElement{Code: 0, Text: utf16ToString(strBuf)})
			strBuf = strBuf[:0]
		}
	}

	i := 0
	for i+1 < len(data) {
		code := binary.LittleEndian.Uint16(data[i:])
		i += 2

		if code >= 32 {
			strBuf = append(strBuf, code)
			continue
		}
		flush()

		if code == CodeUnusable || code == CodeReserved1 {
			continue
		}

		var payload []byte
		if hasExtendedPayload(code) {
			end := i + 14
			if end > len(data) {
				end = len(data)
			}
			payload = append([]byte(nil), data[i:end]...)
			i = end
		}
		elements = append(elements, ParaTextElement{Code: code, Payload: payload})
	}
	flush()
	return elements
}

// EncodeParaText is the inverse of DecodeParaText: it re-emits the
// UTF-16LE wire bytes, including every control code's stored extended
// payload verbatim.
func EncodeParaText(els []ParaTextElement) []byte {
	var buf []byte
	var tmp [2]byte
	for _, el := range els {
		if el.Code == 0 {
			for _, u := range stringToUTF16(el.Text) {
				binary.LittleEndian.PutUint16(tmp[:], u)
				buf = append(buf, tmp[:]...)
			}
			continue
		}
		binary.LittleEndian.PutUint16(tmp[:], el.Code)
		buf = append(buf, tmp[:]...)
		if hasExtendedPayload(el.Code) {
			payload := el.Payload
			if len(payload) < 14 {
				padded := make([]byte, 14)
				copy(padded, payload)
				payload = padded
			}
			buf = append(buf, payload...)
		}
	}
	return buf
}

// PlainText renders only the character content of a decoded paragraph,
// translating CodeLineBreak/CodeTab into '\n'/'\t' and dropping every
// other control marker — the projection document.Paragraph.Text() wants.
func PlainText(els []ParaTextElement) string {
	var b []byte
	for _, el := range els {
		switch {
		case el.Code == 0:
			b = append(b, el.Text...)
		case el.Code == CodeLineBreak || el.Code == CodeParaBreak:
			b = append(b, '\n')
		case el.Code == CodeTab:
			b = append(b, '\t')
		}
	}
	return string(b)
}

// NewPlainTextElements builds the simplest possible element sequence
// for a new or fully-replaced paragraph's text: a single plain-string
// element, with embedded '\n' translated to explicit line-break control
// codes (there is no paragraph-break code inside PARA_TEXT; a paragraph
// boundary is the record boundary itself).
func NewPlainTextElements(text string) []ParaTextElement {
	if text == "" {
		return nil
	}
	var els []ParaTextElement
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			els = append(els, ParaTextElement{Code: 0, Text: string(cur)})
			cur = cur[:0]
		}
	}
	for _, r := range text {
		if r == '\n' {
			flush()
			els = append(els, ParaTextElement{Code: CodeLineBreak})
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return els
}

// CodeUnitLen returns the total UTF-16 code-unit count the wire encoding
// of els occupies, matching what PARA_HEADER.nChars must equal (the
// nChars law, spec §8): each plain character is 1 or 2 units depending
// on whether it needs a surrogate pair, a single-unit control marker is
// 1 unit, and a control with an extended payload is 8 units (the marker
// plus its 7-WCHAR payload), the same as its wire length / 2.
func CodeUnitLen(els []ParaTextElement) int {
	n := 0
	for _, el := range els {
		if el.Code == 0 {
			n += len(stringToUTF16(el.Text))
			continue
		}
		n++
		if hasExtendedPayload(el.Code) {
			n += 7
		}
	}
	return n
}

func utf16ToString(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			v := units[i+1]
			if v >= 0xDC00 && v <= 0xDFFF {
				r := (rune(u)-0xD800)<<10 | (rune(v) - 0xDC00) + 0x10000
				runes = append(runes, r)
				i++
				continue
			}
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}

func stringToUTF16(s string) []uint16 {
	var units []uint16
	for _, r := range s {
		if r < 0x10000 {
			units = append(units, uint16(r))
			continue
		}
		r -= 0x10000
		units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return units
}
