package record

import "github.com/hanpama/hwped/internal/byteio"

// ParaHeaderPayload is the decoded PARA_HEADER payload (spec §4.6, §4.7(a)).
// NChars carries the reserved high bit verbatim (spec §9: "must be
// preserved on edits but is never inspected").
type ParaHeaderPayload struct {
	NChars         uint32 // raw, high bit included
	ControlMask    uint32
	ParaShapeRef   uint16
	StyleRef       uint8
	DivideType     uint8
	CharShapeCount uint16
	RangeTagCount  uint16
	LineSegCount   uint16
	InstanceID     uint32
}

// NCharsValue returns NChars with the reserved high bit masked off.
func (p ParaHeaderPayload) NCharsValue() uint32 { return p.NChars & 0x7FFFFFFF }

// WithNChars returns a copy with the code-unit count replaced, preserving
// whatever the reserved high bit was set to.
func (p ParaHeaderPayload) WithNChars(n uint32) ParaHeaderPayload {
	highBit := p.NChars & 0x80000000
	p.NChars = highBit | (n & 0x7FFFFFFF)
	return p
}

func DecodeParaHeader(payload []byte) (ParaHeaderPayload, error) {
	r := byteio.NewReader(payload)
	var p ParaHeaderPayload
	var err error
	if p.NChars, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.ControlMask, err = r.Uint32(); err != nil {
		return p, err
	}
	if v, err := r.Uint16(); err != nil {
		return p, err
	} else {
		p.ParaShapeRef = v
	}
	if b, err := r.Bytes(1); err != nil {
		return p, err
	} else {
		p.StyleRef = b[0]
	}
	if b, err := r.Bytes(1); err != nil {
		return p, err
	} else {
		p.DivideType = b[0]
	}
	if v, err := r.Uint16(); err != nil {
		return p, err
	} else {
		p.CharShapeCount = v
	}
	if v, err := r.Uint16(); err != nil {
		return p, err
	} else {
		p.RangeTagCount = v
	}
	if v, err := r.Uint16(); err != nil {
		return p, err
	} else {
		p.LineSegCount = v
	}
	if v, err := r.Uint32(); err != nil {
		// InstanceID is absent in some older minor versions; tolerate.
		p.InstanceID = 0
		return p, nil
	} else {
		p.InstanceID = v
	}
	return p, nil
}

func EncodeParaHeader(p ParaHeaderPayload) []byte {
	w := byteio.NewWriter()
	w.Uint32(p.NChars)
	w.Uint32(p.ControlMask)
	w.Uint16(p.ParaShapeRef)
	w.Raw([]byte{p.StyleRef, p.DivideType})
	w.Uint16(p.CharShapeCount)
	w.Uint16(p.RangeTagCount)
	w.Uint16(p.LineSegCount)
	w.Uint32(p.InstanceID)
	return w.Bytes()
}

// CharShapePosition is one (position, charShapeRef) pair inside a
// PARA_CHAR_SHAPE record (spec §4.6 item 3, §4.7(d)).
type CharShapePosition struct {
	Position     uint32
	CharShapeRef uint32
}

func DecodeParaCharShape(payload []byte) ([]CharShapePosition, error) {
	r := byteio.NewReader(payload)
	var pairs []CharShapePosition
	for r.Len() >= 8 {
		pos, err := r.Uint32()
		if err != nil {
			return pairs, err
		}
		ref, err := r.Uint32()
		if err != nil {
			return pairs, err
		}
		pairs = append(pairs, CharShapePosition{Position: pos, CharShapeRef: ref})
	}
	return pairs, nil
}

func EncodeParaCharShape(pairs []CharShapePosition) []byte {
	w := byteio.NewWriter()
	for _, p := range pairs {
		w.Uint32(p.Position)
		w.Uint32(p.CharShapeRef)
	}
	return w.Bytes()
}

// CtrlHeaderPayload is the decoded CTRL_HEADER payload: a 4-byte CtrlID
// marker (spec §4.6 item 3) followed by control-specific data this core
// does not interpret further and keeps verbatim.
type CtrlHeaderPayload struct {
	CtrlID uint32
	Rest   []byte
}

func DecodeCtrlHeader(payload []byte) CtrlHeaderPayload {
	var p CtrlHeaderPayload
	if len(payload) >= 4 {
		r := byteio.NewReader(payload[:4])
		p.CtrlID, _ = r.Uint32()
		p.Rest = payload[4:]
	} else {
		p.Rest = payload
	}
	return p
}

func EncodeCtrlHeader(p CtrlHeaderPayload) []byte {
	w := byteio.NewWriter()
	w.Uint32(p.CtrlID)
	w.Raw(p.Rest)
	return w.Bytes()
}

// ListHeaderPayload is the decoded LIST_HEADER payload. When IsCell is
// true the record also carries the cell's grid position and span,
// decoded from the fixed byte offsets the teacher's implementation used
// (grounded on internal/hwpv5/record.go's decodeListHeaderRecord).
type ListHeaderPayload struct {
	ParaCount int16
	Property  uint32
	IsCell    bool
	ColIndex  uint16
	RowIndex  uint16
	ColSpan   uint16
	RowSpan   uint16
}

func DecodeListHeader(payload []byte) ListHeaderPayload {
	var p ListHeaderPayload
	if len(payload) >= 6 {
		r := byteio.NewReader(payload[:6])
		if v, err := r.Uint16(); err == nil {
			p.ParaCount = int16(v)
		}
		if v, err := r.Uint32(); err == nil {
			p.Property = v
		}
	}
	// Cell list = LIST_HEADER (6 bytes) + cell properties (27 bytes).
	if len(payload) >= 33 {
		p.IsCell = true
		cellData := payload[7:33]
		p.ColIndex = uint16(cellData[1])
		p.RowIndex = uint16(cellData[3])
		p.ColSpan = uint16(cellData[5])
		p.RowSpan = uint16(cellData[7])
		if p.ColSpan == 0 {
			p.ColSpan = 1
		}
		if p.RowSpan == 0 {
			p.RowSpan = 1
		}
	}
	return p
}

// EncodeListHeader produces a LIST_HEADER payload consistent with
// DecodeListHeader's byte layout, for newly-built cells (spec §4.7(f)).
func EncodeListHeader(p ListHeaderPayload) []byte {
	w := byteio.NewWriter()
	w.Uint16(uint16(p.ParaCount))
	w.Uint32(p.Property)
	if !p.IsCell {
		return w.Bytes()
	}
	w.Raw(make([]byte, 1)) // byte 6: unused/reserved
	cellData := make([]byte, 26)
	cellData[1] = byte(p.ColIndex)
	cellData[3] = byte(p.RowIndex)
	cellData[5] = byte(p.ColSpan)
	cellData[7] = byte(p.RowSpan)
	w.Raw(cellData)
	return w.Bytes()
}

// TablePayload is the decoded TABLE descriptor (spec §4.6 item 3,
// §4.7(f)). RowCount/ColCount are settable for addTable; everything
// else is opaque data the core keeps but never mutates.
type TablePayload struct {
	Properties uint32
	RowCount   uint16
	ColCount   uint16
	Rest       []byte
}

func DecodeTable(payload []byte) TablePayload {
	var t TablePayload
	if len(payload) >= 8 {
		r := byteio.NewReader(payload[:8])
		t.Properties, _ = r.Uint32()
		t.RowCount, _ = r.Uint16()
		t.ColCount, _ = r.Uint16()
		t.Rest = payload[8:]
	} else {
		t.Rest = payload
	}
	return t
}

func EncodeTable(t TablePayload) []byte {
	w := byteio.NewWriter()
	w.Uint32(t.Properties)
	w.Uint16(t.RowCount)
	w.Uint16(t.ColCount)
	w.Raw(t.Rest)
	return w.Bytes()
}

// FaceNamePayload is one FACE_NAME header entry (spec §4.6 item 2): a
// single attribute byte flagging the presence of optional sub-fields,
// then the font name as UTF-16LE — the name does not start at the
// record start, it starts after this one flag byte.
type FaceNamePayload struct {
	Properties byte
	Name       string
}

func DecodeFaceName(payload []byte) (FaceNamePayload, error) {
	var f FaceNamePayload
	r := byteio.NewReader(payload)
	b, err := r.Bytes(1)
	if err != nil {
		return f, err
	}
	f.Properties = b[0]
	nameLen, err := r.Uint16()
	if err != nil {
		return f, err
	}
	nameBytes, err := r.Bytes(int(nameLen) * 2)
	if err != nil {
		return f, err
	}
	f.Name = byteio.PlainText(byteio.DecodeParaText(nameBytes))
	return f, nil
}

func EncodeFaceName(f FaceNamePayload) []byte {
	w := byteio.NewWriter()
	w.Raw([]byte{f.Properties})
	units := []rune(f.Name)
	w.Uint16(uint16(len(units)))
	nameEls := []byteio.ParaTextElement{{Code: 0, Text: f.Name}}
	w.Raw(byteio.EncodeParaText(nameEls))
	return w.Bytes()
}

// CharShapePayload is the decoded CHAR_SHAPE header entry (spec §3).
// FontSize is stored ×100 on the wire; the model stores points.
type CharShapePayload struct {
	FontRef   uint16
	FontSize  uint16 // points × 100
	Bold      bool
	Italic    bool
	Underline bool
	Color     uint32 // 24-bit RGB
}

func DecodeCharShape(payload []byte) (CharShapePayload, error) {
	var c CharShapePayload
	r := byteio.NewReader(payload)
	var err error
	if c.FontRef, err = r.Uint16(); err != nil {
		return c, err
	}
	if c.FontSize, err = r.Uint16(); err != nil {
		return c, err
	}
	flags, err := r.Bytes(1)
	if err != nil {
		return c, err
	}
	c.Bold = flags[0]&0x1 != 0
	c.Italic = flags[0]&0x2 != 0
	c.Underline = flags[0]&0x4 != 0
	if c.Color, err = r.Uint32(); err != nil {
		return c, err
	}
	return c, nil
}

func EncodeCharShape(c CharShapePayload) []byte {
	w := byteio.NewWriter()
	w.Uint16(c.FontRef)
	w.Uint16(c.FontSize)
	var flags byte
	if c.Bold {
		flags |= 0x1
	}
	if c.Italic {
		flags |= 0x2
	}
	if c.Underline {
		flags |= 0x4
	}
	w.Raw([]byte{flags})
	w.Uint32(c.Color)
	return w.Bytes()
}

// ParaShapePayload is the decoded PARA_SHAPE header entry (spec §3).
type ParaShapePayload struct {
	Align        byte // 0=left,1=center,2=right,3=justify
	HeadingLevel byte // 0 = not a heading
}

func DecodeParaShape(payload []byte) (ParaShapePayload, error) {
	var p ParaShapePayload
	r := byteio.NewReader(payload)
	b, err := r.Bytes(2)
	if err != nil {
		return p, err
	}
	p.Align = b[0]
	p.HeadingLevel = b[1]
	return p, nil
}

func EncodeParaShape(p ParaShapePayload) []byte {
	w := byteio.NewWriter()
	w.Raw([]byte{p.Align, p.HeadingLevel})
	return w.Bytes()
}

// StylePayload is the decoded STYLE header entry (spec §3).
type StylePayload struct {
	Name         string
	CharShapeRef uint16
	ParaShapeRef uint16
	Kind         byte // 0 = PARA, 1 = CHAR
}

func DecodeStyle(payload []byte) (StylePayload, error) {
	var s StylePayload
	r := byteio.NewReader(payload)
	nameLen, err := r.Uint16()
	if err != nil {
		return s, err
	}
	nameBytes, err := r.Bytes(int(nameLen) * 2)
	if err != nil {
		return s, err
	}
	s.Name = byteio.PlainText(byteio.DecodeParaText(nameBytes))
	kindByte, err := r.Bytes(1)
	if err != nil {
		return s, err
	}
	s.Kind = kindByte[0]
	if s.CharShapeRef, err = r.Uint16(); err != nil {
		return s, err
	}
	if s.ParaShapeRef, err = r.Uint16(); err != nil {
		return s, err
	}
	return s, nil
}

func EncodeStyle(s StylePayload) []byte {
	w := byteio.NewWriter()
	units := []rune(s.Name)
	w.Uint16(uint16(len(units)))
	w.Raw(byteio.EncodeParaText([]byteio.ParaTextElement{{Code: 0, Text: s.Name}}))
	w.Raw([]byte{s.Kind})
	w.Uint16(s.CharShapeRef)
	w.Uint16(s.ParaShapeRef)
	return w.Bytes()
}

// IDMappingsPayload is the decoded ID_MAPPINGS count table (spec §3,
// §4.7, §8's "id-mapping law"). Only the counts this core's header
// model tracks are named fields; anything else HWP declares counts for
// is kept in Rest, in table order, so a round-trip preserves it.
type IDMappingsPayload struct {
	BinDataCount   uint32
	FontCount      uint32
	CharShapeCount uint32
	TabDefCount    uint32
	NumberingCount uint32
	BulletCount    uint32
	ParaShapeCount uint32
	StyleCount     uint32
	Rest           []byte
}

func DecodeIDMappings(payload []byte) (IDMappingsPayload, error) {
	var m IDMappingsPayload
	r := byteio.NewReader(payload)
	fields := []*uint32{
		&m.BinDataCount, &m.FontCount, &m.CharShapeCount, &m.TabDefCount,
		&m.NumberingCount, &m.BulletCount, &m.ParaShapeCount, &m.StyleCount,
	}
	for _, f := range fields {
		v, err := r.Uint32()
		if err != nil {
			return m, err
		}
		*f = v
	}
	if r.Len() > 0 {
		rest, err := r.Bytes(r.Len())
		if err != nil {
			return m, err
		}
		m.Rest = append([]byte(nil), rest...)
	}
	return m, nil
}

// BinDataEntry is one BIN_DATA header-table entry: the stream id a
// section's image reference resolves against (spec §4.6 item 2).
type BinDataEntry struct {
	ID uint16
}

func DecodeBinDataEntry(payload []byte) BinDataEntry {
	var e BinDataEntry
	if len(payload) >= 4 {
		r := byteio.NewReader(payload[2:4])
		e.ID, _ = r.Uint16()
	}
	return e
}

func EncodeBinDataEntry(e BinDataEntry) []byte {
	w := byteio.NewWriter()
	w.Uint16(0) // property flags: not otherwise interpreted by this core
	w.Uint16(e.ID)
	return w.Bytes()
}

func EncodeIDMappings(m IDMappingsPayload) []byte {
	w := byteio.NewWriter()
	w.Uint32(m.BinDataCount)
	w.Uint32(m.FontCount)
	w.Uint32(m.CharShapeCount)
	w.Uint32(m.TabDefCount)
	w.Uint32(m.NumberingCount)
	w.Uint32(m.BulletCount)
	w.Uint32(m.ParaShapeCount)
	w.Uint32(m.StyleCount)
	w.Raw(m.Rest)
	return w.Bytes()
}
