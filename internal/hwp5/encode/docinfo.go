package encode

import (
	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// AppendCharShape inserts a new CHAR_SHAPE record right after the last
// existing one (at the end of the stream if there is none), keeping the
// CHAR_SHAPE table contiguous, and updates ID_MAPPINGS' CharShapeCount,
// implementing the "append a new CHAR_SHAPE record ... and increment the
// CharShape count inside ID_MAPPINGS" half of spec §4.7(d). Callers
// should only call this after document.Header.FindOrAppendCharShape
// reports no existing match.
func AppendCharShape(docInfoData []byte, cs document.CharShape) ([]byte, error) {
	payload := record.EncodeCharShape(record.CharShapePayload{
		FontRef: uint16(cs.FontRef), FontSize: uint16(cs.FontSize * 100),
		Bold: cs.Bold, Italic: cs.Italic, Underline: cs.Underline, Color: cs.Color,
	})
	recs, err := record.ScanAll(docInfoData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo", err)
	}
	at := len(docInfoData)
	for _, rec := range recs {
		if rec.Tag == record.TagCharShape {
			at = rec.End()
		}
	}
	data := record.Rewrite(docInfoData, nil, []record.Insert{{AtOffset: at, Tag: record.TagCharShape, Level: 0, Payload: payload}})
	return bumpIDMappingCount(data, func(m *record.IDMappingsPayload) { m.CharShapeCount++ })
}

// AppendParaShape appends a PARA_SHAPE record at the end of the DocInfo
// stream and bumps ID_MAPPINGS' ParaShapeCount.
func AppendParaShape(docInfoData []byte, ps document.ParaShape) ([]byte, error) {
	payload := record.EncodeParaShape(record.ParaShapePayload{Align: encodeAlign(ps.Align), HeadingLevel: byte(ps.HeadingLevel)})
	data := append(docInfoData, record.Append(record.TagParaShape, 0, payload)...)
	return bumpIDMappingCount(data, func(m *record.IDMappingsPayload) { m.ParaShapeCount++ })
}

// AppendStyle appends a STYLE record at the end of the DocInfo stream
// and bumps ID_MAPPINGS' StyleCount.
func AppendStyle(docInfoData []byte, st document.Style) ([]byte, error) {
	kind := byte(0)
	if st.Kind == document.StyleKindChar {
		kind = 1
	}
	payload := record.EncodeStyle(record.StylePayload{
		Name: st.Name, CharShapeRef: uint16(st.CharShapeRef), ParaShapeRef: uint16(st.ParaShapeRef), Kind: kind,
	})
	data := append(docInfoData, record.Append(record.TagStyle, 0, payload)...)
	return bumpIDMappingCount(data, func(m *record.IDMappingsPayload) { m.StyleCount++ })
}

// AppendFont appends a FACE_NAME record at the end of the DocInfo stream
// and bumps ID_MAPPINGS' FontCount.
func AppendFont(docInfoData []byte, f document.Font) ([]byte, error) {
	payload := record.EncodeFaceName(record.FaceNamePayload{Name: f.Name})
	data := append(docInfoData, record.Append(record.TagFaceName, 0, payload)...)
	return bumpIDMappingCount(data, func(m *record.IDMappingsPayload) { m.FontCount++ })
}

func bumpIDMappingCount(data []byte, apply func(*record.IDMappingsPayload)) ([]byte, error) {
	recs, err := record.ScanAll(data)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo", err)
	}
	for _, rec := range recs {
		if rec.Tag != record.TagIDMappings {
			continue
		}
		m, err := record.DecodeIDMappings(rec.Payload)
		if err != nil {
			return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode ID_MAPPINGS", err)
		}
		apply(&m)
		edit := record.Edit{
			RecordOffset: rec.Offset, HeaderLen: rec.HeaderLen, OldSize: int(rec.Size),
			Tag: record.TagIDMappings, Level: rec.Level, NewPayload: record.EncodeIDMappings(m),
		}
		return record.Rewrite(data, []record.Edit{edit}, nil), nil
	}
	return nil, hwperr.New(hwperr.CorruptDocument, "DocInfo has no ID_MAPPINGS record")
}

// RecountIDMappings recomputes every count in ID_MAPPINGS from how many
// records of each kind the DocInfo stream actually contains, the
// "off-by-one ... flagged by a strict reader" closing requirement of
// spec §4.7.
func RecountIDMappings(docInfoData []byte) ([]byte, error) {
	recs, err := record.ScanAll(docInfoData)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo", err)
	}
	var m record.IDMappingsPayload
	var mappingsOffset = -1
	var mappingsRec record.Record
	for _, rec := range recs {
		switch rec.Tag {
		case record.TagFaceName:
			m.FontCount++
		case record.TagCharShape:
			m.CharShapeCount++
		case record.TagParaShape:
			m.ParaShapeCount++
		case record.TagStyle:
			m.StyleCount++
		case record.TagBinData:
			m.BinDataCount++
		case record.TagIDMappings:
			mappingsOffset = rec.Offset
			mappingsRec = rec
			prior, err := record.DecodeIDMappings(rec.Payload)
			if err == nil {
				m.TabDefCount = prior.TabDefCount
				m.NumberingCount = prior.NumberingCount
				m.BulletCount = prior.BulletCount
				m.Rest = prior.Rest
			}
		}
	}
	if mappingsOffset < 0 {
		return nil, hwperr.New(hwperr.CorruptDocument, "DocInfo has no ID_MAPPINGS record")
	}
	edit := record.Edit{
		RecordOffset: mappingsRec.Offset, HeaderLen: mappingsRec.HeaderLen, OldSize: int(mappingsRec.Size),
		Tag: record.TagIDMappings, Level: mappingsRec.Level, NewPayload: record.EncodeIDMappings(m),
	}
	return record.Rewrite(docInfoData, []record.Edit{edit}, nil), nil
}

func encodeAlign(a document.Align) byte {
	switch a {
	case document.AlignCenter:
		return 1
	case document.AlignRight:
		return 2
	case document.AlignJustify:
		return 3
	default:
		return 0
	}
}
