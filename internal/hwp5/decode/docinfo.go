package decode

import (
	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// DecodeDocInfo builds the shared document.Header from the DocInfo
// stream's flat record table (spec §4.6 item 2). BIN_DATA and
// BORDER_FILL and the rest of the table are read but not modeled by
// document.Header yet — they pass through the source stream untouched
// (the encode package splices only the specific records a mutation
// names, via record.Rewrite).
func DecodeDocInfo(data []byte) (*document.Header, error) {
	recs, err := record.ScanAll(data)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo records", err)
	}

	h := &document.Header{}
	for _, rec := range recs {
		switch rec.Tag {
		case record.TagFaceName:
			fn, err := record.DecodeFaceName(rec.Payload)
			if err != nil {
				return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode FACE_NAME", err)
			}
			h.Fonts = append(h.Fonts, document.Font{ID: len(h.Fonts), Name: fn.Name})

		case record.TagCharShape:
			cs, err := record.DecodeCharShape(rec.Payload)
			if err != nil {
				return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode CHAR_SHAPE", err)
			}
			h.CharShapes = append(h.CharShapes, document.CharShape{
				ID:        len(h.CharShapes),
				FontRef:   int(cs.FontRef),
				FontSize:  float64(cs.FontSize) / 100,
				Bold:      cs.Bold,
				Italic:    cs.Italic,
				Underline: cs.Underline,
				Color:     cs.Color,
			})

		case record.TagParaShape:
			ps, err := record.DecodeParaShape(rec.Payload)
			if err != nil {
				return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode PARA_SHAPE", err)
			}
			h.ParaShapes = append(h.ParaShapes, document.ParaShape{
				ID:           len(h.ParaShapes),
				Align:        decodeAlign(ps.Align),
				HeadingLevel: int(ps.HeadingLevel),
			})

		case record.TagStyle:
			st, err := record.DecodeStyle(rec.Payload)
			if err != nil {
				return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode STYLE", err)
			}
			kind := document.StyleKindPara
			if st.Kind == 1 {
				kind = document.StyleKindChar
			}
			h.Styles = append(h.Styles, document.Style{
				ID:           len(h.Styles),
				Name:         st.Name,
				CharShapeRef: int(st.CharShapeRef),
				ParaShapeRef: int(st.ParaShapeRef),
				Kind:         kind,
			})
		}
	}
	if len(h.Fonts) == 0 {
		return document.NewBaseHeader(), nil
	}
	return h, nil
}

// decodeAlign maps the PARA_SHAPE alignment byte (0=left,1=center,
// 2=right,3=justify) to the model's Align enum.
func decodeAlign(raw byte) document.Align {
	switch raw {
	case 1:
		return document.AlignCenter
	case 2:
		return document.AlignRight
	case 3:
		return document.AlignJustify
	default:
		return document.AlignLeft
	}
}
