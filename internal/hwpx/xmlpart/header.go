package xmlpart

import (
	"encoding/xml"
	"io"

	"github.com/hanpama/hwped/document"
	"github.com/hanpama/hwped/hwperr"
)

type headerXML struct {
	XMLName xml.Name    `xml:"head"`
	RefList refListXML  `xml:"refList"`
}

type refListXML struct {
	FontFaces  fontFacesXML  `xml:"fontfaces"`
	CharShapes []charPrXML   `xml:"charProperties>charPr"`
	ParaShapes []paraPrXML   `xml:"paraProperties>paraPr"`
	Styles     []styleXML    `xml:"styles>style"`
}

type fontFacesXML struct {
	Fonts []fontXML `xml:"fontface>font"`
}

type fontXML struct {
	Face string `xml:"face,attr"`
}

type charPrXML struct {
	ID        string `xml:"id,attr"`
	Height    int    `xml:"height,attr"`
	Bold      *struct{} `xml:"bold"`
	Italic    *struct{} `xml:"italic"`
	Underline *struct {
		Type string `xml:"type,attr"`
	} `xml:"underline"`
	FontRef struct {
		Hangul int `xml:"hangul,attr"`
	} `xml:"fontRef"`
}

type paraPrXML struct {
	ID    string `xml:"id,attr"`
	Align struct {
		Horizontal string `xml:"horizontal,attr"`
	} `xml:"align"`
	Heading struct {
		Level int `xml:"level,attr"`
	} `xml:"heading"`
}

type styleXML struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	Type        string `xml:"type,attr"`
	CharPrIDRef string `xml:"charPrIDRef,attr"`
	ParaPrIDRef string `xml:"paraPrIDRef,attr"`
}

// DecodeHeader parses Contents/header.xml into the shared document.Header.
func DecodeHeader(r io.Reader) (*document.Header, error) {
	var hx headerXML
	if err := xml.NewDecoder(r).Decode(&hx); err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "decode header.xml", err)
	}

	h := &document.Header{}
	for i, f := range hx.RefList.FontFaces.Fonts {
		h.Fonts = append(h.Fonts, document.Font{ID: i, Name: f.Face})
	}
	for _, c := range hx.RefList.CharShapes {
		h.CharShapes = append(h.CharShapes, document.CharShape{
			ID:        atoiOr0(c.ID),
			FontRef:   c.FontRef.Hangul,
			FontSize:  float64(c.Height) / 100,
			Bold:      c.Bold != nil,
			Italic:    c.Italic != nil,
			Underline: c.Underline != nil,
		})
	}
	for _, p := range hx.RefList.ParaShapes {
		h.ParaShapes = append(h.ParaShapes, document.ParaShape{
			ID:           atoiOr0(p.ID),
			Align:        hwpxAlign(p.Align.Horizontal),
			HeadingLevel: p.Heading.Level,
		})
	}
	for _, s := range hx.RefList.Styles {
		kind := document.StyleKindPara
		if s.Type == "CHAR" {
			kind = document.StyleKindChar
		}
		h.Styles = append(h.Styles, document.Style{
			ID:           atoiOr0(s.ID),
			Name:         s.Name,
			CharShapeRef: atoiOr0(s.CharPrIDRef),
			ParaShapeRef: atoiOr0(s.ParaPrIDRef),
			Kind:         kind,
		})
	}
	if len(h.Fonts) == 0 {
		return document.NewBaseHeader(), nil
	}
	return h, nil
}

func hwpxAlign(s string) document.Align {
	switch s {
	case "CENTER":
		return document.AlignCenter
	case "RIGHT":
		return document.AlignRight
	case "JUSTIFY":
		return document.AlignJustify
	default:
		return document.AlignLeft
	}
}

func hwpxAlignString(a document.Align) string {
	switch a {
	case document.AlignCenter:
		return "CENTER"
	case document.AlignRight:
		return "RIGHT"
	case document.AlignJustify:
		return "JUSTIFY"
	default:
		return "LEFT"
	}
}

// EncodeHeader is the inverse of DecodeHeader.
func EncodeHeader(h *document.Header) ([]byte, error) {
	var hx headerXML
	for _, f := range h.Fonts {
		hx.RefList.FontFaces.Fonts = append(hx.RefList.FontFaces.Fonts, fontXML{Face: f.Name})
	}
	for _, c := range h.CharShapes {
		cx := charPrXML{ID: itoaOr(c.ID), Height: int(c.FontSize * 100)}
		cx.FontRef.Hangul = c.FontRef
		if c.Bold {
			cx.Bold = &struct{}{}
		}
		if c.Italic {
			cx.Italic = &struct{}{}
		}
		if c.Underline {
			cx.Underline = &struct {
				Type string `xml:"type,attr"`
			}{Type: "BOTTOM"}
		}
		hx.RefList.CharShapes = append(hx.RefList.CharShapes, cx)
	}
	for _, p := range h.ParaShapes {
		px := paraPrXML{ID: itoaOr(p.ID)}
		px.Align.Horizontal = hwpxAlignString(p.Align)
		px.Heading.Level = p.HeadingLevel
		hx.RefList.ParaShapes = append(hx.RefList.ParaShapes, px)
	}
	for _, s := range h.Styles {
		typ := "PARA"
		if s.Kind == document.StyleKindChar {
			typ = "CHAR"
		}
		hx.RefList.Styles = append(hx.RefList.Styles, styleXML{
			ID: itoaOr(s.ID), Name: s.Name, Type: typ,
			CharPrIDRef: itoaOr(s.CharShapeRef), ParaPrIDRef: itoaOr(s.ParaShapeRef),
		})
	}
	out, err := xml.MarshalIndent(hx, "", "  ")
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "encode header.xml", err)
	}
	return append([]byte(xml.Header), out...), nil
}
