package decode

import (
	"crypto/aes"
	"fmt"
	"io"

	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/byteio"
	"github.com/hanpama/hwped/internal/cfb"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// Container opens an HWP 5.0 OLE2 document and exposes its decompressed,
// decrypted streams (spec §4.2).
type Container struct {
	cfb          *cfb.Reader
	Header       FileHeader
	sectionCount int
}

// Open reads FileHeader and the DocInfo DOCUMENT_PROPERTIES record to
// learn the section count (spec §4.2 item 4: "section count ... comes
// from a DocInfo record, not the stream listing").
func Open(ra io.ReaderAt) (*Container, error) {
	c := &Container{cfb: cfb.NewReader(ra)}

	headerStream, err := c.cfb.OpenStream("FileHeader")
	if err != nil {
		return nil, fmt.Errorf("open FileHeader: %w", err)
	}
	c.Header, err = ReadFileHeader(headerStream)
	if err != nil {
		return nil, err
	}

	docInfo, err := c.DocInfoBytes()
	if err != nil {
		return nil, err
	}
	recs, err := record.ScanAll(docInfo)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo", err)
	}
	for _, rec := range recs {
		if rec.Tag == record.TagDocumentProperties {
			if len(rec.Payload) >= 2 {
				r := byteio.NewReader(rec.Payload[:2])
				v, _ := r.Uint16()
				c.sectionCount = int(v)
			}
			break
		}
	}
	if c.sectionCount == 0 {
		c.sectionCount = 1
	}
	return c, nil
}

func (c *Container) SectionCount() int { return c.sectionCount }

// RawStream returns the verbatim (still compressed/encrypted, if any)
// bytes of an arbitrary named stream, for passthrough copying of
// streams this core never interprets (BinData/<n>, Scripts/, PrvText,
// PrvImage).
func (c *Container) RawStream(name string) ([]byte, error) {
	r, err := c.cfb.OpenStream(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "read stream "+name, err)
	}
	return data, nil
}

// RawFileHeaderBytes returns the exact 256-byte FileHeader stream
// content, never recompressed or otherwise touched on write (spec §6:
// "FileHeader is never compressed").
func (c *Container) RawFileHeaderBytes() ([]byte, error) { return c.RawStream("FileHeader") }

// DocInfoBytes returns the fully decompressed DocInfo stream.
func (c *Container) DocInfoBytes() ([]byte, error) {
	raw, err := c.cfb.OpenStream("DocInfo")
	if err != nil {
		return nil, fmt.Errorf("open DocInfo: %w", err)
	}
	data, err := io.ReadAll(raw)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "read DocInfo", err)
	}
	if c.Header.Properties.Compressed() {
		data, err = byteio.InflateRaw(data)
		if err != nil {
			return nil, hwperr.Wrap(hwperr.CorruptDocument, "inflate DocInfo", err)
		}
	}
	return data, nil
}

// SectionBytes returns the fully decompressed, decrypted (if this is a
// distribution document) bytes of BodyText/Section<index>.
func (c *Container) SectionBytes(index int) ([]byte, error) {
	streamName := fmt.Sprintf("BodyText/Section%d", index)
	if c.Header.Properties.DistributionDoc() {
		streamName = fmt.Sprintf("ViewText/Section%d", index)
	}
	raw, err := c.cfb.OpenStream(streamName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", streamName, err)
	}

	var reader io.Reader = raw
	if c.Header.Properties.DistributionDoc() {
		reader, err = c.distributionDecryptReader(raw)
		if err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "read section stream", err)
	}
	if c.Header.Properties.Compressed() {
		data, err = byteio.InflateRaw(data)
		if err != nil {
			return nil, hwperr.Wrap(hwperr.CorruptDocument, "inflate section stream", err)
		}
	}
	return data, nil
}

func (c *Container) distributionDecryptReader(raw io.Reader) (io.Reader, error) {
	header, err := byteio.ReadUint32(raw)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "read distribution doc header", err)
	}
	tagID := uint16(header & 0x3FF)
	size := header >> 20
	if record.Tag(tagID) != record.TagDistributeDocData || size != 256 {
		return nil, hwperr.New(hwperr.CorruptDocument, fmt.Sprintf("invalid distribution document record (tag=0x%x size=%d)", tagID, size))
	}
	distData := make([]byte, 256)
	if _, err := io.ReadFull(raw, distData); err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "read distribution doc data", err)
	}
	key, err := deriveKey(distData)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, hwperr.Wrap(hwperr.CorruptDocument, "create AES cipher", err)
	}
	return &cryptoReader{r: raw, block: block}, nil
}

// StreamNames exposes the raw directory listing (spec §4.9 check 1), and
// lets a writer copy every untouched stream through unchanged.
func (c *Container) StreamNames() ([]string, error) { return c.cfb.StreamNames() }
