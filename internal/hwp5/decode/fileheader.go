// Package decode implements the HWP 5.0 binary reader (spec §4.2–§4.6):
// opening the OLE2 container, parsing FileHeader, decompressing and
// decrypting streams, and building a document.Document from DocInfo and
// the BodyText sections.
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hanpama/hwped/hwperr"
)

const signatureText = "HWP Document File"

// Version is the four-part HWP file-format version number (MM.nn.PP.rr).
type Version struct {
	Major byte
	Minor byte
	Patch byte
	Rev   byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Rev)
}

// FileProperties exposes the FileHeader flag bits this core inspects.
type FileProperties struct {
	Raw uint32
}

func (p FileProperties) Compressed() bool       { return p.Raw&0x1 != 0 }
func (p FileProperties) PasswordEncrypted() bool { return p.Raw&0x2 != 0 }
func (p FileProperties) DistributionDoc() bool  { return p.Raw&0x4 != 0 }

// FileHeader mirrors the fixed 256-byte FileHeader stream (spec §4.2).
type FileHeader struct {
	Signature  string
	Version    Version
	Properties FileProperties
}

// ReadFileHeader parses the FileHeader stream. A signature mismatch is a
// FormatError (spec §4.9 check 2: "a bad signature ... must be rejected
// cleanly, not crash"); a password-encrypted (non-distribution) document
// is rejected as Unsupported per spec §2's stated scope.
func ReadFileHeader(r io.Reader) (FileHeader, error) {
	var hdr FileHeader

	var sig [32]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return hdr, hwperr.Wrap(hwperr.FormatError, "read FileHeader signature", err)
	}
	hdr.Signature = string(bytes.TrimRight(sig[:], "\x00"))
	if hdr.Signature != signatureText {
		return hdr, hwperr.New(hwperr.FormatError, fmt.Sprintf("unexpected FileHeader signature %q", hdr.Signature))
	}

	var ver uint32
	if err := binary.Read(r, binary.LittleEndian, &ver); err != nil {
		return hdr, hwperr.Wrap(hwperr.FormatError, "read FileHeader version", err)
	}
	hdr.Version = Version{
		Major: byte(ver >> 24),
		Minor: byte(ver >> 16),
		Patch: byte(ver >> 8),
		Rev:   byte(ver),
	}

	if err := binary.Read(r, binary.LittleEndian, &hdr.Properties.Raw); err != nil {
		return hdr, hwperr.Wrap(hwperr.FormatError, "read FileHeader properties", err)
	}

	if hdr.Properties.PasswordEncrypted() && !hdr.Properties.DistributionDoc() {
		return hdr, hwperr.New(hwperr.Unsupported, "password-encrypted documents are not supported")
	}
	return hdr, nil
}
