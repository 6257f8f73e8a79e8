package cfb

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/hanpama/hwped/hwperr"
)

// Writer assembles a fresh OLE2 compound file from a flat set of named
// streams. HWP edits splice individual record streams in place (see
// internal/hwp5/record.Rewrite) but the containing OLE2 directory/FAT
// structure is small enough, and intricate enough to splice correctly,
// that this core rebuilds it fresh on every write rather than patching
// sector chains in place — the "minimum diff" guarantee spec §9 asks
// for applies to the stream payloads, not the container bookkeeping
// around them.
type Writer struct {
	header  compoundFileHeader
	streams map[string][]byte
}

type compoundFileHeader struct {
	Signature            [8]byte
	CLSID                [16]byte
	MinorVersion         uint16
	MajorVersion         uint16
	ByteOrder            uint16
	SectorSize           uint16
	MiniSectorSize       uint16
	Reserved             [6]byte
	NumDirectorySectors  uint32
	NumFATSectors        uint32
	DirectoryFirstSector uint32
	TransactionSignature uint32
	MiniStreamCutoff     uint32
	MiniFATFirstSector   uint32
	NumMiniFATSectors    uint32
	DIFATFirstSector     uint32
	NumDIFATSectors      uint32
	DIFAT                [109]uint32
}

func NewWriter() *Writer {
	w := &Writer{streams: make(map[string][]byte)}
	copy(w.header.Signature[:], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	w.header.MinorVersion = 0x003E
	w.header.MajorVersion = 0x0003
	w.header.ByteOrder = 0xFFFE
	w.header.SectorSize = 9 // 2^9 = 512 bytes
	w.header.MiniSectorSize = 6
	w.header.MiniStreamCutoff = 4096
	w.header.DirectoryFirstSector = 0xFFFFFFFE
	w.header.MiniFATFirstSector = 0xFFFFFFFE
	w.header.DIFATFirstSector = 0xFFFFFFFE
	for i := range w.header.DIFAT {
		w.header.DIFAT[i] = 0xFFFFFFFF
	}
	return w
}

// PutStream stores or replaces a named stream's contents, overwriting
// whatever an earlier PutStream set for that name.
func (w *Writer) PutStream(name string, data []byte) { w.streams[name] = data }

// WriteTo serializes the full container. Only single-storage-level
// layouts (no nested storages beyond "BodyText"/"ViewText" style
// slash-joined names, which this writer treats as a flat name) are
// supported — sufficient for the HWP5 stream set this core edits.
func (w *Writer) WriteTo() ([]byte, error) {
	const sectorSize = 512

	var names []string
	for name := range w.streams {
		names = append(names, name)
	}
	sort.Strings(names)

	// Directory entries: index 0 = root, 1..n = streams in sorted
	// order, linked as a pure right-chain so the binary-tree ordering
	// invariant (left < self < right) holds degenerately.
	type dirEntry struct {
		name         string
		typ          uint8
		leftSibling  uint32
		rightSibling uint32
		child        uint32
		startSector  uint32
		size         uint64
	}
	entries := make([]dirEntry, 0, len(names)+1)
	childOfRoot := uint32(0xFFFFFFFF)
	if len(names) > 0 {
		childOfRoot = 1
	}
	entries = append(entries, dirEntry{name: "Root Entry", typ: 5, leftSibling: 0xFFFFFFFF, rightSibling: 0xFFFFFFFF, child: childOfRoot})
	for i, name := range names {
		right := uint32(0xFFFFFFFF)
		if i+1 < len(names) {
			right = uint32(i + 2)
		}
		entries = append(entries, dirEntry{
			name: name, typ: 2,
			leftSibling: 0xFFFFFFFF, rightSibling: right, child: 0xFFFFFFFF,
		})
	}

	// Lay out stream data sectors first, then directory sectors, then
	// the single FAT sector array.
	sectorMap := make(map[string]uint32)
	var dataBuf bytes.Buffer
	cursor := uint32(0)
	for _, name := range names {
		data := w.streams[name]
		sectorMap[name] = cursor
		dataBuf.Write(data)
		pad := sectorSize - len(data)%sectorSize
		if pad == sectorSize {
			pad = 0
		}
		dataBuf.Write(make([]byte, pad))
		cursor += uint32((len(data) + pad) / sectorSize)
	}
	numDataSectors := int(cursor)

	var dirBuf bytes.Buffer
	for i, e := range entries {
		var rec [128]byte
		nameUTF16 := make([]byte, 0, 64)
		for _, r := range e.name {
			var tmp [2]byte
			binary.LittleEndian.PutUint16(tmp[:], uint16(r))
			nameUTF16 = append(nameUTF16, tmp[:]...)
		}
		copy(rec[0:64], nameUTF16)
		binary.LittleEndian.PutUint16(rec[64:66], uint16((len(e.name)+1)*2))
		rec[66] = e.typ
		rec[67] = 1 // node color: black
		binary.LittleEndian.PutUint32(rec[68:72], e.leftSibling)
		binary.LittleEndian.PutUint32(rec[72:76], e.rightSibling)
		binary.LittleEndian.PutUint32(rec[76:80], e.child)
		startSector := uint32(0xFFFFFFFE)
		size := uint64(0)
		if i > 0 {
			name := e.name
			startSector = sectorMap[name]
			size = uint64(len(w.streams[name]))
		}
		binary.LittleEndian.PutUint32(rec[116:120], startSector)
		binary.LittleEndian.PutUint64(rec[120:128], size)
		dirBuf.Write(rec[:])
	}
	numDirSectors := (dirBuf.Len() + sectorSize - 1) / sectorSize
	dirPad := numDirSectors*sectorSize - dirBuf.Len()
	dirBuf.Write(make([]byte, dirPad))

	numFATEntries := numDataSectors + numDirSectors + 1 // +1 for the FAT sector itself
	numFATSectors := (numFATEntries*4 + sectorSize - 1) / sectorSize
	if numFATSectors == 0 {
		numFATSectors = 1
	}

	var fatBuf bytes.Buffer
	for i := 0; i < numDataSectors; i++ {
		next := uint32(i + 1)
		if i == numDataSectors-1 {
			next = 0xFFFFFFFE
		}
		if numDataSectors == 0 {
			break
		}
		if i == numDataSectors-1 {
			binary.Write(&fatBuf, binary.LittleEndian, uint32(0xFFFFFFFE))
		} else {
			binary.Write(&fatBuf, binary.LittleEndian, next)
		}
	}
	dirStart := uint32(numDataSectors)
	for i := 0; i < numDirSectors; i++ {
		if i == numDirSectors-1 {
			binary.Write(&fatBuf, binary.LittleEndian, uint32(0xFFFFFFFE))
		} else {
			binary.Write(&fatBuf, binary.LittleEndian, dirStart+uint32(i)+1)
		}
	}
	fatSectorIndex := numDataSectors + numDirSectors
	binary.Write(&fatBuf, binary.LittleEndian, uint32(0xFFFFFFFD)) // FAT sector marker
	fatPad := numFATSectors*sectorSize - fatBuf.Len()
	if fatPad > 0 {
		fatBuf.Write(make([]byte, fatPad))
	}

	if numFATSectors > len(w.header.DIFAT) {
		return nil, hwperr.New(hwperr.Unsupported, "document too large for single-DIFAT-sector OLE2 writer")
	}
	w.header.NumDirectorySectors = uint32(numDirSectors)
	w.header.NumFATSectors = uint32(numFATSectors)
	w.header.DirectoryFirstSector = uint32(numDataSectors)
	for i := 0; i < numFATSectors; i++ {
		w.header.DIFAT[i] = uint32(fatSectorIndex) + uint32(i)
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, &w.header); err != nil {
		return nil, hwperr.Wrap(hwperr.IOFailure, "write OLE2 header", err)
	}
	out.Write(dataBuf.Bytes())
	out.Write(dirBuf.Bytes())
	out.Write(fatBuf.Bytes())
	return out.Bytes(), nil
}
