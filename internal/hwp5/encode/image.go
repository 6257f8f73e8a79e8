package encode

import (
	"github.com/hanpama/hwped/hwperr"
	"github.com/hanpama/hwped/internal/hwp5/record"
)

// AppendBinData attaches new binary image data to DocInfo as a BIN_DATA
// entry (spec §4.7(g): "image record references ... are not synthesized
// by this core beyond the insert-into-BinData case"). The caller is
// responsible for writing the actual bytes to a BinData/BinDataN stream
// in the OLE2 container; this only registers the DocInfo-side entry
// under the caller-chosen id and returns the rewritten DocInfo stream.
func AppendBinData(docInfoData []byte, id uint16) ([]byte, error) {
	payload := record.EncodeBinDataEntry(record.BinDataEntry{ID: id})
	data := append(docInfoData, record.Append(record.TagBinData, 0, payload)...)
	out, err := bumpIDMappingCount(data, func(m *record.IDMappingsPayload) { m.BinDataCount++ })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractBinDataID reports whether docInfoData has an nth BIN_DATA entry
// and returns its stream id, used by edit's image replace/extract paths
// to resolve a section's image reference to a BinData stream name.
func ExtractBinDataID(docInfoData []byte, index int) (uint16, error) {
	recs, err := record.ScanAll(docInfoData)
	if err != nil {
		return 0, hwperr.Wrap(hwperr.CorruptDocument, "scan DocInfo", err)
	}
	seen := -1
	for _, rec := range recs {
		if rec.Tag != record.TagBinData {
			continue
		}
		seen++
		if seen == index {
			e := record.DecodeBinDataEntry(rec.Payload)
			return e.ID, nil
		}
	}
	return 0, hwperr.New(hwperr.RefError, "BinData index out of range")
}
