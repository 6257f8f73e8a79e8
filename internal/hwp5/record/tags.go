package record

// Tag identifies a record kind. Names and numeric values are the stable
// constants spec §6 requires; values above TagBegin+50 match the
// teacher's BodyText-stream table verbatim, and the DocInfo-stream tags
// below are added because this module (unlike the teacher) decodes and
// mutates DocInfo, not just BodyText.
type Tag uint16

const (
	TagBegin Tag = 0x10

	// DocInfo stream.
	TagDocumentProperties Tag = TagBegin + 0
	TagIDMappings         Tag = TagBegin + 1
	TagBinData            Tag = TagBegin + 2
	TagFaceName           Tag = TagBegin + 3
	TagBorderFill         Tag = TagBegin + 4
	TagCharShape          Tag = TagBegin + 5
	TagTabDef             Tag = TagBegin + 6
	TagNumbering          Tag = TagBegin + 7
	TagBullet             Tag = TagBegin + 8
	TagParaShape          Tag = TagBegin + 9
	TagStyle              Tag = TagBegin + 10
	TagDistributeDocData  Tag = TagBegin + 12

	// BodyText section stream.
	TagParaHeader              Tag = TagBegin + 50
	TagParaText                Tag = TagBegin + 51
	TagParaCharShape           Tag = TagBegin + 52
	TagParaLineSeg             Tag = TagBegin + 53
	TagParaRangeTag            Tag = TagBegin + 54
	TagCtrlHeader              Tag = TagBegin + 55
	TagListHeader              Tag = TagBegin + 56
	TagPageDef                 Tag = TagBegin + 57
	TagFootnoteShape           Tag = TagBegin + 58
	TagPageBorderFill          Tag = TagBegin + 59
	TagShapeComponent          Tag = TagBegin + 60
	TagTable                   Tag = TagBegin + 61
	TagShapeComponentLine      Tag = TagBegin + 62
	TagShapeComponentRectangle Tag = TagBegin + 63
	TagShapeComponentEllipse   Tag = TagBegin + 64
	TagShapeComponentArc       Tag = TagBegin + 65
	TagShapeComponentPolygon   Tag = TagBegin + 66
	TagShapeComponentCurve     Tag = TagBegin + 67
	TagShapeComponentOLE       Tag = TagBegin + 68
	TagShapeComponentPicture   Tag = TagBegin + 69
	TagShapeComponentContainer Tag = TagBegin + 70
	TagCtrlData                Tag = TagBegin + 71
	TagEqEdit                  Tag = TagBegin + 72
	TagShapeComponentTextArt   Tag = TagBegin + 74
	TagFormObject              Tag = TagBegin + 75
	TagMemoShape               Tag = TagBegin + 76
	TagMemoList                Tag = TagBegin + 77
	TagChartData               Tag = TagBegin + 79
	TagVideoData               Tag = TagBegin + 82
	TagShapeComponentUnknown   Tag = TagBegin + 99
)

// CtrlID values found in a CTRL_HEADER's first 4 bytes, as the 4-character
// ASCII marker read with binary.LittleEndian.Uint32 (spec §4.6, §6).
const (
	CtrlIDTable uint32 = 0x74626c20 // "tbl "
	CtrlIDGso   uint32 = 0x67736f20 // "gso "
)
