package section

import (
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// DictHeader is the fixed prefix of a DICT packet: magic, version, and the
// number of templates the packet's template table carries. The template
// table, slot-type table, and dict tables that follow are variable-length
// and assembled by the packet package; this header only covers the part
// with a fixed field shape.
type DictHeader struct {
	Version       uint8
	TemplateCount int
}

// NewDictHeader creates a DictHeader at the current Version.
func NewDictHeader(templateCount int) DictHeader {
	return DictHeader{Version: Version, TemplateCount: templateCount}
}

// Bytes serializes the header: magic(4) + version(1) + template_count(varint).
func (h DictHeader) Bytes() []byte {
	b := make([]byte, 0, 4+1+varint.MaxLen64)
	b = append(b, DictMagic[:]...)
	b = append(b, h.Version)
	b = varint.AppendUvarint(b, uint64(h.TemplateCount))
	return b
}

// ParseDictHeader reads a DictHeader from the start of data and returns
// the number of bytes consumed.
func ParseDictHeader(data []byte) (DictHeader, int, error) {
	if err := checkMagic(data, DictMagic); err != nil {
		return DictHeader{}, 0, err
	}
	if len(data) < 5 {
		return DictHeader{}, 0, errs.ErrTruncatedPacket
	}

	h := DictHeader{Version: data[4]}
	if h.Version != Version {
		return DictHeader{}, 0, errs.ErrVersionUnsupported
	}

	count, n := varint.Uvarint(data[5:])
	if n <= 0 {
		return DictHeader{}, 0, errs.ErrTruncatedPacket
	}
	h.TemplateCount = int(count)

	return h, 5 + n, nil
}
