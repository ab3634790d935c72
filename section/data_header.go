package section

import (
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// DataHeader is the fixed prefix of a DATA packet: magic, version, and
// the window's row count. The row mask, MTF positions, channel payloads
// and raw-rows section that follow are assembled by the packet package.
type DataHeader struct {
	Version  uint8
	RowCount int
}

// NewDataHeader creates a DataHeader at the current Version.
func NewDataHeader(rowCount int) DataHeader {
	return DataHeader{Version: Version, RowCount: rowCount}
}

// Bytes serializes the header: magic(4) + version(1) + row_count(varint).
func (h DataHeader) Bytes() []byte {
	b := make([]byte, 0, 4+1+varint.MaxLen64)
	b = append(b, DataMagic[:]...)
	b = append(b, h.Version)
	b = varint.AppendUvarint(b, uint64(h.RowCount))
	return b
}

// ParseDataHeader reads a DataHeader from the start of data and returns
// the number of bytes consumed.
func ParseDataHeader(data []byte) (DataHeader, int, error) {
	if err := checkMagic(data, DataMagic); err != nil {
		return DataHeader{}, 0, err
	}
	if len(data) < 5 {
		return DataHeader{}, 0, errs.ErrTruncatedPacket
	}

	h := DataHeader{Version: data[4]}
	if h.Version != Version {
		return DataHeader{}, 0, errs.ErrVersionUnsupported
	}

	count, n := varint.Uvarint(data[5:])
	if n <= 0 {
		return DataHeader{}, 0, errs.ErrTruncatedPacket
	}
	h.RowCount = int(count)

	return h, 5 + n, nil
}
