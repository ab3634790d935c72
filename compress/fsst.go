package compress

import (
	"fmt"

	"github.com/axiomhq/fsst"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// FSSTCompressor is the general-purpose dictionary-trained entropy backend:
// it trains an up-to-255 symbol table from the input itself, then encodes
// against that table. Unlike the other Codec implementations, the trained
// table is not reusable across independent Compress calls, so it is
// marshaled and embedded ahead of the encoded bytes: the payload is
// self-contained and Decompress needs no side channel.
//
// Cold mode (framer.go) does not use Compress/Decompress directly for its
// "train once over a sample, reuse for the rest of the stream" behavior —
// it calls Train/underlying *fsst.Table methods itself so one table serves
// many payloads. FSSTCompressor exists for call sites (CreateCodec/GetCodec
// users, ad hoc payloads) that want the same Codec interface the other four
// backends share.
type FSSTCompressor struct{}

var _ Codec = FSSTCompressor{}

// NewFSSTCompressor creates an FSST codec.
func NewFSSTCompressor() FSSTCompressor {
	return FSSTCompressor{}
}

// Compress trains a symbol table over data and encodes data against it,
// prefixing the marshaled table (varint length + bytes).
func (FSSTCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	table := fsst.Train([][]byte{data})
	tableBytes, err := table.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("usc: marshaling fsst table: %w", err)
	}

	out := varint.AppendUvarint(nil, uint64(len(tableBytes)))
	out = append(out, tableBytes...)
	out = append(out, table.EncodeAll(data)...)

	return out, nil
}

// Decompress reads the embedded table and decodes the remainder against it.
func (FSSTCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	tableLen, n := varint.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("usc: fsst payload missing table length")
	}
	if n+int(tableLen) > len(data) {
		return nil, fmt.Errorf("usc: fsst payload truncated table")
	}

	table := new(fsst.Table)
	if err := table.UnmarshalBinary(data[n : n+int(tableLen)]); err != nil {
		return nil, fmt.Errorf("usc: unmarshaling fsst table: %w", err)
	}

	return table.DecodeAll(data[n+int(tableLen):]), nil
}

// TrainSample learns a symbol table from a byte sample without encoding
// anything, for cold mode's "train once over the first N KiB" contract.
func TrainSample(sample []byte) *fsst.Table {
	return fsst.Train([][]byte{sample})
}
