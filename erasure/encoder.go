// Package erasure wraps Reed-Solomon coding over the blocks of one stripe. The scheme
// package uses it to check that a compiled layout has an encodable block geometry; it is not
// the LRC engine itself.
package erasure

import (
	"bytes"
	"crypto/md5"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// MaxBlocks is the largest stripe (data + parity blocks) Reed-Solomon over GF(2^8) supports.
const MaxBlocks = 256

// MetaDataSize is 1 byte + checksum(16 bytes) = 17 bytes.
const MetaDataSize = 17

type Erasure struct {
	DataBlocksCount   int
	ParityBlocksCount int
	encoder           reedsolomon.Encoder
}

// NewErasure instantiates an erasure encoder for a stripe geometry.
func NewErasure(dataBlocks int, parityBlocks int) (*Erasure, error) {
	if dataBlocks <= 0 {
		return nil, fmt.Errorf("stripe needs at least one data block, got %d", dataBlocks)
	}
	if parityBlocks <= 0 {
		return nil, fmt.Errorf("stripe needs at least one parity block, got %d", parityBlocks)
	}
	if dataBlocks+parityBlocks > MaxBlocks {
		return nil, fmt.Errorf("sum of data and parity blocks cannot exceed %d, got %d", MaxBlocks, dataBlocks+parityBlocks)
	}
	enc, err := reedsolomon.New(dataBlocks, parityBlocks)
	if err != nil {
		return nil, err
	}
	return &Erasure{
		DataBlocksCount:   dataBlocks,
		ParityBlocksCount: parityBlocks,
		encoder:           enc,
	}, nil
}

// Encode splits data into equally sized data blocks and computes the parity blocks.
// The blocks are split from a copy of data, so changing them never touches the caller's buffer.
func (e *Erasure) Encode(data []byte) ([][]byte, error) {
	blocks, err := e.encoder.Split(bytes.Clone(data))
	if err != nil {
		return nil, err
	}
	if err := e.encoder.Encode(blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ComputeBlockMetadata returns a block's metadata: the zero padding count of the last data
// block followed by the block's md5 checksum.
func (e *Erasure) ComputeBlockMetadata(dataSize int, blocks [][]byte, blockIndex int) []byte {
	checksum := md5.Sum(blocks[blockIndex])
	r := make([]byte, 1+len(checksum))
	if dataSize%e.DataBlocksCount != 0 {
		r[0] = byte(e.DataBlocksCount - dataSize%e.DataBlocksCount)
	}
	copy(r[1:], checksum[0:])

	return r
}
