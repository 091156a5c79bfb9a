package erasure

import (
	"bytes"
	"fmt"
)

// trialBlockSize is the size of every block of the sample stripe used by CheckGeometry.
const trialBlockSize = 64

// CheckGeometry encodes a sample stripe with the given geometry, drops as many data blocks
// as there are parity blocks and verifies that the stripe still decodes to the sample.
func CheckGeometry(dataBlocks, parityBlocks int) error {
	e, err := NewErasure(dataBlocks, parityBlocks)
	if err != nil {
		return err
	}
	sample := make([]byte, dataBlocks*trialBlockSize-1)
	for i := range sample {
		sample[i] = byte(i*31 + 7)
	}
	blocks, err := e.Encode(sample)
	if err != nil {
		return err
	}
	md := make([][]byte, len(blocks))
	for i := range blocks {
		md[i] = e.ComputeBlockMetadata(len(sample), blocks, i)
	}

	lost := parityBlocks
	if lost > dataBlocks {
		lost = dataBlocks
	}
	for i := 0; i < lost; i++ {
		blocks[i] = nil
	}

	r := e.Decode(blocks, md)
	if r.Error != nil {
		return fmt.Errorf("stripe of %d data and %d parity blocks didn't survive losing %d blocks, details: %w",
			dataBlocks, parityBlocks, lost, r.Error)
	}
	if !bytes.Equal(r.DecodedData, sample) {
		return fmt.Errorf("stripe of %d data and %d parity blocks decoded to different data", dataBlocks, parityBlocks)
	}
	return nil
}
