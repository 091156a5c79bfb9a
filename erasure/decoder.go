package erasure

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"fmt"
	log "log/slog"
)

// DecodeResult is a structure containing the Decode function result.
type DecodeResult struct {
	DecodedData []byte
	// Indices of the blocks that were nil or corrupted and had to be reconstructed.
	ReconstructedBlocksIndices []int
	Error                      error
}

// Decode reverses Encode. Missing (nil) blocks are reconstructed first, then blocks whose
// checksum doesn't match their metadata.
func (e *Erasure) Decode(blocks [][]byte, blocksMetaData [][]byte) *DecodeResult {
	if len(blocks) == 0 {
		return &DecodeResult{
			Error: fmt.Errorf("blocks can't be nil or empty"),
		}
	}
	if len(blocksMetaData) != len(blocks) {
		return &DecodeResult{
			Error: fmt.Errorf("got %d blocks but %d metadata entries", len(blocks), len(blocksMetaData)),
		}
	}

	r := &DecodeResult{}
	ok, _ := e.encoder.Verify(blocks)
	if !ok {
		log.Debug("stripe verification failed, reconstructing blocks")
		r = e.reconstructMissingBlocks(blocks)
		if r.Error != nil {
			return r
		}
		ok, _ = e.encoder.Verify(blocks)
		if !ok {
			dr := e.detectBadBlocksThenReconstruct(blocks, blocksMetaData)
			if dr.Error != nil {
				return &DecodeResult{
					Error: fmt.Errorf("final attempt to reconstruct failed, error: %w", dr.Error),
				}
			}
			r = dr
		}
	}

	size := 0
	for _, b := range blocks {
		if len(b) > 0 {
			size = len(b)
			break
		}
	}
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	if err := e.encoder.Join(w, blocks, size*e.DataBlocksCount); err != nil {
		return &DecodeResult{
			Error: fmt.Errorf("encoder.Join failed, error: %w", err),
		}
	}
	w.Flush()
	padding := int(blocksMetaData[0][0])
	if padding > b.Len() {
		return &DecodeResult{
			Error: fmt.Errorf("padding %d exceeds decoded size %d", padding, b.Len()),
		}
	}
	ba := make([]byte, b.Len()-padding)
	copy(ba, b.Bytes())
	r.DecodedData = ba
	return r
}

func (e *Erasure) detectBadBlocksThenReconstruct(blocks [][]byte, blocksMetaData [][]byte) *DecodeResult {
	corrupted := make([]int, 0, 2)
	for i := range blocks {
		if len(blocksMetaData[i]) != MetaDataSize {
			continue
		}
		got := md5.Sum(blocks[i])
		if !bytes.Equal(blocksMetaData[i][1:], got[:]) {
			corrupted = append(corrupted, i)
			blocks[i] = nil
		}
	}
	if len(corrupted) == 0 {
		return &DecodeResult{
			Error: fmt.Errorf("blocks passed checksum check but stripe doesn't verify"),
		}
	}
	if err := e.encoder.Reconstruct(blocks); err != nil {
		return &DecodeResult{
			Error: err,
		}
	}
	if ok, err := e.encoder.Verify(blocks); !ok {
		if err == nil {
			err = fmt.Errorf("stripe doesn't verify after reconstruction")
		}
		return &DecodeResult{
			Error: err,
		}
	}
	return &DecodeResult{
		ReconstructedBlocksIndices: corrupted,
	}
}

func (e *Erasure) reconstructMissingBlocks(blocks [][]byte) *DecodeResult {
	r := DecodeResult{}
	required := make([]bool, len(blocks))
	for i := range blocks {
		if blocks[i] == nil {
			r.ReconstructedBlocksIndices = append(r.ReconstructedBlocksIndices, i)
			required[i] = true
		}
	}
	if err := e.encoder.ReconstructSome(blocks, required); err != nil {
		r.Error = err
	}
	return &r
}
