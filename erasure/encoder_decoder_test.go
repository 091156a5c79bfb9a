package erasure

import (
	"bytes"
	"testing"
)

func Test_Encode_Decode(t *testing.T) {
	e, err := NewErasure(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	d := []byte{1, 2, 3, 4, 5}
	blocks, err := e.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	md := make([][]byte, len(blocks))
	for i := range blocks {
		md[i] = e.ComputeBlockMetadata(len(d), blocks, i)
	}
	if md[0][0] != 3 {
		t.Errorf("padding got %d, expected 3", md[0][0])
	}

	dr := e.Decode(blocks, md)
	if dr.Error != nil {
		t.Fatal(dr.Error)
	}
	if !bytes.Equal(dr.DecodedData, d) {
		t.Errorf("DecodedData got %v, expected %v", dr.DecodedData, d)
	}
}

func Test_MissingBlocks(t *testing.T) {
	e, _ := NewErasure(4, 2)
	d := []byte("local reconstruction codes")
	blocks, err := e.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	md := make([][]byte, len(blocks))
	for i := range blocks {
		md[i] = e.ComputeBlockMetadata(len(d), blocks, i)
	}
	blocks[0] = nil
	blocks[3] = nil

	dr := e.Decode(blocks, md)
	if dr.Error != nil {
		t.Fatal(dr.Error)
	}
	if !bytes.Equal(dr.DecodedData, d) {
		t.Errorf("DecodedData got %q, expected %q", dr.DecodedData, d)
	}
	if len(dr.ReconstructedBlocksIndices) != 2 {
		t.Errorf("ReconstructedBlocksIndices got %v, expected 2 entries", dr.ReconstructedBlocksIndices)
	}
}

func Test_Bitrot(t *testing.T) {
	e, _ := NewErasure(4, 2)
	d := []byte{1, 2, 3, 4, 5}
	want := bytes.Clone(d)
	blocks, err := e.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	md := make([][]byte, len(blocks))
	for i := range blocks {
		md[i] = e.ComputeBlockMetadata(len(d), blocks, i)
	}

	blocks[1][0] ^= 0xff
	if !bytes.Equal(d, want) {
		t.Fatalf("corrupting a block changed the input buffer to %v", d)
	}

	dr := e.Decode(blocks, md)
	if dr.Error != nil {
		t.Fatal(dr.Error)
	}
	if !bytes.Equal(dr.DecodedData, want) {
		t.Errorf("DecodedData got %v, expected %v", dr.DecodedData, want)
	}
}

func TestEncodeDoesNotAliasInput(t *testing.T) {
	e, _ := NewErasure(2, 1)
	d := []byte{10, 20, 30, 40}
	blocks, err := e.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range blocks {
		for i := range b {
			b[i] = 0
		}
	}
	if !bytes.Equal(d, []byte{10, 20, 30, 40}) {
		t.Errorf("input buffer changed to %v", d)
	}
}

func TestNewErasureRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name         string
		data, parity int
	}{
		{"no data", 0, 2},
		{"no parity", 4, 0},
		{"too many blocks", 250, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewErasure(tt.data, tt.parity); err == nil {
				t.Errorf("NewErasure(%d, %d) expected error", tt.data, tt.parity)
			}
		})
	}
}

func TestCheckGeometry(t *testing.T) {
	if err := CheckGeometry(9, 4); err != nil {
		t.Errorf("CheckGeometry(9, 4) failed: %v", err)
	}
	if err := CheckGeometry(1, 1); err != nil {
		t.Errorf("CheckGeometry(1, 1) failed: %v", err)
	}
	if err := CheckGeometry(0, 1); err == nil {
		t.Error("CheckGeometry(0, 1) expected error")
	}
}
