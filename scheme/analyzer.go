package scheme

// NoDataBlock is the LastDataBlock sentinel of a stripe without any data block.
const NoDataBlock = -1

// Analysis is the positional metadata derived from an encoded stripe.
type Analysis struct {
	// DataSubset is the encoded stripe without local syndrome, empty and global syndrome bytes.
	DataSubset []byte `json:"data_subset"`
	// LocalSyndromes are the local syndrome positions, ascending.
	LocalSyndromes []int `json:"local_syndromes"`
	// GlobalSyndromes are the global syndrome positions, ascending.
	GlobalSyndromes []int `json:"global_syndromes"`
	// EmptyPositions are the empty block positions, ascending. A compiled layout has exactly one.
	EmptyPositions []int `json:"empty_positions"`
	// Offsets are all non-data positions, ascending and labeled.
	Offsets []Offset `json:"offsets"`
	// OrderedOffsets are the positions of Offsets.
	OrderedOffsets []int `json:"ordered_offsets"`
	// LastDataBlock is the highest data position, or NoDataBlock.
	LastDataBlock int `json:"last_data_block"`
}

// Analyze derives the positional metadata of an encoded stripe. It classifies bytes with
// Classify only and never fails; rule checks belong to Compile.
func Analyze(encoded []byte) Analysis {
	a := Analysis{
		DataSubset:      make([]byte, 0, len(encoded)),
		LocalSyndromes:  []int{},
		GlobalSyndromes: []int{},
		EmptyPositions:  []int{},
	}
	for i, b := range encoded {
		switch Classify(b) {
		case Data:
			a.DataSubset = append(a.DataSubset, b)
		case LocalSyndrome:
			a.LocalSyndromes = append(a.LocalSyndromes, i)
		case GlobalSyndrome:
			a.GlobalSyndromes = append(a.GlobalSyndromes, i)
		case Empty:
			a.EmptyPositions = append(a.EmptyPositions, i)
		}
	}
	a.Offsets = MergeOffsets(
		PositionSet{Kind: LocalSyndrome, Positions: a.LocalSyndromes},
		PositionSet{Kind: GlobalSyndrome, Positions: a.GlobalSyndromes},
		PositionSet{Kind: Empty, Positions: a.EmptyPositions},
	)
	a.OrderedOffsets = Positions(a.Offsets)
	a.LastDataBlock = LastDataBlock(encoded)
	return a
}

// LastDataBlock scans encoded from the end and returns the first data position found, or
// NoDataBlock.
func LastDataBlock(encoded []byte) int {
	for i := len(encoded) - 1; i >= 0; i-- {
		if Classify(encoded[i]) == Data {
			return i
		}
	}
	return NoDataBlock
}
