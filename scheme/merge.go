package scheme

// PositionSet is an ascending list of stripe positions sharing one role.
type PositionSet struct {
	Kind      Kind
	Positions []int
}

// Offset is a stripe position labeled with its role.
type Offset struct {
	Position int  `json:"position"`
	Kind     Kind `json:"kind"`
}

// MergeOffsets merges ascending position sets into one ascending list of labeled offsets.
// A position present in more than one set is kept once, with the label of the first set
// holding it.
func MergeOffsets(sets ...PositionSet) []Offset {
	total := 0
	for _, s := range sets {
		total += len(s.Positions)
	}
	r := make([]Offset, 0, total)
	next := make([]int, len(sets))
	for {
		best := -1
		for i, s := range sets {
			if next[i] >= len(s.Positions) {
				continue
			}
			if best < 0 || s.Positions[next[i]] < sets[best].Positions[next[best]] {
				best = i
			}
		}
		if best < 0 {
			return r
		}
		p := sets[best].Positions[next[best]]
		next[best]++
		if len(r) > 0 && r[len(r)-1].Position == p {
			continue
		}
		r = append(r, Offset{Position: p, Kind: sets[best].Kind})
	}
}

// Positions returns the positions of offsets, in order.
func Positions(offsets []Offset) []int {
	r := make([]int, len(offsets))
	for i, o := range offsets {
		r[i] = o.Position
	}
	return r
}
