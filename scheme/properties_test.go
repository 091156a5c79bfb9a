package scheme

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/sharedcode/lrc"
)

// randomDescriptor builds a valid multi global descriptor: groups of data blocks each
// followed by its local syndrome, one empty block and some global syndromes, shuffled.
func randomDescriptor(r *rand.Rand) string {
	groups := 1 + r.Intn(4)
	perGroup := 1 + r.Intn(4)
	var parts []string
	for g := 0; g < groups; g++ {
		for i := 0; i < perGroup; i++ {
			parts = append(parts, string(rune('1'+g)))
		}
		parts = append(parts, "s"+string(rune('0'+g)))
	}
	parts = append(parts, "e")
	for i := 0; i <= r.Intn(3); i++ {
		parts = append(parts, "g")
	}
	r.Shuffle(len(parts), func(i, j int) { parts[i], parts[j] = parts[j], parts[i] })
	s := ""
	for _, p := range parts {
		s += p
	}
	return s
}

func TestLayoutProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		d := randomDescriptor(r)
		l, err := Compile(d, lrc.DefaultCompilerOptions())
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", d, err)
		}

		if len(l.Encoded) != len(l.Tokens) {
			t.Errorf("%q: %d bytes for %d tokens", d, len(l.Encoded), len(l.Tokens))
		}

		c := l.Constants
		if got, want := len(l.OrderedOffsets), c.Substripes+c.EmptyBlocks+c.GlobalSyndromes; got != want {
			t.Errorf("%q: %d ordered offsets, expected %d", d, got, want)
		}
		for i := 1; i < len(l.OrderedOffsets); i++ {
			if l.OrderedOffsets[i-1] >= l.OrderedOffsets[i] {
				t.Errorf("%q: ordered offsets not strictly ascending: %v", d, l.OrderedOffsets)
				break
			}
		}

		seen := map[int]bool{}
		var union []int
		for _, set := range [][]int{l.LocalSyndromes, l.GlobalSyndromes, l.EmptyPositions} {
			for _, p := range set {
				if seen[p] {
					t.Errorf("%q: position %d in more than one set", d, p)
				}
				seen[p] = true
				union = append(union, p)
			}
		}
		sort.Ints(union)
		if !reflect.DeepEqual(union, l.OrderedOffsets) {
			t.Errorf("%q: union %v differs from ordered offsets %v", d, union, l.OrderedOffsets)
		}

		if l.LastDataBlock != NoDataBlock {
			if Classify(l.Encoded[l.LastDataBlock]) != Data {
				t.Errorf("%q: last data block %d is not data", d, l.LastDataBlock)
			}
			for i := l.LastDataBlock + 1; i < len(l.Encoded); i++ {
				if Classify(l.Encoded[i]) == Data {
					t.Errorf("%q: data block %d after last data block %d", d, i, l.LastDataBlock)
				}
			}
		}

		again, err := Compile(d, lrc.DefaultCompilerOptions())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(l, again) {
			t.Errorf("%q: compiling twice gave different layouts", d)
		}
	}
}

func TestMergeOffsets(t *testing.T) {
	got := MergeOffsets(
		PositionSet{Kind: LocalSyndrome, Positions: []int{2, 6, 9}},
		PositionSet{Kind: GlobalSyndrome, Positions: []int{0, 10}},
		PositionSet{Kind: Empty, Positions: []int{7}},
	)
	want := []Offset{
		{0, GlobalSyndrome}, {2, LocalSyndrome}, {6, LocalSyndrome},
		{7, Empty}, {9, LocalSyndrome}, {10, GlobalSyndrome},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}
	if p := Positions(got); !reflect.DeepEqual(p, []int{0, 2, 6, 7, 9, 10}) {
		t.Errorf("Positions got %v", p)
	}
}

func TestMergeOffsetsDedupAndEmpty(t *testing.T) {
	got := MergeOffsets(
		PositionSet{Kind: LocalSyndrome, Positions: []int{1, 4}},
		PositionSet{Kind: Empty},
		PositionSet{Kind: GlobalSyndrome, Positions: []int{4}},
	)
	want := []Offset{{1, LocalSyndrome}, {4, LocalSyndrome}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}
	if got := MergeOffsets(); len(got) != 0 {
		t.Errorf("merging nothing got %v", got)
	}
}
