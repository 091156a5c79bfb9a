package scheme

import "github.com/sharedcode/lrc"

// Constants are the four size constants of a stripe.
type Constants struct {
	// Substripes is the number of local syndromes (SUBSTRIPES).
	Substripes int `json:"substripes"`
	// SubstripeData is the number of '1' characters minus one (SUBSTRIPE_DATA).
	SubstripeData int `json:"substripe_data"`
	// EmptyBlocks is the number of empty blocks (E_BLOCKS).
	EmptyBlocks int `json:"empty_blocks"`
	// GlobalSyndromes is the number of global syndromes (GLOBAL_S), always 1 in single global mode.
	GlobalSyndromes int `json:"global_syndromes"`
}

// StripeBlocks returns the stripe length the native module declares lrc_scheme with:
// (SUBSTRIPE_DATA + 1) * SUBSTRIPES + E_BLOCKS + GLOBAL_S.
func (c Constants) StripeBlocks() int {
	return (c.SubstripeData+1)*c.Substripes + c.EmptyBlocks + c.GlobalSyndromes
}

// DataBlocks returns SUBSTRIPE_DATA * SUBSTRIPES, the declared length of lrc_data.
func (c Constants) DataBlocks() int {
	return c.SubstripeData * c.Substripes
}

// ParityBlocks returns the number of non-data, non-empty blocks of the stripe.
func (c Constants) ParityBlocks() int {
	return c.Substripes + c.GlobalSyndromes
}

// DeriveConstants counts the stripe constants from the tokens of a descriptor.
//
// SubstripeData counts every '1' digit of the descriptor, local syndrome indexes included,
// and subtracts one. A descriptor without any '1' yields -1, which Compile rejects.
func DeriveConstants(tokens []Token, opts lrc.CompilerOptions) Constants {
	var c Constants
	ones := 0
	for _, t := range tokens {
		switch t.Kind {
		case Data:
			if t.Digit == 1 {
				ones++
			}
		case LocalSyndrome:
			c.Substripes++
			if t.Digit == 1 {
				ones++
			}
		case Empty:
			c.EmptyBlocks++
		case GlobalSyndrome:
			c.GlobalSyndromes++
		}
	}
	c.SubstripeData = ones - 1
	if !opts.MultiGlobal {
		c.GlobalSyndromes = 1
	}
	return c
}
