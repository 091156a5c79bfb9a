package scheme

import (
	"fmt"

	"github.com/sharedcode/lrc"
)

// Layout is a compiled scheme: the encoded stripe, its constants and its positional metadata.
type Layout struct {
	Descriptor string              `json:"descriptor"`
	Options    lrc.CompilerOptions `json:"options"`
	Tokens     []Token             `json:"-"`
	Encoded    []byte              `json:"-"`
	Constants  Constants           `json:"constants"`
	Analysis
}

// EmptyBlock returns the position of the empty block.
func (l *Layout) EmptyBlock() int {
	return l.EmptyPositions[0]
}

// GlobalSyndrome returns the position of the first global syndrome, the only one in single
// global mode.
func (l *Layout) GlobalSyndrome() int {
	return l.GlobalSyndromes[0]
}

// Compile compiles descriptor into a Layout.
//
// Besides the tokenizer and encoder rules, a compiled layout needs at least one '1' (so that
// SUBSTRIPE_DATA is not negative), exactly one empty block, and in single global mode
// exactly one global syndrome. Any violation is an InvalidScheme error and no layout is
// returned.
func Compile(descriptor string, opts lrc.CompilerOptions) (*Layout, error) {
	tokens, err := Tokenize(descriptor)
	if err != nil {
		return nil, err
	}
	encoded, err := encode(tokens, opts.Base())
	if err != nil {
		return nil, lrc.NewError(lrc.InvalidScheme, err, descriptor)
	}
	l := &Layout{
		Descriptor: descriptor,
		Options:    opts,
		Tokens:     tokens,
		Encoded:    encoded,
		Constants:  DeriveConstants(tokens, opts),
		Analysis:   Analyze(encoded),
	}
	if err := l.validate(); err != nil {
		return nil, lrc.NewError(lrc.InvalidScheme, err, descriptor)
	}
	return l, nil
}

func (l *Layout) validate() error {
	if l.Constants.SubstripeData < 0 {
		return fmt.Errorf("scheme has no anchor data block '1', SUBSTRIPE_DATA would be %d", l.Constants.SubstripeData)
	}
	if n := len(l.EmptyPositions); n != 1 {
		return fmt.Errorf("scheme must have exactly one empty block, got %d", n)
	}
	if !l.Options.MultiGlobal {
		if n := len(l.GlobalSyndromes); n != 1 {
			return fmt.Errorf("single global syndrome mode requires exactly one global syndrome, got %d", n)
		}
	}
	return nil
}
