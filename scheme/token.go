// Package scheme compiles an LRC scheme descriptor into the placement table of one stripe.
//
// Compilation is a single pass pipeline: Tokenize scans the descriptor into tagged tokens,
// Encode maps every token to one byte, DeriveConstants counts the stripe constants and
// Analyze derives the positional metadata from the encoded bytes. Compile runs all of them
// and enforces the rules a placement table has to satisfy. Nothing here keeps state between
// calls.
package scheme

import "fmt"

// Kind tags a token, and the role of a stripe position.
type Kind int

const (
	// Data is a data block tagged with its group digit.
	Data Kind = iota
	// LocalSyndrome is the parity block of one substripe.
	LocalSyndrome
	// Empty is the unused placeholder block.
	Empty
	// GlobalSyndrome is a parity block covering the whole stripe.
	GlobalSyndrome
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case LocalSyndrome:
		return "local syndrome"
	case Empty:
		return "empty"
	case GlobalSyndrome:
		return "global syndrome"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is one stripe position as written in the descriptor.
type Token struct {
	Kind Kind
	// Digit is the group digit of a Data token or the index digit of a LocalSyndrome token.
	Digit int
	// Offset is the character offset of the token in the descriptor.
	Offset int
	// Text is the token's source text, one or two characters.
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case Data, LocalSyndrome:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Digit)
	}
	return t.Kind.String()
}

// MarshalText renders the kind by name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
