package scheme

import (
	"fmt"

	"github.com/sharedcode/lrc"
)

const (
	// EmptyByte marks the empty block.
	EmptyByte byte = 0xEE
	// GlobalSyndromeByte marks a global syndrome.
	GlobalSyndromeByte byte = 0xFF
	// LocalSyndromeNibble is the high nibble of every local syndrome byte.
	LocalSyndromeNibble byte = 0xC0
)

// Classify returns the role of an encoded byte. The analyzer relies on this rule only, so it
// has to agree with EncodeToken bit for bit.
func Classify(b byte) Kind {
	switch {
	case b == EmptyByte:
		return Empty
	case b == GlobalSyndromeByte:
		return GlobalSyndrome
	case b&0xF0 == LocalSyndromeNibble:
		return LocalSyndrome
	}
	return Data
}

// EncodeToken maps one token to its byte.
func EncodeToken(t Token, localSyndromeBase byte) (byte, error) {
	switch t.Kind {
	case Data:
		if t.Digit < 1 || t.Digit > 9 {
			return 0, fmt.Errorf("data block at offset %d has group %d, expected 1..9", t.Offset, t.Digit)
		}
		return byte(t.Digit - 1), nil
	case LocalSyndrome:
		v := int(localSyndromeBase) + t.Digit
		if v > 0xFF || byte(v)&0xF0 != LocalSyndromeNibble {
			return 0, fmt.Errorf("local syndrome %q at offset %d encodes to %#x, outside 0xc0..0xcf", t.Text, t.Offset, v)
		}
		return byte(v), nil
	case Empty:
		return EmptyByte, nil
	case GlobalSyndrome:
		return GlobalSyndromeByte, nil
	}
	return 0, fmt.Errorf("unknown token kind %d at offset %d", int(t.Kind), t.Offset)
}

// Encode maps every token to one byte. The result has the same length and order as tokens.
func Encode(tokens []Token, opts lrc.CompilerOptions) ([]byte, error) {
	encoded, err := encode(tokens, opts.Base())
	if err != nil {
		return nil, lrc.NewError(lrc.InvalidScheme, err, nil)
	}
	return encoded, nil
}

func encode(tokens []Token, base byte) ([]byte, error) {
	encoded := make([]byte, len(tokens))
	for i, t := range tokens {
		b, err := EncodeToken(t, base)
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}
	return encoded, nil
}

// EncodeDescriptor tokenizes and encodes descriptor.
func EncodeDescriptor(descriptor string, opts lrc.CompilerOptions) ([]byte, error) {
	tokens, err := Tokenize(descriptor)
	if err != nil {
		return nil, err
	}
	encoded, err := encode(tokens, opts.Base())
	if err != nil {
		return nil, lrc.NewError(lrc.InvalidScheme, err, descriptor)
	}
	return encoded, nil
}
