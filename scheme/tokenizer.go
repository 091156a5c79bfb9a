package scheme

import (
	"fmt"
	"unicode/utf8"

	"github.com/sharedcode/lrc"
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Tokenize scans descriptor left to right into tokens covering the whole input.
//
// A digit is a Data token, 's' or 'S' followed by a digit is a LocalSyndrome token, 'e' or 'E'
// is an Empty token and any other character is a GlobalSyndrome token. Characters are runes,
// so a multi-byte character is one GlobalSyndrome token. The only rejected input is a local
// syndrome marker without its index digit. Token offsets are byte offsets.
func Tokenize(descriptor string) ([]Token, error) {
	tokens := make([]Token, 0, len(descriptor))
	for i := 0; i < len(descriptor); {
		r, size := utf8.DecodeRuneInString(descriptor[i:])
		switch {
		case r < utf8.RuneSelf && isDigit(byte(r)):
			tokens = append(tokens, Token{Kind: Data, Digit: int(r - '0'), Offset: i, Text: descriptor[i : i+1]})
		case r == 's' || r == 'S':
			if i+1 >= len(descriptor) {
				return nil, lrc.NewError(lrc.InvalidScheme,
					fmt.Errorf("truncated local syndrome at offset %d, expected an index digit after %q", i, r), descriptor)
			}
			n, _ := utf8.DecodeRuneInString(descriptor[i+1:])
			if n >= utf8.RuneSelf || !isDigit(byte(n)) {
				return nil, lrc.NewError(lrc.InvalidScheme,
					fmt.Errorf("local syndrome at offset %d has index %q, expected a digit", i, n), descriptor)
			}
			tokens = append(tokens, Token{Kind: LocalSyndrome, Digit: int(n - '0'), Offset: i, Text: descriptor[i : i+2]})
			size = 2
		case r == 'e' || r == 'E':
			tokens = append(tokens, Token{Kind: Empty, Offset: i, Text: descriptor[i : i+1]})
		default:
			tokens = append(tokens, Token{Kind: GlobalSyndrome, Offset: i, Text: descriptor[i : i+size]})
		}
		i += size
	}
	return tokens, nil
}
