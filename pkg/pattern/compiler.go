// Package pattern compiles tokenized driver signatures into element sequences.
//
// Token vocabulary:
//
//	4A    two hex digits, an exact byte
//	??    any single byte
//	?N    gap of 0..N bytes before the next run
//	?MN   gap of M..M+N bytes before the next run
//	AND   gap of any length before the next run
//	END   end of signature (handled by the caller)
package pattern

import (
	"github.com/nsfid/nsfid/pkg/types"
)

// EndToken terminates a signature in config text.
const EndToken = "END"

// AndToken separates runs with an unbounded distance.
const AndToken = "AND"

// IsSignatureToken reports whether tok belongs to the signature vocabulary
// (END included). Anything else in a config is a driver name.
func IsSignatureToken(tok string) bool {
	if tok == EndToken {
		return true
	}
	_, ok := ClassifyToken(tok)
	return ok
}

// ClassifyToken converts a single signature token to its element.
// END is not an element token and is rejected here.
func ClassifyToken(tok string) (types.Element, bool) {
	switch {
	case tok == AndToken:
		return types.And(), true
	case tok == "??":
		return types.Wildcard(), true
	case len(tok) == 3 && tok[0] == '?' && isDigit(tok[1]) && isDigit(tok[2]):
		min := int(tok[1] - '0')
		return types.RangeGap(min, min+int(tok[2]-'0')), true
	case len(tok) == 2 && tok[0] == '?' && isDigit(tok[1]):
		return types.RangeGap(0, int(tok[1]-'0')), true
	case len(tok) == 2 && isHexDigit(tok[0]) && isHexDigit(tok[1]):
		return types.Literal(hexValue(tok[0])<<4 | hexValue(tok[1])), true
	}
	return types.Element{}, false
}

// Compile compiles the tokens of one signature (without the trailing END)
// for the named driver and appends the terminator.
func Compile(driver string, tokens []string) (types.Signature, error) {
	if len(tokens) == 0 {
		return types.Signature{}, &Error{Driver: driver, Err: ErrEmptySignature}
	}
	if len(tokens)+1 > types.MaxSignatureLen {
		return types.Signature{}, &Error{Driver: driver, Err: ErrSignatureTooLong}
	}

	elems := make([]types.Element, 0, len(tokens)+1)
	for i, tok := range tokens {
		e, ok := ClassifyToken(tok)
		if !ok {
			return types.Signature{}, &Error{Driver: driver, Token: tok, Err: ErrSyntax}
		}
		if i == 0 && !isLiteral(e) {
			return types.Signature{}, &Error{Driver: driver, Token: tok, Err: ErrLeadingWildcard}
		}
		elems = append(elems, e)
	}
	if !isLiteral(elems[len(elems)-1]) {
		return types.Signature{}, &Error{Driver: driver, Err: ErrTrailingWildcard}
	}

	elems = append(elems, types.Terminator())
	return types.Signature{Elements: elems}, nil
}

// isLiteral reports whether e may open or close a signature.
func isLiteral(e types.Element) bool {
	return e.Kind == types.KindLiteral
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 0xa
	case c >= 'A':
		return c - 'A' + 0xa
	default:
		return c - '0'
	}
}
