package types

import "fmt"

// ElementKind tags the variant held by an Element.
type ElementKind uint8

const (
	KindLiteral    ElementKind = iota // exact byte
	KindWildcard                      // any single byte ("??")
	KindRangeGap                      // bounded distance before the next run ("?MN")
	KindAnd                           // unbounded distance before the next run ("AND")
	KindTerminator                    // end of signature ("END")
)

// String returns the name of the kind.
func (k ElementKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindRangeGap:
		return "range-gap"
	case KindAnd:
		return "and"
	case KindTerminator:
		return "terminator"
	default:
		return "unknown"
	}
}

// Element is a single compiled pattern element.
// Value is meaningful for KindLiteral, Min/Max for KindRangeGap.
type Element struct {
	Kind  ElementKind
	Value byte
	Min   int
	Max   int
}

// Literal returns an element matching exactly b.
func Literal(b byte) Element {
	return Element{Kind: KindLiteral, Value: b}
}

// Wildcard returns an element matching any single byte.
func Wildcard() Element {
	return Element{Kind: KindWildcard}
}

// RangeGap returns an element requiring the next run to start min..max
// bytes (inclusive) after the end of the previous run.
func RangeGap(min, max int) Element {
	return Element{Kind: KindRangeGap, Min: min, Max: max}
}

// And returns an element placing no upper bound on the distance to the next run.
func And() Element {
	return Element{Kind: KindAnd}
}

// Terminator returns the end-of-signature element.
func Terminator() Element {
	return Element{Kind: KindTerminator}
}

// IsRunElement reports whether the element is consumed as part of a literal run.
func (e Element) IsRunElement() bool {
	return e.Kind == KindLiteral || e.Kind == KindWildcard
}

// IsSeparator reports whether the element separates two runs (gap or AND).
func (e Element) IsSeparator() bool {
	return e.Kind == KindRangeGap || e.Kind == KindAnd
}

// String renders the element in config token form.
func (e Element) String() string {
	switch e.Kind {
	case KindLiteral:
		return fmt.Sprintf("%02X", e.Value)
	case KindWildcard:
		return "??"
	case KindRangeGap:
		if e.Min == 0 {
			return fmt.Sprintf("?%d", e.Max)
		}
		return fmt.Sprintf("?%d%d", e.Min, e.Max-e.Min)
	case KindAnd:
		return "AND"
	case KindTerminator:
		return "END"
	default:
		return "<invalid>"
	}
}
