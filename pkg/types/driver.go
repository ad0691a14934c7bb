package types

import "strings"

// MaxSignatureLen is the maximum number of elements in a compiled
// signature, terminator included.
const MaxSignatureLen = 256

// Signature is one compiled alternative for identifying a driver.
// It always ends with a terminator element.
type Signature struct {
	Elements []Element
}

// String renders the signature in config token form, terminator included.
func (s Signature) String() string {
	tokens := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		tokens[i] = e.String()
	}
	return strings.Join(tokens, " ")
}

// Len returns the number of elements, terminator included.
func (s Signature) Len() int {
	return len(s.Elements)
}

// Driver is a named playback routine with one or more alternative signatures.
// Any one matching signature identifies the driver.
type Driver struct {
	Name       string
	Signatures []Signature
}

// Key returns the case-folded name used for uniqueness and filtering.
func (d *Driver) Key() string {
	return NameKey(d.Name)
}

// NameKey case-folds a driver name.
func NameKey(name string) string {
	return strings.ToLower(name)
}
