// Package matcher implements the signature engine: the hunt primitive that
// locates a single run, and the backtracking evaluation of whole signatures.
package matcher

import "github.com/nsfid/nsfid/pkg/types"

// Matcher scans a whole-file buffer for driver signatures.
type Matcher interface {
	// Match evaluates all loaded drivers against content.
	// Returns one hit per identified driver.
	Match(content []byte) []*types.Hit
}

var _ Matcher = (*Engine)(nil)
