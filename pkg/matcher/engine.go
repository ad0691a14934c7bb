package matcher

import (
	"fmt"

	"github.com/nsfid/nsfid/pkg/types"
)

// Config for engine initialization.
type Config struct {
	// Drivers to evaluate, in report order.
	Drivers []*types.Driver

	// ContextBytes is the number of bytes copied into each hit's snippet
	// before and after the hit offset (0 disables snippets).
	ContextBytes int
}

// compiledDriver pairs a driver with its lowered signatures.
type compiledDriver struct {
	driver *types.Driver
	index  int
	plans  []plan
}

// Engine evaluates compiled signatures against whole-file buffers.
//
// Thread Safety: an Engine is immutable after New and Match does not
// retain the buffer, so concurrent Match calls are safe.
type Engine struct {
	drivers      []compiledDriver
	contextBytes int
}

// New lowers every signature of every driver. A signature that violates
// the compiled-signature invariants is reported here, never at match time.
func New(cfg Config) (*Engine, error) {
	e := &Engine{
		drivers:      make([]compiledDriver, 0, len(cfg.Drivers)),
		contextBytes: cfg.ContextBytes,
	}

	for i, d := range cfg.Drivers {
		cd := compiledDriver{driver: d, index: i, plans: make([]plan, 0, len(d.Signatures))}
		for s, sig := range d.Signatures {
			p, err := lower(sig)
			if err != nil {
				return nil, fmt.Errorf("driver %s signature %d: %w", d.Name, s, err)
			}
			cd.plans = append(cd.plans, p)
		}
		e.drivers = append(e.drivers, cd)
	}

	return e, nil
}

// Match evaluates every driver against content and returns one hit per
// matched driver, in declaration order. Matching cannot fail; an empty
// result means no driver was identified.
func (e *Engine) Match(content []byte) []*types.Hit {
	var hits []*types.Hit
	for _, cd := range e.drivers {
		sigIndex, offset, ok := cd.match(content)
		if !ok {
			continue
		}
		hits = append(hits, &types.Hit{
			Driver:      cd.driver.Name,
			DriverIndex: cd.index,
			Signature:   sigIndex,
			Offset:      int64(offset),
			Snippet:     ExtractSnippet(content, offset, e.contextBytes),
		})
	}
	return hits
}

// DriverCount returns the number of drivers loaded into the engine.
func (e *Engine) DriverCount() int {
	return len(e.drivers)
}

// match tries the driver's signatures in order and stops at the first hit.
func (cd compiledDriver) match(content []byte) (sigIndex, offset int, ok bool) {
	for i, p := range cd.plans {
		if off, found := p.match(content); found {
			return i, off, true
		}
	}
	return 0, 0, false
}

// MatchSignature reports whether sig occurs in content and the offset of
// its first run.
func MatchSignature(sig types.Signature, content []byte) (int, bool, error) {
	p, err := lower(sig)
	if err != nil {
		return 0, false, err
	}
	off, ok := p.match(content)
	return off, ok, nil
}

// match runs the segments in order. Each run is searched from the end of
// the previously accepted run. When a run is found outside its distance
// bounds the whole attempt restarts one byte past the first run's match.
func (p plan) match(content []byte) (int, bool) {
	start := 0
	for {
		first, restart, ok := p.attempt(content, start)
		if ok {
			return first, true
		}
		if restart < 0 {
			return 0, false
		}
		start = restart
	}
}

// attempt evaluates the signature once with the first run searched from
// start. It returns the match offset on success, or the next restart point
// after a distance violation (-1 when a run is missing entirely).
func (p plan) attempt(content []byte, start int) (first, restart int, ok bool) {
	searchFrom := start
	anchor := start
	first = -1

	for i, seg := range p.segments {
		pos := Hunt(content, searchFrom, seg.run)
		if pos < 0 {
			return 0, -1, false
		}
		if i == 0 {
			first = pos
		}
		if !seg.admits(pos - anchor) {
			return 0, first + 1, false
		}
		anchor = pos + seg.run.Len()
		searchFrom = anchor
	}

	return first, 0, true
}
