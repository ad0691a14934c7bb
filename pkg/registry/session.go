package registry

import (
	"github.com/nsfid/nsfid/pkg/types"
)

// DriverCount is a driver with the number of files it was identified in.
type DriverCount struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

// Totals are the aggregate tallies of a scan run.
type Totals struct {
	Scanned      int `json:"scanned"`
	Identified   int `json:"identified"`
	Unidentified int `json:"unidentified"`
	Failed       int `json:"failed"`
}

// Session is the mutable state of one scan run: per-driver counters,
// aggregate tallies and the report filter. It is owned by a single
// scanning goroutine and is not safe for concurrent use.
type Session struct {
	registry *Registry
	report   NameSet
	counts   []int
	totals   Totals
}

// NewSession creates a session over r. report restricts which matched
// drivers are surfaced; it does not affect counting.
func NewSession(r *Registry, report NameSet) *Session {
	return &Session{
		registry: r,
		report:   report,
		counts:   make([]int, r.Len()),
	}
}

// Registry returns the registry the session counts against.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Record counts one scanned file. Each driver among the hits is counted
// once, regardless of how many signatures it has.
func (s *Session) Record(result *types.Result) {
	s.totals.Scanned++

	seen := make(map[int]bool, len(result.Hits))
	for _, h := range result.Hits {
		i := s.registry.Index(h.Driver)
		if i < 0 || seen[i] {
			continue
		}
		seen[i] = true
		s.counts[i]++
	}

	if len(result.Hits) > 0 {
		s.totals.Identified++
	} else {
		s.totals.Unidentified++
	}
}

// RecordFailure counts a target that could not be read.
func (s *Session) RecordFailure() {
	s.totals.Failed++
}

// Count returns the number of files the named driver was identified in.
func (s *Session) Count(name string) int {
	i := s.registry.Index(name)
	if i < 0 {
		return 0
	}
	return s.counts[i]
}

// Totals returns the aggregate tallies.
func (s *Session) Totals() Totals {
	return s.totals
}

// Reportable reports whether hits for the named driver should be shown.
func (s *Session) Reportable(name string) bool {
	return s.report.Allows(name)
}

// ReportableHits filters result hits through the report filter.
func (s *Session) ReportableHits(result *types.Result) []*types.Hit {
	if s.report.Empty() {
		return result.Hits
	}
	var hits []*types.Hit
	for _, h := range result.Hits {
		if s.Reportable(h.Driver) {
			hits = append(hits, h)
		}
	}
	return hits
}

// Alternatives returns the number of signatures of the named driver.
func (s *Session) Alternatives(name string) int {
	d, ok := s.registry.Lookup(name)
	if !ok {
		return 0
	}
	return len(d.Signatures)
}

// Found returns drivers with a non-zero count that pass the report
// filter, in declaration order.
func (s *Session) Found() []DriverCount {
	var found []DriverCount
	for i, d := range s.registry.drivers {
		if s.counts[i] == 0 || !s.Reportable(d.Name) {
			continue
		}
		found = append(found, DriverCount{Name: d.Name, Files: s.counts[i]})
	}
	return found
}
