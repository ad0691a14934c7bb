// Package report renders identification results for people and programs.
package report

import (
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
)

// View decides which hits of a result are reported.
type View interface {
	ReportableHits(result *types.Result) []*types.Hit

	// Alternatives returns the number of signatures of a driver, or 0
	// when unknown.
	Alternatives(driver string) int
}

var _ View = (*registry.Session)(nil)

// Writer renders results as they are produced.
type Writer interface {
	File(result *types.Result, view View)
	Finish(found []registry.DriverCount, totals registry.Totals) error
}

var (
	_ Writer = (*Human)(nil)
	_ Writer = (*JSON)(nil)
	_ Writer = (*SARIF)(nil)
)

// StoredView reports results read back from a store, where the driver
// config may no longer be at hand.
type StoredView struct {
	Filter registry.NameSet
}

func (v StoredView) ReportableHits(result *types.Result) []*types.Hit {
	if v.Filter.Empty() {
		return result.Hits
	}
	var hits []*types.Hit
	for _, h := range result.Hits {
		if v.Filter.Allows(h.Driver) {
			hits = append(hits, h)
		}
	}
	return hits
}

func (StoredView) Alternatives(string) int {
	return 0
}
