package explore

import "sort"

type facetID int

const (
	facetDriver facetID = iota
	facetStatus
	facetSource
)

type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetDriver, "Driver"},
	{facetStatus, "Status"},
	{facetSource, "Source"},
}

type facetValue struct {
	Value    string
	Count    int
	Selected bool
}

// facetState holds the selectable values of every facet.
type facetState struct {
	Values map[facetID][]*facetValue
}

// buildFacets collects the distinct facet values present in files.
// Drivers are sorted by descending count, the other facets by name.
func buildFacets(files []*fileRow) *facetState {
	counts := map[facetID]map[string]int{
		facetDriver: {},
		facetStatus: {},
		facetSource: {},
	}
	for _, f := range files {
		for _, d := range f.Drivers {
			counts[facetDriver][d]++
		}
		counts[facetStatus][f.statusLabel()]++
		counts[facetSource][f.Source]++
	}

	fs := &facetState{Values: make(map[facetID][]*facetValue)}
	for id, m := range counts {
		values := make([]*facetValue, 0, len(m))
		for v, n := range m {
			values = append(values, &facetValue{Value: v, Count: n})
		}
		sort.Slice(values, func(i, j int) bool {
			if id == facetDriver && values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		fs.Values[id] = values
	}
	return fs
}

func (fs *facetState) selectedValues(id facetID) map[string]bool {
	var sel map[string]bool
	for _, v := range fs.Values[id] {
		if v.Selected {
			if sel == nil {
				sel = make(map[string]bool)
			}
			sel[v.Value] = true
		}
	}
	return sel
}

func (fs *facetState) hasActiveFilters() bool {
	for _, def := range facetDefs {
		if len(fs.selectedValues(def.ID)) > 0 {
			return true
		}
	}
	return false
}

func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesFile reports whether a file passes all active filters.
// Within a facet: OR. Across facets: AND.
func (fs *facetState) matchesFile(f *fileRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue
		}

		switch def.ID {
		case facetDriver:
			found := false
			for _, d := range f.Drivers {
				if selected[d] {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case facetStatus:
			if !selected[f.statusLabel()] {
				return false
			}
		case facetSource:
			if !selected[f.Source] {
				return false
			}
		}
	}
	return true
}

// updateCounts recounts facet values over the files that pass the filters.
func (fs *facetState) updateCounts(files []*fileRow) {
	index := make(map[facetID]map[string]*facetValue, len(fs.Values))
	for id, values := range fs.Values {
		index[id] = make(map[string]*facetValue, len(values))
		for _, v := range values {
			v.Count = 0
			index[id][v.Value] = v
		}
	}

	for _, f := range files {
		if !fs.matchesFile(f) {
			continue
		}
		for _, d := range f.Drivers {
			if v, ok := index[facetDriver][d]; ok {
				v.Count++
			}
		}
		if v, ok := index[facetStatus][f.statusLabel()]; ok {
			v.Count++
		}
		if v, ok := index[facetSource][f.Source]; ok {
			v.Count++
		}
	}
}
