package registry

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/nsfid/nsfid/pkg/types"
)

// NameSet is a case-insensitive set of driver names.
// A nil or empty set means "no restriction".
type NameSet map[string]string // key -> name as given

// ParseNames splits a comma-separated list of driver names.
// Names are trimmed of whitespace; empty entries are skipped.
// Returns error if a name contains whitespace or non-printable characters.
func ParseNames(list string) (NameSet, error) {
	set := make(NameSet)
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		for _, r := range name {
			if !unicode.IsGraphic(r) || unicode.IsSpace(r) {
				return nil, fmt.Errorf("invalid driver name %q", name)
			}
		}
		set[types.NameKey(name)] = name
	}
	return set, nil
}

// NewNameSet builds a set from already-split names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[types.NameKey(n)] = n
	}
	return set
}

// Empty reports whether the set places no restriction.
func (s NameSet) Empty() bool {
	return len(s) == 0
}

// Allows reports whether name passes the filter. An empty set allows everything.
func (s NameSet) Allows(name string) bool {
	if s.Empty() {
		return true
	}
	_, ok := s[types.NameKey(name)]
	return ok
}

// Names returns the names as given, sorted case-insensitively.
func (s NameSet) Names() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s[k]
	}
	return names
}
