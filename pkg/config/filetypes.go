package config

import (
	"fmt"
	"strings"
)

// fileTypeSet accumulates validated, lowercased file extensions.
type fileTypeSet struct {
	types []string
	seen  map[string]bool
}

func (s *fileTypeSet) add(t string) error {
	for i := 0; i < len(t); i++ {
		if !isAlnum(t[i]) {
			return fmt.Errorf("invalid file type name '%s'", t)
		}
	}
	t = strings.ToLower(t)
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[t] {
		return fmt.Errorf("duplicate file type '%s'", t)
	}
	s.seen[t] = true
	s.types = append(s.types, t)
	return nil
}

// ParseFileTypes parses a comma-separated list of file extensions, as
// given on the command line. Empty entries are skipped.
func ParseFileTypes(list string) ([]string, error) {
	var set fileTypeSet
	for _, part := range strings.Split(list, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if err := set.add(t); err != nil {
			return nil, err
		}
	}
	return set.types, nil
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
