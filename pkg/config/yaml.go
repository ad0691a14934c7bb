package config

import (
	"fmt"
	"strings"

	"github.com/nsfid/nsfid/pkg/pattern"
	"github.com/nsfid/nsfid/pkg/types"
	"gopkg.in/yaml.v3"
)

// yamlDriver is the intermediate struct for a driver in YAML form.
// Each signature is a string of tokens; a trailing END is optional.
type yamlDriver struct {
	Name       string   `yaml:"name"`
	Signatures []string `yaml:"signatures"`
}

// yamlConfigFile represents the top-level structure of a YAML config.
type yamlConfigFile struct {
	FileTypes []string     `yaml:"filetypes,omitempty"`
	Drivers   []yamlDriver `yaml:"drivers"`
}

// LoadYAML parses a YAML config. Signatures follow the same rules as the
// text format.
func (l *Loader) LoadYAML(data []byte) (*Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrBlankConfig
	}

	var file yamlConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Drivers) == 0 {
		return nil, ErrNoDrivers
	}

	p := newParser(l.logger)
	for _, t := range file.FileTypes {
		if err := p.exts.add(t); err != nil {
			return nil, err
		}
	}

	for _, yd := range file.Drivers {
		if yd.Name == "" || pattern.IsSignatureToken(yd.Name) || yd.Name == FileTypesDirective {
			return nil, fmt.Errorf("invalid driver name %q", yd.Name)
		}
		if err := p.startDriver(yd.Name); err != nil {
			return nil, err
		}
		for _, s := range yd.Signatures {
			if err := p.yamlSignature(s); err != nil {
				return nil, err
			}
		}
	}

	drivers, err := p.finish()
	if err != nil {
		return nil, err
	}
	return &Config{
		Drivers:   drivers,
		FileTypes: p.exts.types,
		Digest:    types.ComputeBlobID(data).Hex(),
	}, nil
}

// yamlSignature compiles one signature string. Only the final token may be
// END; an END anywhere else fails compilation as a syntax error.
func (p *parser) yamlSignature(s string) error {
	tokens := Tokenize([]byte(s))
	if n := len(tokens); n > 0 && tokens[n-1] == pattern.EndToken {
		tokens = tokens[:n-1]
	}
	p.pending = append(p.pending[:0], tokens...)
	return p.endSignature()
}
