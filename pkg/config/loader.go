// Package config loads driver signature databases.
//
// The text format is a stream of whitespace-separated tokens. A token that
// is not part of the signature vocabulary names a new driver; the signature
// tokens after it accumulate until END. An optional FILETYPES ... END
// directive lists the file extensions scanned by default. YAML files
// (.yml, .yaml) carry the same information in a structured form.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nsfid/nsfid/pkg/pattern"
	"github.com/nsfid/nsfid/pkg/types"
)

// FileTypesDirective opens the file type list in config text.
const FileTypesDirective = "FILETYPES"

// DefaultSuffix is appended to a config path that cannot be opened.
const DefaultSuffix = ".cfg"

var (
	ErrBlankConfig        = errors.New("config file is blank")
	ErrNoDrivers          = errors.New("no drivers defined in configuration file")
	ErrUnexpectedEOF      = errors.New("unexpected end of configuration file")
	ErrDuplicateFiletypes = errors.New("multiple FILETYPES directives")
	ErrFiletypesNoEnd     = errors.New("FILETYPES directive with no END")
	ErrDuplicateDriver    = errors.New("duplicate driver name")
)

// Config is a loaded driver database.
type Config struct {
	Drivers   []*types.Driver
	FileTypes []string // from the FILETYPES directive, lowercased
	Source    string   // path the config was read from, if any
	Digest    string   // BLAKE3 of the raw config bytes
}

// Loader parses driver configs.
type Loader struct {
	logger *log.Logger
}

// NewLoader creates a loader. Warnings go to logger, or to the default
// logger when nil.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{logger: logger}
}

// LoadFile reads a config from path. If path cannot be opened, path+".cfg"
// is tried before giving up. The format is chosen by extension.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		alt := path + DefaultSuffix
		var altErr error
		data, altErr = os.ReadFile(alt)
		if altErr != nil {
			return nil, fmt.Errorf("no such config file '%s': %w", path, err)
		}
		path = alt
	}

	l.logger.Debug("reading configuration file", "path", path)

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		cfg, err = l.LoadYAML(data)
	default:
		cfg, err = l.Load(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Load parses config text.
func (l *Loader) Load(data []byte) (*Config, error) {
	tokens := Tokenize(data)
	if len(tokens) == 0 {
		return nil, ErrBlankConfig
	}

	p := newParser(l.logger)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == FileTypesDirective {
			n, err := p.fileTypes(tokens[i+1:])
			if err != nil {
				return nil, err
			}
			i += n
			continue
		}
		if err := p.token(tok); err != nil {
			return nil, err
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

// parser holds the state of a text config being read token by token.
type parser struct {
	logger    *log.Logger
	drivers   []*types.Driver
	seen      map[string]bool
	current   *types.Driver
	pending   []string // signature tokens since the last END
	exts      fileTypeSet
	haveTypes bool
}

func newParser(logger *log.Logger) *parser {
	return &parser{logger: logger, seen: make(map[string]bool)}
}

// fileTypes consumes a FILETYPES list and returns the number of tokens
// used, END included.
func (p *parser) fileTypes(rest []string) (int, error) {
	if p.haveTypes {
		return 0, ErrDuplicateFiletypes
	}
	p.haveTypes = true
	for i, tok := range rest {
		if tok == pattern.EndToken {
			return i + 1, nil
		}
		if err := p.exts.add(tok); err != nil {
			return 0, err
		}
	}
	return 0, ErrFiletypesNoEnd
}

func (p *parser) token(tok string) error {
	switch {
	case tok == pattern.EndToken:
		return p.endSignature()
	case pattern.IsSignatureToken(tok):
		if p.current == nil {
			return &pattern.Error{Err: pattern.ErrNoDriver}
		}
		p.pending = append(p.pending, tok)
		return nil
	default:
		return p.startDriver(tok)
	}
}

func (p *parser) endSignature() error {
	if p.current == nil {
		return &pattern.Error{Err: pattern.ErrNoDriver}
	}
	sig, err := pattern.Compile(p.current.Name, p.pending)
	if err != nil {
		return err
	}
	p.current.Signatures = append(p.current.Signatures, sig)
	p.pending = p.pending[:0]
	return nil
}

func (p *parser) startDriver(name string) error {
	if len(p.pending) > 0 {
		return &pattern.Error{Driver: p.current.Name, Err: pattern.ErrUnterminated}
	}
	p.warnEmpty()

	key := types.NameKey(name)
	if p.seen[key] {
		return fmt.Errorf("%w \"%s\"", ErrDuplicateDriver, name)
	}
	p.seen[key] = true

	p.current = &types.Driver{Name: name}
	p.drivers = append(p.drivers, p.current)
	return nil
}

func (p *parser) warnEmpty() {
	if p.current != nil && len(p.current.Signatures) == 0 {
		p.logger.Warn("driver has no signatures", "driver", p.current.Name)
	}
}

func (p *parser) finish() ([]*types.Driver, error) {
	if len(p.drivers) == 0 {
		return nil, ErrNoDrivers
	}
	if len(p.pending) > 0 {
		return nil, ErrUnexpectedEOF
	}
	p.warnEmpty()
	return p.drivers, nil
}
