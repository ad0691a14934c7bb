// Package nsfid identifies the playback driver of binary music rips by
// matching byte signatures.
//
// # Basic Usage
//
// Load a driver config and identify a buffer:
//
//	id, err := nsfid.NewIdentifier(nsfid.WithConfigFile("nsfid.cfg"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, hit := range id.IdentifyBytes(data) {
//	    fmt.Printf("%s at offset %d\n", hit.Driver, hit.Offset)
//	}
//
// # Signatures
//
// Drivers may also be built in code:
//
//	sig, err := nsfid.CompileSignature("Hubbard", "A2 ?4 BD AND 60")
//	id, err := nsfid.NewIdentifier(nsfid.WithDrivers([]*nsfid.Driver{
//	    {Name: "Hubbard", Signatures: []nsfid.Signature{sig}},
//	}))
package nsfid

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/enum"
	"github.com/nsfid/nsfid/pkg/matcher"
	"github.com/nsfid/nsfid/pkg/pattern"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Driver is a named playback routine with alternative signatures.
	Driver = types.Driver

	// Signature is a compiled byte pattern.
	Signature = types.Signature

	// Hit records that a driver matched.
	Hit = types.Hit

	// Result is the outcome of identifying one file.
	Result = types.Result

	// Snippet holds bytes around a hit.
	Snippet = types.Snippet
)

// Identifier matches buffers against a fixed driver set.
// It is immutable after construction and safe for concurrent use.
type Identifier struct {
	matcher  matcher.Matcher
	registry *registry.Registry
	config   *identifierConfig
}

// identifierConfig holds identifier configuration.
type identifierConfig struct {
	drivers      []*types.Driver
	configPath   string
	configText   []byte
	contextBytes int
	logger       *log.Logger
}

// Option configures an Identifier.
type Option func(*identifierConfig)

// WithDrivers uses already-built drivers.
func WithDrivers(drivers []*Driver) Option {
	return func(c *identifierConfig) {
		c.drivers = drivers
	}
}

// WithConfigFile loads drivers from a config file (text or YAML).
func WithConfigFile(path string) Option {
	return func(c *identifierConfig) {
		c.configPath = path
	}
}

// WithConfigText loads drivers from config text.
func WithConfigText(text string) Option {
	return func(c *identifierConfig) {
		c.configText = []byte(text)
	}
}

// WithContextBytes sets the number of bytes captured around each hit.
// Default is 16.
func WithContextBytes(n int) Option {
	return func(c *identifierConfig) {
		c.contextBytes = n
	}
}

// WithLogger routes config warnings to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *identifierConfig) {
		c.logger = logger
	}
}

// NewIdentifier creates an Identifier. Exactly one driver source must be
// given: WithDrivers, WithConfigFile or WithConfigText.
func NewIdentifier(opts ...Option) (*Identifier, error) {
	cfg := &identifierConfig{contextBytes: 16}
	for _, opt := range opts {
		opt(cfg)
	}

	drivers, err := cfg.loadDrivers()
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(drivers)
	if err != nil {
		return nil, err
	}

	m, err := matcher.New(matcher.Config{
		Drivers:      reg.Drivers(),
		ContextBytes: cfg.contextBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	return &Identifier{matcher: m, registry: reg, config: cfg}, nil
}

func (c *identifierConfig) loadDrivers() ([]*types.Driver, error) {
	sources := 0
	for _, set := range []bool{c.drivers != nil, c.configPath != "", c.configText != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one driver source is required, got %d", sources)
	}

	loader := config.NewLoader(c.logger)
	switch {
	case c.configPath != "":
		loaded, err := loader.LoadFile(c.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return loaded.Drivers, nil
	case c.configText != nil:
		loaded, err := loader.Load(c.configText)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return loaded.Drivers, nil
	default:
		return c.drivers, nil
	}
}

// IdentifyBytes returns one hit per matching driver, in declaration order.
func (i *Identifier) IdentifyBytes(content []byte) []*Hit {
	return i.matcher.Match(content)
}

// IdentifyFile loads and identifies a single file.
func (i *Identifier) IdentifyFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	var result *Result
	var readErr error

	e := enum.NewFilesystemEnumerator(enum.Config{Roots: []string{path}})
	err = e.Enumerate(context.Background(), func(t enum.Target) error {
		hits := i.IdentifyBytes(t.Content)
		result = &Result{
			Name:       t.Name,
			BlobID:     t.BlobID,
			Size:       int64(len(t.Content)),
			Provenance: t.Provenance,
			Hits:       hits,
			Identified: len(hits) > 0,
		}
		return nil
	}, func(p string, err error) {
		readErr = err
	})
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading file: %w", readErr)
	}
	return result, nil
}

// DriverCount returns the number of drivers loaded.
func (i *Identifier) DriverCount() int {
	return i.registry.Len()
}

// Drivers returns a copy of the loaded drivers.
func (i *Identifier) Drivers() []*Driver {
	return i.registry.Drivers()
}

// LoadConfigFile loads the drivers of a config file.
func LoadConfigFile(path string) ([]*Driver, error) {
	cfg, err := config.NewLoader(nil).LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.Drivers, nil
}

// CompileSignature compiles a whitespace-separated signature for driver.
// A trailing END is optional.
func CompileSignature(driver, text string) (Signature, error) {
	tokens := config.Tokenize([]byte(text))
	if n := len(tokens); n > 0 && tokens[n-1] == pattern.EndToken {
		tokens = tokens[:n-1]
	}
	return pattern.Compile(driver, tokens)
}
