// Package scanner drives identification: it matches each target against
// the selected drivers, records the outcome in the scan session and
// persists it to the result store.
package scanner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/zeebo/blake3"

	"github.com/nsfid/nsfid/pkg/enum"
	"github.com/nsfid/nsfid/pkg/matcher"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/nsfid/nsfid/pkg/types"
)

// Config for Core initialization.
type Config struct {
	// Registry holds every loaded driver.
	Registry *registry.Registry

	// ScanFilter restricts which drivers are evaluated (empty = all).
	ScanFilter registry.NameSet

	// ReportFilter restricts which matched drivers are reported (empty = all).
	ReportFilter registry.NameSet

	// ContextBytes is the snippet size around each hit.
	ContextBytes int

	// Store receives every result when set.
	Store store.Store

	// Incremental reuses stored hits for content already scanned with the
	// same drivers. Requires Store.
	Incremental bool

	// RulesetDigest identifies the loaded config.
	RulesetDigest string

	// Blobs keeps a copy of every scanned buffer when set.
	Blobs BlobWriter

	Logger *log.Logger
}

// BlobWriter stores scanned content by its BlobID.
type BlobWriter interface {
	Store(content []byte) (types.BlobID, error)
}

// Core wraps the matcher, session and store for scanning operations.
// It is not safe for concurrent use.
type Core struct {
	matcher     matcher.Matcher
	registry    *registry.Registry
	session     *registry.Session
	store       store.Store
	blobs       BlobWriter
	incremental bool
	digest      string
	logger      *log.Logger
	reused      int
}

// NewCore selects the drivers to evaluate and builds the engine.
// Unknown names in either filter are logged as warnings.
func NewCore(cfg Config) (*Core, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Incremental && cfg.Store == nil {
		return nil, fmt.Errorf("incremental scanning requires a store")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	selected, unknown := cfg.Registry.Select(cfg.ScanFilter)
	for _, name := range unknown {
		logger.Warn("unknown driver in scan filter", "driver", name)
	}
	for _, name := range cfg.ReportFilter.Names() {
		if _, ok := cfg.Registry.Lookup(name); !ok {
			logger.Warn("unknown driver in report filter", "driver", name)
		}
	}

	m, err := matcher.New(matcher.Config{
		Drivers:      selected,
		ContextBytes: cfg.ContextBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("building matcher: %w", err)
	}

	logger.Debug("matcher ready", "drivers", len(selected), "signatures", cfg.Registry.SignatureCount())

	return &Core{
		matcher:     m,
		registry:    cfg.Registry,
		session:     registry.NewSession(cfg.Registry, cfg.ReportFilter),
		store:       cfg.Store,
		blobs:       cfg.Blobs,
		incremental: cfg.Incremental,
		digest:      selectionDigest(cfg.RulesetDigest, selected),
		logger:      logger,
	}, nil
}

// selectionDigest folds the evaluated driver names into the config digest
// so stored hits are only reused for the same driver selection.
func selectionDigest(rulesetDigest string, selected []*types.Driver) string {
	names := make([]string, len(selected))
	for i, d := range selected {
		names[i] = d.Name
	}
	sum := blake3.Sum256([]byte(rulesetDigest + "\n" + strings.Join(names, "\n")))
	return fmt.Sprintf("%x", sum[:])
}

// Session returns the scan session holding counters and tallies.
func (c *Core) Session() *registry.Session {
	return c.session
}

// Digest returns the key under which results are stored.
func (c *Core) Digest() string {
	return c.digest
}

// Reused returns the number of targets answered from the store.
func (c *Core) Reused() int {
	return c.reused
}

// Scan identifies a single buffer and records it in the session.
func (c *Core) Scan(name string, content []byte) *types.Result {
	result := c.match(name, content, types.ComputeBlobID(content))
	c.session.Record(result)
	return result
}

// ScanTarget identifies an enumerated target, reusing stored hits in
// incremental mode, and persists the result and its content.
func (c *Core) ScanTarget(target enum.Target) (*types.Result, error) {
	if c.blobs != nil {
		if _, err := c.blobs.Store(target.Content); err != nil {
			return nil, fmt.Errorf("storing blob for %s: %w", target.Name, err)
		}
	}

	if c.incremental {
		cached, ok, err := c.store.GetScan(target.BlobID, c.digest)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", target.Name, err)
		}
		if ok {
			c.reused++
			cached.Name = target.Name
			cached.Provenance = target.Provenance
			c.logger.Debug("reusing stored result", "file", target.Name, "blob", target.BlobID.Hex())
			c.session.Record(cached)
			return cached, c.persist(cached)
		}
	}

	result := c.match(target.Name, target.Content, target.BlobID)
	result.Provenance = target.Provenance
	c.session.Record(result)
	return result, c.persist(result)
}

func (c *Core) match(name string, content []byte, id types.BlobID) *types.Result {
	hits := c.matcher.Match(content)
	// engine indexes are positions among the selected drivers
	for _, h := range hits {
		h.DriverIndex = c.registry.Index(h.Driver)
	}

	result := &types.Result{
		Name:       name,
		BlobID:     id,
		Size:       int64(len(content)),
		Provenance: types.FileProvenance{FilePath: name},
		Hits:       hits,
		Identified: len(hits) > 0,
	}
	c.logger.Debug("scanned", "file", name, "size", result.Size, "hits", len(hits))
	return result
}

func (c *Core) persist(result *types.Result) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.AddScan(result, c.digest); err != nil {
		return fmt.Errorf("storing %s: %w", result.Name, err)
	}
	return nil
}

// RecordFailure counts a target that could not be read.
func (c *Core) RecordFailure(path string, err error) {
	c.logger.Warn("cannot read", "path", path, "err", err)
	c.session.RecordFailure()
}
