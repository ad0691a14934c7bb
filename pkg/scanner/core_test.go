package scanner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/enum"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
Capcom  20 ?3 4C END
Konami  A9 0F AND 8D END  A9 10 END
Sunsoft EE EE END
`

func newRegistry(t *testing.T) (*registry.Registry, string) {
	t.Helper()
	cfg, err := config.NewLoader(log.New(&bytes.Buffer{})).Load([]byte(testConfig))
	require.NoError(t, err)
	r, err := registry.New(cfg.Drivers)
	require.NoError(t, err)
	return r, cfg.Digest
}

func newCore(t *testing.T, cfg Config) *Core {
	t.Helper()
	if cfg.Registry == nil {
		cfg.Registry, cfg.RulesetDigest = newRegistry(t)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(&bytes.Buffer{})
	}
	c, err := NewCore(cfg)
	require.NoError(t, err)
	return c
}

func TestCore_Scan(t *testing.T) {
	c := newCore(t, Config{})

	content := []byte{0x00, 0x20, 0x01, 0x02, 0x4C, 0xA9, 0x10}
	result := c.Scan("tune.nsf", content)

	assert.True(t, result.Identified)
	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, types.ComputeBlobID(content), result.BlobID)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "Capcom", result.Hits[0].Driver)
	assert.Equal(t, int64(1), result.Hits[0].Offset)
	assert.Equal(t, "Konami", result.Hits[1].Driver)
	assert.Equal(t, 1, result.Hits[1].Signature, "second alternative")
	assert.Equal(t, int64(5), result.Hits[1].Offset)

	result = c.Scan("empty.bin", nil)
	assert.False(t, result.Identified)

	assert.Equal(t, registry.Totals{Scanned: 2, Identified: 1, Unidentified: 1}, c.Session().Totals())
	assert.Equal(t, 1, c.Session().Count("Capcom"))
}

func TestCore_ScanFilter(t *testing.T) {
	var logs bytes.Buffer
	c := newCore(t, Config{
		ScanFilter: registry.NewNameSet("sunsoft", "Namco"),
		Logger:     log.New(&logs),
	})

	result := c.Scan("x", []byte{0xEE, 0xEE, 0x20, 0x00, 0x4C})
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Sunsoft", result.Hits[0].Driver)
	assert.Equal(t, 2, result.Hits[0].DriverIndex, "index in the full configuration")

	assert.Contains(t, logs.String(), "unknown driver in scan filter")
	assert.Contains(t, logs.String(), "Namco")
}

func TestCore_ReportFilterDoesNotAffectCounting(t *testing.T) {
	var logs bytes.Buffer
	c := newCore(t, Config{
		ReportFilter: registry.NewNameSet("Konami", "Nobody"),
		Logger:       log.New(&logs),
	})

	result := c.Scan("x", []byte{0x20, 0x4C})
	assert.True(t, result.Identified)
	assert.Equal(t, 1, c.Session().Count("Capcom"))
	assert.Empty(t, c.Session().ReportableHits(result))
	assert.Contains(t, logs.String(), "unknown driver in report filter")
}

func TestNewCore_Errors(t *testing.T) {
	_, err := NewCore(Config{})
	assert.Error(t, err)

	r, _ := newRegistry(t)
	_, err = NewCore(Config{Registry: r, Incremental: true})
	assert.Error(t, err)

	bad, err := registry.New([]*types.Driver{{
		Name:       "Broken",
		Signatures: []types.Signature{{Elements: []types.Element{types.And(), types.Literal(0x41), types.Terminator()}}},
	}})
	require.NoError(t, err)
	_, err = NewCore(Config{Registry: bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestCore_SelectionDigest(t *testing.T) {
	all := newCore(t, Config{})
	same := newCore(t, Config{})
	some := newCore(t, Config{ScanFilter: registry.NewNameSet("Capcom")})

	assert.Equal(t, all.Digest(), same.Digest())
	assert.NotEqual(t, all.Digest(), some.Digest())
	assert.Len(t, all.Digest(), 64)
}

func scanDir(t *testing.T, c *Core, dir string) []*types.Result {
	t.Helper()
	var results []*types.Result
	err := enum.NewFilesystemEnumerator(enum.Config{Roots: []string{dir}}).Enumerate(context.Background(), func(target enum.Target) error {
		r, err := c.ScanTarget(target)
		if err != nil {
			return err
		}
		results = append(results, r)
		return nil
	}, c.RecordFailure)
	require.NoError(t, err)
	return results
}

func TestCore_ScanTarget_Store(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nsf"), []byte{0xEE, 0xEE}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.nsf"), []byte{0x00}, 0o644))

	s := store.NewMemory()
	c := newCore(t, Config{Store: s})

	results := scanDir(t, c, dir)
	require.Len(t, results, 2)
	assert.Equal(t, "file", results[0].Provenance.Kind())

	stored, err := s.GetAllResults()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, results[0].Name, stored[0].Name)
	assert.True(t, stored[0].Identified)
	assert.False(t, stored[1].Identified)
}

func TestCore_ScanTarget_Incremental(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nsf"), []byte{0xEE, 0xEE}, 0o644))

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "nsfid.db"))
	require.NoError(t, err)
	defer s.Close()

	first := newCore(t, Config{Store: s, Incremental: true})
	scanDir(t, first, dir)
	assert.Equal(t, 0, first.Reused())

	second := newCore(t, Config{Store: s, Incremental: true})
	results := scanDir(t, second, dir)
	assert.Equal(t, 1, second.Reused())
	require.Len(t, results, 1)
	require.Len(t, results[0].Hits, 1)
	assert.Equal(t, "Sunsoft", results[0].Hits[0].Driver)
	assert.Equal(t, registry.Totals{Scanned: 1, Identified: 1}, second.Session().Totals())

	// a different selection does not reuse
	third := newCore(t, Config{Store: s, Incremental: true, ScanFilter: registry.NewNameSet("Capcom")})
	results = scanDir(t, third, dir)
	assert.Equal(t, 0, third.Reused())
	assert.False(t, results[0].Identified)
}

func TestCore_RecordFailure(t *testing.T) {
	var logs bytes.Buffer
	c := newCore(t, Config{Logger: log.New(&logs)})

	c.RecordFailure("missing.nsf", os.ErrNotExist)
	assert.Equal(t, 1, c.Session().Totals().Failed)
	assert.Contains(t, logs.String(), "missing.nsf")
}

type recordingBlobs struct {
	stored map[types.BlobID][]byte
}

func (r *recordingBlobs) Store(content []byte) (types.BlobID, error) {
	id := types.ComputeBlobID(content)
	r.stored[id] = append([]byte(nil), content...)
	return id, nil
}

func TestCore_ScanTarget_Blobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nsf"), []byte{0xEE, 0xEE}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.nsf"), []byte{0x00}, 0o644))

	blobs := &recordingBlobs{stored: make(map[types.BlobID][]byte)}
	c := newCore(t, Config{Blobs: blobs})

	results := scanDir(t, c, dir)
	require.Len(t, results, 2)
	assert.Len(t, blobs.stored, 2, "unidentified content is kept too")
	assert.Equal(t, []byte{0xEE, 0xEE}, blobs.stored[results[0].BlobID])
}
