package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/nsfid/nsfid/pkg/datastore"
	"github.com/nsfid/nsfid/pkg/report"
	"github.com/nsfid/nsfid/pkg/sarif"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `FILETYPES nsf sid END

Hubbard
  4C ?? ?? A9 00 END
  A2 ?4 BD AND 60 END

Galway
  20 ?12 EA END
`

// writeTestTree creates a config and a small set of rips.
func writeTestTree(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	root := t.TempDir()
	cfgPath = filepath.Join(root, "drivers.cfg")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0644))

	dir = filepath.Join(root, "rips")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	files := map[string][]byte{
		"a.nsf":     {0x00, 0x4C, 0x10, 0x20, 0xA9, 0x00},
		"b.sid":     {0x20, 0x00, 0x00, 0xEA},
		"c.nsf":     {0x01, 0x02, 0x03},
		"notes.txt": {0x4C, 0x10, 0x20, 0xA9, 0x00},
		"sub/d.sid": {0xA2, 0x00, 0xBD, 0x01, 0x02, 0x60},
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	return cfgPath, dir
}

func resetScanFlags(cfgPath string) {
	scanConfigPath = cfgPath
	scanAllFiles = false
	scanNoRecurse = false
	scanFileTypes = ""
	scanReportDrivers = ""
	scanOnlyDrivers = ""
	scanUnidentified = false
	scanOnlyUnidentified = false
	scanFormat = "human"
	scanColor = "never"
	scanOutputPath = store.MemoryPath
	scanDatastore = ""
	scanStoreBlobs = false
	scanIncremental = false
	scanExtractArchives = false
	scanSkipHidden = false
	scanGitignore = false
	scanMaxFileSize = 0
	scanContextBytes = 16
	verbose = false
	logger = log.New(&bytes.Buffer{})
}

func runScanCapture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := runScan(cmd, args)
	return buf.String(), err
}

func TestRunScan(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)

	assert.Contains(t, output, "Reading configuration file "+cfgPath)
	assert.Contains(t, output, "Scanning filetypes nsf, sid")
	assert.Contains(t, output, "Found drivers:")
	assert.Contains(t, output, "Files examined:  4")
	assert.Contains(t, output, "Identified:      3")
	assert.Contains(t, output, "Unidentified:    1")
	assert.NotContains(t, output, "notes.txt")
	assert.NotContains(t, output, "*Unidentified*")
}

func TestRunScan_AllFilesAndUnidentified(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanAllFiles = true
	scanUnidentified = true

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)

	assert.Contains(t, output, "Scanning all filetypes")
	assert.Contains(t, output, "notes.txt")
	assert.Contains(t, output, "*Unidentified*")
	assert.Contains(t, output, "Files examined:  5")
}

func TestRunScan_NoRecurse(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanNoRecurse = true

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Files examined:  3")
	assert.NotContains(t, output, "d.sid")
}

func TestRunScan_DriverFilter(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanReportDrivers = "galway"

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Galway")
	assert.NotContains(t, output, "Hubbard")
}

func TestRunScan_JSON(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanFormat = "json"

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Len(t, doc.Files, 4)
	assert.Equal(t, 3, doc.Summary.Totals.Identified)
}

func TestRunScan_SARIF(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanFormat = "sarif"

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)

	var doc sarif.Report
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	require.Len(t, doc.Runs, 1)
	assert.Len(t, doc.Runs[0].Results, 3)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 2)
}

func TestRunScan_Persist(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanOutputPath = filepath.Join(t.TempDir(), "scan.db")
	scanIncremental = true

	_, err := runScanCapture(t, dir)
	require.NoError(t, err)
	_, err = os.Stat(scanOutputPath)
	assert.NoError(t, err, "database file should be created")

	// second run is served from the database and reports the same
	output, err := runScanCapture(t, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Identified:      3")
}

func TestRunScan_Datastore(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanDatastore = filepath.Join(t.TempDir(), "nsfid.ds")
	scanStoreBlobs = true

	_, err := runScanCapture(t, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(scanDatastore, datastore.DatabaseFile))
	entries, err := os.ReadDir(filepath.Join(scanDatastore, "blobs"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestRunScan_StoreOptionConflicts(t *testing.T) {
	cfgPath, dir := writeTestTree(t)

	resetScanFlags(cfgPath)
	scanStoreBlobs = true
	_, err := runScanCapture(t, dir)
	assert.ErrorContains(t, err, "--store-blobs requires --datastore")

	resetScanFlags(cfgPath)
	scanDatastore = filepath.Join(t.TempDir(), "nsfid.ds")
	scanOutputPath = filepath.Join(t.TempDir(), "scan.db")
	_, err = runScanCapture(t, dir)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestRunScan_IncrementalNeedsDatabase(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanIncremental = true

	_, err := runScanCapture(t, dir)
	assert.Error(t, err)
}

func TestRunScan_MissingConfig(t *testing.T) {
	_, dir := writeTestTree(t)
	resetScanFlags(filepath.Join(dir, "missing"))

	_, err := runScanCapture(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such config file")
}

func TestRunScan_UnknownFormat(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanFormat = "xml"

	_, err := runScanCapture(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRunScan_UnreadableTarget(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)

	output, err := runScanCapture(t, dir, filepath.Join(dir, "absent.nsf"))
	require.NoError(t, err)
	assert.Contains(t, output, "Unreadable:      1")
}

func TestScanCommand_Flags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"scan"})
	require.NoError(t, err)

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "nsfid.cfg", flag.DefValue)
	assert.Equal(t, "c", flag.Shorthand)

	for _, name := range []string{"all-files", "no-recurse", "unidentified", "only-unidentified"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
}
