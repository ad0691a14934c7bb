package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/nsfid/nsfid/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRescanFlags(dsPath, cfgPath string) {
	rescanDatastore = dsPath
	rescanConfigPath = cfgPath
	rescanFormat = "human"
	rescanColor = "never"
	rescanReportDrivers = ""
	rescanOnlyDrivers = ""
	rescanUnidentified = false
	rescanOnlyUnidentified = false
	rescanContextBytes = 16
}

func TestRunRescan(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanDatastore = filepath.Join(t.TempDir(), "nsfid.ds")
	scanStoreBlobs = true
	scanOnlyDrivers = "Galway"

	output, err := runScanCapture(t, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Identified:      1")

	resetRescanFlags(scanDatastore, cfgPath)
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runRescan(cmd, []string{}))
	assert.Contains(t, buf.String(), "Files examined:  4")
	assert.Contains(t, buf.String(), "Identified:      3")
	assert.Regexp(t, `Hubbard\s+2`, buf.String())
}

func TestRunRescan_WithoutBlobs(t *testing.T) {
	cfgPath, dir := writeTestTree(t)
	resetScanFlags(cfgPath)
	scanDatastore = filepath.Join(t.TempDir(), "nsfid.ds")

	_, err := runScanCapture(t, dir)
	require.NoError(t, err)

	resetRescanFlags(scanDatastore, cfgPath)
	err = runRescan(&cobra.Command{}, []string{})
	assert.ErrorContains(t, err, "no stored blobs")
}

func TestRunRescan_MissingDatastore(t *testing.T) {
	resetRescanFlags(filepath.Join(t.TempDir(), "none.ds"), "nsfid.cfg")

	err := runRescan(&cobra.Command{}, []string{})
	assert.ErrorContains(t, err, "datastore not found")
}

func TestUniqueFiles(t *testing.T) {
	a := types.ComputeBlobID([]byte("a"))
	b := types.ComputeBlobID([]byte("b"))
	results := []*types.Result{
		{Name: "x.nsf", BlobID: a},
		{Name: "y.nsf", BlobID: a},
		{Name: "x.nsf", BlobID: a},
		{Name: "x.nsf", BlobID: b},
	}

	unique := uniqueFiles(results)
	require.Len(t, unique, 3)
	assert.Same(t, results[0], unique[0])
	assert.Same(t, results[3], unique[2])
}
