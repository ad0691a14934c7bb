package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/sarif"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSARIF(t *testing.T) {
	s := testSession(t, nil)
	var buf bytes.Buffer
	w := NewSARIF(&buf, "dev")

	w.File(result("a.nsf", &types.Hit{Driver: "Capcom"}, &types.Hit{Driver: "Konami", Offset: 16}), s)
	w.File(result("b.nsf", &types.Hit{Driver: "Konami", Offset: 2}), s)
	w.File(result("c.bin"), s)
	require.NoError(t, w.Finish(nil, registry.Totals{}))

	var log sarif.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))

	run := log.Runs[0]
	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "Playback driver Konami (3 signatures)", run.Tool.Driver.Rules[1].ShortDescription.Text)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "Konami", run.Results[2].RuleID)
	assert.Equal(t, 1, run.Results[2].RuleIndex)
	assert.Equal(t, "b.nsf", run.Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestSARIF_ReportFilter(t *testing.T) {
	s := testSession(t, registry.NewNameSet("capcom"))
	var buf bytes.Buffer
	w := NewSARIF(&buf, "dev")

	w.File(result("a.nsf", &types.Hit{Driver: "Capcom"}, &types.Hit{Driver: "Konami"}), s)
	require.NoError(t, w.Finish(nil, registry.Totals{}))

	var log sarif.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "Capcom", log.Runs[0].Results[0].RuleID)
}
