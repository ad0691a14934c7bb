package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	s := testSession(t, registry.NewNameSet("Konami"))
	var buf bytes.Buffer
	j := NewJSON(&buf, "nsfid.cfg")

	hit := result("a.nsf", &types.Hit{Driver: "Capcom"}, &types.Hit{Driver: "Konami", Offset: 16})
	hit.Provenance = types.ArchiveProvenance{ArchivePath: "r.zip", MemberPath: "a.nsf"}
	j.File(hit, s)
	j.File(result("b.bin"), s)
	require.NoError(t, j.Finish(nil, registry.Totals{Scanned: 2, Identified: 1, Unidentified: 1}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "nsfid.cfg", doc.Config)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "archive", doc.Files[0].Kind)
	require.Len(t, doc.Files[0].Hits, 1)
	assert.Equal(t, "Konami", doc.Files[0].Hits[0].Driver)
	assert.Equal(t, int64(16), doc.Files[0].Hits[0].Offset)
	assert.Equal(t, "file", doc.Files[1].Kind)
	assert.False(t, doc.Files[1].Identified)
	assert.Empty(t, doc.Summary.Drivers)
	assert.Equal(t, 2, doc.Summary.Totals.Scanned)
}

func TestStoredView(t *testing.T) {
	r := result("a", &types.Hit{Driver: "Capcom"}, &types.Hit{Driver: "Konami"})

	assert.Len(t, StoredView{}.ReportableHits(r), 2)

	hits := StoredView{Filter: registry.NewNameSet("capcom")}.ReportableHits(r)
	require.Len(t, hits, 1)
	assert.Equal(t, "Capcom", hits[0].Driver)
	assert.Equal(t, 0, StoredView{}.Alternatives("Capcom"))
}
