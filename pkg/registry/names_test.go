package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: []string{}},
		{name: "single name", input: "Capcom", expected: []string{"Capcom"}},
		{name: "comma separated", input: "Capcom,Konami", expected: []string{"Capcom", "Konami"}},
		{name: "whitespace trimmed", input: " Capcom , Konami ,", expected: []string{"Capcom", "Konami"}},
		{name: "case-insensitive duplicates collapse", input: "Capcom,CAPCOM", expected: []string{"CAPCOM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseNames(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, set.Names())
		})
	}
}

func TestParseNames_Invalid(t *testing.T) {
	_, err := ParseNames("Capcom,Rob Hubbard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rob Hubbard")

	_, err = ParseNames("bad\x01name")
	assert.Error(t, err)
}

func TestNameSet_Allows(t *testing.T) {
	var empty NameSet
	assert.True(t, empty.Empty())
	assert.True(t, empty.Allows("anything"))

	set := NewNameSet("Capcom")
	assert.False(t, set.Empty())
	assert.True(t, set.Allows("capcom"))
	assert.False(t, set.Allows("Konami"))
}
