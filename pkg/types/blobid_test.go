package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHex = "123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0"

func sampleBlobID() BlobID {
	var id BlobID
	for i := range id {
		id[i] = []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}[i%8]
	}
	return id
}

func TestComputeBlobID(t *testing.T) {
	// BLAKE3 test vector for empty input
	empty := ComputeBlobID(nil)
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", empty.Hex())

	a := ComputeBlobID([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	b := ComputeBlobID([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	c := ComputeBlobID([]byte{0xDE, 0xAD, 0xBE, 0xEE})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.False(t, a.IsZero())
	assert.True(t, BlobID{}.IsZero())
}

func TestBlobID_HexAndString(t *testing.T) {
	id := sampleBlobID()
	assert.Equal(t, sampleHex, id.Hex())
	assert.Equal(t, sampleHex, id.String())
}

func TestParseBlobID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{name: "valid hex", input: sampleHex},
		{name: "too short", input: sampleHex[:63], expectErr: true},
		{name: "too long", input: sampleHex + "0", expectErr: true},
		{name: "invalid hex", input: "zz" + sampleHex[2:], expectErr: true},
		{name: "uppercase valid", input: strings.ToUpper(sampleHex)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseBlobID(tt.input)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(tt.input), id.Hex())
		})
	}
}

func TestBlobID_JSON(t *testing.T) {
	id := sampleBlobID()

	data, err := id.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"`+sampleHex+`"`, string(data))

	var decoded BlobID
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, id, decoded)

	assert.Error(t, decoded.UnmarshalJSON([]byte(`"invalid"`)))
	assert.Error(t, decoded.UnmarshalJSON([]byte(`123`)))
}

func TestBlobID_SQL(t *testing.T) {
	id := sampleBlobID()

	v, err := id.Value()
	require.NoError(t, err)
	assert.Equal(t, sampleHex, v)

	var fromString, fromBytes BlobID
	require.NoError(t, fromString.Scan(sampleHex))
	require.NoError(t, fromBytes.Scan([]byte(sampleHex)))
	assert.Equal(t, id, fromString)
	assert.Equal(t, id, fromBytes)

	assert.Error(t, fromString.Scan(nil))
	assert.Error(t, fromString.Scan(42))
}
