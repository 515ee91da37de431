package store

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_SnapshotPayload(t *testing.T) {
	c := newCompressor(t)

	entries := make(map[string]Entry)
	for i := 0; i < 500; i++ {
		entries["yt:cid:@channel"+strings.Repeat("x", i%7)] = Entry{Value: "UCabcdefghijklmnopqrstuv"}
	}
	raw, err := json.Marshal(entries)
	require.NoError(t, err)

	packed, err := c.Compress(raw)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(raw))

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, raw, unpacked)
}

func TestZstdCompression_DecompressInvalid(t *testing.T) {
	c := newCompressor(t)

	_, err := c.Decompress([]byte("not valid zstd data"))
	assert.Error(t, err)
}
