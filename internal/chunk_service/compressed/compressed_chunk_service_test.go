package compressed

import (
	"bytes"
	"testing"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/chunk_service/inmemory"
	"github.com/stretchr/testify/require"
)

func TestCompressedChunkService_RoundTrip(t *testing.T) {
	base := inmemory.NewInMemoryChunkService()
	cs, err := NewCompressedChunkService(base)
	require.NoError(t, err)
	defer cs.Close()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "short", data: []byte("hello")},
		{name: "repetitive", data: bytes.Repeat([]byte("fat32 "), 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := cs.PutChunk(tt.name, tt.data)
			require.NoError(t, err)
			require.Equal(t, int64(len(tt.data)), n)

			got, err := cs.ReadChunk(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.data, got)

			length, err := cs.ChunkLength(tt.name)
			require.NoError(t, err)
			require.Equal(t, int64(len(tt.data)), length)
		})
	}

	stored, err := base.ChunkLength("repetitive")
	require.NoError(t, err)
	require.Less(t, stored, int64(12000))
}

func TestCompressedChunkService_PassThrough(t *testing.T) {
	base := inmemory.NewInMemoryChunkService()
	cs, err := NewCompressedChunkService(base)
	require.NoError(t, err)
	defer cs.Close()

	_, err = cs.ReadChunk("missing")
	require.ErrorIs(t, err, chunk_service.ErrChunkNotFound)

	_, err = cs.PutChunk("a", []byte("abc"))
	require.NoError(t, err)
	exists, err := cs.ChunkExists("a")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, cs.DeleteChunk("a"))
	exists, err = cs.ChunkExists("a")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = cs.PutChunk("b", []byte("abc"))
	require.NoError(t, err)
	require.NoError(t, cs.Purge())
	require.Equal(t, 0, base.Len())
}
