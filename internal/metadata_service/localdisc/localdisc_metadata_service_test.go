package localdisc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, dir, codecName string) *LocalDiscMetadataService {
	t.Helper()
	codec, err := metadata_service.NewCodec(codecName)
	require.NoError(t, err)
	ms, err := NewLocalDiscMetadataService(dir, codec, console.NewDiscardLogService())
	require.NoError(t, err)
	return ms
}

func TestLocalDiscMetadataService_LoadWithoutState(t *testing.T) {
	ms := newService(t, t.TempDir(), metadata_service.CodecJSON)
	_, err := ms.LoadState()
	require.ErrorIs(t, err, metadata_service.ErrNoState)
}

func TestLocalDiscMetadataService_SaveLoad(t *testing.T) {
	for _, codec := range []string{metadata_service.CodecJSON, metadata_service.CodecCBOR} {
		t.Run(codec, func(t *testing.T) {
			dir := t.TempDir()
			st, err := volume.New(40960, 4096)
			require.NoError(t, err)
			chain, err := st.Allocator.Allocate(3)
			require.NoError(t, err)
			st.Files["a.txt"] = &volume.FileRecord{Name: "a.txt", Chain: chain, Length: 9000}

			ms := newService(t, dir, codec)
			require.NoError(t, ms.SaveState(st.ToDocument()))

			// A second service over the same directory sees the same state.
			reopened := newService(t, dir, codec)
			doc, err := reopened.LoadState()
			require.NoError(t, err)
			require.Equal(t, st.ToDocument(), doc)

			loaded, err := volume.FromDocument(doc, nil)
			require.NoError(t, err)
			require.Equal(t, []int{1, 2, -1, 0, 0, 0, 0, 0, 0, 0}, loaded.Allocator.Table())
		})
	}
}

func TestLocalDiscMetadataService_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ms := newService(t, dir, metadata_service.CodecJSON)

	for i := 1; i <= 3; i++ {
		st, err := volume.New(int64(i)*4096, 4096)
		require.NoError(t, err)
		require.NoError(t, ms.SaveState(st.ToDocument()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, StateFileName, entries[0].Name())

	doc, err := ms.LoadState()
	require.NoError(t, err)
	require.Equal(t, 3, doc.TotalClusters)
}

func TestLocalDiscMetadataService_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("garbage"), 0644))

	ms := newService(t, dir, metadata_service.CodecJSON)
	_, err := ms.LoadState()
	require.ErrorIs(t, err, metadata_service.ErrStateDecodeFailed)
}
