package space_service

import (
	"testing"

	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/stretchr/testify/require"
)

func addFile(t *testing.T, st *volume.State, name string, length int64) {
	t.Helper()
	chain, err := st.Allocator.Allocate(volume.ClustersFor(length, st.ClusterSize))
	require.NoError(t, err)
	st.Files[name] = &volume.FileRecord{Name: name, Chain: chain, Length: length}
}

func TestSlackFor(t *testing.T) {
	tests := []struct {
		name   string
		length int64
		want   int64
	}{
		{name: "empty file", length: 0, want: 0},
		{name: "partial cluster", length: 9000, want: 3288},
		{name: "exact multiple", length: 4096, want: 0},
		{name: "one byte", length: 1, want: 4095},
		{name: "two exact clusters", length: 8192, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SlackFor(tt.length, 4096))
		})
	}
}

func TestFreshVolume(t *testing.T) {
	st, err := volume.New(40960, 4096)
	require.NoError(t, err)

	require.Equal(t, int64(0), UsedSpace(st))
	require.Equal(t, int64(40960), FreeSpace(st))
	require.Equal(t, int64(0), Unaddressable(st))
}

func TestStats(t *testing.T) {
	st, err := volume.New(40960+100, 4096)
	require.NoError(t, err)
	addFile(t, st, "a.txt", 9000)
	addFile(t, st, "b.txt", 4096)

	stats, err := GetStats(st)
	require.NoError(t, err)
	require.Equal(t, Stats{
		VolumeID:           st.VolumeID,
		CapacityBytes:      41060,
		ClusterSize:        4096,
		TotalClusters:      10,
		FreeClusters:       6,
		UsedClusters:       4,
		UsedBytes:          4 * 4096,
		FreeBytes:          6 * 4096,
		UnaddressableBytes: 100,
		SlackBytes:         3288,
		Files:              []string{"a.txt", "b.txt"},
	}, stats)

	_, err = GetStats(nil)
	require.ErrorIs(t, err, volume.ErrNotInitialized)
}

func TestSlack(t *testing.T) {
	st, err := volume.New(40960, 4096)
	require.NoError(t, err)
	addFile(t, st, "a.txt", 9000)
	addFile(t, st, "b.txt", 4096)
	addFile(t, st, "empty.txt", 0)

	slack, err := Slack(st, "a.txt")
	require.NoError(t, err)
	require.Equal(t, int64(3288), slack)

	slack, err = Slack(st, "b.txt")
	require.NoError(t, err)
	require.Equal(t, int64(0), slack)

	slack, err = Slack(st, "empty.txt")
	require.NoError(t, err)
	require.Equal(t, int64(0), slack)

	_, err = Slack(st, "missing")
	require.ErrorIs(t, err, volume.ErrNotFound)
	_, err = Slack(nil, "a.txt")
	require.ErrorIs(t, err, volume.ErrNotInitialized)
}
