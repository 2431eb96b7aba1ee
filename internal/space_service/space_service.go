// Package space_service derives space figures from a volume state. It
// never mutates the state it is given.
package space_service

import "github.com/AnishMulay/sandfat/internal/volume"

type Stats struct {
	VolumeID           string   `json:"volume_id"`
	CapacityBytes      int64    `json:"capacity_bytes"`
	ClusterSize        int64    `json:"cluster_size"`
	TotalClusters      int      `json:"total_clusters"`
	FreeClusters       int      `json:"free_clusters"`
	UsedClusters       int      `json:"used_clusters"`
	UsedBytes          int64    `json:"used_bytes"`
	FreeBytes          int64    `json:"free_bytes"`
	UnaddressableBytes int64    `json:"unaddressable_bytes"`
	SlackBytes         int64    `json:"slack_bytes"`
	Files              []string `json:"files"`
}

func UsedSpace(st *volume.State) int64 {
	return int64(st.Allocator.UsedCount()) * st.ClusterSize
}

func FreeSpace(st *volume.State) int64 {
	return int64(st.Allocator.FreeCount()) * st.ClusterSize
}

// SlackFor returns the unused bytes in the last cluster of a file of
// the given length. Empty files and exact multiples have no slack.
func SlackFor(length, clusterSize int64) int64 {
	if length <= 0 {
		return 0
	}
	r := length % clusterSize
	if r == 0 {
		return 0
	}
	return clusterSize - r
}

func Slack(st *volume.State, name string) (int64, error) {
	if st == nil {
		return 0, volume.ErrNotInitialized
	}
	rec, err := st.Lookup(name)
	if err != nil {
		return 0, err
	}
	return SlackFor(rec.Length, st.ClusterSize), nil
}

func TotalSlack(st *volume.State) int64 {
	var total int64
	for _, rec := range st.Files {
		total += SlackFor(rec.Length, st.ClusterSize)
	}
	return total
}

// Unaddressable is the tail of the capacity that does not fill a whole
// cluster and so can never be allocated.
func Unaddressable(st *volume.State) int64 {
	return st.CapacityBytes - int64(st.Allocator.TotalClusters())*st.ClusterSize
}

func GetStats(st *volume.State) (Stats, error) {
	if st == nil {
		return Stats{}, volume.ErrNotInitialized
	}
	return Stats{
		VolumeID:           st.VolumeID,
		CapacityBytes:      st.CapacityBytes,
		ClusterSize:        st.ClusterSize,
		TotalClusters:      st.Allocator.TotalClusters(),
		FreeClusters:       st.Allocator.FreeCount(),
		UsedClusters:       st.Allocator.UsedCount(),
		UsedBytes:          UsedSpace(st),
		FreeBytes:          FreeSpace(st),
		UnaddressableBytes: Unaddressable(st),
		SlackBytes:         TotalSlack(st),
		Files:              st.Names(),
	}, nil
}
