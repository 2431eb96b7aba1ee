package volume

import (
	"fmt"

	"github.com/AnishMulay/sandfat/internal/cluster_allocator"
)

// Document is the persisted form of a State. Table uses 0 for Free, -1
// for EndOfChain and a positive value for the next cluster index.
// Lengths may be absent in documents written by older tools; the
// loader then asks chunk storage for them.
type Document struct {
	VolumeID      string           `json:"volume_id,omitempty"`
	CapacityBytes int64            `json:"capacity_bytes"`
	ClusterSize   int64            `json:"cluster_size"`
	TotalClusters int              `json:"total_clusters"`
	Table         []int            `json:"table"`
	Chains        map[string][]int `json:"chains"`
	Lengths       map[string]int64 `json:"lengths,omitempty"`
}

// LengthFunc reports the stored content length of a file.
type LengthFunc func(name string) (int64, error)

func (s *State) ToDocument() *Document {
	doc := &Document{
		VolumeID:      s.VolumeID,
		CapacityBytes: s.CapacityBytes,
		ClusterSize:   s.ClusterSize,
		TotalClusters: s.Allocator.TotalClusters(),
		Table:         s.Allocator.Table(),
		Chains:        make(map[string][]int, len(s.Files)),
		Lengths:       make(map[string]int64, len(s.Files)),
	}
	for name, rec := range s.Files {
		chain := make([]int, len(rec.Chain))
		copy(chain, rec.Chain)
		doc.Chains[name] = chain
		doc.Lengths[name] = rec.Length
	}
	return doc
}

// FromDocument rebuilds and validates a State. Any disagreement between
// the declared geometry, the table and the chains is ErrCorruptState.
func FromDocument(doc *Document, lengthOf LengthFunc) (*State, error) {
	if doc == nil {
		return nil, ErrNotInitialized
	}
	if doc.ClusterSize <= 0 {
		return nil, fmt.Errorf("%w: cluster size %d", ErrCorruptState, doc.ClusterSize)
	}
	if doc.TotalClusters < 0 || doc.TotalClusters > MaxClusters {
		return nil, fmt.Errorf("%w: %d clusters", ErrCorruptState, doc.TotalClusters)
	}
	if len(doc.Table) != doc.TotalClusters {
		return nil, fmt.Errorf("%w: table has %d entries, document declares %d", ErrCorruptState, len(doc.Table), doc.TotalClusters)
	}
	if doc.CapacityBytes != 0 && doc.CapacityBytes/doc.ClusterSize != int64(doc.TotalClusters) {
		return nil, fmt.Errorf("%w: capacity %d with cluster size %d does not give %d clusters", ErrCorruptState, doc.CapacityBytes, doc.ClusterSize, doc.TotalClusters)
	}

	allocator, err := cluster_allocator.FromTable(doc.Table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	capacity := doc.CapacityBytes
	if capacity == 0 {
		capacity = int64(doc.TotalClusters) * doc.ClusterSize
	}

	st := &State{
		VolumeID:      doc.VolumeID,
		CapacityBytes: capacity,
		ClusterSize:   doc.ClusterSize,
		Allocator:     allocator,
		Files:         make(map[string]*FileRecord, len(doc.Chains)),
	}

	for name, chain := range doc.Chains {
		length, ok := doc.Lengths[name]
		if !ok {
			if lengthOf == nil {
				return nil, fmt.Errorf("%w: no length recorded for %s", ErrCorruptState, name)
			}
			length, err = lengthOf(name)
			if err != nil {
				return nil, fmt.Errorf("%w: length of %s: %v", ErrCorruptState, name, err)
			}
		}
		c := make([]int, len(chain))
		copy(c, chain)
		st.Files[name] = &FileRecord{Name: name, Chain: c, Length: length}
	}

	for name := range doc.Lengths {
		if _, ok := doc.Chains[name]; !ok {
			return nil, fmt.Errorf("%w: length recorded for unknown file %s", ErrCorruptState, name)
		}
	}

	if err := st.CheckConsistency(); err != nil {
		return nil, err
	}
	return st, nil
}
