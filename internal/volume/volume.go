package volume

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnishMulay/sandfat/internal/cluster_allocator"
	"github.com/google/uuid"
)

// FileRecord is one entry of the flat namespace. Length is the declared
// content length in bytes; the bytes themselves live in chunk storage.
type FileRecord struct {
	Name   string
	Chain  []int
	Length int64
}

// State is the whole of a volume's bookkeeping. It is a plain value
// owned by its caller; services receive it explicitly and never keep
// a reference of their own.
type State struct {
	VolumeID      string
	CapacityBytes int64
	ClusterSize   int64
	Allocator     *cluster_allocator.Allocator
	Files         map[string]*FileRecord
}

// MaxClusters bounds the table size of a single volume. The whole table
// is held in memory, so geometries beyond it are rejected up front.
const MaxClusters = 1 << 24

// New returns a freshly formatted state. The table holds
// floor(capacityBytes / clusterSize) clusters; the remainder bytes are
// never addressable.
func New(capacityBytes, clusterSize int64) (*State, error) {
	if clusterSize <= 0 {
		return nil, fmt.Errorf("%w: cluster size %d", ErrInvalidGeometry, clusterSize)
	}
	if capacityBytes < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidGeometry, capacityBytes)
	}
	if capacityBytes/clusterSize > MaxClusters {
		return nil, fmt.Errorf("%w: %d clusters exceeds the limit of %d", ErrInvalidGeometry, capacityBytes/clusterSize, MaxClusters)
	}

	return &State{
		VolumeID:      uuid.NewString(),
		CapacityBytes: capacityBytes,
		ClusterSize:   clusterSize,
		Allocator:     cluster_allocator.New(int(capacityBytes / clusterSize)),
		Files:         make(map[string]*FileRecord),
	}, nil
}

// ClustersFor returns ceil(length / clusterSize).
func ClustersFor(length, clusterSize int64) int {
	if length <= 0 {
		return 0
	}
	return int((length + clusterSize - 1) / clusterSize)
}

// ValidateName accepts any non-empty name without path separators.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *State) Lookup(name string) (*FileRecord, error) {
	rec, ok := s.Files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rec, nil
}

func (s *State) Exists(name string) bool {
	_, ok := s.Files[name]
	return ok
}

// Names returns the filenames in lexical order.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.Files))
	for name := range s.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the state so a transaction can be staged on it and
// either committed or thrown away.
func (s *State) Clone() *State {
	files := make(map[string]*FileRecord, len(s.Files))
	for name, rec := range s.Files {
		chain := make([]int, len(rec.Chain))
		copy(chain, rec.Chain)
		files[name] = &FileRecord{Name: rec.Name, Chain: chain, Length: rec.Length}
	}
	return &State{
		VolumeID:      s.VolumeID,
		CapacityBytes: s.CapacityBytes,
		ClusterSize:   s.ClusterSize,
		Allocator:     s.Allocator.Clone(),
		Files:         files,
	}
}

// CheckConsistency verifies the joint invariants of table and namespace:
// every chain is linked in order and ends in EndOfChain, no cluster
// belongs to two chains, no used cluster is outside every chain, and
// each chain is exactly as long as its length requires.
func (s *State) CheckConsistency() error {
	if s.ClusterSize <= 0 {
		return fmt.Errorf("%w: cluster size %d", ErrCorruptState, s.ClusterSize)
	}

	table := s.Allocator.Table()
	owner := make([]string, len(table))

	for _, name := range s.Names() {
		rec := s.Files[name]
		if rec.Name != name {
			return fmt.Errorf("%w: record %q filed under %q", ErrCorruptState, rec.Name, name)
		}
		if rec.Length < 0 {
			return fmt.Errorf("%w: %s has negative length %d", ErrCorruptState, name, rec.Length)
		}
		if want := ClustersFor(rec.Length, s.ClusterSize); len(rec.Chain) != want {
			return fmt.Errorf("%w: %s has %d clusters, length %d needs %d", ErrCorruptState, name, len(rec.Chain), rec.Length, want)
		}

		for i, idx := range rec.Chain {
			if idx < 0 || idx >= len(table) {
				return fmt.Errorf("%w: %s references cluster %d out of range", ErrCorruptState, name, idx)
			}
			if owner[idx] != "" {
				return fmt.Errorf("%w: cluster %d shared by %s and %s", ErrCorruptState, idx, owner[idx], name)
			}
			owner[idx] = name

			want := cluster_allocator.EndOfChain
			if i < len(rec.Chain)-1 {
				want = rec.Chain[i+1]
			}
			if table[idx] != want {
				return fmt.Errorf("%w: %s cluster %d links to %d, expected %d", ErrCorruptState, name, idx, table[idx], want)
			}
		}
	}

	for idx, v := range table {
		if v != cluster_allocator.Free && owner[idx] == "" {
			return fmt.Errorf("%w: cluster %d is in use but owned by no file", ErrCorruptState, idx)
		}
	}
	return nil
}
