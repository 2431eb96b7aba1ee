package cluster_allocator

import "fmt"

// Allocation table entry values. Any positive value is the index of the
// next cluster in the chain.
const (
	Free       = 0
	EndOfChain = -1
)

// Allocator owns the allocation table of a volume: one entry per
// cluster, each Free, EndOfChain or the index of the next cluster.
//
// Index 0 is never the target of a next pointer: allocation scans in
// ascending order, so cluster 0 can only ever be the head of a chain.
// This keeps the persisted encoding (0 meaning Free) unambiguous.
type Allocator struct {
	table     []int
	freeCount int
}

// New returns an allocator for totalClusters clusters, all free.
func New(totalClusters int) *Allocator {
	if totalClusters < 0 {
		totalClusters = 0
	}
	return &Allocator{
		table:     make([]int, totalClusters),
		freeCount: totalClusters,
	}
}

// FromTable rebuilds an allocator from a persisted table. Every entry
// must be Free, EndOfChain or a valid non-zero index. Chain structure
// is not checked here; the volume validates it against its namespace.
func FromTable(table []int) (*Allocator, error) {
	a := &Allocator{table: make([]int, len(table))}
	for i, v := range table {
		if v < EndOfChain || v >= len(table) {
			return nil, fmt.Errorf("%w: entry %d has value %d", ErrInvalidEntry, i, v)
		}
		if v == Free {
			a.freeCount++
		}
		a.table[i] = v
	}
	return a, nil
}

func (a *Allocator) TotalClusters() int {
	return len(a.table)
}

func (a *Allocator) FreeCount() int {
	return a.freeCount
}

func (a *Allocator) UsedCount() int {
	return len(a.table) - a.freeCount
}

// Entry returns the raw table value at index.
func (a *Allocator) Entry(index int) (int, error) {
	if index < 0 || index >= len(a.table) {
		return 0, fmt.Errorf("%w: %d out of range [0,%d)", ErrInvalidIndex, index, len(a.table))
	}
	return a.table[index], nil
}

// Table returns a copy of the allocation table.
func (a *Allocator) Table() []int {
	out := make([]int, len(a.table))
	copy(out, a.table)
	return out
}

func (a *Allocator) Clone() *Allocator {
	return &Allocator{
		table:     a.Table(),
		freeCount: a.freeCount,
	}
}

// Allocate reserves n free clusters, lowest index first, and links them
// into a chain in the order returned. On failure the table is left
// untouched.
func (a *Allocator) Allocate(n int) ([]int, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if n > a.freeCount {
		return nil, fmt.Errorf("%w: requested %d, %d free", ErrInsufficientSpace, n, a.freeCount)
	}

	indices := make([]int, 0, n)
	for i := 0; i < len(a.table) && len(indices) < n; i++ {
		if a.table[i] == Free {
			indices = append(indices, i)
		}
	}

	for i, idx := range indices {
		if i < len(indices)-1 {
			a.table[idx] = indices[i+1]
		} else {
			a.table[idx] = EndOfChain
		}
	}
	a.freeCount -= n

	return indices, nil
}

// Free releases every index of a chain. All indices are checked before
// any entry is changed: an out of range, already free or repeated index
// fails the whole call with ErrInvalidIndex.
func (a *Allocator) Free(indices []int) error {
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(a.table) {
			return fmt.Errorf("%w: %d out of range [0,%d)", ErrInvalidIndex, idx, len(a.table))
		}
		if a.table[idx] == Free {
			return fmt.Errorf("%w: cluster %d is already free", ErrInvalidIndex, idx)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: cluster %d listed twice", ErrInvalidIndex, idx)
		}
		seen[idx] = struct{}{}
	}

	for _, idx := range indices {
		a.table[idx] = Free
	}
	a.freeCount += len(indices)
	return nil
}

// Walk follows next pointers from first and returns the chain in
// traversal order. It fails if it meets a free cluster or runs for
// more steps than there are clusters.
func (a *Allocator) Walk(first int) ([]int, error) {
	var chain []int
	current := first
	for steps := 0; steps <= len(a.table); steps++ {
		v, err := a.Entry(current)
		if err != nil {
			return nil, err
		}
		if v == Free {
			return nil, fmt.Errorf("%w: chain from %d reaches free cluster %d", ErrInvalidEntry, first, current)
		}
		chain = append(chain, current)
		if v == EndOfChain {
			return chain, nil
		}
		current = v
	}
	return nil, fmt.Errorf("%w: chain from %d does not terminate", ErrInvalidEntry, first)
}
