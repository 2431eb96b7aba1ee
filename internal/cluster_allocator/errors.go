package cluster_allocator

import "errors"

var (
	ErrInsufficientSpace = errors.New("insufficient free clusters")
	ErrInvalidIndex      = errors.New("invalid cluster index")
	ErrInvalidEntry      = errors.New("invalid allocation table entry")
	ErrInvalidCount      = errors.New("cluster count cannot be negative")
)
