package volume

import (
	"errors"

	"github.com/AnishMulay/sandfat/internal/cluster_allocator"
)

var (
	ErrInsufficientSpace = cluster_allocator.ErrInsufficientSpace
	ErrInvalidIndex      = cluster_allocator.ErrInvalidIndex

	ErrNotFound        = errors.New("file not found")
	ErrAlreadyExists   = errors.New("file already exists")
	ErrNotInitialized  = errors.New("volume not initialized")
	ErrCorruptState    = errors.New("corrupt volume state")
	ErrInvalidName     = errors.New("invalid file name")
	ErrInvalidGeometry = errors.New("invalid volume geometry")
)

// Error kinds, as reported in metrics labels and on the wire.
const (
	KindOK                = "ok"
	KindInsufficientSpace = "insufficient_space"
	KindInvalidIndex      = "invalid_index"
	KindNotFound          = "not_found"
	KindAlreadyExists     = "already_exists"
	KindNotInitialized    = "not_initialized"
	KindCorruptState      = "corrupt_state"
	KindInvalidName       = "invalid_name"
	KindInvalidGeometry   = "invalid_geometry"
	KindInternal          = "internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInsufficientSpace, KindInsufficientSpace},
	{ErrInvalidIndex, KindInvalidIndex},
	{ErrNotFound, KindNotFound},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrNotInitialized, KindNotInitialized},
	{ErrCorruptState, KindCorruptState},
	{ErrInvalidName, KindInvalidName},
	{ErrInvalidGeometry, KindInvalidGeometry},
}

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	if err == nil {
		return KindOK
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// ErrorForKind is the inverse of ErrorKind. Unknown kinds yield nil.
func ErrorForKind(kind string) error {
	for _, k := range kinds {
		if k.kind == kind {
			return k.err
		}
	}
	return nil
}
