package file_service

import "errors"

var (
	ErrChunkStoreFailed      = errors.New("failed to store file content")
	ErrChunkReadFailed       = errors.New("failed to read file content")
	ErrMetadataPersistFailed = errors.New("failed to persist volume state")
)
