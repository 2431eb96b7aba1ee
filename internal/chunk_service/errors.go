package chunk_service

import "errors"

var (
	ErrChunkWriteFailed  = errors.New("failed to write chunk")
	ErrChunkReadFailed   = errors.New("failed to read chunk")
	ErrChunkDeleteFailed = errors.New("failed to delete chunk")
	ErrChunkNotFound     = errors.New("chunk not found")
	ErrPurgeFailed       = errors.New("failed to purge chunks")
)
