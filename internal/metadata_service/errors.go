package metadata_service

import "errors"

var (
	ErrNoState           = errors.New("no persisted volume state")
	ErrStateSaveFailed   = errors.New("failed to save volume state")
	ErrStateLoadFailed   = errors.New("failed to load volume state")
	ErrStateDecodeFailed = errors.New("failed to decode volume state")
	ErrUnknownCodec      = errors.New("unknown state codec")
)
