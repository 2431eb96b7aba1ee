package server

import "errors"

var (
	// Server lifecycle errors
	ErrServerStartFailed = errors.New("failed to start server")
	ErrServerStopFailed  = errors.New("failed to stop server")

	// Remote call errors
	ErrRemoteCallFailed    = errors.New("remote call failed")
	ErrInvalidResponseBody = errors.New("invalid response body")
	ErrUnknownMessageType  = errors.New("unknown message type")
)
