package server

import (
	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/volume"
)

func codeForKind(kind string) communication.SandCode {
	switch kind {
	case volume.KindOK:
		return communication.CodeOK
	case volume.KindNotFound:
		return communication.CodeNotFound
	case volume.KindAlreadyExists:
		return communication.CodeAlreadyExists
	case volume.KindInsufficientSpace:
		return communication.CodeResourceExhausted
	case volume.KindNotInitialized:
		return communication.CodeFailedPrecondition
	case volume.KindInvalidIndex, volume.KindInvalidName, volume.KindInvalidGeometry:
		return communication.CodeBadRequest
	default:
		return communication.CodeInternal
	}
}

// errorForResponse rebuilds the error a failed response stands for.
// The error kind header identifies the exact sentinel; without it the
// code alone decides.
func errorForResponse(resp *communication.Response) error {
	if resp.Code == communication.CodeOK {
		return nil
	}

	base := volume.ErrorForKind(resp.Headers[communication.HeaderErrorKind])
	if base == nil {
		switch resp.Code {
		case communication.CodeNotFound:
			base = volume.ErrNotFound
		case communication.CodeAlreadyExists:
			base = volume.ErrAlreadyExists
		case communication.CodeResourceExhausted:
			base = volume.ErrInsufficientSpace
		case communication.CodeFailedPrecondition:
			base = volume.ErrNotInitialized
		default:
			base = ErrRemoteCallFailed
		}
	}
	return &remoteError{base: base, code: resp.Code, msg: remoteMessage(resp.Body)}
}

type remoteError struct {
	base error
	code communication.SandCode
	msg  string
}

func (e *remoteError) Error() string {
	if e.msg == "" {
		return e.base.Error()
	}
	return e.msg
}

func (e *remoteError) Unwrap() error {
	return e.base
}
