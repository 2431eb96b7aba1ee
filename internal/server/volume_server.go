package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/AnishMulay/sandfat/internal/volume_service"
)

// VolumeServer exposes a VolumeService over a Communicator. A failed
// command becomes an error response; it never stops the server.
type VolumeServer struct {
	comm communication.Communicator
	vs   volume_service.VolumeService
	ls   log_service.LogService
}

func NewVolumeServer(comm communication.Communicator, vs volume_service.VolumeService, ls log_service.LogService) *VolumeServer {
	return &VolumeServer{
		comm: comm,
		vs:   vs,
		ls:   ls,
	}
}

func (s *VolumeServer) Start() error {
	s.ls.Info(log_service.LogEvent{Message: "Starting volume server"})
	if err := s.comm.Start(s.handleMessage); err != nil {
		return fmt.Errorf("%w: %v", ErrServerStartFailed, err)
	}
	s.ls.Info(log_service.LogEvent{
		Message:  "Volume server started",
		Metadata: map[string]any{"address": s.comm.Address()},
	})
	return nil
}

func (s *VolumeServer) Stop() error {
	s.ls.Info(log_service.LogEvent{Message: "Stopping volume server"})
	if err := s.comm.Stop(); err != nil {
		return fmt.Errorf("%w: %v", ErrServerStopFailed, err)
	}
	return nil
}

func (s *VolumeServer) Address() string {
	return s.comm.Address()
}

func (s *VolumeServer) handleMessage(ctx context.Context, msg communication.Message) (*communication.Response, error) {
	s.ls.Debug(log_service.LogEvent{
		Message:  "Handling message",
		Metadata: map[string]any{"id": msg.ID, "type": msg.Type, "from": msg.From},
	})

	switch msg.Type {
	case communication.MessageTypeFormat:
		var req communication.FormatRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		stats, err := s.vs.Format(req.CapacityBytes, req.ClusterSize)
		return s.respond(msg, stats, err)

	case communication.MessageTypeStats:
		stats, err := s.vs.Stats()
		return s.respond(msg, stats, err)

	case communication.MessageTypeCreate:
		var req communication.CreateRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		chain, err := s.vs.CreateFile(req.Name, req.Data)
		return s.respond(msg, communication.ChainResponse{Chain: chain}, err)

	case communication.MessageTypeCopy:
		var req communication.CopyRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		chain, err := s.vs.CopyFile(req.Src, req.Dest)
		return s.respond(msg, communication.ChainResponse{Chain: chain}, err)

	case communication.MessageTypeDelete:
		var req communication.NameRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		return s.respond(msg, nil, s.vs.DeleteFile(req.Name))

	case communication.MessageTypeExists:
		var req communication.NameRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		exists, err := s.vs.FileExists(req.Name)
		return s.respond(msg, communication.ExistsResponse{Exists: exists}, err)

	case communication.MessageTypeList:
		names, err := s.vs.ListFiles()
		return s.respond(msg, communication.ListResponse{Names: names}, err)

	case communication.MessageTypeChain:
		var req communication.NameRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		chain, err := s.vs.ChainOf(req.Name)
		return s.respond(msg, communication.ChainResponse{Chain: chain}, err)

	case communication.MessageTypeSlack:
		var req communication.NameRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		slack, err := s.vs.SlackOf(req.Name)
		return s.respond(msg, communication.SlackResponse{Slack: slack}, err)

	case communication.MessageTypeRead:
		var req communication.NameRequest
		if err := communication.DecodePayload(msg, &req); err != nil {
			return s.badRequest(msg, err), nil
		}
		data, err := s.vs.ReadFile(req.Name)
		return s.respond(msg, communication.ReadResponse{Data: data}, err)

	case communication.MessageTypeCheck:
		return s.respond(msg, nil, s.vs.Check())

	default:
		return s.badRequest(msg, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)), nil
	}
}

// respond encodes data as the JSON body of a successful response, or
// err as an error response carrying its kind.
func (s *VolumeServer) respond(msg communication.Message, data any, err error) (*communication.Response, error) {
	if err != nil {
		kind := volume.ErrorKind(err)
		level := s.ls.Warn
		if kind == volume.KindInternal || kind == volume.KindCorruptState {
			level = s.ls.Error
		}
		level(log_service.LogEvent{
			Message:  "Command failed",
			Metadata: map[string]any{"id": msg.ID, "type": msg.Type, "kind": kind, "error": err.Error()},
		})
		return errorResponse(codeForKind(kind), kind, err), nil
	}

	if data == nil {
		return &communication.Response{Code: communication.CodeOK}, nil
	}

	body, marshalErr := json.Marshal(data)
	if marshalErr != nil {
		return errorResponse(communication.CodeInternal, volume.KindInternal, marshalErr), nil
	}
	return &communication.Response{
		Code: communication.CodeOK,
		Body: body,
	}, nil
}

func (s *VolumeServer) badRequest(msg communication.Message, err error) *communication.Response {
	s.ls.Warn(log_service.LogEvent{
		Message:  "Rejected malformed message",
		Metadata: map[string]any{"id": msg.ID, "type": msg.Type, "error": err.Error()},
	})
	return errorResponse(communication.CodeBadRequest, "", err)
}

func errorResponse(code communication.SandCode, kind string, err error) *communication.Response {
	body, _ := json.Marshal(communication.ErrorResponse{Error: err.Error()})
	resp := &communication.Response{Code: code, Body: body}
	if kind != "" {
		resp.Headers = map[string]string{communication.HeaderErrorKind: kind}
	}
	return resp
}
