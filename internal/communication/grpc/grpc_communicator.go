package grpccomm

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCCommunicator struct {
	listenAddress string
	handler       communication.MessageHandler
	grpcServer    *grpc.Server
	ls            log_service.LogService

	clientLock sync.RWMutex
	clients    map[string]*grpc.ClientConn
	stopped    bool
	stopMutex  sync.Mutex
}

func NewGRPCCommunicator(addr string, ls log_service.LogService) *GRPCCommunicator {
	return &GRPCCommunicator{
		listenAddress: addr,
		ls:            ls,
		clients:       make(map[string]*grpc.ClientConn),
	}
}

func (c *GRPCCommunicator) Address() string {
	return c.listenAddress
}

func (c *GRPCCommunicator) Start(handler communication.MessageHandler) error {
	c.ls.Info(log_service.LogEvent{
		Message:  "Starting GRPC communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	c.handler = handler
	c.grpcServer = grpc.NewServer()
	c.grpcServer.RegisterService(&messageServiceDesc, &grpcServer{comm: c})

	lis, err := net.Listen("tcp", c.listenAddress)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to listen on address",
			Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
		})
		return communication.ErrGRPCListenFailed
	}
	c.listenAddress = lis.Addr().String()

	c.ls.Info(log_service.LogEvent{
		Message:  "GRPC communicator started successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	go func() {
		if err := c.grpcServer.Serve(lis); err != nil {
			c.ls.Error(log_service.LogEvent{
				Message:  "GRPC server error",
				Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
			})
		}
	}()
	return nil
}

func (c *GRPCCommunicator) Stop() error {
	c.stopMutex.Lock()
	defer c.stopMutex.Unlock()

	if c.stopped {
		c.ls.Debug(log_service.LogEvent{
			Message:  "GRPC communicator already stopped, skipping",
			Metadata: map[string]any{"address": c.listenAddress},
		})
		return nil
	}

	c.ls.Info(log_service.LogEvent{
		Message:  "Stopping GRPC communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	if c.grpcServer != nil {
		c.grpcServer.GracefulStop()
	}

	c.clientLock.Lock()
	for to, conn := range c.clients {
		conn.Close()
		delete(c.clients, to)
	}
	c.clientLock.Unlock()

	c.stopped = true
	c.ls.Info(log_service.LogEvent{
		Message:  "GRPC communicator stopped successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	return nil
}

func (c *GRPCCommunicator) conn(to string) (*grpc.ClientConn, error) {
	c.clientLock.RLock()
	conn, ok := c.clients[to]
	c.clientLock.RUnlock()
	if ok {
		return conn, nil
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "Creating new GRPC client",
		Metadata: map[string]any{"to": to},
	})

	c.clientLock.Lock()
	defer c.clientLock.Unlock()
	if conn, ok := c.clients[to]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(to, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to create GRPC client",
			Metadata: map[string]any{"to": to, "error": err.Error()},
		})
		return nil, communication.ErrClientCreateFailed
	}
	c.clients[to] = conn
	return conn, nil
}

func (c *GRPCCommunicator) Send(ctx context.Context, to string, msg communication.Message) (*communication.Response, error) {
	c.ls.Debug(log_service.LogEvent{
		Message:  "Sending GRPC message",
		Metadata: map[string]any{"to": to, "type": msg.Type, "id": msg.ID},
	})

	conn, err := c.conn(to)
	if err != nil {
		return nil, err
	}

	if msg.From == "" {
		msg.From = c.listenAddress
	}
	reqBytes, err := json.Marshal(msg)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to marshal message",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrMessageMarshalFailed
	}

	out := new(wrapperspb.BytesValue)
	if err := conn.Invoke(ctx, sendMessageMethod, wrapperspb.Bytes(reqBytes), out); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to send GRPC message",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: %v", communication.ErrMessageSendFailed, err)
	}

	var resp communication.Response
	if err := json.Unmarshal(out.GetValue(), &resp); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to decode GRPC response",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrResponseDecodeFailed
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "GRPC message sent successfully",
		Metadata: map[string]any{"to": to, "type": msg.Type, "responseCode": resp.Code},
	})

	return &resp, nil
}

type grpcServer struct {
	comm *GRPCCommunicator
}

func (s *grpcServer) SendMessage(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s.comm.handler == nil {
		s.comm.ls.Error(log_service.LogEvent{
			Message:  "GRPC handler not set",
			Metadata: map[string]any{},
		})
		return nil, communication.ErrHandlerNotSet
	}

	var msg communication.Message
	if err := json.Unmarshal(req.GetValue(), &msg); err != nil {
		s.comm.ls.Error(log_service.LogEvent{
			Message:  "Failed to unmarshal message",
			Metadata: map[string]any{"error": err.Error()},
		})
		return nil, communication.ErrInvalidJSON
	}
	if msg.Type == "" {
		return nil, communication.ErrMissingRequiredFields
	}

	s.comm.ls.Debug(log_service.LogEvent{
		Message:  "Received GRPC message",
		Metadata: map[string]any{"from": msg.From, "type": msg.Type, "id": msg.ID},
	})

	resp, err := s.comm.handler(ctx, msg)
	if err != nil {
		s.comm.ls.Error(log_service.LogEvent{
			Message:  "Message handler error",
			Metadata: map[string]any{"from": msg.From, "type": msg.Type, "error": err.Error()},
		})
		resp = &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("%v: %v", communication.ErrMessageHandlerFailed, err)),
		}
	}
	if resp == nil {
		resp = &communication.Response{Code: communication.CodeOK}
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, communication.ErrMessageMarshalFailed
	}

	s.comm.ls.Debug(log_service.LogEvent{
		Message:  "GRPC response sent",
		Metadata: map[string]any{"to": msg.From, "code": resp.Code},
	})

	return wrapperspb.Bytes(respBytes), nil
}

var _ communication.Communicator = (*GRPCCommunicator)(nil)
