package httpcomm

import (
	"context"
	"errors"
	"testing"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx context.Context, msg communication.Message) (*communication.Response, error) {
	switch msg.Type {
	case "echo":
		return &communication.Response{Code: communication.CodeOK, Body: msg.Payload}, nil
	case "missing":
		return &communication.Response{
			Code:    communication.CodeNotFound,
			Headers: map[string]string{communication.HeaderErrorKind: "not_found"},
		}, nil
	case "full":
		return &communication.Response{Code: communication.CodeResourceExhausted}, nil
	default:
		return nil, errors.New("boom")
	}
}

func startPair(t *testing.T) (*HTTPCommunicator, *HTTPCommunicator) {
	t.Helper()
	ls := console.NewDiscardLogService()
	server := NewHTTPCommunicator("127.0.0.1:0", ls)
	require.NoError(t, server.Start(echoHandler))
	t.Cleanup(func() { server.Stop() })
	return server, NewHTTPCommunicator("", ls)
}

func TestHTTPCommunicator_RoundTrip(t *testing.T) {
	server, client := startPair(t)

	msg, err := communication.NewMessage("id-1", "test", "echo", communication.NameRequest{Name: "a.txt"})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), server.Address(), msg)
	require.NoError(t, err)
	require.Equal(t, communication.CodeOK, resp.Code)

	var req communication.NameRequest
	require.NoError(t, communication.DecodePayload(communication.Message{Payload: resp.Body}, &req))
	require.Equal(t, "a.txt", req.Name)
}

func TestHTTPCommunicator_Codes(t *testing.T) {
	server, client := startPair(t)

	tests := []struct {
		msgType string
		code    communication.SandCode
		kind    string
	}{
		{msgType: "missing", code: communication.CodeNotFound, kind: "not_found"},
		{msgType: "full", code: communication.CodeResourceExhausted},
		{msgType: "explode", code: communication.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			resp, err := client.Send(context.Background(), server.Address(), communication.Message{Type: tt.msgType})
			require.NoError(t, err)
			require.Equal(t, tt.code, resp.Code)
			if tt.kind != "" {
				require.Equal(t, tt.kind, resp.Headers[communication.HeaderErrorKind])
			}
		})
	}
}

func TestHTTPCommunicator_HandlerErrorIsInternal(t *testing.T) {
	server, client := startPair(t)

	resp, err := client.Send(context.Background(), server.Address(), communication.Message{Type: "explode"})
	require.NoError(t, err)
	require.Equal(t, communication.CodeInternal, resp.Code)
	require.Contains(t, string(resp.Body), communication.ErrMessageHandlerFailed.Error())
	require.Contains(t, string(resp.Body), "boom")
}

func TestHTTPCommunicator_SendToClosedPort(t *testing.T) {
	server, client := startPair(t)
	addr := server.Address()
	require.NoError(t, server.Stop())

	_, err := client.Send(context.Background(), addr, communication.Message{Type: "echo"})
	require.ErrorIs(t, err, communication.ErrHTTPRequestSendFailed)
}

func TestSandCodeMapping(t *testing.T) {
	codes := []communication.SandCode{
		communication.CodeOK,
		communication.CodeBadRequest,
		communication.CodeNotFound,
		communication.CodeAlreadyExists,
		communication.CodeResourceExhausted,
		communication.CodeFailedPrecondition,
		communication.CodeInternal,
		communication.CodeUnavailable,
	}
	for _, code := range codes {
		require.Equal(t, code, mapFromHTTPCode(mapToHTTPCode(code)))
	}
}
