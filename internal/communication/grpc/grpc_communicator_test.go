package grpccomm

import (
	"context"
	"errors"
	"testing"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/stretchr/testify/require"
)

func TestGRPCCommunicator_RoundTrip(t *testing.T) {
	ls := console.NewDiscardLogService()
	server := NewGRPCCommunicator("127.0.0.1:0", ls)
	require.NoError(t, server.Start(func(ctx context.Context, msg communication.Message) (*communication.Response, error) {
		if msg.Type == "explode" {
			return nil, errors.New("boom")
		}
		if msg.Type == "missing" {
			return &communication.Response{
				Code:    communication.CodeNotFound,
				Headers: map[string]string{communication.HeaderErrorKind: "not_found"},
			}, nil
		}
		return &communication.Response{Code: communication.CodeOK, Body: msg.Payload}, nil
	}))
	t.Cleanup(func() { server.Stop() })

	client := NewGRPCCommunicator("", ls)
	t.Cleanup(func() { client.Stop() })

	msg, err := communication.NewMessage("id-1", "test", "echo", communication.CopyRequest{Src: "a", Dest: "b"})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), server.Address(), msg)
	require.NoError(t, err)
	require.Equal(t, communication.CodeOK, resp.Code)
	require.JSONEq(t, `{"src":"a","dest":"b"}`, string(resp.Body))

	resp, err = client.Send(context.Background(), server.Address(), communication.Message{Type: "missing"})
	require.NoError(t, err)
	require.Equal(t, communication.CodeNotFound, resp.Code)
	require.Equal(t, "not_found", resp.Headers[communication.HeaderErrorKind])

	resp, err = client.Send(context.Background(), server.Address(), communication.Message{Type: "explode"})
	require.NoError(t, err)
	require.Equal(t, communication.CodeInternal, resp.Code)
	require.Equal(t, "message handler failed: boom", string(resp.Body))
}

func TestGRPCCommunicator_StopIsIdempotent(t *testing.T) {
	c := NewGRPCCommunicator("127.0.0.1:0", console.NewDiscardLogService())
	require.NoError(t, c.Start(nil))
	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
}
