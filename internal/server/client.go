package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/space_service"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/google/uuid"
)

const DefaultClientTimeout = 30 * time.Second

// Client is a VolumeService backed by a remote VolumeServer. Failed
// responses are turned back into the volume error taxonomy, so
// errors.Is works the same as against a local volume.
type Client struct {
	comm    communication.Communicator
	to      string
	from    string
	timeout time.Duration
	ls      log_service.LogService
}

func NewClient(comm communication.Communicator, to, from string, ls log_service.LogService) *Client {
	return &Client{
		comm:    comm,
		to:      to,
		from:    from,
		timeout: DefaultClientTimeout,
		ls:      ls,
	}
}

func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// call sends one message and decodes a successful body into out, which
// may be nil.
func (c *Client) call(msgType string, req any, out any) error {
	msg, err := communication.NewMessage(uuid.NewString(), c.from, msgType, req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	resp, err := c.comm.Send(ctx, c.to, msg)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Remote call failed",
			Metadata: map[string]any{"to": c.to, "type": msgType, "id": msg.ID, "error": err.Error()},
		})
		return fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}

	if err := errorForResponse(resp); err != nil {
		c.ls.Debug(log_service.LogEvent{
			Message:  "Remote command failed",
			Metadata: map[string]any{"to": c.to, "type": msgType, "id": msg.ID, "code": resp.Code},
		})
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponseBody, err)
	}
	return nil
}

func (c *Client) Format(capacityBytes, clusterSize int64) (space_service.Stats, error) {
	var stats space_service.Stats
	err := c.call(communication.MessageTypeFormat, communication.FormatRequest{
		CapacityBytes: capacityBytes,
		ClusterSize:   clusterSize,
	}, &stats)
	return stats, err
}

func (c *Client) Stats() (space_service.Stats, error) {
	var stats space_service.Stats
	err := c.call(communication.MessageTypeStats, nil, &stats)
	return stats, err
}

func (c *Client) CreateFile(name string, data []byte) ([]int, error) {
	var resp communication.ChainResponse
	if err := c.call(communication.MessageTypeCreate, communication.CreateRequest{Name: name, Data: data}, &resp); err != nil {
		return nil, err
	}
	return resp.Chain, nil
}

func (c *Client) CopyFile(src, dest string) ([]int, error) {
	var resp communication.ChainResponse
	if err := c.call(communication.MessageTypeCopy, communication.CopyRequest{Src: src, Dest: dest}, &resp); err != nil {
		return nil, err
	}
	return resp.Chain, nil
}

func (c *Client) DeleteFile(name string) error {
	return c.call(communication.MessageTypeDelete, communication.NameRequest{Name: name}, nil)
}

func (c *Client) ReadFile(name string) ([]byte, error) {
	var resp communication.ReadResponse
	if err := c.call(communication.MessageTypeRead, communication.NameRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []byte{}, nil
	}
	return resp.Data, nil
}

func (c *Client) FileExists(name string) (bool, error) {
	var resp communication.ExistsResponse
	err := c.call(communication.MessageTypeExists, communication.NameRequest{Name: name}, &resp)
	return resp.Exists, err
}

func (c *Client) ListFiles() ([]string, error) {
	var resp communication.ListResponse
	if err := c.call(communication.MessageTypeList, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (c *Client) ChainOf(name string) ([]int, error) {
	var resp communication.ChainResponse
	if err := c.call(communication.MessageTypeChain, communication.NameRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return resp.Chain, nil
}

func (c *Client) SlackOf(name string) (int64, error) {
	var resp communication.SlackResponse
	err := c.call(communication.MessageTypeSlack, communication.NameRequest{Name: name}, &resp)
	return resp.Slack, err
}

func (c *Client) Check() error {
	return c.call(communication.MessageTypeCheck, nil, nil)
}

func remoteMessage(body []byte) string {
	var errResp communication.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(body)
}

var _ volume_service.VolumeService = (*Client)(nil)
