package communication

import (
	"encoding/json"
	"fmt"
)

const (
	MessageTypeFormat = "format"
	MessageTypeStats  = "stats"
	MessageTypeCreate = "create"
	MessageTypeCopy   = "copy"
	MessageTypeDelete = "delete"
	MessageTypeExists = "exists"
	MessageTypeList   = "list"
	MessageTypeChain  = "chain"
	MessageTypeSlack  = "slack"
	MessageTypeRead   = "read"
	MessageTypeCheck  = "check"
)

// HeaderErrorKind carries the error kind of a failed operation, so a
// client can recover the exact error rather than only the code.
const HeaderErrorKind = "X-Sand-Error-Kind"

type FormatRequest struct {
	CapacityBytes int64 `json:"capacity_bytes"`
	ClusterSize   int64 `json:"cluster_size"`
}

type CreateRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type CopyRequest struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

// NameRequest is the payload of every message that targets one file:
// delete, exists, chain, slack and read.
type NameRequest struct {
	Name string `json:"name"`
}

type ChainResponse struct {
	Chain []int `json:"chain"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type ListResponse struct {
	Names []string `json:"names"`
}

type SlackResponse struct {
	Slack int64 `json:"slack"`
}

type ReadResponse struct {
	Data []byte `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewMessage builds a message whose payload is the JSON encoding of
// req. A nil req leaves the payload empty.
func NewMessage(id, from, msgType string, req any) (Message, error) {
	msg := Message{ID: id, From: from, Type: msgType}
	if req == nil {
		return msg, nil
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrPayloadMarshalFailed, err)
	}
	msg.Payload = payload
	return msg, nil
}

// DecodePayload unmarshals the payload of msg into out.
func DecodePayload(msg Message, out any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: empty payload for %s", ErrPayloadUnmarshalFailed, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadUnmarshalFailed, err)
	}
	return nil
}
