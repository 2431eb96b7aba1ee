package communication

import "context"

type SandCode string

const (
	CodeOK                 SandCode = "OK"
	CodeBadRequest         SandCode = "BAD_REQUEST"
	CodeNotFound           SandCode = "NOT_FOUND"
	CodeAlreadyExists      SandCode = "ALREADY_EXISTS"
	CodeResourceExhausted  SandCode = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition SandCode = "FAILED_PRECONDITION"
	CodeInternal           SandCode = "INTERNAL"
	CodeUnavailable        SandCode = "UNAVAILABLE"
)

// Message is one request. Payload holds the JSON encoding of the
// request struct registered for Type.
type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Type    string `json:"type"`
	Payload []byte `json:"payload,omitempty"`
}

type Response struct {
	Code    SandCode          `json:"code"`
	Body    []byte            `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// MessageHandler serves one message. A returned error means the
// message could not be handled at all; operation failures are reported
// through Response.Code instead.
type MessageHandler func(ctx context.Context, msg Message) (*Response, error)

type Communicator interface {
	Start(handler MessageHandler) error
	Stop() error
	Send(ctx context.Context, to string, msg Message) (*Response, error)
	Address() string
}
