package metadata_service

import (
	"encoding/json"
	"fmt"

	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/fxamacker/cbor/v2"
)

const (
	CodecJSON = "json"
	CodecCBOR = "cbor"
)

// Codec turns a state document into bytes and back.
type Codec interface {
	Name() string
	Marshal(doc *volume.Document) ([]byte, error)
	Unmarshal(data []byte) (*volume.Document, error)
}

func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecCBOR:
		return newCBORCodec()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// JSONCodec writes the same shape the original console tool kept in
// its .fat file, plus the geometry fields.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Marshal(doc *volume.Document) ([]byte, error) {
	return json.Marshal(doc)
}

func (JSONCodec) Unmarshal(data []byte) (*volume.Document, error) {
	var doc volume.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateDecodeFailed, err)
	}
	return &doc, nil
}

// CBORCodec uses core deterministic encoding, so the same state always
// produces the same bytes. Field names come from the json tags.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string { return CodecCBOR }

func (c *CBORCodec) Marshal(doc *volume.Document) ([]byte, error) {
	return c.enc.Marshal(doc)
}

func (c *CBORCodec) Unmarshal(data []byte) (*volume.Document, error) {
	var doc volume.Document
	if err := c.dec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateDecodeFailed, err)
	}
	return &doc, nil
}
