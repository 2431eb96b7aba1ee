package compressed

import (
	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/klauspost/compress/zstd"
)

// CompressedChunkService stores zstd frames in an underlying
// ChunkService. Lengths reported to callers are always the
// uncompressed content lengths, since those drive cluster accounting.
type CompressedChunkService struct {
	base    chunk_service.ChunkService
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCompressedChunkService(base chunk_service.ChunkService) (*CompressedChunkService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}
	return &CompressedChunkService{
		base:    base,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (cs *CompressedChunkService) PutChunk(name string, data []byte) (int64, error) {
	var frame []byte
	if len(data) > 0 {
		frame = cs.encoder.EncodeAll(data, make([]byte, 0, len(data)/2+16))
	}
	if _, err := cs.base.PutChunk(name, frame); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (cs *CompressedChunkService) ReadChunk(name string) ([]byte, error) {
	frame, err := cs.base.ReadChunk(name)
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return []byte{}, nil
	}
	data, err := cs.decoder.DecodeAll(frame, nil)
	if err != nil {
		return nil, chunk_service.ErrChunkReadFailed
	}
	return data, nil
}

func (cs *CompressedChunkService) DeleteChunk(name string) error {
	return cs.base.DeleteChunk(name)
}

func (cs *CompressedChunkService) ChunkExists(name string) (bool, error) {
	return cs.base.ChunkExists(name)
}

func (cs *CompressedChunkService) ChunkLength(name string) (int64, error) {
	data, err := cs.ReadChunk(name)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (cs *CompressedChunkService) Purge() error {
	return cs.base.Purge()
}

func (cs *CompressedChunkService) Close() {
	cs.encoder.Close()
	cs.decoder.Close()
}

var _ chunk_service.ChunkService = (*CompressedChunkService)(nil)
