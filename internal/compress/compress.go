package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None indicates no compression.
	None Type = 0
	// LZ4 indicates LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD indicates ZSTD block compression (better ratio).
	ZSTD Type = 2
)

// ErrCorrupt is returned when a framed body cannot be decoded.
var ErrCorrupt = errors.New("corrupt compressed data")

// String returns the string representation of the Type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// Suffix returns the file name suffix for t, including the leading dot.
func (t Type) Suffix() string {
	switch t {
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	default:
		return ""
	}
}

// FromName returns the compression type implied by a file name suffix.
func FromName(name string) Type {
	switch {
	case strings.HasSuffix(name, ".lz4"):
		return LZ4
	case strings.HasSuffix(name, ".zst"):
		return ZSTD
	default:
		return None
	}
}

// BlockSize is the uncompressed size of one frame.
const BlockSize = 256 * 1024

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block frame format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// If CompressedSize == 0, the block is stored uncompressed.
const blockHeaderSize = 8

// Compress frames data as a sequence of blocks of at most BlockSize bytes.
// None returns data unchanged.
func Compress(t Type, data []byte) ([]byte, error) {
	if t == None {
		return data, nil
	}
	if t != LZ4 && t != ZSTD {
		return nil, fmt.Errorf("compress: unknown type %s", t)
	}
	out := make([]byte, 0, len(data)/2+blockHeaderSize)
	for start := 0; start < len(data); start += BlockSize {
		end := min(start+BlockSize, len(data))
		var err error
		out, err = appendBlock(out, data[start:end], t)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendBlock(dst, block []byte, t Type) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)
	switch t {
	case LZ4:
		compressed, err = compressLZ4(block)
	case ZSTD:
		compressed = compressZSTD(block)
	}
	if err != nil {
		return nil, err
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(block))) //nolint:gosec // bounded by BlockSize

	// If compression doesn't help (ratio > 0.9), store uncompressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(block))*0.9 {
		dst = append(dst, hdr[:]...)
		return append(dst, block...), nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed))) //nolint:gosec // bounded by BlockSize
	dst = append(dst, hdr[:]...)
	return append(dst, compressed...), nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}

// Decompress reverses Compress.
func Decompress(t Type, data []byte) ([]byte, error) {
	if t == None {
		return data, nil
	}
	if t != LZ4 && t != ZSTD {
		return nil, fmt.Errorf("compress: unknown type %s", t)
	}
	var out []byte
	for off := 0; off < len(data); {
		if len(data)-off < blockHeaderSize {
			return nil, fmt.Errorf("%w: truncated block header at offset %d", ErrCorrupt, off)
		}
		uncompressedSize := int(binary.LittleEndian.Uint32(data[off:]))
		compressedSize := int(binary.LittleEndian.Uint32(data[off+4:]))
		off += blockHeaderSize

		if uncompressedSize > BlockSize {
			return nil, fmt.Errorf("%w: block of %d bytes exceeds %d", ErrCorrupt, uncompressedSize, BlockSize)
		}
		if compressedSize == 0 {
			if len(data)-off < uncompressedSize {
				return nil, fmt.Errorf("%w: block data too small", ErrCorrupt)
			}
			out = append(out, data[off:off+uncompressedSize]...)
			off += uncompressedSize
			continue
		}
		if len(data)-off < compressedSize {
			return nil, fmt.Errorf("%w: compressed block data too small", ErrCorrupt)
		}
		block, err := decompressBlock(t, data[off:off+compressedSize], uncompressedSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		off += compressedSize
	}
	return out, nil
}

func decompressBlock(t Type, compressed []byte, size int) ([]byte, error) {
	result := make([]byte, size)
	switch t {
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressed, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(decoded) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil
	}
}
