// Package compression wraps zstd for export files.
package compression

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Extension is appended to compressed file names.
const Extension = ".zst"

// CompressionLevel represents the compression level.
type CompressionLevel int

const (
	// LevelNone disables compression.
	LevelNone CompressionLevel = iota
	// LevelFast favors speed.
	LevelFast
	// LevelDefault is zstd's default trade-off.
	LevelDefault
	// LevelMax favors ratio.
	LevelMax
)

// Compressor handles compression operations.
type Compressor struct {
	Level CompressionLevel
}

// NewCompressor creates a compressor at the given level.
func NewCompressor(level CompressionLevel) *Compressor {
	if level < LevelNone || level > LevelMax {
		level = LevelDefault
	}
	return &Compressor{Level: level}
}

// NewCompressorFromString parses "none", "fast", "default" or "max".
func NewCompressorFromString(level string) (*Compressor, error) {
	switch strings.ToLower(level) {
	case "none":
		return NewCompressor(LevelNone), nil
	case "fast":
		return NewCompressor(LevelFast), nil
	case "", "default":
		return NewCompressor(LevelDefault), nil
	case "max":
		return NewCompressor(LevelMax), nil
	default:
		return nil, fmt.Errorf("invalid compression level: %s (must be none, fast, default, or max)", level)
	}
}

// IsEnabled returns true if compression is enabled.
func (c *Compressor) IsEnabled() bool {
	return c.Level != LevelNone
}

// String returns the level name.
func (c *Compressor) String() string {
	switch c.Level {
	case LevelNone:
		return "none"
	case LevelFast:
		return "fast"
	case LevelMax:
		return "max"
	default:
		return "default"
	}
}

func (c *Compressor) encoderLevel() zstd.EncoderLevel {
	switch c.Level {
	case LevelFast:
		return zstd.SpeedFastest
	case LevelMax:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// NewWriter wraps w. Closing the returned writer flushes the zstd frame
// but does not close w. When compression is disabled w is passed through.
func (c *Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	if !c.IsEnabled() {
		return nopCloser{w}, nil
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(c.encoderLevel()))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return enc, nil
}

// Compress returns data compressed as a single zstd frame.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if !c.IsEnabled() {
		return data, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.encoderLevel()))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// IsCompressedFile returns true if the file path indicates a compressed file.
func IsCompressedFile(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// CompressedPath returns the compressed path for a file.
func CompressedPath(path string) string {
	if IsCompressedFile(path) {
		return path
	}
	return path + Extension
}

// UncompressedPath returns the uncompressed path for a file.
func UncompressedPath(path string) string {
	return strings.TrimSuffix(path, Extension)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
