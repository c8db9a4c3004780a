package bulkwriter

import (
	"github.com/hupe1980/vecwire"
	"github.com/hupe1980/vecwire/codec"
	"github.com/hupe1980/vecwire/internal/compress"
)

// Compression selects how import files are compressed.
type Compression = compress.Type

const (
	// CompressionNone writes plain JSON.
	CompressionNone = compress.None
	// CompressionLZ4 writes LZ4 block-compressed JSON (.json.lz4).
	CompressionLZ4 = compress.LZ4
	// CompressionZSTD writes ZSTD block-compressed JSON (.json.zst).
	CompressionZSTD = compress.ZSTD
)

// Config holds the bulk writer settings.
type Config struct {
	// Prefix is prepended to every file name.
	// Default: "bulk"
	Prefix string

	// ChunkSize is the serialized size in bytes at which buffered rows are
	// flushed to a new file. It is measured before compression.
	// Default: 64MB
	ChunkSize int

	// Compression is applied to every file body.
	// Default: CompressionNone
	Compression Compression

	// MaxConcurrentUploads bounds the number of files uploaded at once.
	// Append blocks while the limit is reached.
	// Default: 4
	MaxConcurrentUploads int

	// UploadBytesPerSec limits the combined upload rate. Zero disables the limit.
	// Default: 0
	UploadBytesPerSec int
}

// DefaultConfig returns the default bulk writer settings.
func DefaultConfig() Config {
	return Config{
		Prefix:               "bulk",
		ChunkSize:            64 * 1024 * 1024,
		Compression:          CompressionNone,
		MaxConcurrentUploads: 4,
		UploadBytesPerSec:    0,
	}
}

type options struct {
	cfg              Config
	codec            codec.Codec
	upsert           bool
	logger           *vecwire.Logger
	metricsCollector vecwire.MetricsCollector
}

// Option configures a Writer.
type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithPrefix sets Config.Prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.cfg.Prefix = prefix
	}
}

// WithChunkSize sets Config.ChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.cfg.ChunkSize = n
	}
}

// WithCompression sets Config.Compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.cfg.Compression = c
	}
}

// WithMaxConcurrentUploads sets Config.MaxConcurrentUploads.
func WithMaxConcurrentUploads(n int) Option {
	return func(o *options) {
		o.cfg.MaxConcurrentUploads = n
	}
}

// WithUploadRateLimit sets Config.UploadBytesPerSec.
func WithUploadRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.cfg.UploadBytesPerSec = bytesPerSec
	}
}

// WithJSONCodec configures the codec used for JSON field values and file
// bodies. If nil is passed, codec.Default is used.
func WithJSONCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// ForUpsert accepts caller-supplied AutoID primary keys.
func ForUpsert() Option {
	return func(o *options) {
		o.upsert = true
	}
}

// WithLogger configures structured logging of flushes.
// Pass nil to disable logging.
func WithLogger(logger *vecwire.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = vecwire.NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for flushes.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc vecwire.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = vecwire.NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		cfg:              DefaultConfig(),
		codec:            codec.Default,
		logger:           vecwire.NoopLogger(),
		metricsCollector: vecwire.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
