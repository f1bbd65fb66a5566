package index

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arloliu/dgap/format"
	"github.com/arloliu/dgap/internal/options"
)

// config holds the settings applied by Option values.
type config struct {
	encoding          format.EncodingType
	compression       format.CompressionType
	logger            *zap.Logger
	registerer        prometheus.Registerer
	decodeConcurrency int
}

func newConfig() *config {
	return &config{
		encoding:          format.TypeDelta,
		compression:       format.CompressionNone,
		logger:            zap.NewNop(),
		decodeConcurrency: runtime.GOMAXPROCS(0),
	}
}

// Option configures an Index.
type Option = options.Option[*config]

// WithEncoding sets the postings encoding of stored lists. Default is format.TypeDelta.
func WithEncoding(enc format.EncodingType) Option {
	return options.New(func(c *config) error {
		if !enc.IsValid() {
			return fmt.Errorf("invalid index encoding: %v", enc)
		}
		c.encoding = enc

		return nil
	})
}

// WithCompression sets the compression of stored lists. Default is format.CompressionNone.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !comp.IsValid() {
			return fmt.Errorf("invalid index compression: %v", comp)
		}
		c.compression = comp

		return nil
	})
}

// WithLogger sets the logger. A nil logger disables logging, which is also the default.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithMetrics registers the index collectors with reg.
//
// Two indexes registering with the same registerer conflict; wrap it with
// prometheus.WrapRegistererWithPrefix to tell them apart.
func WithMetrics(reg prometheus.Registerer) Option {
	return options.NoError(func(c *config) {
		c.registerer = reg
	})
}

// WithDecodeConcurrency limits the goroutines DecodeTerms runs at once.
// Default is GOMAXPROCS.
func WithDecodeConcurrency(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("decode concurrency must be positive, got %d", n)
		}
		c.decodeConcurrency = n

		return nil
	})
}
