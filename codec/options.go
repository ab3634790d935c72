package codec

import (
	"github.com/maddwiz/UnifiedStateCodec/internal/options"
	"github.com/maddwiz/UnifiedStateCodec/mode"
)

// Option configures a Config, in the same options.Option[*T] shape as the
// teacher's blob.NumericEncoderOption/blob.TextEncoderOption.
type Option = options.Option[*Config]

// WithWindowSize overrides the number of rows each DATA packet covers.
func WithWindowSize(n int) Option {
	return options.NoError(func(c *Config) { c.WindowSize = n })
}

// WithMaxTemplates overrides the TemplateBank size cap.
func WithMaxTemplates(n int) Option {
	return options.NoError(func(c *Config) { c.MaxTemplates = n })
}

// WithMode selects stream, hot-lite-full, or cold mode.
func WithMode(m mode.Config) Option {
	return options.NoError(func(c *Config) { c.Mode = m })
}
