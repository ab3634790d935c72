package codec

import (
	"os"
	"strconv"

	"github.com/maddwiz/UnifiedStateCodec/internal/options"
	"github.com/maddwiz/UnifiedStateCodec/miner"
	"github.com/maddwiz/UnifiedStateCodec/mode"
	"github.com/maddwiz/UnifiedStateCodec/packet"
)

// Config names the parameters an Encoder/Decoder session is built with.
type Config struct {
	WindowSize   int
	MaxTemplates int
	Mode         mode.Config
}

// defaultConfig is a plain struct literal naming this codec's defaults,
// which NewConfig layers env overrides on top of and which functional
// Options then take final precedence over.
var defaultConfig = Config{
	WindowSize:   packet.DefaultWindowSize,
	MaxTemplates: miner.MaxTemplates,
	Mode:         mode.Stream(),
}

// NewConfig builds a Config starting from defaultConfig, applying
// USC_WINDOW/USC_MAX_TEMPLATES env overrides if set, then the given
// functional Options — which always take final precedence over both.
func NewConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig

	if v, ok := envInt("USC_WINDOW"); ok {
		cfg.WindowSize = v
	}
	if v, ok := envInt("USC_MAX_TEMPLATES"); ok {
		cfg.MaxTemplates = v
	}

	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
