package mode

import (
	"testing"

	"github.com/maddwiz/UnifiedStateCodec/format"
	"github.com/stretchr/testify/assert"
)

func TestModeConfigs(t *testing.T) {
	s := Stream()
	assert.Equal(t, format.ModeStream, s.Tag)
	assert.False(t, s.Cold)
	assert.False(t, s.BuildIndex)

	h := HotLiteFull()
	assert.Equal(t, format.ModeHotLiteFull, h.Tag)
	assert.False(t, h.Cold)
	assert.True(t, h.BuildIndex)

	c := Cold()
	assert.Equal(t, format.ModeCold, c.Tag)
	assert.True(t, c.Cold)
	assert.False(t, c.BuildIndex)
}
