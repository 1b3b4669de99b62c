package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/config"
)

func TestConfigFrom(t *testing.T) {
	cfg, err := config.LoadWithDefaults("testdata/does-not-exist.yaml")
	require.NoError(t, err)
	cfg.Pricing.Bankroll = 2500
	cfg.Edge.Strong = 9

	pc := ConfigFrom(cfg)
	assert.Equal(t, "2500", pc.Bankroll.String())
	assert.Equal(t, 9.0, pc.Tiers.Strong)
	assert.Equal(t, cfg.Staking, pc.Policy)
	assert.Equal(t, cfg.Pricing.DefaultStdDev, pc.DefaultStdDev)
}
