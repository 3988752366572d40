package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/starfield/config"
)

func TestOptionsApplySanitizesOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Derived.Adjustments = []config.Adjustment{{Field: "particles.count", Got: -1, Used: 0}}

	opts := &options{logLevel: "loud", logFile: "run.log", reducedMotion: true}
	opts.apply(cfg)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "run.log", cfg.Logging.File)
	assert.True(t, cfg.Accessibility.ReducedMotion)

	require.Len(t, cfg.Derived.Adjustments, 2, "load-time adjustments are kept")
	assert.Equal(t, "particles.count", cfg.Derived.Adjustments[0].Field)
	assert.Equal(t, "logging.level", cfg.Derived.Adjustments[1].Field)
	assert.Equal(t, "loud", cfg.Derived.Adjustments[1].Got)
}

func TestOptionsApplyNoOverrides(t *testing.T) {
	cfg := config.Default()
	(&options{}).apply(cfg)

	assert.Empty(t, cfg.Derived.Adjustments)
	assert.False(t, cfg.Accessibility.ReducedMotion)
}
