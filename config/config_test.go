package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, DefaultStackLimit, cfg.StackLimit)
	require.Equal(t, DefaultGCThreshold, cfg.GCThreshold)
	require.False(t, cfg.NoColor)
	require.False(t, cfg.StrictGC)
}

func TestLoadFallsBackToDefaultsWithoutConfigFile(t *testing.T) {
	// HOME/USERPROFILE in the test sandbox has no .violang.yaml, so Load
	// should behave exactly like Default with no error.
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultStackLimit, cfg.StackLimit)
	require.Equal(t, DefaultGCThreshold, cfg.GCThreshold)
}
