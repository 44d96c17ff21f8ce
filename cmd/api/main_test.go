package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/config"
)

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9090", "--db-driver", "memory", "--seed"}))

	cfg := &config.AppConfig{ServerPort: "8080", LogLevel: "info"}
	cfg.DB.Driver = "postgres"
	applyFlags(cmd.Flags(), cfg)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.True(t, cfg.SeedFixtures)
	assert.Equal(t, "info", cfg.LogLevel, "unset flags keep the environment value")
}
