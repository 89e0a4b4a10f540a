package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlagDefaults(t *testing.T) {
	flags := rootCmd.Flags()

	ext, err := flags.GetString("extension")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", ext)

	concurrency, err := flags.GetInt("concurrency")
	require.NoError(t, err)
	assert.Equal(t, 4, concurrency)

	retryLimit, err := flags.GetInt("retry-limit")
	require.NoError(t, err)
	assert.Equal(t, 3, retryLimit)

	debounce, err := flags.GetDuration("debounce")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, debounce)

	region, err := flags.GetString("region")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", region)
}

func TestRootCmdRequiresConfig(t *testing.T) {
	// no bucket, no credentials, no root
	rootCmd.SetArgs([]string{})
	err := rootCmd.Execute()
	assert.Error(t, err)
}
