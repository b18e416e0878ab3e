package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsLogsOffStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOLVER_NAME", "exact")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr))

	assert.Contains(t, stdout.String(), "The optimal entry price to buy is: 8.46")
	assert.NotContains(t, stdout.String(), "Optimization completed")
	assert.Contains(t, stderr.String(), "Optimization completed")

	_, err := os.Stat("trading_signals.csv")
	assert.NoError(t, err)
}
