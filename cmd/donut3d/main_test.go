package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeData(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeData(t, "- {name: a, value: 1, color: red}\n- {name: b, value: 3}\n")
	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0\ta\t1\t25.0%")
	assert.Contains(t, out, "2 records ok")
}

func TestValidateCommandRejectsBadData(t *testing.T) {
	path := writeData(t, "- {name: a, value: -1}\n")
	_, err := run(t, "validate", path)
	assert.Error(t, err)

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFromFlags(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--labels", "%s=%.0f", "--width", "400px"}))
	defer func() {
		rootCmd.Flags().Set("labels", "")
		rootCmd.Flags().Set("width", "")
	}()

	cfg := configFromFlags(rootCmd, nil)
	require.NotNil(t, cfg.LabelFormat)
	assert.Equal(t, "a=50", cfg.LabelFormat("a", 1, 50))
	require.NotNil(t, cfg.Width)
	assert.Equal(t, "400px", *cfg.Width)
	assert.Nil(t, cfg.Height)
	assert.Zero(t, cfg.TransitionDuration)
}
