package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackwu/spectra/config"
)

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("hello\n\nこんにちは\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "", "こんにちは"}, lines)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectra.yaml")
	cfgFile, force = path, false
	t.Cleanup(func() { cfgFile, force = "", false })

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	require.NoError(t, runConfigInit(configInitCmd, nil))
	assert.Contains(t, out.String(), path)

	cfg, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Reveal, cfg.Reveal)

	err = runConfigInit(configInitCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  char_delay: 40ms\n"), 0644))
	force = true
	require.NoError(t, runConfigInit(configInitCmd, nil))
	cfg, _, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Reveal, cfg.Reveal)
}

func TestMuteFlagDisablesAudio(t *testing.T) {
	mute, logLevel = true, "debug"
	t.Cleanup(func() { mute, logLevel = false, "" })

	cfg := config.Default()
	overrideFlags(cfg)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigReportsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spectra.yaml"), []byte("ui:\n  color: mono\n"), 0644))

	cfg, used, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.UI.Color)
	assert.Equal(t, "spectra.yaml", filepath.Base(used))
}
