package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.GetInt(ConfigSearchDepth))
	assert.Equal(t, "bounded", cfg.GetString(ConfigTTMode))
	assert.Equal(t, "tactical", cfg.GetString(ConfigBotCode))
	assert.Equal(t, 3*time.Minute, cfg.GetDuration(ConfigClockAllowance))
	assert.False(t, cfg.GetBool(ConfigDebug))
	assert.Greater(t, cfg.GetInt(ConfigAutoplayThreads), 0)
}

func TestLoadArgsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUBIC_TT_MODE", "legacy")
	t.Setenv("QUBIC_SEARCH_DEPTH", "2")

	cfg := &Config{}
	err := cfg.Load([]string{"--search-depth=3", "--debug", "autoplay", "tactical", "-games", "10"})
	assert.NoError(t, err)
	// arguments beat the environment
	assert.Equal(t, 3, cfg.GetInt(ConfigSearchDepth))
	assert.Equal(t, "legacy", cfg.GetString(ConfigTTMode))
	assert.True(t, cfg.GetBool(ConfigDebug))
	assert.Equal(t, []string{"autoplay", "tactical", "-games", "10"}, cfg.Args())
}

func TestLoadSpaceSeparatedFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := &Config{}
	err := cfg.Load([]string{"--search-depth", "3", "--clock-allowance", "90s", "show"})
	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.GetInt(ConfigSearchDepth))
	assert.Equal(t, 90*time.Second, cfg.GetDuration(ConfigClockAllowance))
	assert.Equal(t, []string{"show"}, cfg.Args())
}

func TestLoadRejectsBadFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := &Config{}
	assert.Error(t, cfg.Load([]string{"--serch-depth=3"}))
	assert.Error(t, cfg.Load([]string{"--search-depth=deep"}))
}

func TestFlagDefaultsDoNotHideTheFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "qubic.yaml"), []byte("search-depth: 6\n"), 0o644))
	cfg := &Config{}
	assert.NoError(t, cfg.Load([]string{"--tt-mode", "legacy"}))
	assert.Equal(t, 6, cfg.GetInt(ConfigSearchDepth))
	assert.Equal(t, "legacy", cfg.GetString(ConfigTTMode))
	assert.Empty(t, cfg.Args())
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yml := "eval-line-weights: \"1,2,4,8\"\nclock-allowance: 90s\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "qubic.yaml"), []byte(yml), 0o644))

	cfg := &Config{}
	assert.NoError(t, cfg.Load(nil))
	assert.Equal(t, "1,2,4,8", cfg.GetString(ConfigEvalLineWeights))
	assert.Equal(t, 90*time.Second, cfg.GetDuration(ConfigClockAllowance))
	assert.Equal(t, 4, cfg.GetInt(ConfigSearchDepth))
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Set(ConfigSearchDepth, "5")
	assert.Equal(t, 5, cfg.GetInt(ConfigSearchDepth))
}

func TestWriteRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := DefaultConfig()
	cfg.Set(ConfigSearchDepth, 6)
	cfg.Set(ConfigBotCode, "search-only")
	assert.NoError(t, cfg.Write())

	loaded := &Config{}
	assert.NoError(t, loaded.Load(nil))
	assert.Equal(t, 6, loaded.GetInt(ConfigSearchDepth))
	assert.Equal(t, "search-only", loaded.GetString(ConfigBotCode))
}

func TestSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Set(ConfigSearchDepth, 5)
	snap := cfg.Snapshot()
	cfg.Set(ConfigSearchDepth, 2)
	cfg.Set(ConfigBotCode, "search-only")
	assert.Equal(t, 5, snap.GetInt(ConfigSearchDepth))
	assert.Equal(t, "tactical", snap.GetString(ConfigBotCode))
	assert.Equal(t, 2, cfg.GetInt(ConfigSearchDepth))
}
