package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultDraftDelay, cfg.DraftDelay)
	assert.Equal(t, DefaultMaxHistory, cfg.MaxHistory)
	assert.False(t, cfg.SeedDemo)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(newFlags(t, "--draftDelay=250ms", "--seedDemo", "--maxHistory=5"))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.DraftDelay)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 5, cfg.MaxHistory)
}

func TestLoad_EnvironmentBelowFlags(t *testing.T) {
	t.Setenv("FIELDREPORTS_MAX_HISTORY", "20")
	t.Setenv("FIELDREPORTS_SEED_DEMO", "true")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxHistory)
	assert.True(t, cfg.SeedDemo)

	cfg, err = Load(newFlags(t, "--maxHistory=3"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxHistory)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldreports.yaml")
	require.NoError(t, os.WriteFile(path, []byte("draft_delay: 2s\nmax_history: 7\n"), 0o600))

	cfg, err := Load(newFlags(t, "--config="+path))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.DraftDelay)
	assert.Equal(t, 7, cfg.MaxHistory)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(newFlags(t, "--maxHistory=0"))
	assert.Error(t, err)

	_, err = Load(newFlags(t, "--draftDelay=-1s"))
	assert.Error(t, err)
}
