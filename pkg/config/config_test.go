package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func isolateXDG(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	// registered first so it runs after the env is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "etc"))
	xdg.Reload()
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolateXDG(t)

	cfg, err := Load("", zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.UpdateInterval)
	assert.Equal(t, []string{"us", "ir"}, cfg.ConfiguredKeyboards)
	assert.False(t, cfg.Colours.Enabled())
	assert.Equal(t, LivenessPs, cfg.Liveness)
	assert.Equal(t, "kbdd", cfg.ProcessName)
	assert.Equal(t, OutputI3bar, cfg.Output)
	assert.True(t, cfg.ClickEvents)
	assert.False(t, cfg.DetectExit)
	assert.Equal(t, JournalSQLite, cfg.Journal.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "kbddbar", "layouts.db"), cfg.Journal.Path)
}

func TestLoadFromXDGConfigHome(t *testing.T) {
	dir := isolateXDG(t)
	configDir := filepath.Join(dir, "config", "kbddbar")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("configured_keyboards: [us, de]\n"), 0644))
	xdg.Reload()

	cfg, err := Load("", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"us", "de"}, cfg.ConfiguredKeyboards)
}

func TestLoadFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, `
update_interval: 0.5
configured_keyboards: [us, ir, es]
colours: [ffffff, E6F0AF]
liveness: dbus
detect_exit: true
output: polybar
journal:
  backend: memory
`)

	cfg, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.UpdateInterval)
	assert.Equal(t, []string{"us", "ir", "es"}, cfg.ConfiguredKeyboards)
	assert.Equal(t, []string{"ffffff", "E6F0AF"}, cfg.Colours.Colours())
	assert.Equal(t, LivenessDBus, cfg.Liveness)
	assert.True(t, cfg.DetectExit)
	assert.Equal(t, OutputPolybar, cfg.Output)
	assert.Equal(t, JournalMemory, cfg.Journal.Backend)
	assert.Empty(t, cfg.Journal.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	isolateXDG(t)
	t.Setenv("KBDDBAR_OUTPUT", "text")
	t.Setenv("KBDDBAR_JOURNAL_BACKEND", "none")

	cfg, err := Load("", zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, JournalNone, cfg.Journal.Backend)
}

func TestLoadScalarColoursIsLoggedAndIgnored(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "colours: ffffff\njournal:\n  backend: none\n")

	core, logs := observer.New(zapcore.InfoLevel)
	cfg, err := Load(path, zap.New(core).Sugar())
	require.NoError(t, err)

	assert.False(t, cfg.Colours.Enabled())
	entries := logs.FilterMessage("ignoring colours").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestLoadMissingFile(t *testing.T) {
	isolateXDG(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestParseColours(t *testing.T) {
	scheme, err := parseColours(nil)
	require.NoError(t, err)
	assert.False(t, scheme.Enabled())

	scheme, err = parseColours([]any{"fff", "000"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fff", "000"}, scheme.Colours())

	_, err = parseColours("fff")
	assert.ErrorIs(t, err, ErrMisconfiguredColours)

	_, err = parseColours([]any{"fff", 3})
	assert.ErrorIs(t, err, ErrMisconfiguredColours)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{
		ConfiguredKeyboards: []string{"us", " "},
		Liveness:            "guess",
		Output:              "lemonbar",
		Journal:             JournalConfig{Backend: JournalSQLite},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"configured_keyboards[1] is empty",
		"update_interval must be > 0",
		`unknown liveness "guess"`,
		`unknown output "lemonbar"`,
		"journal.path is required",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	isolateXDG(t)
	cfg := Config{
		UpdateInterval:      2 * time.Second,
		ConfiguredKeyboards: []string{"us", "ir"},
		Colours:             kbdd.ColourList("ffffff", "E6F0AF"),
		Liveness:            LivenessPs,
		ProcessName:         "kbdd",
		PsPath:              "ps",
		Output:              OutputText,
		Journal:             JournalConfig{Backend: JournalNone},
	}

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	path := writeConfig(t, buf.String())
	loaded, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, cfg.UpdateInterval, loaded.UpdateInterval)
	assert.Equal(t, cfg.Colours.Colours(), loaded.Colours.Colours())
	assert.Equal(t, cfg.Output, loaded.Output)
}
