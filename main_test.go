package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/bar"
	"codeberg.org/miketth/kbddbar/pkg/config"
	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	jsonstore "codeberg.org/miketth/kbddbar/pkg/layoutstore/json"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/memory"
	"codeberg.org/miketth/kbddbar/pkg/procscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenJournal(t *testing.T) {
	log := zap.NewNop().Sugar()

	journal, err := openJournal(config.JournalConfig{Backend: config.JournalNone}, log)
	require.NoError(t, err)
	assert.Nil(t, journal)

	journal, err = openJournal(config.JournalConfig{Backend: config.JournalMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &memory.LayoutStore{}, journal)

	path := filepath.Join(t.TempDir(), "nested", "layouts.json")
	journal, err = openJournal(config.JournalConfig{Backend: config.JournalJSON, Path: path}, log)
	require.NoError(t, err)
	assert.IsType(t, &jsonstore.LayoutStore{}, journal)
	require.NoError(t, journal.Close())

	_, err = openJournal(config.JournalConfig{Backend: "redis", Path: path}, log)
	assert.Error(t, err)
}

func TestPrintStats(t *testing.T) {
	journal := memory.NewLayoutStore()
	for _, layout := range []string{"ir", "us", "ir"} {
		require.NoError(t, journal.LayoutChanged(kbdd.LayoutChange{At: time.Now(), Layout: layout}))
	}

	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, journal))
	assert.Equal(t, "ir\t2\nus\t1\n", buf.String())

	assert.Error(t, printStats(&buf, nil))
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer

	assert.IsType(t, &bar.Text{}, newWriter(config.Config{Output: config.OutputText}, &buf))
	assert.IsType(t, &bar.Polybar{}, newWriter(config.Config{Output: config.OutputPolybar}, &buf))
	assert.IsType(t, &bar.I3Bar{}, newWriter(config.Config{Output: config.OutputI3bar}, &buf))
}

func TestNewLivenessChecker(t *testing.T) {
	checker, err := newLivenessChecker(config.Config{Liveness: config.LivenessPs, PsPath: "ps", ProcessName: "kbdd"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &procscan.Ps{}, checker)

	_, err = newLivenessChecker(config.Config{Liveness: config.LivenessDBus}, nil)
	assert.Error(t, err)
}
