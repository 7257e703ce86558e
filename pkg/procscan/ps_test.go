package procscan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const psOutput = `    PID TTY      STAT   TIME COMMAND
      1 ?        Ss     0:03 /sbin/init
    812 ?        S      0:00 /usr/bin/kbdd
   1033 pts/0    Sl+    0:00 kbddbar --output i3bar
`

func fakePs(t *testing.T, output string) string {
	t.Helper()

	dir := t.TempDir()
	data := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(data, []byte(output), 0644))

	script := filepath.Join(dir, "ps")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncat "+data+"\n"), 0755))
	return script
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []string{
		"/sbin/init",
		"/usr/bin/kbdd",
		"kbddbar --output i3bar",
	}, commands(psOutput))
	assert.Nil(t, commands(""))
}

func TestIsRunning(t *testing.T) {
	ps, err := New(fakePs(t, psOutput), "kbdd")
	require.NoError(t, err)

	running, err := ps.IsRunning(context.Background())
	require.NoError(t, err)
	assert.True(t, running)
}

func TestIsRunningIgnoresSimilarNames(t *testing.T) {
	output := `    PID TTY      STAT   TIME COMMAND
   1033 pts/0    Sl+    0:00 kbddbar --output i3bar
   1040 pts/1    S+     0:00 vim kbdd.conf
`
	ps, err := New(fakePs(t, output), "kbdd")
	require.NoError(t, err)

	running, err := ps.IsRunning(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
}

func TestMissingTool(t *testing.T) {
	ps, err := New(filepath.Join(t.TempDir(), "no-such-ps"), "kbdd")
	require.NoError(t, err)

	_, err = ps.IsRunning(context.Background())
	assert.ErrorIs(t, err, kbdd.ErrToolMissing)

	ps.Path = "definitely-not-a-ps-binary"
	_, err = ps.IsRunning(context.Background())
	assert.ErrorIs(t, err, kbdd.ErrToolMissing)
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New("", "")
	assert.Error(t, err)
}
