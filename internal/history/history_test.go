package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEvictsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	l, err := Open(path)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		require.NoError(t, l.Append(fmt.Sprintf("command %d", i)))
	}

	entries := l.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "command 2", entries[0].Command)
	assert.Equal(t, "command 11", entries[len(entries)-1].Command)

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, "command 11", last.Command)
}

func TestPersistedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append("play music"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))
	cmd, ts, ok := strings.Cut(line, "|")
	require.True(t, ok)
	assert.Equal(t, "play music", cmd)
	assert.NotEmpty(t, ts)
}

func TestOpenReloadsAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "command %d|%d.5\n", i, 1700000000+i)
	}
	b.WriteString("corrupt line without separator\n")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	l, err := Open(path)
	require.NoError(t, err)
	entries := l.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "command 5", entries[0].Command)
	assert.InDelta(t, 1700000005.5, entries[0].At, 0.001)
}

func TestOpenMissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, l.Entries())
	_, ok := l.Last()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append("one"))
	require.NoError(t, l.Clear())
	assert.Empty(t, l.Entries())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(raw)))
}
