package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMatchesByName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	for _, name := range []string{"report.pdf", "docs/annual_report.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	f := &Finder{Root: root}
	matches, err := f.Search("report")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Contains(t, filepath.Base(m), "report")
	}
}

func TestSearchSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache", "report.tmp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), nil, 0o644))

	f := &Finder{Root: root}
	matches, err := f.Search("report")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(root, "report.txt"), matches[0])
}

func TestSearchCapsResults(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < maxResults+5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.Base(t.Name())+string(rune('a'+i))+"_log.txt"), nil, 0o644))
	}

	f := &Finder{Root: root}
	matches, err := f.Search("log")
	require.NoError(t, err)
	assert.Len(t, matches, maxResults)
}

func TestSearchEmptyQuery(t *testing.T) {
	f := &Finder{Root: t.TempDir()}
	_, err := f.Search("   ")
	assert.Error(t, err)
}

func TestOpenResultBounds(t *testing.T) {
	f := &Finder{Root: t.TempDir()}
	_, err := f.Search("anything")
	require.NoError(t, err)
	_, err = f.OpenResult(1)
	assert.Error(t, err)
	_, err = f.OpenResult(0)
	assert.Error(t, err)
}
