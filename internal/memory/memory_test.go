package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBoundsRecentTopics(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "memory.json"))
	for i := 0; i < 8; i++ {
		require.NoError(t, s.Observe(fmt.Sprintf("topic %d", i), "conversation"))
	}
	topics := s.RecentTopics()
	require.Len(t, topics, MaxTopics)
	assert.Equal(t, "topic 3", topics[0].Text)
	assert.Equal(t, "topic 7", topics[len(topics)-1].Text)
}

func TestObserveExtractsPreferences(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "memory.json"))

	require.NoError(t, s.Observe("my favorite band is radiohead", "music"))
	pref, ok := s.Preference("music")
	require.True(t, ok)
	assert.Equal(t, "band is radiohead", pref)

	require.NoError(t, s.Observe("i like jazz", "music"))
	pref, _ = s.Preference("music")
	assert.Equal(t, "jazz", pref)

	_, ok = s.Preference("system")
	assert.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s := Open(path)
	require.NoError(t, s.Observe("i prefer dark mode", "system"))
	require.NoError(t, s.Observe("play some jazz", "music"))

	reloaded := Open(path)
	pref, ok := reloaded.Preference("system")
	require.True(t, ok)
	assert.Equal(t, "dark mode", pref)
	topics := reloaded.RecentTopics()
	require.Len(t, topics, 2)
	assert.Equal(t, "play some jazz", topics[1].Text)
	assert.Equal(t, "music", topics[1].Category)
}

func TestOpenToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Open(path)
	assert.Empty(t, s.RecentTopics())
	require.NoError(t, s.Observe("hello there", "conversation"))
	assert.Len(t, s.RecentTopics(), 1)
}
