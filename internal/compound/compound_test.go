package compound

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPrecedence(t *testing.T) {
	mode, parts := Split("open chrome then play music")
	assert.Equal(t, ModeSequential, mode)
	assert.Equal(t, []string{"open chrome", "play music"}, parts)

	mode, parts = Split("open chrome and play music")
	assert.Equal(t, ModeParallel, mode)
	assert.Equal(t, []string{"open chrome", "play music"}, parts)

	// A sequential connector anywhere wins over parallel ones.
	mode, _ = Split("open chrome and play music then take screenshot")
	assert.Equal(t, ModeSequential, mode)

	mode, parts = Split("play jazz or play rock")
	assert.Equal(t, ModeChoice, mode)
	assert.Equal(t, []string{"play jazz", "play rock"}, parts)

	mode, parts = Split("play music")
	assert.Equal(t, ModeNone, mode)
	assert.Equal(t, []string{"play music"}, parts)

	// Connector words inside other words never split.
	mode, _ = Split("play sandstorm")
	assert.Equal(t, ModeNone, mode)
}

func TestRunSequentialOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	r := &Runner{Dispatch: func(_ context.Context, task string) string {
		mu.Lock()
		seen = append(seen, task)
		mu.Unlock()
		return "did " + task
	}}

	out, ok := r.Run(context.Background(), "first task then second task then third task")
	require.True(t, ok)
	assert.Equal(t, []string{"first task", "second task", "third task"}, seen)
	assert.Equal(t, "did first task\ndid second task\ndid third task", out)
}

// Parallel results come back in original textual order even when the
// first sub-task finishes last.
func TestRunParallelTextualOrder(t *testing.T) {
	r := &Runner{Dispatch: func(_ context.Context, task string) string {
		if strings.HasPrefix(task, "slow") {
			time.Sleep(50 * time.Millisecond)
		}
		return task + " done"
	}}

	out, ok := r.Run(context.Background(), "slow thing and quick thing")
	require.True(t, ok)
	assert.Equal(t, "slow thing done\nquick thing done", out)
}

// A panicking sibling is reported inline and never cancels the others.
func TestRunParallelSiblingFailure(t *testing.T) {
	r := &Runner{Dispatch: func(_ context.Context, task string) string {
		if strings.Contains(task, "bad") {
			panic("boom")
		}
		return task + " done"
	}}

	out, ok := r.Run(context.Background(), "bad thing and good thing")
	require.True(t, ok)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "failed")
	assert.Equal(t, "good thing done", lines[1])
}

func TestRunChoiceAsksWithoutDispatching(t *testing.T) {
	calls := 0
	r := &Runner{Dispatch: func(_ context.Context, task string) string {
		calls++
		return task
	}}

	out, ok := r.Run(context.Background(), "play jazz or play rock")
	require.True(t, ok)
	assert.Equal(t, "Which would you like: play jazz, or play rock?", out)
	assert.Zero(t, calls)
}

func TestRunPlainUtterancePassesThrough(t *testing.T) {
	r := &Runner{Dispatch: func(_ context.Context, task string) string { return task }}
	_, ok := r.Run(context.Background(), "play music")
	assert.False(t, ok)
}
