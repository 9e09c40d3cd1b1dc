package fallback

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vani/internal/llm"
)

type fakeProvider struct {
	calls int
	fail  bool
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ llm.GenerationConfig) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("backend down")
	}
	return "reply to " + prompt, nil
}

func (f *fakeProvider) Describe(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProvider) Name() string { return "fake" }

func TestRespondCachesByNormalizedPrompt(t *testing.T) {
	p := &fakeProvider{}
	g := NewGenerator(p, llm.DefaultConfig(), 0)

	first := g.Respond(context.Background(), "Tell me a joke")
	assert.Equal(t, "reply to Tell me a joke", first)
	require.Equal(t, 1, p.calls)

	// Same prompt modulo trim and case hits the cache.
	second := g.Respond(context.Background(), "  tell me a JOKE ")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
}

func TestRespondEvictsOldestPastCapacity(t *testing.T) {
	p := &fakeProvider{}
	g := NewGenerator(p, llm.DefaultConfig(), 3)

	for i := 0; i < 4; i++ {
		g.Respond(context.Background(), fmt.Sprintf("prompt %d", i))
	}
	assert.Equal(t, 3, g.CacheLen())

	// The oldest entry is gone, so asking it again calls the provider.
	before := p.calls
	g.Respond(context.Background(), "prompt 0")
	assert.Equal(t, before+1, p.calls)

	// A newer entry is still cached.
	before = p.calls
	g.Respond(context.Background(), "prompt 3")
	assert.Equal(t, before, p.calls)
}

func TestRespondNeverErrors(t *testing.T) {
	g := NewGenerator(&fakeProvider{fail: true}, llm.DefaultConfig(), 0)
	out := g.Respond(context.Background(), "anything")
	assert.Equal(t, apology, out)
	assert.Zero(t, g.CacheLen(), "failures are not cached")

	assert.Equal(t, "I'm not sure how to help with that", g.Respond(context.Background(), "   "))
}
