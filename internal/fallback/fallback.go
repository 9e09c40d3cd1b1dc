// Package fallback answers utterances no category matched by handing
// them to the generative backend, with a small exact-match response
// cache in front.
package fallback

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"vani/internal/llm"
)

// DefaultCacheSize bounds the prompt cache.
const DefaultCacheSize = 100

const apology = "I'm having trouble with some services right now."

// Generator caches responses keyed by the trimmed, lowercased prompt.
// Eviction removes the oldest-inserted entry once the cache is over
// capacity. That is the assistant's historical behavior, kept on
// purpose; it is not LRU.
type Generator struct {
	provider llm.Provider
	cfg      llm.GenerationConfig

	mu      sync.Mutex
	entries map[string]string
	order   []string
	cap     int
}

func NewGenerator(provider llm.Provider, cfg llm.GenerationConfig, cacheSize int) *Generator {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Generator{
		provider: provider,
		cfg:      cfg,
		entries:  make(map[string]string),
		cap:      cacheSize,
	}
}

// Respond returns a generated (or cached) answer. Provider failures
// come back as an apologetic sentence, never as an error: the fallback
// is the last stop and must always produce something speakable.
func (g *Generator) Respond(ctx context.Context, prompt string) string {
	key := strings.ToLower(strings.TrimSpace(prompt))
	if key == "" {
		return "I'm not sure how to help with that"
	}

	g.mu.Lock()
	if cached, ok := g.entries[key]; ok {
		g.mu.Unlock()
		return cached
	}
	g.mu.Unlock()

	text, err := g.provider.Generate(ctx, prompt, g.cfg)
	if err != nil {
		slog.Error("fallback generation failed", "provider", g.provider.Name(), "err", err)
		return apology
	}

	g.mu.Lock()
	g.store(key, text)
	g.mu.Unlock()
	return text
}

// store inserts under the caller-held lock and evicts the oldest entry
// past capacity.
func (g *Generator) store(key, value string) {
	if _, exists := g.entries[key]; !exists {
		g.order = append(g.order, key)
	}
	g.entries[key] = value
	for len(g.entries) > g.cap {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.entries, oldest)
	}
}

// CacheLen reports the current cache size.
func (g *Generator) CacheLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
