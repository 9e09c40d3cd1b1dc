// Package memory persists lightweight conversation context between
// runs: per-category user preferences and a bounded list of recent
// topics, as a single JSON file.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxTopics bounds the recent-interaction list.
const MaxTopics = 5

type Topic struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	At       float64 `json:"timestamp"`
}

type snapshot struct {
	UserPreferences map[string]string `json:"user_preferences"`
	RecentTopics    []Topic           `json:"recent_topics"`
}

type Store struct {
	mu     sync.Mutex
	path   string
	prefs  map[string]string
	recent []Topic
}

// Open loads memory from path; a missing or corrupt file starts empty
// rather than failing the assistant.
func Open(path string) *Store {
	s := &Store{path: path, prefs: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return s
	}
	if snap.UserPreferences != nil {
		s.prefs = snap.UserPreferences
	}
	s.recent = snap.RecentTopics
	if len(s.recent) > MaxTopics {
		s.recent = s.recent[len(s.recent)-MaxTopics:]
	}
	return s
}

// Observe records one interaction. A phrase like "my favorite X" or
// "i like X" also updates the preference for the category.
func (s *Store) Observe(text, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, Topic{
		Text:     text,
		Category: category,
		At:       float64(time.Now().UnixNano()) / 1e9,
	})
	if len(s.recent) > MaxTopics {
		s.recent = s.recent[1:]
	}

	lower := strings.ToLower(text)
	for _, marker := range []string{"favorite", "i like", "i prefer"} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			pref := strings.TrimSpace(lower[idx+len(marker):])
			if pref != "" {
				s.prefs[category] = pref
			}
			break
		}
	}
	return s.save()
}

// Preference returns the stored preference for a category, if any.
func (s *Store) Preference(category string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[category]
	return p, ok
}

// RecentTopics returns a copy of the bounded topic list, oldest first.
func (s *Store) RecentTopics() []Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Topic, len(s.recent))
	copy(out, s.recent)
	return out
}

func (s *Store) save() error {
	snap := snapshot{UserPreferences: s.prefs, RecentTopics: s.recent}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o644)
}
