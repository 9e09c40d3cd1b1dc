// Package tts turns reply text into audible speech through espeak-ng.
// Utterances are queued and played by a single worker goroutine so
// callers never block on audio.
package tts

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// voices maps spoken voice names to espeak language codes.
var voices = map[string]string{
	"english":  "en",
	"hinglish": "hi",
	"hindi":    "hi",
}

const queueDepth = 16

type Speaker struct {
	queue chan string
	voice atomic.Value // espeak language code

	speaking  atomic.Bool
	cancelled atomic.Bool

	once sync.Once
	done chan struct{}
}

func NewSpeaker() *Speaker {
	s := &Speaker{
		queue: make(chan string, queueDepth),
		done:  make(chan struct{}),
	}
	s.voice.Store("en")
	return s
}

// Say queues text for playback. A full queue drops the utterance
// rather than stalling the turn loop.
func (s *Speaker) Say(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.once.Do(func() { go s.worker() })
	select {
	case s.queue <- text:
	default:
		slog.Warn("speech queue full, dropping", "text", text)
	}
}

// Speaking reports whether an utterance is currently being played.
func (s *Speaker) Speaking() bool { return s.speaking.Load() }

// Stop aborts the current utterance and drains everything queued.
func (s *Speaker) Stop() {
	s.cancelled.Store(true)
	interrupt()
	for {
		select {
		case <-s.queue:
		default:
			s.cancelled.Store(false)
			return
		}
	}
}

// SetVoice switches the active voice by its spoken name.
func (s *Speaker) SetVoice(name string) error {
	lang, ok := voices[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown voice %q", name)
	}
	s.voice.Store(lang)
	return nil
}

// Close stops the worker once the queue drains.
func (s *Speaker) Close() {
	s.once.Do(func() { go s.worker() })
	close(s.queue)
	<-s.done
}

func (s *Speaker) worker() {
	defer close(s.done)
	for text := range s.queue {
		if s.cancelled.Load() {
			continue
		}
		s.speaking.Store(true)
		if err := say(text, s.voice.Load().(string)); err != nil {
			slog.Error("speech synthesis failed", "err", err)
		}
		s.speaking.Store(false)
	}
}
