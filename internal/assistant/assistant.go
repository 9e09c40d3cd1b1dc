// Package assistant is the turn loop. It owns the path from a wake
// trigger to a spoken reply: record, transcribe, dispatch, speak. Text
// surfaces (ipc, bus) enter through HandleText directly.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vani/internal/audio"
	"vani/internal/compound"
	"vani/internal/dispatch"
	"vani/internal/intent"
	"vani/internal/notify"
	"vani/internal/tts"
	"vani/pkg/stt"
)

const Greeting = "Hello, I am Vani. How can I help you?"

const commandQueueDepth = 8

type Assistant struct {
	dispatcher *dispatch.Dispatcher
	runner     *compound.Runner
	speaker    *tts.Speaker
	recorder   *audio.Recorder
	engine     stt.Engine

	// EarconPath, when set, is the chime played before listening.
	EarconPath string
	// Ducker, when set, fades other applications' audio down during
	// recording.
	Ducker *audio.Ducker
	// ListenTimeout caps one recording.
	ListenTimeout time.Duration
	// Cooldown is the minimum spacing between accepted commands.
	Cooldown time.Duration

	mu          sync.Mutex
	lastCommand time.Time

	commands chan string
}

func New(d *dispatch.Dispatcher, speaker *tts.Speaker, recorder *audio.Recorder, engine stt.Engine) *Assistant {
	return &Assistant{
		dispatcher:    d,
		runner:        &compound.Runner{Dispatch: d.Handle},
		speaker:       speaker,
		recorder:      recorder,
		engine:        engine,
		ListenTimeout: 60 * time.Second,
		Cooldown:      time.Second,
		commands:      make(chan string, commandQueueDepth),
	}
}

// Speak queues text for voice output when a speaker is wired.
func (a *Assistant) Speak(text string) {
	if a.speaker != nil {
		a.speaker.Say(text)
	}
}

// Stop halts ongoing speech. Wired into the dispatcher's stop gate.
func (a *Assistant) Stop() {
	if a.speaker != nil {
		a.speaker.Stop()
	}
}

// cooled reports whether enough time has passed since the last
// accepted command. Stop requests always pass the gate.
func (a *Assistant) cooled(text string) bool {
	if intent.IsStop(text) {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	if now.Sub(a.lastCommand) < a.Cooldown {
		return false
	}
	a.lastCommand = now
	return true
}

// HandleText runs one utterance end to end and returns the reply.
// Compound utterances are split and fanned out; an active dialogue
// session keeps the turn whole so connector words inside answers are
// never split.
func (a *Assistant) HandleText(ctx context.Context, text string) string {
	text = intent.Normalize(text)
	if text == "" {
		return "No command received"
	}
	if !a.cooled(text) {
		slog.Debug("command dropped by cooldown", "text", text)
		return ""
	}

	if !intent.IsStop(text) && !a.dispatcher.FlightSessionActive() {
		if reply, ok := a.runner.Run(ctx, text); ok {
			return reply
		}
	}
	return a.dispatcher.Handle(ctx, text)
}

// HandleTrigger services one wake-word activation: chime, record,
// transcribe, dispatch, speak.
func (a *Assistant) HandleTrigger(ctx context.Context) {
	if a.recorder == nil || a.engine == nil {
		slog.Warn("voice trigger without audio pipeline")
		return
	}

	if a.EarconPath != "" {
		if err := notify.Chime(a.EarconPath); err != nil {
			slog.Warn("earcon failed", "err", err)
		}
	}

	if a.Ducker != nil {
		if err := a.Ducker.Duck(ctx, 0.3, 200*time.Millisecond); err != nil {
			slog.Debug("duck failed", "err", err)
		}
	}
	pcm, err := a.recorder.RecordCommand(a.ListenTimeout)
	if a.Ducker != nil {
		if err := a.Ducker.Unduck(ctx, 200*time.Millisecond); err != nil {
			slog.Debug("unduck failed", "err", err)
		}
	}
	if err != nil {
		slog.Warn("recording failed", "err", err)
		return
	}

	text, err := a.engine.Transcribe(ctx, pcm)
	if err != nil {
		slog.Error("transcription failed", "err", err)
		a.Speak("Sorry, I couldn't understand that.")
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	slog.Info("heard", "text", text)

	if reply := a.HandleText(ctx, text); reply != "" {
		slog.Info("reply", "text", reply)
		a.Speak(reply)
		if err := notify.Popup("Vani", reply); err != nil {
			slog.Debug("notification failed", "err", err)
		}
	}
}

// Submit queues a text command for the worker loop. Full queue drops
// the command.
func (a *Assistant) Submit(text string) {
	select {
	case a.commands <- text:
	default:
		slog.Warn("command queue full, dropping", "text", text)
	}
}

// Run processes queued text commands until the context ends. Replies
// are spoken.
func (a *Assistant) Run(ctx context.Context) {
	a.Speak(Greeting)
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-a.commands:
			if reply := a.HandleText(ctx, text); reply != "" {
				slog.Info("reply", "text", reply)
				a.Speak(reply)
			}
		}
	}
}
