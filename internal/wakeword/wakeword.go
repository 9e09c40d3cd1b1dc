// Package wakeword listens to the microphone for the assistant's
// activation keyword.
package wakeword

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	porcupine "github.com/Picovoice/porcupine/binding/go/v2"
	"github.com/gordonklaus/portaudio"
)

// builtins are the keywords the engine ships without custom model
// files.
var builtins = map[string]porcupine.BuiltInKeyword{
	"jarvis":    porcupine.JARVIS,
	"computer":  porcupine.COMPUTER,
	"alexa":     porcupine.ALEXA,
	"porcupine": porcupine.PORCUPINE,
	"bumblebee": porcupine.BUMBLEBEE,
}

const defaultKeyword = "jarvis"

type Detector struct {
	accessKey string

	mu      sync.Mutex
	keyword string
	engine  *porcupine.Porcupine
}

func NewDetector(accessKey string) *Detector {
	return &Detector{accessKey: accessKey, keyword: defaultKeyword}
}

func (d *Detector) start() error {
	kw, ok := builtins[d.keyword]
	if !ok {
		return fmt.Errorf("unknown wake word %q", d.keyword)
	}
	engine := porcupine.Porcupine{
		AccessKey:       d.accessKey,
		BuiltInKeywords: []porcupine.BuiltInKeyword{kw},
	}
	if err := engine.Init(); err != nil {
		return fmt.Errorf("init wake word engine: %w", err)
	}
	d.engine = &engine
	return nil
}

// SetKeyword swaps the active wake word. The listening loop picks the
// new engine up on its next frame.
func (d *Detector) SetKeyword(word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if _, ok := builtins[word]; !ok {
		names := make([]string, 0, len(builtins))
		for n := range builtins {
			names = append(names, n)
		}
		return fmt.Errorf("unknown wake word %q, available: %s", word, strings.Join(names, ", "))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.engine != nil {
		d.engine.Delete()
		d.engine = nil
	}
	d.keyword = word
	return d.start()
}

// Keyword returns the wake word currently being listened for.
func (d *Detector) Keyword() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keyword
}

// process feeds one frame and reports a detection.
func (d *Detector) process(frame []int16) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.engine == nil {
		if err := d.start(); err != nil {
			return false, err
		}
	}
	idx, err := d.engine.Process(frame)
	if err != nil {
		return false, err
	}
	return idx >= 0, nil
}

// Listen blocks reading microphone frames until the stop channel
// closes, invoking onWake for every detection. portaudio must already
// be initialized by the caller.
func (d *Detector) Listen(stop <-chan struct{}, onWake func()) error {
	frame := make([]int16, porcupine.FrameLength)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(porcupine.SampleRate), len(frame), frame)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start microphone: %w", err)
	}
	defer stream.Stop()

	for {
		select {
		case <-stop:
			d.mu.Lock()
			if d.engine != nil {
				d.engine.Delete()
				d.engine = nil
			}
			d.mu.Unlock()
			return nil
		default:
		}

		if err := stream.Read(); err != nil {
			slog.Warn("microphone read failed", "err", err)
			continue
		}
		detected, err := d.process(frame)
		if err != nil {
			return err
		}
		if detected {
			onWake()
		}
	}
}
