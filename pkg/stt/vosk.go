package stt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	vosk "github.com/alphacep/vosk-api/go"
)

const voskSampleRate = 16000.0

type Vosk struct {
	model *vosk.VoskModel
}

func NewVosk(modelDir string) (*Vosk, error) {
	if modelDir == "" {
		return nil, errors.New("empty model directory")
	}
	m, err := vosk.NewModel(modelDir)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Vosk{model: m}, nil
}

func (v *Vosk) Close() error {
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
	return nil
}

func (v *Vosk) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if v.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm16k) == 0 {
		return "", errors.New("no audio samples provided")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rec, err := vosk.NewRecognizer(v.model, voskSampleRate)
	if err != nil {
		return "", fmt.Errorf("new recognizer: %w", err)
	}
	defer rec.Free()

	rec.AcceptWaveform(pcmToLE16(pcm16k))

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(rec.FinalResult()), &out); err != nil {
		return "", fmt.Errorf("decode result: %w", err)
	}
	return out.Text, nil
}

// pcmToLE16 converts float32 samples to the little-endian int16 bytes
// the recognizer consumes.
func pcmToLE16(pcm []float32) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		v := int16(math.Max(-32768, math.Min(32767, float64(s)*32768)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}
