// Package stt transcribes recorded speech. Two engines are provided:
// a whisper.cpp backend for quality and a vosk backend for low-latency
// offline recognition.
package stt

import "context"

// Engine converts mono 16 kHz float32 PCM into text.
type Engine interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
	Close() error
}
