//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"

	"github.com/quedo-dev/quedo/internal/utils"
)

// maxAudioFileSize mirrors speak-to-ai's WhisperEngine.Transcribe guard
// against runaway memory use on a corrupt or oversized WAV.
const maxAudioFileSize int64 = 50 * 1024 * 1024

// WhisperCppEngine adapts github.com/ggerganov/whisper.cpp/bindings/go to
// the Engine interface. Grounded on speak-to-ai's whisper.WhisperEngine:
// model loaded once at construction, one NewContext per Transcribe call,
// segments concatenated and passed through utils.SanitizeTranscript.
type WhisperCppEngine struct {
	model     whisper.Model
	modelPath string
}

// NewWhisperCppEngine loads modelPath. Returning an error here (rather than
// inside a worker goroutine) is what lets init failures propagate
// synchronously.5.
func NewWhisperCppEngine(modelPath string) (*WhisperCppEngine, error) {
	if !utils.IsValidFile(modelPath) {
		return nil, fmt.Errorf("transcription: model not found: %s", modelPath)
	}
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcription: load model: %w", err)
	}
	return &WhisperCppEngine{model: model, modelPath: modelPath}, nil
}

// Transcribe runs one synchronous whisper.cpp inference over req.WavPath.
func (e *WhisperCppEngine) Transcribe(ctx context.Context, req Request) (Report, error) {
	if !utils.IsValidFile(req.WavPath) {
		return Report{}, fmt.Errorf("transcription: audio file not found or invalid: %s", req.WavPath)
	}

	size, err := utils.GetFileSize(req.WavPath)
	if err != nil {
		return Report{}, fmt.Errorf("transcription: stat audio file: %w", err)
	}
	if size > maxAudioFileSize {
		return Report{}, fmt.Errorf("transcription: audio file too large (%d bytes), max allowed is %d", size, maxAudioFileSize)
	}
	if err := utils.CheckDiskSpace(req.WavPath); err != nil {
		return Report{}, fmt.Errorf("transcription: insufficient disk space: %w", err)
	}

	samples, err := loadAudioData(req.WavPath)
	if err != nil {
		return Report{}, fmt.Errorf("transcription: load audio data: %w", err)
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return Report{}, fmt.Errorf("transcription: create whisper context: %w", err)
	}

	if req.Language != "" {
		if err := wctx.SetLanguage(req.Language); err != nil {
			return Report{}, fmt.Errorf("transcription: set language: %w", err)
		}
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		select {
		case <-ctx.Done():
			return Report{}, fmt.Errorf("transcription: cancelled: %w", ctx.Err())
		default:
			return Report{}, fmt.Errorf("transcription: process audio: %w", err)
		}
	}

	var transcript strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		transcript.WriteString(segment.Text)
		transcript.WriteString(" ")
	}

	text := utils.SanitizeTranscript(strings.TrimSpace(transcript.String()))
	return Report{Text: text, Language: req.Language}, nil
}

// Close releases the loaded model.
func (e *WhisperCppEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

// loadAudioData opens a WAV file, decodes it, and converts its PCM samples
// to the float32 format whisper.cpp requires. Verbatim port of the
// teacher's WhisperEngine.loadAudioData.
func loadAudioData(audioFile string) ([]float32, error) {
	file, err := openCleanPath(audioFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if decoder == nil {
		return nil, fmt.Errorf("failed to create WAV decoder")
	}
	audioBuffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio buffer: %w", err)
	}

	samples := make([]float32, audioBuffer.NumFrames())
	for i := 0; i < audioBuffer.NumFrames(); i++ {
		samples[i] = float32(audioBuffer.Data[i]) / 32768.0
	}
	return samples, nil
}
