// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/watchdog"
)

// inProcessSampleRate is the rate every captured stream is resampled to by
// the Pulse server before it reaches onPCM; whisper.cpp expects 16kHz mono.
const inProcessSampleRate = 16000

// writerFunc adapts a function to io.Writer for pulse.NewWriter, same
// adaptation rbright-sotto's pulse.go uses.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }

// sampleConverter resolves the requested Pulse wire format and the function
// that downconverts its raw bytes to i16 samples. PulseAudio has no native
// unsigned-16 format, so "u16" is requested as signed 16 from the server —
// bit-identical once downconverted — while "f32" is requested as native
// float and scaled down here.
func sampleConverter(format string) (pulseproto.SampleFormat, func([]byte) []int, error) {
	switch format {
	case "f32":
		return pulseproto.FormatFloat32LE, convertFloat32LE, nil
	case "i16", "u16":
		return pulseproto.FormatInt16LE, convertInt16LE, nil
	default:
		return 0, nil, ErrUnsupportedFormat
	}
}

func convertInt16LE(raw []byte) []int {
	n := len(raw) / 2
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}
	return out
}

func convertFloat32LE(raw []byte) []int {
	n := len(raw) / 4
	out := make([]int, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		f := math.Float32frombits(bits)
		switch {
		case f > 1:
			f = 1
		case f < -1:
			f = -1
		}
		out[i] = int(f * 32767)
	}
	return out
}

// inProcessRecorder streams PCM straight from a PulseAudio source into a WAV
// file on the audio callback thread. Grounded on rbright-sotto's
// apps/sotto/internal/audio/pulse.go Capture type: client/stream lifecycle,
// mutex-guarded stopped flag, sync.WaitGroup tracking in-flight callbacks so
// Stop never races a callback still writing.
type inProcessRecorder struct {
	client *pulse.Client
	stream *pulse.RecordStream
	file   *os.File
	enc    *wav.Encoder
	wd     *watchdog.CallbackWatchdog
	path   string
	log    logger.Logger
	conv   func([]byte) []int

	mu       sync.Mutex
	stopped  bool
	inflight sync.WaitGroup
	frames   atomic.Int64
}

func startInProcessRecorder(cfg Config, wavPath string, wdCfg watchdog.Config, log logger.Logger) (ActiveRecording, error) {
	format, conv, err := sampleConverter(cfg.SampleFormat)
	if err != nil {
		return nil, err
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("quedo"))
	if err != nil {
		return nil, fmt.Errorf("capture: connect pulse server: %w", err)
	}

	var source *pulse.Source
	if cfg.Device != "" {
		source, err = client.SourceByID(cfg.Device)
	} else {
		source, err = client.DefaultSource()
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("capture: resolve device: %w", err)
	}

	file, err := os.Create(wavPath)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("capture: create wav file: %w", err)
	}

	r := &inProcessRecorder{
		client: client,
		file:   file,
		enc:    wav.NewEncoder(file, inProcessSampleRate, 16, 1, 1),
		wd:     watchdog.NewCallbackWatchdog(wdCfg, time.Now()),
		path:   wavPath,
		log:    log,
		conv:   conv,
	}

	writer := pulse.NewWriter(writerFunc(r.onPCM), format)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(inProcessSampleRate),
		pulse.RecordMediaName("quedo dictation"),
	)
	if err != nil {
		_ = file.Close()
		client.Close()
		return nil, fmt.Errorf("capture: create pulse record stream: %w", err)
	}

	r.stream = stream
	stream.Start()

	return r, nil
}

// onPCM is the Pulse callback thread; it downconverts and encodes, then
// latches the watchdog's frame evidence.
func (r *inProcessRecorder) onPCM(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return 0, io.EOF
	}
	r.inflight.Add(1)
	r.mu.Unlock()
	defer r.inflight.Done()

	samples := r.conv(buf)
	if len(samples) == 0 {
		return len(buf), nil
	}

	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: inProcessSampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := r.enc.Write(ib); err != nil {
		r.log.Warning("capture: wav encode failed: %v", err)
		return 0, io.EOF
	}

	r.frames.Add(int64(len(samples)))
	r.wd.MarkFrame(time.Now())

	return len(buf), nil
}

func (r *inProcessRecorder) WatchdogSnapshot(now time.Time) watchdog.Snapshot {
	return r.wd.Snapshot(now)
}

// Stop halts the stream, finalizes the WAV header, and releases the Pulse
// client. Safe to call more than once.
func (r *inProcessRecorder) Stop() (string, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return r.path, nil
	}
	r.stopped = true
	r.mu.Unlock()

	if r.stream != nil {
		r.stream.Stop()
		r.stream.Close()
	}
	if r.client != nil {
		r.client.Close()
	}
	r.inflight.Wait()

	encErr := r.enc.Close()
	closeErr := r.file.Close()
	if encErr != nil {
		return "", fmt.Errorf("capture: finalize wav: %w", encErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("capture: close wav file: %w", closeErr)
	}

	if err := validateWAVHeader(r.path); err != nil {
		return "", err
	}
	return r.path, nil
}
