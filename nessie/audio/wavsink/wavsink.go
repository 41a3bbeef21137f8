// Package wavsink records APU output to a 16-bit stereo WAV file.
package wavsink

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth  = 16
	channels  = 2
	pcmFormat = 1
)

// Sink implements audio.Sink on top of a WAV encoder.
type Sink struct {
	file    *os.File
	enc     *wav.Encoder
	buf     *audio.IntBuffer
	written int
}

// New creates (or truncates) the file at path and writes a WAV header for
// interleaved stereo samples at sampleRate.
func New(path string, sampleRate int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavsink: %w", err)
	}

	return &Sink{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples appends interleaved left/right samples.
func (s *Sink) WriteSamples(samples []int16) error {
	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(v)
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("wavsink: %w", err)
	}
	s.written += len(samples) / channels
	return nil
}

// Frames returns the number of stereo frames written so far.
func (s *Sink) Frames() int {
	return s.written
}

// Close finalises the header sizes and closes the file.
func (s *Sink) Close() error {
	encErr := s.enc.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return fmt.Errorf("wavsink: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("wavsink: %w", fileErr)
	}

	slog.Info("Audio recording closed", "path", s.file.Name(), "frames", s.written)
	return nil
}
