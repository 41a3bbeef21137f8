//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// maxQueuedFrames bounds the audio queued ahead of playback; anything above
// it is dropped so a slow frame does not build up latency.
const maxQueuedFrames = 8192

// AudioSink queues APU samples on an SDL audio device. Samples written
// before the device is opened are dropped.
type AudioSink struct {
	dev      sdl.AudioDeviceID
	maxBytes uint32
	dropped  int
}

func (a *AudioSink) open(sampleRate int) error {
	want := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	var have sdl.AudioSpec
	dev, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	a.dev = dev
	a.maxBytes = maxQueuedFrames * 4
	sdl.PauseAudioDevice(dev, false)
	slog.Info("Audio device opened", "rate", have.Freq, "channels", have.Channels)
	return nil
}

func (a *AudioSink) WriteSamples(samples []int16) error {
	if a.dev == 0 || len(samples) == 0 {
		return nil
	}
	if sdl.GetQueuedAudioSize(a.dev) > a.maxBytes {
		a.dropped += len(samples) / 2
		return nil
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	return sdl.QueueAudio(a.dev, data)
}

func (a *AudioSink) close() {
	if a.dev == 0 {
		return
	}
	sdl.CloseAudioDevice(a.dev)
	if a.dropped > 0 {
		slog.Debug("Audio frames dropped", "frames", a.dropped)
	}
	a.dev = 0
}
