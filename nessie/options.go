package nessie

import (
	"fmt"
	"strings"

	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/timing"
)

// Region selects the video standard the console emulates.
type Region int

const (
	NTSC Region = iota
	PAL
)

func (r Region) String() string {
	if r == PAL {
		return "PAL"
	}
	return "NTSC"
}

// CPUFrequency is the 2A03/2A07 clock in Hz.
func (r Region) CPUFrequency() float64 {
	if r == PAL {
		return 1773447.4
	}
	return 1789772.5
}

// FrameRate is the preferred number of frames per second.
func (r Region) FrameRate() float64 {
	if r == PAL {
		return timing.PALFrameRate
	}
	return timing.NTSCFrameRate
}

// ParseRegion accepts "ntsc" or "pal", in any case.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(s) {
	case "", "ntsc":
		return NTSC, nil
	case "pal":
		return PAL, nil
	}
	return NTSC, fmt.Errorf("unknown region %q", s)
}

// Options configures a Console. The zero value is not useful, start from
// DefaultOptions.
type Options struct {
	Region       Region
	SampleRate   int
	EmulateSound bool
	ClipToTVSize bool
	// MasterVolume ranges from 0 to 256.
	MasterVolume int
	// AudioSink receives the sample buffers. Nil discards them.
	AudioSink audio.Sink
}

// DefaultOptions returns the options of a plain NTSC console.
func DefaultOptions() Options {
	return Options{
		Region:       NTSC,
		SampleRate:   44100,
		EmulateSound: true,
		ClipToTVSize: true,
		MasterVolume: 256,
	}
}

func (o Options) audioConfig() audio.Config {
	return audio.Config{
		SampleRate:   o.SampleRate,
		CPUFrequency: o.Region.CPUFrequency(),
		PAL:          o.Region == PAL,
	}
}
