package debug

import (
	"fmt"
	"strings"

	"github.com/valerio/go-nessie/nessie/audio"
)

// AudioSource is the APU view needed by the audio panel.
type AudioSource interface {
	ChannelStatus() [audio.ChannelCount]bool
	MasterVolume() int
}

type AudioData struct {
	Enabled      bool
	MasterVolume int
	Channels     [audio.ChannelCount]bool
	SampleRate   int
}

func ExtractAudioData(src AudioSource, sampleRate int) *AudioData {
	if src == nil {
		return &AudioData{SampleRate: sampleRate}
	}
	return &AudioData{
		Enabled:      true,
		MasterVolume: src.MasterVolume(),
		Channels:     src.ChannelStatus(),
		SampleRate:   sampleRate,
	}
}

// FormatChannels renders one "name:on/off" entry per channel.
func (data *AudioData) FormatChannels() string {
	parts := make([]string, 0, audio.ChannelCount)
	for i, on := range data.Channels {
		state := "off"
		if on {
			state = "on"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", audio.Channel(i), state))
	}
	return strings.Join(parts, " ")
}
