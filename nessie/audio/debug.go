package audio

// MuteChannel mutes or unmutes a channel for debugging
func (a *APU) MuteChannel(ch Channel, muted bool) {
	if ch >= 0 && ch < ChannelCount {
		a.muted[ch] = muted
	}
}

// ToggleChannel toggles muting for a specific channel
func (a *APU) ToggleChannel(ch Channel) {
	if ch >= 0 && ch < ChannelCount {
		a.muted[ch] = !a.muted[ch]
	}
}

// SoloChannel mutes all channels except the specified one
func (a *APU) SoloChannel(ch Channel) {
	for i := range a.muted {
		a.muted[i] = Channel(i) != ch
	}
}

// UnmuteAll unmutes all channels
func (a *APU) UnmuteAll() {
	for i := range a.muted {
		a.muted[i] = false
	}
}

// ChannelStatus reports, per channel, whether it is unmuted and currently
// producing sound.
func (a *APU) ChannelStatus() [ChannelCount]bool {
	active := [ChannelCount]bool{
		a.square1.active(),
		a.square2.active(),
		a.triangle.active(),
		a.noise.active(),
		a.dmc.active(),
	}
	for i := range active {
		active[i] = active[i] && !a.muted[i]
	}
	return active
}
