package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/backend/terminal/render"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
)

type fakeProvider struct{ data *debug.CompleteDebugData }

func (p *fakeProvider) ExtractDebugData() *debug.CompleteDebugData { return p.data }

func newTestBackend(t *testing.T, w, h int, cfg backend.BackendConfig) (*Backend, tcell.SimulationScreen, *time.Time) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b := newWithScreen(screen)
	clock := time.Unix(0, 0)
	b.now = func() time.Time { return clock }
	require.NoError(t, b.Init(cfg))
	screen.SetSize(w, h)
	t.Cleanup(func() { _ = b.Cleanup() })
	return b, screen, &clock
}

func TestControllerKeySynthesis(t *testing.T) {
	b, screen, clock := newTestBackend(t, 320, 130, backend.BackendConfig{})

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	events, err := b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.NESButtonA, Type: event.Press}}, events)

	// key repeat keeps the button held
	*clock = clock.Add(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	events, err = b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.NESButtonA, Type: event.Hold}}, events)

	*clock = clock.Add(keyTimeout)
	events, err = b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.NESButtonA, Type: event.Release}}, events)

	events, err = b.Update(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDirectionsAreExclusive(t *testing.T) {
	b, screen, clock := newTestBackend(t, 320, 130, backend.BackendConfig{})

	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	_, err := b.Update(nil)
	require.NoError(t, err)

	*clock = clock.Add(10 * time.Millisecond)
	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	events, err := b.Update(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []backend.InputEvent{
		{Action: action.NESDPadLeft, Type: event.Press},
		{Action: action.NESDPadUp, Type: event.Release},
	}, events)
}

func TestEmulatorKeysAreQueued(t *testing.T) {
	testCases := []struct {
		desc string
		key  tcell.Key
		r    rune
		want action.Action
	}{
		{desc: "space pauses", key: tcell.KeyRune, r: ' ', want: action.EmulatorPauseToggle},
		{desc: "upper case rune", key: tcell.KeyRune, r: 'Q', want: action.EmulatorQuit},
		{desc: "ctrl-c quits", key: tcell.KeyCtrlC, want: action.EmulatorQuit},
		{desc: "function key", key: tcell.KeyF10, want: action.EmulatorDebugToggle},
		{desc: "solo digit", key: tcell.KeyRune, r: '3', want: action.AudioSoloTriangle},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			b, screen, _ := newTestBackend(t, 320, 130, backend.BackendConfig{})
			screen.InjectKey(tC.key, tC.r, tcell.ModNone)
			events, err := b.Update(nil)
			require.NoError(t, err)
			assert.Equal(t, []backend.InputEvent{{Action: tC.want, Type: event.Press}}, events)
		})
	}
}

func TestRenderFrame(t *testing.T) {
	b, screen, _ := newTestBackend(t, 320, 130, backend.BackendConfig{})

	frame := video.NewFrameBuffer()
	frame.SetPixel(0, 0, 0xFFFF0000)
	frame.SetPixel(0, 1, 0xFF0000FF)
	_, err := b.Update(frame)
	require.NoError(t, err)

	r, _, style, _ := screen.GetContent(0, 1)
	assert.Equal(t, render.UpperHalf, r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)
}

func TestRenderTooSmall(t *testing.T) {
	b, screen, _ := newTestBackend(t, 40, 10, backend.BackendConfig{})
	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)

	r, _, _, _ := screen.GetContent(0, 5)
	assert.Equal(t, 'T', r)
}

func TestHandleAction(t *testing.T) {
	b, _, _ := newTestBackend(t, 320, 130, backend.BackendConfig{})

	b.HandleAction(action.EmulatorDebugToggle)
	assert.True(t, b.config.ShowDebug)

	b.HandleAction(action.DebugLogLevelDecrease)
	b.HandleAction(action.DebugLogLevelDecrease)
	assert.Equal(t, "ERROR", b.logLevel.String())

	b.HandleAction(action.DebugLogLevelIncrease)
	assert.Equal(t, "WARN", b.logLevel.String())
}

func TestRegisterLines(t *testing.T) {
	data := &debug.CompleteDebugData{
		CPU: &debug.CPUState{A: 0x12, X: 0x34, Y: 0x56, SP: 0xFD, PC: 0x8000, P: 0x24,
			InterruptPending: true, Interrupt: "NMI"},
		PPU:           &video.State{Scanline: 21, Dot: 5, Ctrl: 0x80},
		Audio:         &debug.AudioData{Enabled: true, MasterVolume: 200, Channels: [5]bool{true, false, true, true, false}},
		DebuggerState: debug.DebuggerPaused,
		Cartridge:     "mapper 0 (NROM)",
	}

	lines := registerLines(data)
	assert.Equal(t, "Status: PAUSED", lines[0])
	assert.Contains(t, lines, "A: $12  X: $34  Y: $56")
	assert.Contains(t, lines, "SP: $FD  PC: $8000")
	assert.Contains(t, lines, "P: $24  ..-..I..")
	assert.Contains(t, lines, "Pending: NMI")
	assert.Contains(t, lines, "Line:  21  Dot:   5")
	assert.Contains(t, lines, "Vol: 200 1-34-")
	assert.Equal(t, "mapper 0 (NROM)", lines[len(lines)-1])
	assert.LessOrEqual(t, len(lines), registerHeight)
}

func TestDebugPanel(t *testing.T) {
	mem := make([]uint8, 16)
	mem[0] = 0xA9 // LDA #$01
	mem[1] = 0x01
	provider := &fakeProvider{data: &debug.CompleteDebugData{
		CPU:    &debug.CPUState{PC: 0x8000},
		Memory: &debug.MemorySnapshot{StartAddr: 0x8000, Bytes: mem},
	}}
	b, screen, _ := newTestBackend(t, 320, 130, backend.BackendConfig{ShowDebug: true, DebugProvider: provider})

	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)

	panelX := video.ScreenWidth + 2
	r, _, _, _ := screen.GetContent(panelX, registerHeight+2)
	assert.Equal(t, '→', r)

	var sb []rune
	for x := panelX; x < panelX+20; x++ {
		c, _, _, _ := screen.GetContent(x, registerHeight+2)
		sb = append(sb, c)
	}
	assert.Contains(t, string(sb), "$8000: LDA #$01")
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "NV-BDIZC", FlagString(0xFF))
	assert.Equal(t, "........", FlagString(0x00))
	assert.Equal(t, "N......C", FlagString(0x81))
}
