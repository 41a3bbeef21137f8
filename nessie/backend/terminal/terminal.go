package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/backend/terminal/render"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
)

const (
	registerHeight = 12
	disasmHeight   = 9
	panelWidth     = 44
	maxScale       = 4
	logCapacity    = 200

	// terminals only report key presses, so a controller button counts as
	// held until this long after its last repeat
	keyTimeout = 100 * time.Millisecond
)

// Backend renders frames with half blocks on a true color terminal.
type Backend struct {
	screen        tcell.Screen
	config        backend.BackendConfig
	debugProvider backend.DebugProvider

	logBuffer *render.LogBuffer
	logLevel  slog.Level

	keyStates  map[action.Action]time.Time
	activeKeys map[action.Action]bool
	queue      []backend.InputEvent
	signals    chan os.Signal
	now        func() time.Time

	currentFrame *video.FrameBuffer
	disasmBuf    *debug.DisasmBuffer
}

func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
		now:      time.Now,
	}
}

func newWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init takes over the terminal and redirects the default logger into the
// log panel.
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)
	t.disasmBuf = debug.NewDisasmBuffer(disasmHeight)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	slog.Info("Terminal backend initialized", "debug", config.ShowDebug)
	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Signal received, quitting", "signal", sig)
		t.queue = append(t.queue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	events := t.controllerEvents(now)
	events = append(events, t.queue...)
	t.queue = nil

	if frame != nil {
		t.currentFrame = frame
	}
	t.render(t.currentFrame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction reacts to the actions the terminal owns.
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		slog.Info("Debug display toggled", "enabled", t.config.ShowDebug)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) changeLogLevel(direction int) {
	old := t.logLevel
	t.logLevel = render.StepLevel(t.logLevel, direction)
	if old != t.logLevel {
		slog.Info("Log filter changed", "from", old, "to", t.logLevel)
	}
}

// controllerEvents turns the timestamps of repeated key presses into
// press, hold and release events.
func (t *Backend) controllerEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	active := make(map[action.Action]bool, len(t.keyStates))

	for act, last := range t.keyStates {
		if now.Sub(last) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		active[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !active[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = active
	return events
}

func (t *Backend) processKey(ev *tcell.EventKey, now time.Time) {
	var act action.Action
	var ok bool
	if ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[unicode.ToLower(ev.Rune())]
	} else {
		act, ok = keyMapping[ev.Key()]
	}
	if !ok {
		return
	}

	if !act.IsController() {
		t.queue = append(t.queue, backend.InputEvent{Action: act, Type: event.Press})
		return
	}

	// a new direction replaces the others on the same pad, there is no key
	// up to tell them apart otherwise
	for _, dir := range dpadOf(act) {
		if dir != act {
			delete(t.keyStates, dir)
		}
	}
	t.keyStates[act] = now
}

func dpadOf(act action.Action) []action.Action {
	switch {
	case act >= action.NESDPadUp && act <= action.NESDPadRight:
		return []action.Action{action.NESDPadUp, action.NESDPadDown, action.NESDPadLeft, action.NESDPadRight}
	case act >= action.NES2DPadUp && act <= action.NES2DPadRight:
		return []action.Action{action.NES2DPadUp, action.NES2DPadDown, action.NES2DPadLeft, action.NES2DPadRight}
	}
	return nil
}

var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyTab:    "Tab",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, name := range tcellKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

// buildRuneMapping takes every single character entry of the default key
// map, plus the space bar.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for name, act := range input.DefaultKeyMap {
		if r := []rune(name); len(r) == 1 {
			mapping[r[0]] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	gameRows := termHeight - 2
	showPanel := true
	scale := render.Scale(video.ScreenWidth, video.ScreenHeight, termWidth-panelWidth-1, gameRows, maxScale)
	if scale == 0 {
		showPanel = false
		scale = render.Scale(video.ScreenWidth, video.ScreenHeight, termWidth, gameRows, maxScale)
	}
	if scale == 0 {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d",
			video.ScreenWidth/maxScale, video.ScreenHeight/maxScale/2+2)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	gameCols := video.ScreenWidth / scale
	t.drawFrame(frame, scale, 0, 1)
	t.drawText(1, 0, gameCols, " NES ", tcell.StyleDefault.Foreground(tcell.ColorYellow))
	t.drawHelp(termWidth, termHeight-1)

	if !showPanel {
		return
	}

	dividerX := gameCols + 1
	panelX := dividerX + 1
	width := termWidth - panelX
	border := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, border)
	}

	logsY := 1
	if t.config.ShowDebug && t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil {
			t.drawTitle(panelX, 0, width, " Registers ")
			t.drawRegisters(data, panelX, 1, width)
			t.drawTitle(panelX, registerHeight+1, width, " Disassembly ")
			t.drawDisassembly(data, panelX, registerHeight+2, width)
			logsY = registerHeight + disasmHeight + 3
		}
	}

	t.drawTitle(panelX, logsY-1, width, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel))
	t.drawLogs(panelX, logsY, width, termHeight-1-logsY)
}

// drawFrame samples the frame every scale pixels, two rows per cell.
func (t *Backend) drawFrame(frame *video.FrameBuffer, scale, x0, y0 int) {
	if frame == nil {
		return
	}
	pixels := frame.ToSlice()
	for cy := 0; cy*2*scale < video.ScreenHeight; cy++ {
		top := cy * 2 * scale
		bottom := top + scale
		for cx := 0; cx*scale < video.ScreenWidth; cx++ {
			x := cx * scale
			tp := pixels[top*video.ScreenWidth+x]
			bp := tp
			if bottom < video.ScreenHeight {
				bp = pixels[bottom*video.ScreenWidth+x]
			}
			r, style := render.HalfBlock(tp, bp)
			t.screen.SetContent(x0+cx, y0+cy, r, nil, style)
		}
	}
}

func (t *Backend) drawHelp(termWidth, y int) {
	help := " F10=debug SPACE=pause N=step F=frame F8=reset F9=snapshot F7=patterns F1-F5/1-5/0=audio | +/- logs | Q=quit "
	t.drawText(0, y, termWidth, help, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

func (t *Backend) drawTitle(x, y, width int, title string) {
	t.drawText(x+1, y, width-1, title, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

// drawText writes text clipped to width cells.
func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			return
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

func (t *Backend) drawRegisters(data *debug.CompleteDebugData, x, y, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	lines := registerLines(data)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(x, y+i, width, line, style)
	}
}

func registerLines(data *debug.CompleteDebugData) []string {
	lines := []string{"Status: " + strings.ToUpper(data.DebuggerState.String())}

	if cpu := data.CPU; cpu != nil {
		pending := "none"
		if cpu.InterruptPending {
			pending = cpu.Interrupt
		}
		lines = append(lines,
			fmt.Sprintf("A: $%02X  X: $%02X  Y: $%02X", cpu.A, cpu.X, cpu.Y),
			fmt.Sprintf("SP: $%02X  PC: $%04X", cpu.SP, cpu.PC),
			fmt.Sprintf("P: $%02X  %s", cpu.P, FlagString(cpu.P)),
			fmt.Sprintf("Cycles: %d  Halt: %d", cpu.Cycles, cpu.Halted),
			"Pending: "+pending,
		)
	}

	if ppu := data.PPU; ppu != nil {
		lines = append(lines,
			fmt.Sprintf("Line: %3d  Dot: %3d", ppu.Scanline, ppu.Dot),
			fmt.Sprintf("CTRL: $%02X  MASK: $%02X  STAT: $%02X", ppu.Ctrl, ppu.Mask, ppu.Status),
			fmt.Sprintf("V: $%04X  X: %d  %s", ppu.VRAMAddress, ppu.FineX, ppu.Mirroring),
		)
	}

	if oam := data.OAM; oam != nil {
		lines = append(lines, fmt.Sprintf("Sprites: %d/%d (8x%d)", oam.ActiveSprites, debug.MaxSpritesPerLine, oam.SpriteHeight))
	}

	if a := data.Audio; a != nil && a.Enabled {
		lines = append(lines, fmt.Sprintf("Vol: %d %s", a.MasterVolume, channelFlags(a.Channels[:])))
	}

	if data.Cartridge != "" {
		lines = append(lines, data.Cartridge)
	}
	return lines
}

// FlagString renders the status register as NV-BDIZC, with '.' for clear
// bits.
func FlagString(p uint8) string {
	const names = "NV-BDIZC"
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		if p&(0x80>>i) != 0 {
			sb.WriteByte(names[i])
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// channelFlags shows one digit per enabled channel, '-' for muted ones.
func channelFlags(channels []bool) string {
	var sb strings.Builder
	for i, on := range channels {
		if on {
			sb.WriteByte(byte('1' + i))
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func (t *Backend) drawDisassembly(data *debug.CompleteDebugData, x, y, width int) {
	if data.CPU == nil || data.Memory == nil {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	current := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := debug.CreateDisassemblyWithBuffer(data.Memory, data.CPU.PC, disasmHeight, t.disasmBuf)
	for i, line := range lines {
		text := fmt.Sprintf("  $%04X: %s", line.Address, line.Instruction)
		use := style
		if line.IsCurrent {
			text = "→" + text[1:]
			use = current
		}
		t.drawText(x, y+i, width, text, use)
	}
}

func (t *Backend) drawLogs(x, y, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}

	styles := map[slog.Level]tcell.Style{
		slog.LevelDebug: tcell.StyleDefault.Foreground(tcell.ColorGray),
		slog.LevelInfo:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		slog.LevelWarn:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
		slog.LevelError: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}

	for i, entry := range t.logBuffer.Recent(height, t.logLevel) {
		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(x, y+i, width, text, styles[entry.Level])
	}
}
