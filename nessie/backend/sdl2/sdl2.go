//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/display"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend renders to an SDL2 window and plays audio through SDL's queue.
// Building it needs the SDL2 development libraries, default builds use the
// stub instead, see build tags (sdl2).
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.BackendConfig
	sink     AudioSink
	events   []backend.InputEvent

	currentFrame *video.FrameBuffer
}

func New() *Backend {
	return &Backend{}
}

// AudioSink returns the sink to hand to the console. It plays once Init
// opened the device.
func (s *Backend) AudioSink() audio.Sink {
	return &s.sink
}

func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	flags := uint32(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
	if config.SampleRate > 0 {
		flags |= sdl.INIT_AUDIO
	}
	if err := sdl.Init(flags); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}
	windowFlags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if config.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	window, err := sdl.CreateWindow(config.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.ScreenWidth*scale), int32(video.ScreenHeight*scale), windowFlags)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	rendererFlags := uint32(sdl.RENDERER_ACCELERATED)
	if config.VSync {
		rendererFlags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, rendererFlags)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer
	if err := renderer.SetLogicalSize(video.ScreenWidth, video.ScreenHeight); err != nil {
		s.Cleanup()
		return fmt.Errorf("failed to set logical size: %w", err)
	}

	// frames are already 0xAARRGGBB words
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		video.ScreenWidth, video.ScreenHeight)
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	if config.SampleRate > 0 {
		if err := s.sink.open(config.SampleRate); err != nil {
			slog.Warn("Audio disabled", "error", err)
		}
	}

	slog.Info("SDL2 backend initialized", "scale", scale, "vsync", config.VSync)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if frame != nil {
		s.currentFrame = frame
		if err := s.renderFrame(frame); err != nil {
			return nil, err
		}
	}

	events := s.events
	s.events = nil
	return events, nil
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	s.sink.close()
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
	return nil
}

// HandleAction reacts to the actions the window owns.
func (s *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame)
	case action.EmulatorDebugToggle:
		s.config.ShowDebug = !s.config.ShowDebug
		s.updateTitle()
	}
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := actionFor(e.Keysym.Sym)
		if !ok {
			return
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat == 0:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYDOWN && act.IsController():
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
		case e.Type == sdl.KEYUP && act.IsController():
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	pixels := frame.ToSlice()
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.ScreenWidth*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	if err := present(s.renderer, s.texture); err != nil {
		return err
	}

	if s.config.ShowDebug {
		s.updateTitle()
	}
	return nil
}

// presenter is the part of *sdl.Renderer used to show a frame.
type presenter interface {
	SetDrawColor(r, g, b, a uint8) error
	Clear() error
	Copy(texture *sdl.Texture, src, dst *sdl.Rect) error
	Present()
}

// present clears the target and draws the frame texture over it.
func present(r presenter, texture *sdl.Texture) error {
	if err := r.SetDrawColor(0, 0, 0, 0xFF); err != nil {
		return fmt.Errorf("failed to set draw color: %w", err)
	}
	if err := r.Clear(); err != nil {
		return fmt.Errorf("failed to clear renderer: %w", err)
	}
	if err := r.Copy(texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy texture: %w", err)
	}
	r.Present()
	return nil
}

// updateTitle shows a one line CPU summary in the window title while debug
// is on.
func (s *Backend) updateTitle() {
	title := s.config.Title
	if s.config.ShowDebug && s.config.DebugProvider != nil {
		if data := s.config.DebugProvider.ExtractDebugData(); data != nil && data.CPU != nil {
			title = fmt.Sprintf("%s [%s] PC:$%04X A:$%02X X:$%02X Y:$%02X",
				title, data.DebuggerState, data.CPU.PC, data.CPU.A, data.CPU.X, data.CPU.Y)
		}
	}
	s.window.SetTitle(title)
}
