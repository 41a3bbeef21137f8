package backend

import (
	"log/slog"

	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/timing"
	"github.com/valerio/go-nessie/nessie/video"
)

// Emulator is the part of the console the run loop drives.
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
}

// Run drives the emulator one frame at a time, presents each frame on the
// backend and routes the returned events through the input manager, until
// an EmulatorQuit press or an error. A nil limiter runs unthrottled.
func Run(emu Emulator, b Backend, m *input.Manager, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	quit := false
	m.On(action.EmulatorQuit, event.Press, func() { quit = true })

	frames := 0
	for !quit {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}
		for _, evt := range events {
			m.Trigger(evt.Action, evt.Type)
		}

		frames++
		limiter.WaitForNextFrame()
	}

	slog.Debug("Run loop finished", "frames", frames)
	return nil
}
