package input

import (
	"time"

	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/memory"
)

const (
	// debounceDuration is the minimum time between two presses of the same
	// emulator action
	debounceDuration = 300 * time.Millisecond
)

// Manager routes input actions: controller buttons go straight to the
// joypads, everything else to the registered callbacks.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]time.Time
	pads          [2]*memory.Joypad
	now           func() time.Time
}

func NewManager(pad1, pad2 *memory.Joypad) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		pads:          [2]*memory.Joypad{pad1, pad2},
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if act.IsController() {
		m.controller(act, evt)
		return
	}

	if evt == event.Press {
		now := m.now()
		if last, ok := m.lastTriggered[act]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastTriggered[act] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

func (m *Manager) controller(act action.Action, evt event.Type) {
	pad := 0
	if act >= action.NES2ButtonA {
		pad = 1
	}
	j := m.pads[pad]
	if j == nil {
		return
	}

	key := JoypadKey(act)
	switch evt {
	case event.Press, event.Hold:
		j.Press(key)
	case event.Release:
		j.Release(key)
	}
}

// JoypadKey maps a controller action to the joypad button it drives.
func JoypadKey(act action.Action) memory.JoypadKey {
	if act >= action.NES2ButtonA {
		act -= action.NES2ButtonA - action.NESButtonA
	}
	switch act {
	case action.NESButtonA:
		return memory.JoypadA
	case action.NESButtonB:
		return memory.JoypadB
	case action.NESButtonSelect:
		return memory.JoypadSelect
	case action.NESButtonStart:
		return memory.JoypadStart
	case action.NESDPadUp:
		return memory.JoypadUp
	case action.NESDPadDown:
		return memory.JoypadDown
	case action.NESDPadLeft:
		return memory.JoypadLeft
	default:
		return memory.JoypadRight
	}
}
