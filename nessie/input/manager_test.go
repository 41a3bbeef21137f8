package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/memory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *memory.Joypad, *memory.Joypad, *fakeClock) {
	pad1, pad2 := memory.NewJoypad(), memory.NewJoypad()
	m := NewManager(pad1, pad2)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m.now = clock.now
	return m, pad1, pad2, clock
}

func TestManagerControllers(t *testing.T) {
	testCases := []struct {
		desc   string
		act    action.Action
		key    memory.JoypadKey
		second bool
	}{
		{desc: "pad 1 A", act: action.NESButtonA, key: memory.JoypadA},
		{desc: "pad 1 start", act: action.NESButtonStart, key: memory.JoypadStart},
		{desc: "pad 1 right", act: action.NESDPadRight, key: memory.JoypadRight},
		{desc: "pad 2 B", act: action.NES2ButtonB, key: memory.JoypadB, second: true},
		{desc: "pad 2 up", act: action.NES2DPadUp, key: memory.JoypadUp, second: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			m, pad1, pad2, _ := newTestManager()
			target, other := pad1, pad2
			if tC.second {
				target, other = pad2, pad1
			}

			m.Trigger(tC.act, event.Press)
			assert.True(t, target.Pressed(tC.key))
			assert.False(t, other.Pressed(tC.key))

			// controller input is never debounced
			m.Trigger(tC.act, event.Release)
			m.Trigger(tC.act, event.Press)
			assert.True(t, target.Pressed(tC.key))

			m.Trigger(tC.act, event.Release)
			assert.False(t, target.Pressed(tC.key))
		})
	}
}

func TestManagerDebounce(t *testing.T) {
	testCases := []struct {
		desc    string
		evt     event.Type
		between time.Duration
		want    int
	}{
		{desc: "rapid press is debounced", evt: event.Press, between: 100 * time.Millisecond, want: 1},
		{desc: "slow press goes through", evt: event.Press, between: 400 * time.Millisecond, want: 2},
		{desc: "release is not debounced", evt: event.Release, between: 10 * time.Millisecond, want: 2},
		{desc: "hold is not debounced", evt: event.Hold, between: 10 * time.Millisecond, want: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			m, _, _, clock := newTestManager()
			calls := 0
			m.On(action.EmulatorDebugToggle, tC.evt, func() { calls++ })

			m.Trigger(action.EmulatorDebugToggle, tC.evt)
			clock.advance(tC.between)
			m.Trigger(action.EmulatorDebugToggle, tC.evt)

			assert.Equal(t, tC.want, calls)
		})
	}
}

func TestManagerCallbacks(t *testing.T) {
	m, _, _, _ := newTestManager()

	var order []string
	m.On(action.EmulatorQuit, event.Press, func() { order = append(order, "first") })
	m.On(action.EmulatorQuit, event.Press, func() { order = append(order, "second") })

	m.Trigger(action.EmulatorQuit, event.Press)
	m.Trigger(action.EmulatorPauseToggle, event.Press)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManagerWithoutPads(t *testing.T) {
	m := NewManager(nil, nil)
	assert.NotPanics(t, func() { m.Trigger(action.NESButtonA, event.Press) })
}

func TestDefaultMapping(t *testing.T) {
	act, ok := GetDefaultMapping("z")
	assert.True(t, ok)
	assert.Equal(t, action.NESButtonA, act)

	_, ok = GetDefaultMapping("F24")
	assert.False(t, ok)
}
