//go:build sdl2

package sdl2

import (
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/veandco/go-sdl2/sdl"
)

var specialKeys = map[sdl.Keycode]string{
	sdl.K_RETURN: "Enter",
	sdl.K_TAB:    "Tab",
	sdl.K_LSHIFT: "Shift",
	sdl.K_RSHIFT: "Shift",
	sdl.K_SPACE:  "Space",
	sdl.K_ESCAPE: "Escape",
	sdl.K_UP:     "Up",
	sdl.K_DOWN:   "Down",
	sdl.K_LEFT:   "Left",
	sdl.K_RIGHT:  "Right",
	sdl.K_F1:     "F1",
	sdl.K_F2:     "F2",
	sdl.K_F3:     "F3",
	sdl.K_F4:     "F4",
	sdl.K_F5:     "F5",
	sdl.K_F6:     "F6",
	sdl.K_F7:     "F7",
	sdl.K_F8:     "F8",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
}

// keyName translates an SDL keycode to the names used by the default key
// map. Printable keys are their own lower case character.
func keyName(key sdl.Keycode) (string, bool) {
	if name, ok := specialKeys[key]; ok {
		return name, true
	}
	if key > ' ' && key < 0x7F {
		return string(rune(key)), true
	}
	return "", false
}

func actionFor(key sdl.Keycode) (action.Action, bool) {
	name, ok := keyName(key)
	if !ok {
		return 0, false
	}
	return input.GetDefaultMapping(name)
}
