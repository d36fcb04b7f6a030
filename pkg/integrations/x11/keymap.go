package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// Keysym values from X11/keysymdef.h for the named keys the engine
// emits. Printable ASCII maps onto its own codepoint.
var namedKeysyms = map[screen.Key]xproto.Keysym{
	screen.KeyEnter:     0xff0d,
	screen.KeyEsc:       0xff1b,
	screen.KeyTab:       0xff09,
	screen.KeyBackspace: 0xff08,
	screen.KeyDelete:    0xffff,
	screen.KeyUp:        0xff52,
	screen.KeyDown:      0xff54,
	screen.KeyLeft:      0xff51,
	screen.KeyRight:     0xff53,
	screen.KeyHome:      0xff50,
	screen.KeyEnd:       0xff57,
	screen.KeyPageUp:    0xff55,
	screen.KeyPageDown:  0xff56,
	screen.KeyF1:        0xffbe,
	screen.KeyF2:        0xffbf,
	screen.KeyF3:        0xffc0,
	screen.KeyF4:        0xffc1,
	screen.KeyF5:        0xffc2,
	screen.KeyF6:        0xffc3,
	screen.KeyF7:        0xffc4,
	screen.KeyF8:        0xffc5,
	screen.KeyF9:        0xffc6,
	screen.KeyF10:       0xffc7,
	screen.KeyF11:       0xffc8,
	screen.KeyF12:       0xffc9,
	screen.ModCtrl:      0xffe3,
	screen.ModShift:     0xffe1,
	screen.ModAlt:       0xffe9,
	screen.ModMeta:      0xffeb,
}

// keysymFor translates a backend-independent key name into an X keysym.
func keysymFor(key screen.Key) (xproto.Keysym, error) {
	if sym, ok := namedKeysyms[key]; ok {
		return sym, nil
	}
	runes := []rune(string(key))
	if len(runes) == 1 && runes[0] >= 0x20 && runes[0] <= 0x7e {
		return xproto.Keysym(runes[0]), nil
	}
	return 0, fmt.Errorf("no keysym for key %q", key)
}

// keymap resolves keysyms to keycodes using the server keyboard
// mapping. Column 0 of a keycode entry is the plain symbol, column 1
// the shifted one.
type keymap struct {
	minCode    xproto.Keycode
	perKeycode int
	keysyms    []xproto.Keysym
	shift      byte
}

func loadKeymap(conn *xgb.Conn, setup *xproto.SetupInfo) (*keymap, error) {
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	reply, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch keyboard mapping: %w", err)
	}

	km := &keymap{
		minCode:    setup.MinKeycode,
		perKeycode: int(reply.KeysymsPerKeycode),
		keysyms:    reply.Keysyms,
	}

	shiftCode, _, err := km.lookup(namedKeysyms[screen.ModShift])
	if err != nil {
		return nil, fmt.Errorf("keyboard has no shift key: %w", err)
	}
	km.shift = shiftCode
	return km, nil
}

// keycode resolves a key name to the keycode producing it, reporting
// whether shift is needed to reach the symbol.
func (km *keymap) keycode(key screen.Key) (byte, bool, error) {
	sym, err := keysymFor(key)
	if err != nil {
		return 0, false, err
	}
	return km.lookup(sym)
}

func (km *keymap) lookup(sym xproto.Keysym) (byte, bool, error) {
	for i, candidate := range km.keysyms {
		if candidate != sym {
			continue
		}
		column := i % km.perKeycode
		if column > 1 {
			continue
		}
		code := byte(int(km.minCode) + i/km.perKeycode)
		return code, column == 1, nil
	}
	return 0, false, fmt.Errorf("keysym 0x%x not on the keyboard", sym)
}
