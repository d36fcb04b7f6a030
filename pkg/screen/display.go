package screen

import "image"

// MouseButton identifies a pointer button in a backend-independent way.
type MouseButton int

const (
	LeftButton MouseButton = iota + 1
	CenterButton
	RightButton
)

// Key is a backend-independent key name. Single-character keys represent
// themselves; everything else is one of the named constants below and is
// translated by the display backend.
type Key string

const (
	KeyEnter     Key = "enter"
	KeyEsc       Key = "esc"
	KeyTab       Key = "tab"
	KeyBackspace Key = "backspace"
	KeyDelete    Key = "delete"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyHome      Key = "home"
	KeyEnd       Key = "end"
	KeyPageUp    Key = "page_up"
	KeyPageDown  Key = "page_down"
	KeyF1        Key = "f1"
	KeyF2        Key = "f2"
	KeyF3        Key = "f3"
	KeyF4        Key = "f4"
	KeyF5        Key = "f5"
	KeyF6        Key = "f6"
	KeyF7        Key = "f7"
	KeyF8        Key = "f8"
	KeyF9        Key = "f9"
	KeyF10       Key = "f10"
	KeyF11       Key = "f11"
	KeyF12       Key = "f12"

	ModCtrl  Key = "ctrl"
	ModShift Key = "shift"
	ModAlt   Key = "alt"
	ModMeta  Key = "meta"
)

// Display is the universal interface for screen capture and input
// injection. Implementations live under pkg/integrations.
//
// A display is driven by at most one automation session at a time;
// concurrent use from multiple goroutines is not supported.
type Display interface {
	// Width returns the horizontal extent of the screen in pixels.
	Width() int

	// Height returns the vertical extent of the screen in pixels.
	Height() int

	// Capture grabs the screen content of the given rectangle.
	Capture(x, y, width, height int) (image.Image, error)

	// MouseMove moves the pointer to an absolute location, optionally
	// through intermediate positions for a smooth motion.
	MouseMove(loc Location, smooth bool) error

	// MouseClick presses and releases a button count times while the
	// given modifier keys are held.
	MouseClick(button MouseButton, count int, modifiers []Key) error

	// MouseDown holds a button down at the current pointer location.
	MouseDown(button MouseButton) error

	// MouseUp releases a previously held button.
	MouseUp(button MouseButton) error

	// MouseScroll scrolls for a number of clicks, up (positive) or
	// down (negative), optionally horizontally.
	MouseScroll(clicks int, horizontal bool) error

	// KeysPress presses and releases the given keys simultaneously.
	KeysPress(keys []Key) error

	// KeysToggle holds or releases the given keys without the
	// complementary event.
	KeysToggle(keys []Key, down bool) error

	// KeysType types literal text while the given modifiers are held.
	KeysType(text string, modifiers []Key) error

	// MouseLocation returns the current pointer position.
	MouseLocation() Location

	// Close releases backend resources.
	Close() error
}
