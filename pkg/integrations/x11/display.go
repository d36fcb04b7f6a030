package x11

import (
	"fmt"
	"image"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// Pacing of injected events. X servers coalesce events that arrive in
// the same millisecond, so a small gap keeps multi-clicks and typed
// text reliable.
const (
	eventDelay  = 12 * time.Millisecond
	smoothSteps = 30
	smoothDelay = 10 * time.Millisecond
)

// Display drives an X11 server through the XTEST extension: screen
// content via GetImage, pointer and keyboard input via FakeInput.
type Display struct {
	conn   *xgb.Conn
	root   xproto.Window
	width  int
	height int
	keys   *keymap
}

// NewDisplay connects to the X server named by DISPLAY and initializes
// the XTEST extension.
func NewDisplay() (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize XTEST extension: %w", err)
	}

	setup := xproto.Setup(conn)
	defaultScreen := setup.DefaultScreen(conn)

	keys, err := loadKeymap(conn, setup)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Display{
		conn:   conn,
		root:   defaultScreen.Root,
		width:  int(defaultScreen.WidthInPixels),
		height: int(defaultScreen.HeightInPixels),
		keys:   keys,
	}, nil
}

func (d *Display) Width() int  { return d.width }
func (d *Display) Height() int { return d.height }

// Capture grabs a rectangle of the root window as an RGBA image. The
// server returns ZPixmap data, BGRX on the usual 24/32 bit visuals.
func (d *Display) Capture(x, y, width, height int) (image.Image, error) {
	reply, err := xproto.GetImage(d.conn, xproto.ImageFormatZPixmap,
		xproto.Drawable(d.root), int16(x), int16(y),
		uint16(width), uint16(height), 0xffffffff).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to capture %dx%d at (%d,%d): %w", width, height, x, y, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	data := reply.Data
	for i := 0; i+3 < len(data) && i/4 < width*height; i += 4 {
		img.Pix[i] = data[i+2]
		img.Pix[i+1] = data[i+1]
		img.Pix[i+2] = data[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

// MouseMove warps the pointer, either directly or through intermediate
// positions for a smooth motion.
func (d *Display) MouseMove(loc screen.Location, smooth bool) error {
	if smooth {
		from := d.MouseLocation()
		for step := 1; step <= smoothSteps; step++ {
			x := from.X + (loc.X-from.X)*step/smoothSteps
			y := from.Y + (loc.Y-from.Y)*step/smoothSteps
			if err := d.warp(x, y); err != nil {
				return err
			}
			time.Sleep(smoothDelay)
		}
		return nil
	}
	return d.warp(loc.X, loc.Y)
}

func (d *Display) warp(x, y int) error {
	return xproto.WarpPointerChecked(d.conn, xproto.Window(0), d.root,
		0, 0, 0, 0, int16(x), int16(y)).Check()
}

// MouseClick presses and releases a button count times while the given
// modifier keys are held.
func (d *Display) MouseClick(button screen.MouseButton, count int, modifiers []screen.Key) error {
	if len(modifiers) > 0 {
		if err := d.KeysToggle(modifiers, true); err != nil {
			return err
		}
		defer d.KeysToggle(modifiers, false)
	}

	for i := 0; i < count; i++ {
		if err := d.MouseDown(button); err != nil {
			return err
		}
		if err := d.MouseUp(button); err != nil {
			return err
		}
		time.Sleep(eventDelay)
	}
	return nil
}

func (d *Display) MouseDown(button screen.MouseButton) error {
	return d.fakeInput(xproto.ButtonPress, byte(button))
}

func (d *Display) MouseUp(button screen.MouseButton) error {
	return d.fakeInput(xproto.ButtonRelease, byte(button))
}

// MouseScroll emulates wheel rotation. X maps the wheel to buttons 4-7:
// up, down, left, right.
func (d *Display) MouseScroll(clicks int, horizontal bool) error {
	var button byte
	switch {
	case horizontal && clicks < 0:
		button = 7
	case horizontal:
		button = 6
	case clicks < 0:
		button = 5
	default:
		button = 4
	}

	steps := clicks
	if steps < 0 {
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		if err := d.fakeInput(xproto.ButtonPress, button); err != nil {
			return err
		}
		if err := d.fakeInput(xproto.ButtonRelease, button); err != nil {
			return err
		}
		time.Sleep(eventDelay)
	}
	return nil
}

// KeysPress presses all keys in order, then releases them in reverse
// order, producing a chord.
func (d *Display) KeysPress(keys []screen.Key) error {
	if err := d.KeysToggle(keys, true); err != nil {
		return err
	}
	for i := len(keys) - 1; i >= 0; i-- {
		if err := d.toggleKey(keys[i], false); err != nil {
			return err
		}
	}
	return nil
}

// KeysToggle holds or releases keys without the complementary event.
func (d *Display) KeysToggle(keys []screen.Key, down bool) error {
	for _, key := range keys {
		if err := d.toggleKey(key, down); err != nil {
			return err
		}
	}
	return nil
}

func (d *Display) toggleKey(key screen.Key, down bool) error {
	code, shifted, err := d.keys.keycode(key)
	if err != nil {
		return err
	}

	kind := byte(xproto.KeyRelease)
	if down {
		kind = xproto.KeyPress
	}
	if shifted && down {
		if err := d.fakeInput(xproto.KeyPress, d.keys.shift); err != nil {
			return err
		}
	}
	if err := d.fakeInput(kind, code); err != nil {
		return err
	}
	if shifted && !down {
		return d.fakeInput(xproto.KeyRelease, d.keys.shift)
	}
	return nil
}

// KeysType types literal text character by character while the given
// modifiers are held.
func (d *Display) KeysType(text string, modifiers []screen.Key) error {
	if len(modifiers) > 0 {
		if err := d.KeysToggle(modifiers, true); err != nil {
			return err
		}
		defer d.KeysToggle(modifiers, false)
	}

	for _, r := range text {
		key := screen.Key(string(r))
		if err := d.toggleKey(key, true); err != nil {
			return err
		}
		if err := d.toggleKey(key, false); err != nil {
			return err
		}
		time.Sleep(eventDelay)
	}
	return nil
}

// MouseLocation queries the pointer position on the root window.
func (d *Display) MouseLocation() screen.Location {
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return screen.Location{}
	}
	return screen.Location{X: int(reply.RootX), Y: int(reply.RootY)}
}

func (d *Display) Close() error {
	d.conn.Close()
	return nil
}

func (d *Display) fakeInput(kind, detail byte) error {
	return xtest.FakeInputChecked(d.conn, kind, detail, xproto.TimeCurrentTime,
		d.root, 0, 0, 0).Check()
}
