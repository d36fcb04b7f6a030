package screen

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Region is a bounded screen rectangle bound to one display and one
// matcher. It is the root for all locate and interact operations and is
// clipped at construction and on every derivation to stay within the
// screen bounds.
//
// Regions derived from a region share its display and matcher by
// reference, never copy them.
type Region struct {
	x      int
	y      int
	width  int
	height int

	display  Display
	matcher  Matcher
	settings Settings
	recorder Recorder
	resolver *FileResolver
	log      *zap.Logger

	lastMatch *Match
}

// Option configures a region at construction time.
type Option func(*Region)

// WithSettings overrides the default engine settings.
func WithSettings(s Settings) Option {
	return func(r *Region) { r.settings = s }
}

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Region) { r.log = log }
}

// WithRecorder attaches a persistence recorder; nil disables recording.
func WithRecorder(rec Recorder) Option {
	return func(r *Region) { r.recorder = rec }
}

// WithFileResolver overrides the search path for target descriptors.
func WithFileResolver(fr *FileResolver) Option {
	return func(r *Region) { r.resolver = fr }
}

// NewRegion builds a region from upper left vertex and size. A zero
// width or height is expanded to the full available screen extent.
// The resulting rectangle is clipped into the screen with a minimum
// extent of 1x1.
func NewRegion(x, y, width, height int, d Display, m Matcher, opts ...Option) *Region {
	r := &Region{
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		display:  d,
		matcher:  m,
		settings: DefaultSettings(),
		resolver: NewFileResolver(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if d != nil {
		if r.width == 0 && d.Width() != 0 {
			r.width = d.Width()
		}
		if r.height == 0 && d.Height() != 0 {
			r.height = d.Height()
		}
		// clipping is only meaningful against an initialized screen
		if d.Width() != 0 && d.Height() != 0 {
			r.clip()
		}
	}
	return r
}

// NewScreen is the full-screen region, the usual automation entry point.
func NewScreen(d Display, m Matcher, opts ...Option) *Region {
	return NewRegion(0, 0, 0, 0, d, m, opts...)
}

// clip forces the region into [0,0]..[screen width, screen height],
// never smaller than 1x1.
func (r *Region) clip() {
	screenWidth := r.display.Width()
	screenHeight := r.display.Height()

	if r.x < 0 {
		r.x = 0
	}
	if r.y < 0 {
		r.y = 0
	}
	if r.x >= screenWidth {
		r.x = screenWidth - 1
	}
	if r.y >= screenHeight {
		r.y = screenHeight - 1
	}
	if r.x+r.width > screenWidth {
		r.width = screenWidth - r.x
	}
	if r.y+r.height > screenHeight {
		r.height = screenHeight - r.y
	}
	if r.width < 1 {
		r.width = 1
	}
	if r.height < 1 {
		r.height = 1
	}
}

// derive builds a sibling region sharing backends and configuration.
func (r *Region) derive(x, y, width, height int) *Region {
	child := NewRegion(x, y, width, height, r.display, r.matcher)
	child.settings = r.settings
	child.recorder = r.recorder
	child.resolver = r.resolver
	child.log = r.log
	return child
}

// X returns the x coordinate of the upper left vertex.
func (r *Region) X() int { return r.x }

// Y returns the y coordinate of the upper left vertex.
func (r *Region) Y() int { return r.y }

// Width returns the width of the region.
func (r *Region) Width() int { return r.width }

// Height returns the height of the region.
func (r *Region) Height() int { return r.height }

// Center returns the center of the region.
func (r *Region) Center() Location {
	return Location{X: r.x + r.width/2, Y: r.y + r.height/2}
}

// TopLeft returns the upper left vertex of the region.
func (r *Region) TopLeft() Location { return Location{X: r.x, Y: r.y} }

// TopRight returns the upper right vertex of the region.
func (r *Region) TopRight() Location { return Location{X: r.x + r.width, Y: r.y} }

// BottomLeft returns the lower left vertex of the region.
func (r *Region) BottomLeft() Location { return Location{X: r.x, Y: r.y + r.height} }

// BottomRight returns the lower right vertex of the region.
func (r *Region) BottomRight() Location {
	return Location{X: r.x + r.width, Y: r.y + r.height}
}

// LastMatch returns the last match obtained within the region.
func (r *Region) LastMatch() *Match { return r.lastMatch }

// Display returns the bound display backend.
func (r *Region) Display() Display { return r.display }

// Matcher returns the bound matcher backend.
func (r *Region) Matcher() Matcher { return r.matcher }

// MouseLocation returns the current pointer position.
func (r *Region) MouseLocation() Location { return r.display.MouseLocation() }

// String returns a string representation of the region
func (r *Region) String() string {
	return fmt.Sprintf("%dx%d region at (%d, %d)", r.width, r.height, r.x, r.y)
}

// Nearby returns a region enlarged by rng pixels on all sides.
func (r *Region) Nearby(rng int) *Region {
	r.log.Debug("Checking nearby the current region")
	newX := r.x - rng
	if newX < 0 {
		newX = 0
	}
	newY := r.y - rng
	if newY < 0 {
		newY = 0
	}
	newWidth := r.width + rng + r.x - newX
	newHeight := r.height + rng + r.y - newY
	return r.derive(newX, newY, newWidth, newHeight)
}

// Above returns a region enlarged by rng pixels on the upper side, or
// up to the screen edge when rng is zero.
func (r *Region) Above(rng int) *Region {
	r.log.Debug("Checking above the current region")
	var newY, newHeight int
	if rng == 0 {
		newY = 0
		newHeight = r.y + r.height
	} else {
		newY = r.y - rng
		if newY < 0 {
			newY = 0
		}
		newHeight = r.height + r.y - newY
	}
	return r.derive(r.x, newY, r.width, newHeight)
}

// Below returns a region enlarged by rng pixels on the lower side, or
// up to the screen edge when rng is zero.
func (r *Region) Below(rng int) *Region {
	r.log.Debug("Checking below the current region")
	if rng == 0 {
		rng = r.display.Height()
	}
	return r.derive(r.x, r.y, r.width, r.height+rng)
}

// Left returns a region enlarged by rng pixels on the left side, or up
// to the screen edge when rng is zero.
func (r *Region) Left(rng int) *Region {
	r.log.Debug("Checking left of the current region")
	var newX, newWidth int
	if rng == 0 {
		newX = 0
		newWidth = r.x + r.width
	} else {
		newX = r.x - rng
		if newX < 0 {
			newX = 0
		}
		newWidth = r.width + r.x - newX
	}
	return r.derive(newX, r.y, newWidth, r.height)
}

// Right returns a region enlarged by rng pixels on the right side, or
// up to the screen edge when rng is zero.
func (r *Region) Right(rng int) *Region {
	r.log.Debug("Checking right of the current region")
	if rng == 0 {
		rng = r.display.Width()
	}
	return r.derive(r.x, r.y, r.width+rng, r.height)
}

// Idle waits for a duration and returns the region so that call chains
// can continue, e.g. r.Hover(box).Idle(time.Second).
func (r *Region) Idle(d time.Duration) *Region {
	r.log.Debug("Waiting in idle", zap.Duration("duration", d))
	time.Sleep(d)
	return r
}

// resolveTarget turns an anchor of type Target or string into a target.
func (r *Region) resolveTarget(anchor any) (Target, error) {
	switch a := anchor.(type) {
	case Target:
		return a, nil
	case string:
		return TargetFromString(a, r.resolver)
	default:
		return nil, fmt.Errorf("cannot use %T as a find target", anchor)
	}
}

// Hover moves the mouse over a match, location, target or descriptor
// string. The returned match is nil when hovering over a known location.
func (r *Region) Hover(anchor any) (*Match, error) {
	r.log.Info("Hovering", zap.String("over", fmt.Sprintf("%v", anchor)))
	smooth := r.settings.SmoothMouse

	switch a := anchor.(type) {
	case *Match:
		return nil, r.display.MouseMove(a.Anchor(), smooth)
	case Location:
		return nil, r.display.MouseMove(a, smooth)
	}

	target, err := r.resolveTarget(anchor)
	if err != nil {
		return nil, err
	}
	match, err := r.Find(target, r.settings.FindTimeout)
	if err != nil {
		return nil, err
	}
	return match, r.display.MouseMove(match.Anchor(), smooth)
}

// clickButton hovers over the anchor and clicks a button count times.
func (r *Region) clickButton(anchor any, button MouseButton, count int, modifiers []Key) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	if len(modifiers) > 0 {
		r.log.Info("Holding modifiers", zap.Any("modifiers", modifiers))
	}
	if err := r.display.MouseClick(button, count, modifiers); err != nil {
		return nil, err
	}
	return match, nil
}

// Click clicks on a match, location, target or descriptor string with
// the left mouse button, optionally holding modifier keys.
func (r *Region) Click(anchor any, modifiers ...Key) (*Match, error) {
	r.log.Info("Clicking", zap.String("at", fmt.Sprintf("%v", anchor)))
	return r.clickButton(anchor, LeftButton, 1, modifiers)
}

// RightClick clicks with the right mouse button.
func (r *Region) RightClick(anchor any, modifiers ...Key) (*Match, error) {
	r.log.Info("Right clicking", zap.String("at", fmt.Sprintf("%v", anchor)))
	return r.clickButton(anchor, RightButton, 1, modifiers)
}

// MiddleClick clicks with the center mouse button.
func (r *Region) MiddleClick(anchor any, modifiers ...Key) (*Match, error) {
	r.log.Info("Middle clicking", zap.String("at", fmt.Sprintf("%v", anchor)))
	return r.clickButton(anchor, CenterButton, 1, modifiers)
}

// DoubleClick clicks twice with the left mouse button.
func (r *Region) DoubleClick(anchor any, modifiers ...Key) (*Match, error) {
	r.log.Info("Double clicking", zap.String("at", fmt.Sprintf("%v", anchor)))
	return r.clickButton(anchor, LeftButton, 2, modifiers)
}

// MultiClick clicks count times with the left mouse button.
func (r *Region) MultiClick(anchor any, count int, modifiers ...Key) (*Match, error) {
	r.log.Info("Clicking repeatedly", zap.Int("count", count),
		zap.String("at", fmt.Sprintf("%v", anchor)))
	return r.clickButton(anchor, LeftButton, count, modifiers)
}

// MouseDownAt holds a mouse button down on the anchor.
func (r *Region) MouseDownAt(anchor any, button MouseButton) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Holding down the mouse", zap.String("at", fmt.Sprintf("%v", anchor)))
	return match, r.display.MouseDown(button)
}

// MouseUpAt releases a mouse button on the anchor.
func (r *Region) MouseUpAt(anchor any, button MouseButton) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Releasing the mouse", zap.String("at", fmt.Sprintf("%v", anchor)))
	return match, r.display.MouseUp(button)
}

// Scroll hovers over the anchor and scrolls for a number of clicks, up
// for positive and down for negative counts.
func (r *Region) Scroll(anchor any, clicks int, horizontal bool) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Scrolling the mouse", zap.Int("clicks", clicks),
		zap.Bool("horizontal", horizontal))
	return match, r.display.MouseScroll(clicks, horizontal)
}

// DragFrom starts a drag on the anchor, optionally toggling modifiers.
func (r *Region) DragFrom(anchor any, modifiers ...Key) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	time.Sleep(200 * time.Millisecond)
	if len(modifiers) > 0 {
		r.log.Info("Holding modifiers", zap.Any("modifiers", modifiers))
		if err := r.display.KeysToggle(modifiers, true); err != nil {
			return nil, err
		}
	}
	r.log.Info("Dragging", zap.String("from", fmt.Sprintf("%v", anchor)))
	if err := r.display.MouseDown(LeftButton); err != nil {
		return nil, err
	}
	time.Sleep(r.settings.DelayAfterDrag)
	return match, nil
}

// DropAt finishes a drag on the anchor, releasing any toggled modifiers.
func (r *Region) DropAt(anchor any, modifiers ...Key) (*Match, error) {
	match, err := r.Hover(anchor)
	if err != nil {
		return nil, err
	}
	time.Sleep(r.settings.DelayBeforeDrop)
	r.log.Info("Dropping", zap.String("at", fmt.Sprintf("%v", anchor)))
	if err := r.display.MouseUp(LeftButton); err != nil {
		return nil, err
	}
	time.Sleep(500 * time.Millisecond)
	if len(modifiers) > 0 {
		if err := r.display.KeysToggle(modifiers, false); err != nil {
			return nil, err
		}
	}
	return match, nil
}

// DragDrop drags from one anchor and drops at another.
func (r *Region) DragDrop(from, to any, modifiers ...Key) (*Match, error) {
	if _, err := r.DragFrom(from, modifiers...); err != nil {
		return nil, err
	}
	return r.DropAt(to, modifiers...)
}

// PressKeys presses one or more keys simultaneously.
func (r *Region) PressKeys(keys ...Key) error {
	r.log.Info("Pressing keys", zap.Any("keys", keys))
	return r.display.KeysPress(keys)
}

// PressAt clicks on the anchor and then presses the keys.
func (r *Region) PressAt(anchor any, keys ...Key) (*Match, error) {
	match, err := r.Click(anchor)
	if err != nil {
		return nil, err
	}
	r.log.Info("Pressing keys", zap.Any("keys", keys),
		zap.String("at", fmt.Sprintf("%v", anchor)))
	return match, r.display.KeysPress(keys)
}

// TypeText types literal text, optionally holding modifier keys.
func (r *Region) TypeText(text string, modifiers ...Key) error {
	r.log.Info("Typing text", zap.String("text", text))
	return r.display.KeysType(text, modifiers)
}

// TypeAt clicks on the anchor and then types literal text.
func (r *Region) TypeAt(anchor any, text string, modifiers ...Key) (*Match, error) {
	match, err := r.Click(anchor)
	if err != nil {
		return nil, err
	}
	r.log.Info("Typing text", zap.String("text", text),
		zap.String("at", fmt.Sprintf("%v", anchor)))
	return match, r.display.KeysType(text, modifiers)
}
