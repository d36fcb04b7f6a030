package screen

import (
	"image"
	"time"
)

// clickEvent records one MouseClick invocation on the fake display.
type clickEvent struct {
	button    MouseButton
	count     int
	modifiers []Key
}

// captureEvent records one Capture invocation on the fake display.
type captureEvent struct {
	x, y, width, height int
}

// fakeDisplay is a scripted display that records every injected event.
type fakeDisplay struct {
	width  int
	height int

	mouse    Location
	moves    []Location
	clicks   []clickEvent
	downs    []MouseButton
	ups      []MouseButton
	scrolls  []int
	presses  [][]Key
	toggles  [][]Key
	typed    []string
	captures []captureEvent
	closed   bool
}

func newFakeDisplay(width, height int) *fakeDisplay {
	return &fakeDisplay{width: width, height: height}
}

func (d *fakeDisplay) Width() int  { return d.width }
func (d *fakeDisplay) Height() int { return d.height }

func (d *fakeDisplay) Capture(x, y, width, height int) (image.Image, error) {
	d.captures = append(d.captures, captureEvent{x: x, y: y, width: width, height: height})
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func (d *fakeDisplay) MouseMove(loc Location, smooth bool) error {
	d.mouse = loc
	d.moves = append(d.moves, loc)
	return nil
}

func (d *fakeDisplay) MouseClick(button MouseButton, count int, modifiers []Key) error {
	d.clicks = append(d.clicks, clickEvent{button: button, count: count, modifiers: modifiers})
	return nil
}

func (d *fakeDisplay) MouseDown(button MouseButton) error {
	d.downs = append(d.downs, button)
	return nil
}

func (d *fakeDisplay) MouseUp(button MouseButton) error {
	d.ups = append(d.ups, button)
	return nil
}

func (d *fakeDisplay) MouseScroll(clicks int, horizontal bool) error {
	d.scrolls = append(d.scrolls, clicks)
	return nil
}

func (d *fakeDisplay) KeysPress(keys []Key) error {
	pressed := make([]Key, len(keys))
	copy(pressed, keys)
	d.presses = append(d.presses, pressed)
	return nil
}

func (d *fakeDisplay) KeysToggle(keys []Key, down bool) error {
	toggled := make([]Key, len(keys))
	copy(toggled, keys)
	d.toggles = append(d.toggles, toggled)
	return nil
}

func (d *fakeDisplay) KeysType(text string, modifiers []Key) error {
	d.typed = append(d.typed, text)
	return nil
}

func (d *fakeDisplay) MouseLocation() Location { return d.mouse }

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

// scriptedMatcher replays a per-call script of match lists and records
// the similarity threshold bound to each call. When a findFn is set it
// takes precedence over the script; past the end of the script the last
// entry repeats.
type scriptedMatcher struct {
	caps   Category
	script [][]RawMatch
	findFn func(target Target, img image.Image) ([]RawMatch, error)

	calls        int
	similarities []float64
}

func newScriptedMatcher(script ...[]RawMatch) *scriptedMatcher {
	return &scriptedMatcher{caps: CategoryImage | CategoryText, script: script}
}

func (m *scriptedMatcher) Find(target Target, img image.Image) ([]RawMatch, error) {
	m.calls++
	m.similarities = append(m.similarities, target.Config().Similarity)
	if m.findFn != nil {
		return m.findFn(target, img)
	}
	if len(m.script) == 0 {
		return nil, nil
	}
	idx := m.calls - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	return m.script[idx], nil
}

func (m *scriptedMatcher) Capabilities() Category { return m.caps }

// fakeRecorder collects persisted records in memory.
type fakeRecorder struct {
	finds        []FindRecord
	calibrations []CalibrationRecord
	learned      map[string]float64
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{learned: make(map[string]float64)}
}

func (r *fakeRecorder) RecordFind(rec FindRecord) error {
	r.finds = append(r.finds, rec)
	return nil
}

func (r *fakeRecorder) RecordCalibration(rec CalibrationRecord) error {
	r.calibrations = append(r.calibrations, rec)
	return nil
}

func (r *fakeRecorder) LearnedSimilarity(target string) (float64, bool, error) {
	learned, ok := r.learned[target]
	return learned, ok, nil
}

// testSettings are engine defaults shrunk for fast deterministic tests.
func testSettings() Settings {
	s := DefaultSettings()
	s.FindTimeout = 5 * time.Millisecond
	s.RescanInterval = time.Millisecond
	s.AttemptTimeout = 0
	s.HighlightDelay = 0
	s.SaveNeedleOnError = false
	s.SmoothMouse = false
	return s
}

// newTestRegion builds a full-screen region over the fakes with fast
// test settings.
func newTestRegion(d Display, m Matcher, opts ...Option) *Region {
	allOpts := append([]Option{WithSettings(testSettings())}, opts...)
	return NewScreen(d, m, allOpts...)
}

// testImageTarget is a small in-memory reference image target.
func testImageTarget(name string) *ImageTarget {
	return NewImageTargetFromImage(name, image.NewRGBA(image.Rect(0, 0, 8, 8)))
}

// rawAt is shorthand for a centered-anchor raw match at a position.
func rawAt(x, y int) RawMatch {
	return RawMatch{X: x, Y: y, Width: 10, Height: 10, DX: 5, DY: 5, Similarity: 0.9}
}
