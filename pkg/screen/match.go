package screen

import "fmt"

// Match is one located instance of a target in absolute screen
// coordinates. Matches are immutable; every poll produces new values.
//
// A match keeps references to the display and matcher that produced it
// so that follow-on operations need no re-resolution.
type Match struct {
	X      int
	Y      int
	Width  int
	Height int

	// DX, DY is the anchor offset used for hover and click targeting,
	// relative to the upper left corner of the match.
	DX int
	DY int

	// Similarity is the confidence of the match in [0, 1].
	Similarity float64

	display Display
	matcher Matcher
}

func newMatch(raw RawMatch, regionX, regionY int, d Display, m Matcher) *Match {
	return &Match{
		X:          raw.X + regionX,
		Y:          raw.Y + regionY,
		Width:      raw.Width,
		Height:     raw.Height,
		DX:         raw.DX,
		DY:         raw.DY,
		Similarity: raw.Similarity,
		display:    d,
		matcher:    m,
	}
}

// Anchor returns the location used for hovering and clicking, i.e. the
// match position displaced by the anchor offset.
func (m *Match) Anchor() Location {
	return Location{X: m.X + m.DX, Y: m.Y + m.DY}
}

// Center returns the geometric center of the match.
func (m *Match) Center() Location {
	return Location{X: m.X + m.Width/2, Y: m.Y + m.Height/2}
}

// Region returns the matched area as a region bound to the same display
// and matcher that produced the match.
func (m *Match) Region() *Region {
	return NewRegion(m.X, m.Y, m.Width, m.Height, m.display, m.matcher)
}

// String returns a string representation of the match
func (m *Match) String() string {
	return fmt.Sprintf("%dx%d match at (%d, %d) with similarity %.2f",
		m.Width, m.Height, m.X, m.Y, m.Similarity)
}
