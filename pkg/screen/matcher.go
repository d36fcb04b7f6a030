package screen

import "image"

// Category is a bitmask describing what kinds of targets a matcher can
// locate. A matcher declares its capabilities and the locator refuses
// targets outside of them before any polling starts.
type Category int

const (
	CategoryImage Category = 1 << iota
	CategoryText
	CategoryPattern
	CategoryChain
)

// Has reports whether every bit of c2 is set in c.
func (c Category) Has(c2 Category) bool {
	return c&c2 == c2
}

// String returns a human readable name for a single category bit.
func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryText:
		return "text"
	case CategoryPattern:
		return "pattern"
	case CategoryChain:
		return "chain"
	}
	return "mixed"
}

// MatchConfig is the per-call search configuration threaded down to the
// matcher. It is a value, never shared mutable state, so regions that
// share one matcher cannot interfere with each other's thresholds.
type MatchConfig struct {
	// Similarity is the minimum confidence in [0, 1] a candidate must
	// reach to be reported.
	Similarity float64
}

// RawMatch is one candidate reported by a matcher, with position and
// size relative to the searched image.
type RawMatch struct {
	X      int
	Y      int
	Width  int
	Height int

	// DX, DY is the anchor offset used for hover/click targeting,
	// relative to the upper left corner of the match.
	DX int
	DY int

	// Similarity is the confidence of the candidate in [0, 1].
	Similarity float64
}

// Matcher is the universal interface for locating targets in captured
// images. Implementations live under pkg/integrations.
type Matcher interface {
	// Find returns all candidates for the target in the image, in
	// backend order, honoring the target's bound MatchConfig.
	Find(target Target, img image.Image) ([]RawMatch, error)

	// Capabilities returns the target categories this matcher handles.
	Capabilities() Category
}
