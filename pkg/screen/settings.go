package screen

import "time"

// Settings holds the engine behavior knobs shared by all operations of
// a region. The zero value is not usable; start from DefaultSettings.
type Settings struct {
	// FindTimeout bounds finds that are implicit parts of another
	// operation, e.g. resolving a click anchor.
	FindTimeout time.Duration

	// RescanInterval is the sleep between unsuccessful poll
	// iterations. Every negative result waits this long before the
	// next capture, so no loop ever busy-spins.
	RescanInterval time.Duration

	// WaitForAnimations keeps polling while matches are still moving
	// between iterations until they settle or the deadline passes.
	WaitForAnimations bool

	// SaveNeedleOnError dumps the last captured haystack and the
	// target reference image on an unrecoverable find failure.
	SaveNeedleOnError bool

	// DumpDir is where failure dumps and learned reference images go.
	DumpDir string

	// Similarity is the default match confidence threshold bound to
	// targets that carry no configuration of their own.
	Similarity float64

	// UpperSimilarity, LowerSimilarity and SimilarityStep drive the
	// adaptive threshold relaxation.
	UpperSimilarity float64
	LowerSimilarity float64
	SimilarityStep  float64

	// AttemptTimeout is the per-attempt find timeout used while the
	// adaptive locator probes a threshold.
	AttemptTimeout time.Duration

	// SmoothMouse moves the pointer through intermediate positions.
	SmoothMouse bool

	// HighlightDelay is the pause after clicking into a form element
	// so that selection highlighting and dropdown animations settle.
	HighlightDelay time.Duration

	// DelayAfterDrag and DelayBeforeDrop pace drag and drop motions.
	DelayAfterDrag  time.Duration
	DelayBeforeDrop time.Duration
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		FindTimeout:       10 * time.Second,
		RescanInterval:    200 * time.Millisecond,
		WaitForAnimations: false,
		SaveNeedleOnError: false,
		DumpDir:           "/tmp/screenpilot",
		Similarity:        0.8,
		UpperSimilarity:   0.89,
		LowerSimilarity:   0.69,
		SimilarityStep:    0.033,
		AttemptTimeout:    time.Second,
		SmoothMouse:       true,
		HighlightDelay:    time.Second,
		DelayAfterDrag:    500 * time.Millisecond,
		DelayBeforeDrop:   500 * time.Millisecond,
	}
}
