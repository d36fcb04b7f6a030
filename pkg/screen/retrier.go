package screen

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// defaultRetries is the number of attempts for act-then-verify
// interactions before a confirmation failure is propagated.
const defaultRetries = 3

// Retrier implements the generic act/verify/retry protocol shared by
// the expect and vanish interactions: one logical action is treated as
// "retry until verified or exhausted", modeling UIs where a single
// click or key press is not always registered (focus races, animation,
// debounce).
type Retrier struct {
	region  *Region
	retries int
}

// NewRetrier builds a retrier for the region. A non-positive retries
// value falls back to the default of 3 attempts.
func NewRetrier(r *Region, retries int) *Retrier {
	if retries <= 0 {
		retries = defaultRetries
	}
	return &Retrier{region: r, retries: retries}
}

// Do performs the action and then the verification for each attempt.
// Confirmation failures (FindError, NotFindError) are swallowed on all
// but the last attempt, where the original error is re-raised; between
// attempts the pointer is parked at a neutral location so no stale
// hover state survives. Action errors and any other verification error
// abort immediately.
func (rt *Retrier) Do(action func() error, verify func() (*Match, error)) (*Match, error) {
	var lastErr error
	for attempt := 0; attempt < rt.retries; attempt++ {
		if attempt > 0 {
			rt.region.log.Info("Retrying the interaction",
				zap.Int("attempt", attempt+1), zap.Int("retries", rt.retries))
		}
		if err := action(); err != nil {
			return nil, err
		}

		match, err := verify()
		if err == nil {
			return match, nil
		}
		var findErr *FindError
		var notFindErr *NotFindError
		if !errors.As(err, &findErr) && !errors.As(err, &notFindErr) {
			return nil, err
		}
		lastErr = err

		// park the pointer so hover state cannot mask the retry
		if _, hoverErr := rt.region.Hover(Location{X: 0, Y: 0}); hoverErr != nil {
			rt.region.log.Warn("Failed to park the pointer", zap.Error(hoverErr))
		}
	}
	return nil, lastErr
}

// WaitVanish blocks until the target disappears, checking presence once
// per rescan interval, and fails with a NotFindError when the target is
// still present at the deadline.
func (r *Region) WaitVanish(target any, timeout time.Duration) (*Region, error) {
	r.log.Info("Waiting for target to vanish", zap.String("target", fmt.Sprintf("%v", target)))
	resolved, err := r.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		match, err := r.Exists(resolved, 0)
		if err != nil {
			return nil, err
		}
		if match == nil {
			return r, nil
		}

		// don't hog the CPU between presence checks
		time.Sleep(r.settings.RescanInterval)
	}

	return nil, &NotFindError{Target: resolved.Name()}
}

// ClickExpect clicks on an anchor and waits for another target to
// appear, retrying the click when the confirmation fails.
func (r *Region) ClickExpect(clickAnchor, expect any, timeout time.Duration, retries int, modifiers ...Key) (*Match, error) {
	return NewRetrier(r, retries).Do(
		func() error {
			_, err := r.Click(clickAnchor, modifiers...)
			return err
		},
		func() (*Match, error) {
			return r.Find(expect, timeout)
		},
	)
}

// ClickVanish clicks on an anchor and waits for another target to
// disappear, retrying the click when the confirmation fails.
func (r *Region) ClickVanish(clickAnchor, vanish any, timeout time.Duration, retries int, modifiers ...Key) (*Region, error) {
	_, err := NewRetrier(r, retries).Do(
		func() error {
			_, err := r.Click(clickAnchor, modifiers...)
			return err
		},
		func() (*Match, error) {
			_, err := r.WaitVanish(vanish, timeout)
			return nil, err
		},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// PressExpect presses keys and waits for a target to appear, retrying
// the press when the confirmation fails.
func (r *Region) PressExpect(keys []Key, expect any, timeout time.Duration, retries int) (*Match, error) {
	return NewRetrier(r, retries).Do(
		func() error {
			return r.PressKeys(keys...)
		},
		func() (*Match, error) {
			return r.Find(expect, timeout)
		},
	)
}

// PressVanish presses keys and waits for a target to disappear,
// retrying the press when the confirmation fails.
func (r *Region) PressVanish(keys []Key, vanish any, timeout time.Duration, retries int) (*Region, error) {
	_, err := NewRetrier(r, retries).Do(
		func() error {
			return r.PressKeys(keys...)
		},
		func() (*Match, error) {
			_, err := r.WaitVanish(vanish, timeout)
			return nil, err
		},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ClickAtIndex finds all matches of an anchor, sorts them by their
// (x, y) coordinates and clicks on the match at the given index. The
// expected number of matches must settle within the given number of
// find attempts (not seconds) for fast failure when some elements do
// not visualize.
func (r *Region) ClickAtIndex(anchor any, index, findNumber, attempts int) (*Match, error) {
	resolved, err := r.resolveTarget(anchor)
	if err != nil {
		return nil, err
	}

	var matches []*Match
	matched := false
	for i := 0; i < attempts; i++ {
		matches, err = r.FindAll(resolved, r.settings.FindTimeout, true)
		if err != nil {
			return nil, err
		}
		if len(matches) == findNumber {
			matched = true
			break
		}
	}
	if !matched {
		// raise the canonical find failure for the anchor
		if _, err := r.Find(resolved, r.settings.FindTimeout); err != nil {
			return nil, err
		}
		return nil, &FindError{Target: resolved.Name()}
	}

	sorted := make([]*Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	r.log.Debug("Sorted clicking matches", zap.Int("total", len(sorted)))

	if index < 0 || index >= len(sorted) {
		return nil, fmt.Errorf("index %d out of range for %d matches", index, len(sorted))
	}
	if _, err := r.Click(sorted[index]); err != nil {
		return nil, err
	}
	return sorted[index], nil
}
