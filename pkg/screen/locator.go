package screen

import (
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
)

// Locator is the deadline driven polling engine producing match lists
// for a region. Each iteration is stateless (fresh capture, fresh
// match); the only state carried across iterations is the previous
// match list, used for positional stability comparison.
//
// The stability comparison is strictly index-positional: if the matcher
// ordering is not stable across otherwise identical scans, a static
// target can be classified as moving.
type Locator struct {
	region *Region
}

// NewLocator builds a locator for the given region.
func NewLocator(r *Region) *Locator {
	return &Locator{region: r}
}

// FindAll polls for the target until the deadline and returns all
// matches in matcher order, in absolute screen coordinates.
//
// When no match arrives before the deadline the result is nil with a
// FindError, or nil without error when allowZero is set. While the
// wait-for-animations policy is active, a match list is only returned
// once two consecutive polls agree on every position, or the deadline
// passes.
func (l *Locator) FindAll(target Target, timeout time.Duration, allowZero bool) ([]*Match, error) {
	r := l.region
	if r.display == nil {
		return nil, &UninitializedBackendError{Backend: "display"}
	}
	if r.matcher == nil {
		return nil, &UninitializedBackendError{Backend: "matcher"}
	}
	if !r.matcher.Capabilities().Has(target.Category()) {
		return nil, &IncompatibleTargetError{Target: target.Name(), Category: target.Category()}
	}

	// bind the region configuration unless the target brings its own
	bound := target
	if !bound.HasOwnConfig() {
		bound = bound.WithConfig(MatchConfig{Similarity: r.settings.Similarity})
	}

	log := r.log.With(zap.String("target", target.Name()))
	log.Debug("Looking for target", zap.Duration("timeout", timeout),
		zap.Float64("similarity", bound.Config().Similarity))

	start := time.Now()
	deadline := start.Add(timeout)
	var lastMatches []*Match
	var lastCapture image.Image

	for {
		capture, err := r.display.Capture(r.x, r.y, r.width, r.height)
		if err != nil {
			return nil, fmt.Errorf("failed to capture region %s: %w", r, err)
		}
		lastCapture = capture

		relative, err := r.matcher.Find(bound, capture)
		if err != nil {
			return nil, fmt.Errorf("matcher failed on target %s: %w", target.Name(), err)
		}

		if len(relative) > 0 {
			current := make([]*Match, len(relative))
			for i, raw := range relative {
				current[i] = newMatch(raw, r.x, r.y, r.display, r.matcher)
			}

			// appearing or disappearing indexes count as movement
			moving := len(current) != len(lastMatches)
			if !moving {
				for i := range current {
					if current[i].X != lastMatches[i].X || current[i].Y != lastMatches[i].Y {
						moving = true
						break
					}
				}
			}
			lastMatches = current
			r.lastMatch = current[len(current)-1]

			if r.settings.WaitForAnimations && moving && !time.Now().After(deadline) {
				log.Debug("Matches still moving, rescanning until they settle")
				continue
			}

			l.record(log, FindRecord{
				Target:     target.Name(),
				Backend:    fmt.Sprintf("%T", r.matcher),
				Similarity: current[0].Similarity,
				Success:    true,
				Duration:   time.Since(start),
			})
			return current, nil
		}

		if time.Now().After(deadline) {
			if allowZero {
				return nil, nil
			}
			dumpPath := ""
			if r.settings.SaveNeedleOnError {
				dumpPath = dumpFindFailure(r.settings.DumpDir, lastCapture, target, log)
			}
			l.record(log, FindRecord{
				Target:   target.Name(),
				Backend:  fmt.Sprintf("%T", r.matcher),
				Duration: time.Since(start),
				DumpPath: dumpPath,
			})
			return nil, &FindError{Target: target.Name()}
		}

		// don't hog the CPU between unsuccessful polls
		time.Sleep(r.settings.RescanInterval)
	}
}

// Find returns the first match of FindAll without zero tolerance.
func (l *Locator) Find(target Target, timeout time.Duration) (*Match, error) {
	matches, err := l.FindAll(target, timeout, false)
	if err != nil {
		return nil, err
	}
	return matches[0], nil
}

// record persists a find outcome if a recorder is attached. Recording
// never fails the find itself.
func (l *Locator) record(log *zap.Logger, rec FindRecord) {
	if l.region.recorder == nil {
		return
	}
	if err := l.region.recorder.RecordFind(rec); err != nil {
		log.Warn("Failed to record find event", zap.Error(err))
	}
}

// Find locates a target (or descriptor string) within the region and
// returns the first match. It fails with a FindError after the timeout.
func (r *Region) Find(target any, timeout time.Duration) (*Match, error) {
	resolved, err := r.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	return NewLocator(r).Find(resolved, timeout)
}

// FindAll locates all instances of a target (or descriptor string)
// within the region. With allowZero an empty result is not an error.
func (r *Region) FindAll(target any, timeout time.Duration, allowZero bool) ([]*Match, error) {
	resolved, err := r.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	return NewLocator(r).FindAll(resolved, timeout, allowZero)
}

// Sample measures the similarity between a target and the screen as an
// empirical probability that the target is present, by matching with a
// zero threshold.
func (r *Region) Sample(target any) (float64, error) {
	resolved, err := r.resolveTarget(target)
	if err != nil {
		return 0, err
	}
	resolved = resolved.WithConfig(MatchConfig{Similarity: 0})
	match, err := NewLocator(r).Find(resolved, r.settings.FindTimeout)
	if err != nil {
		return 0, err
	}
	return match.Similarity, nil
}

// Exists checks for a target without failing, returning nil when the
// target is not present within the timeout.
func (r *Region) Exists(target any, timeout time.Duration) (*Match, error) {
	r.log.Info("Checking if target is present", zap.String("target", fmt.Sprintf("%v", target)))
	match, err := r.Find(target, timeout)
	if err != nil {
		var findErr *FindError
		if errors.As(err, &findErr) {
			r.log.Info("Target is not present", zap.String("target", findErr.Target))
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}

// Wait blocks until a target appears, failing with a FindError on
// timeout.
func (r *Region) Wait(target any, timeout time.Duration) (*Match, error) {
	r.log.Info("Waiting for target", zap.String("target", fmt.Sprintf("%v", target)))
	return r.Find(target, timeout)
}
