package screen

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// similarityEpsilon absorbs float drift when stepping thresholds down.
const similarityEpsilon = 1e-9

// AdaptiveLocator wraps the locator with progressive confidence
// threshold relaxation: it probes from an upper threshold downwards in
// fixed steps until the first success, tolerating small persistent
// rendering drift (fonts, palette) instead of failing outright.
//
// Observed screen content of successful matches is persisted as derived
// reference images so that future runs can match at higher confidence
// again.
type AdaptiveLocator struct {
	region *Region
}

// NewAdaptiveLocator builds an adaptive locator for the given region.
func NewAdaptiveLocator(r *Region) *AdaptiveLocator {
	return &AdaptiveLocator{region: r}
}

// FindAll probes thresholds upper, upper-step, upper-2*step, ... while
// the value stays at or above lower, running one bounded locator pass
// per threshold. The first attempt uses the full timeout; subsequent
// attempts use the configured per-attempt timeout.
//
// On exhaustion it returns nil, or a FindError when allowZero is unset.
func (a *AdaptiveLocator) FindAll(target Target, timeout time.Duration, allowZero bool,
	upper, lower, step float64) ([]*Match, error) {
	r := a.region
	log := r.log.With(zap.String("target", target.Name()))

	threshold := upper
	attemptTimeout := timeout
	for threshold >= lower-similarityEpsilon {
		log.Info("Trying target with lowered similarity",
			zap.Float64("similarity", threshold), zap.Float64("lower", lower))

		bound := target.WithConfig(MatchConfig{Similarity: threshold})
		matches, err := NewLocator(r).FindAll(bound, attemptTimeout, true)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			a.learn(target, matches, threshold, upper, lower, step, log)
			return matches, nil
		}

		attemptTimeout = r.settings.AttemptTimeout
		threshold -= step
	}

	if allowZero {
		return nil, nil
	}
	return nil, &FindError{Target: target.Name()}
}

// learn persists the observed screen content of the matches as derived
// reference images and records the calibration outcome. Learning is
// best effort and never fails the find.
func (a *AdaptiveLocator) learn(target Target, matches []*Match,
	threshold, upper, lower, step float64, log *zap.Logger) {
	r := a.region

	imageTarget, ok := target.(*ImageTarget)
	if !ok {
		log.Warn("Unsupported type of target for the similarity lowering technique",
			zap.String("category", target.Category().String()))
		return
	}

	for i, match := range matches {
		filename := imageTarget.Name() + ".png"
		if i > 0 {
			// derived references for additional matches: _2, _3, ...
			filename = fmt.Sprintf("%s_%d.png", imageTarget.Name(), i+1)
		} else if threshold >= upper {
			// the primary reference is only replaced when a lowered
			// threshold was needed to match it
			continue
		}

		capture, err := r.display.Capture(match.X, match.Y, match.Width, match.Height)
		if err != nil {
			log.Warn("Failed to capture matched content", zap.Error(err))
			continue
		}

		path := filepath.Join(r.settings.DumpDir, filename)
		log.Info("Saving learned reference image",
			zap.String("path", path), zap.Float64("similarity", threshold))
		if err := saveImage(path, capture); err != nil {
			log.Warn("Failed to save learned reference image", zap.Error(err))
		}
		if i == 0 {
			// keep the in-memory reference in step with the saved one
			// so reuse within the run matches against current content
			imageTarget.img = capture
		}
	}

	if r.recorder != nil {
		rec := CalibrationRecord{
			Target:  target.Name(),
			Upper:   upper,
			Lower:   lower,
			Step:    step,
			Learned: threshold,
		}
		if err := r.recorder.RecordCalibration(rec); err != nil {
			log.Warn("Failed to record calibration", zap.Error(err))
		}
	}
}

// FindAllAdaptive runs the adaptive locator with the region's
// configured thresholds. When a recorder is attached and has a learned
// threshold for the target, probing starts there instead of at the
// configured upper bound.
func (r *Region) FindAllAdaptive(target any, timeout time.Duration, allowZero bool) ([]*Match, error) {
	resolved, err := r.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	upper := r.settings.UpperSimilarity
	lower := r.settings.LowerSimilarity
	if r.recorder != nil {
		if learned, ok, err := r.recorder.LearnedSimilarity(resolved.Name()); err != nil {
			r.log.Warn("Failed to look up learned similarity", zap.Error(err))
		} else if ok && learned < upper && learned >= lower {
			r.log.Debug("Seeding similarity from previous calibration",
				zap.Float64("similarity", learned))
			upper = learned
		}
	}

	return NewAdaptiveLocator(r).FindAll(resolved, timeout, allowZero,
		upper, lower, r.settings.SimilarityStep)
}
