package hybrid

import (
	"fmt"
	"image"

	"github.com/screenpilot/screenpilot/pkg/screen"

	"go.uber.org/zap"
)

// Matcher combines specialized matchers behind a single capability
// surface: each find is delegated to the registered matcher for the
// target's category. Chain targets are handled here, as a fallback
// sequence where the first step producing matches wins.
type Matcher struct {
	matchers map[screen.Category]screen.Matcher
	log      *zap.Logger
}

// Option configures the combined matcher.
type Option func(*Matcher)

// WithLogger attaches a logger for per-step fallback reporting.
func WithLogger(log *zap.Logger) Option {
	return func(m *Matcher) { m.log = log }
}

// NewMatcher registers the given matchers. Later matchers win when two
// declare the same capability.
func NewMatcher(matchers []screen.Matcher, opts ...Option) *Matcher {
	m := &Matcher{
		matchers: make(map[screen.Category]screen.Matcher),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, child := range matchers {
		for _, category := range []screen.Category{
			screen.CategoryImage, screen.CategoryText, screen.CategoryPattern,
		} {
			if child.Capabilities().Has(category) {
				m.matchers[category] = child
			}
		}
	}
	return m
}

// Capabilities is the union of the registered matchers' capabilities,
// plus chain handling once anything at all is registered.
func (m *Matcher) Capabilities() screen.Category {
	var caps screen.Category
	for category := range m.matchers {
		caps |= category
	}
	if caps != 0 {
		caps |= screen.CategoryChain
	}
	return caps
}

// Find dispatches to the matcher registered for the target's category.
func (m *Matcher) Find(target screen.Target, haystack image.Image) ([]screen.RawMatch, error) {
	if chain, ok := target.(*screen.ChainTarget); ok {
		return m.findChain(chain, haystack)
	}

	child, ok := m.matchers[target.Category()]
	if !ok {
		return nil, fmt.Errorf("no matcher registered for %s target %s", target.Category(), target.Name())
	}
	return child.Find(target, haystack)
}

// findChain walks the steps in order and returns the matches of the
// first step that finds anything. Steps without their own configuration
// inherit the chain's.
func (m *Matcher) findChain(chain *screen.ChainTarget, haystack image.Image) ([]screen.RawMatch, error) {
	if len(chain.Steps()) == 0 {
		return nil, fmt.Errorf("chain target %s has no steps", chain.Name())
	}

	var lastErr error
	for _, step := range chain.Steps() {
		if !step.HasOwnConfig() {
			step = step.WithConfig(chain.Config())
		}

		matches, err := m.Find(step, haystack)
		if err != nil {
			m.log.Debug("chain step failed",
				zap.String("chain", chain.Name()),
				zap.String("step", step.Name()),
				zap.Error(err))
			lastErr = err
			continue
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("chain target %s exhausted all steps: %w", chain.Name(), lastErr)
	}
	return nil, nil
}
