package hybrid

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// stubMatcher serves one capability with canned results.
type stubMatcher struct {
	caps    screen.Category
	matches []screen.RawMatch
	err     error
	seen    []screen.Target
}

func (s *stubMatcher) Capabilities() screen.Category { return s.caps }

func (s *stubMatcher) Find(target screen.Target, _ image.Image) ([]screen.RawMatch, error) {
	s.seen = append(s.seen, target)
	return s.matches, s.err
}

func emptyImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func TestCapabilitiesUnion(t *testing.T) {
	m := NewMatcher([]screen.Matcher{
		&stubMatcher{caps: screen.CategoryImage},
		&stubMatcher{caps: screen.CategoryText},
	})

	caps := m.Capabilities()
	assert.True(t, caps.Has(screen.CategoryImage))
	assert.True(t, caps.Has(screen.CategoryText))
	assert.True(t, caps.Has(screen.CategoryChain))
	assert.False(t, caps.Has(screen.CategoryPattern))
}

func TestCapabilitiesEmpty(t *testing.T) {
	m := NewMatcher(nil)
	assert.Equal(t, screen.Category(0), m.Capabilities())
}

func TestFindDispatchesByCategory(t *testing.T) {
	images := &stubMatcher{caps: screen.CategoryImage, matches: []screen.RawMatch{{X: 1, Y: 2}}}
	texts := &stubMatcher{caps: screen.CategoryText, matches: []screen.RawMatch{{X: 3, Y: 4}}}
	m := NewMatcher([]screen.Matcher{images, texts})

	matches, err := m.Find(screen.NewTextTarget("OK"), emptyImage())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].X)
	assert.Empty(t, images.seen)
	assert.Len(t, texts.seen, 1)
}

func TestFindUnregisteredCategory(t *testing.T) {
	m := NewMatcher([]screen.Matcher{&stubMatcher{caps: screen.CategoryImage}})

	_, err := m.Find(screen.NewTextTarget("OK"), emptyImage())
	assert.Error(t, err)
}

func TestFindChainFallsBackToLaterStep(t *testing.T) {
	images := &stubMatcher{caps: screen.CategoryImage} // no matches
	texts := &stubMatcher{caps: screen.CategoryText, matches: []screen.RawMatch{{X: 7, Y: 8}}}
	m := NewMatcher([]screen.Matcher{images, texts})

	chain := screen.NewChainTarget("login",
		screen.NewImageTargetFromImage("icon", emptyImage()),
		screen.NewTextTarget("Login"),
	)

	matches, err := m.Find(chain, emptyImage())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 7, matches[0].X)
	assert.Len(t, images.seen, 1)
	assert.Len(t, texts.seen, 1)
}

func TestFindChainStepsInheritChainConfig(t *testing.T) {
	images := &stubMatcher{caps: screen.CategoryImage, matches: []screen.RawMatch{{X: 1}}}
	m := NewMatcher([]screen.Matcher{images})

	chain := screen.NewChainTarget("login",
		screen.NewImageTargetFromImage("icon", emptyImage()),
	).WithConfig(screen.MatchConfig{Similarity: 0.66})

	_, err := m.Find(chain, emptyImage())
	require.NoError(t, err)
	require.Len(t, images.seen, 1)
	assert.InDelta(t, 0.66, images.seen[0].Config().Similarity, 1e-9)
}

func TestFindChainKeepsStepOwnConfig(t *testing.T) {
	images := &stubMatcher{caps: screen.CategoryImage, matches: []screen.RawMatch{{X: 1}}}
	m := NewMatcher([]screen.Matcher{images})

	step := screen.NewImageTargetFromImage("icon", emptyImage()).
		WithConfig(screen.MatchConfig{Similarity: 0.5})
	chain := screen.NewChainTarget("login", step).
		WithConfig(screen.MatchConfig{Similarity: 0.9})

	_, err := m.Find(chain, emptyImage())
	require.NoError(t, err)
	require.Len(t, images.seen, 1)
	assert.InDelta(t, 0.5, images.seen[0].Config().Similarity, 1e-9)
}

func TestFindChainExhaustionReportsLastError(t *testing.T) {
	images := &stubMatcher{caps: screen.CategoryImage, err: errors.New("decode failed")}
	m := NewMatcher([]screen.Matcher{images})

	chain := screen.NewChainTarget("login",
		screen.NewImageTargetFromImage("icon", emptyImage()),
	)

	_, err := m.Find(chain, emptyImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode failed")
}

func TestFindChainWithoutStepsFails(t *testing.T) {
	m := NewMatcher([]screen.Matcher{&stubMatcher{caps: screen.CategoryImage}})

	_, err := m.Find(screen.NewChainTarget("empty"), emptyImage())
	assert.Error(t, err)
}

func TestFindChainNoMatchesNoError(t *testing.T) {
	m := NewMatcher([]screen.Matcher{&stubMatcher{caps: screen.CategoryImage}})

	chain := screen.NewChainTarget("login",
		screen.NewImageTargetFromImage("icon", emptyImage()),
	)

	matches, err := m.Find(chain, emptyImage())
	require.NoError(t, err)
	assert.Empty(t, matches)
}
