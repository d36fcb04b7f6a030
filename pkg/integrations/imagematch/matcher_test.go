package imagematch

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// checkerboard paints a high contrast 8x8 pattern that correlates with
// nothing but itself.
func checkerboard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{A: 0xff}
			if (x/2+y/2)%2 == 0 {
				c = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// sceneWith draws the pattern onto a flat background at each position.
func sceneWith(pattern image.Image, positions ...image.Point) *image.RGBA {
	scene := image.NewRGBA(image.Rect(0, 0, 64, 48))
	draw.Draw(scene, scene.Bounds(), image.NewUniform(color.RGBA{R: 100, G: 100, B: 100, A: 0xff}), image.Point{}, draw.Src)
	for _, pos := range positions {
		draw.Draw(scene, pattern.Bounds().Add(pos), pattern, image.Point{}, draw.Src)
	}
	return scene
}

func boundTarget(t *testing.T, img image.Image, similarity float64) screen.Target {
	t.Helper()
	return screen.NewImageTargetFromImage("pattern", img).
		WithConfig(screen.MatchConfig{Similarity: similarity})
}

func TestFindLocatesSingleOccurrence(t *testing.T) {
	pattern := checkerboard()
	scene := sceneWith(pattern, image.Pt(20, 10))
	target := boundTarget(t, pattern, 0.9)

	matches, err := NewMatcher().Find(target, scene)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, 20, matches[0].X)
	assert.Equal(t, 10, matches[0].Y)
	assert.Equal(t, 8, matches[0].Width)
	assert.Equal(t, 8, matches[0].Height)
	assert.Equal(t, 4, matches[0].DX)
	assert.Equal(t, 4, matches[0].DY)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
}

func TestFindLocatesAllOccurrences(t *testing.T) {
	pattern := checkerboard()
	scene := sceneWith(pattern, image.Pt(4, 4), image.Pt(40, 30))
	target := boundTarget(t, pattern, 0.9)

	matches, err := NewMatcher().Find(target, scene)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	found := map[image.Point]bool{}
	for _, m := range matches {
		found[image.Pt(m.X, m.Y)] = true
	}
	assert.True(t, found[image.Pt(4, 4)])
	assert.True(t, found[image.Pt(40, 30)])
}

func TestFindReturnsNothingBelowThreshold(t *testing.T) {
	pattern := checkerboard()
	scene := sceneWith(pattern) // background only
	target := boundTarget(t, pattern, 0.8)

	matches, err := NewMatcher().Find(target, scene)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindNeedleLargerThanScene(t *testing.T) {
	pattern := checkerboard()
	tiny := image.NewRGBA(image.Rect(0, 0, 4, 4))
	target := boundTarget(t, pattern, 0.8)

	matches, err := NewMatcher().Find(target, tiny)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindRejectsUniformReference(t *testing.T) {
	flat := image.NewRGBA(image.Rect(0, 0, 8, 8))
	target := boundTarget(t, flat, 0.8)

	_, err := NewMatcher().Find(target, sceneWith(checkerboard()))
	assert.Error(t, err)
}

func TestFindRejectsNonImageTargets(t *testing.T) {
	_, err := NewMatcher().Find(screen.NewTextTarget("OK"), sceneWith(checkerboard()))
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, screen.CategoryImage, NewMatcher().Capabilities())
}
