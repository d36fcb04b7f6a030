package imagematch

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/gift"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// Matcher locates reference images in screen captures with normalized
// cross correlation over grayscale intensities. It is pure Go and needs
// no native computer vision library.
type Matcher struct {
	filter *gift.GIFT
}

// NewMatcher builds the template matcher with its grayscale
// preprocessing pipeline.
func NewMatcher() *Matcher {
	return &Matcher{filter: gift.New(gift.Grayscale())}
}

// Capabilities reports that only image targets are supported.
func (m *Matcher) Capabilities() screen.Category {
	return screen.CategoryImage
}

// Find slides the reference image over the haystack and returns every
// position scoring at least the bound similarity, best first.
// Overlapping candidates are suppressed in favor of the higher score.
func (m *Matcher) Find(target screen.Target, haystack image.Image) ([]screen.RawMatch, error) {
	imgTarget, ok := target.(*screen.ImageTarget)
	if !ok {
		return nil, fmt.Errorf("image matcher cannot handle %s target %s", target.Category(), target.Name())
	}

	needle := m.grayscale(imgTarget.Image())
	scene := m.grayscale(haystack)

	nw, nh := needle.Bounds().Dx(), needle.Bounds().Dy()
	sw, sh := scene.Bounds().Dx(), scene.Bounds().Dy()
	if nw == 0 || nh == 0 {
		return nil, fmt.Errorf("reference image %s is empty", target.Name())
	}
	if nw > sw || nh > sh {
		return nil, nil
	}

	tmpl := newPlane(needle)
	tmplMean, tmplNorm := tmpl.stats(0, 0, nw, nh)
	if tmplNorm == 0 {
		return nil, fmt.Errorf("reference image %s is uniform, matching is undefined", target.Name())
	}
	plane := newPlane(scene)

	threshold := target.Config().Similarity
	var candidates []screen.RawMatch
	for y := 0; y <= sh-nh; y++ {
		for x := 0; x <= sw-nw; x++ {
			score := correlate(plane, tmpl, x, y, nw, nh, tmplMean, tmplNorm)
			if score < threshold {
				continue
			}
			candidates = append(candidates, screen.RawMatch{
				X:          x,
				Y:          y,
				Width:      nw,
				Height:     nh,
				DX:         nw / 2,
				DY:         nh / 2,
				Similarity: score,
			})
		}
	}

	return suppress(candidates), nil
}

func (m *Matcher) grayscale(img image.Image) *image.Gray {
	dst := image.NewGray(m.filter.Bounds(img.Bounds()))
	m.filter.Draw(dst, img)
	return dst
}

// plane is a grayscale image flattened to float64 samples for the
// correlation inner loop.
type plane struct {
	pix    []float64
	stride int
}

func newPlane(img *image.Gray) *plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := &plane{pix: make([]float64, w*h), stride: w}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p.pix[y*w+x] = float64(row[x])
		}
	}
	return p
}

// stats returns the mean and the centered L2 norm of a window.
func (p *plane) stats(x, y, w, h int) (mean, norm float64) {
	var sum float64
	for dy := 0; dy < h; dy++ {
		row := p.pix[(y+dy)*p.stride+x:]
		for dx := 0; dx < w; dx++ {
			sum += row[dx]
		}
	}
	mean = sum / float64(w*h)

	var sq float64
	for dy := 0; dy < h; dy++ {
		row := p.pix[(y+dy)*p.stride+x:]
		for dx := 0; dx < w; dx++ {
			d := row[dx] - mean
			sq += d * d
		}
	}
	return mean, math.Sqrt(sq)
}

// correlate computes the normalized cross correlation of the template
// against one window of the scene. Anticorrelated windows clamp to 0 so
// scores line up with the [0,1] similarity scale.
func correlate(scene, tmpl *plane, x, y, w, h int, tmplMean, tmplNorm float64) float64 {
	sceneMean, sceneNorm := scene.stats(x, y, w, h)
	if sceneNorm == 0 {
		return 0
	}

	var dot float64
	for dy := 0; dy < h; dy++ {
		srow := scene.pix[(y+dy)*scene.stride+x:]
		trow := tmpl.pix[dy*tmpl.stride:]
		for dx := 0; dx < w; dx++ {
			dot += (srow[dx] - sceneMean) * (trow[dx] - tmplMean)
		}
	}

	ncc := dot / (sceneNorm * tmplNorm)
	return math.Max(ncc, 0)
}

// suppress drops candidates overlapping a better scoring one, so each
// screen occurrence yields a single match.
func suppress(candidates []screen.RawMatch) []screen.RawMatch {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	var kept []screen.RawMatch
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.X < k.X+k.Width && k.X < c.X+c.Width &&
				c.Y < k.Y+k.Height && k.Y < c.Y+c.Height {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}
