package screen

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Target describes what to search for on the screen. Concrete kinds are
// ImageTarget, TextTarget, PatternTarget and ChainTarget. A target may
// carry its own match configuration; otherwise it inherits the one of
// the region it is searched in, bound once per use.
type Target interface {
	// Name identifies the target, typically the descriptor it was
	// resolved from.
	Name() string

	// Category returns the matcher capability this target requires.
	Category() Category

	// Config returns the bound match configuration.
	Config() MatchConfig

	// HasOwnConfig reports whether the target carries its own match
	// configuration instead of inheriting the region's.
	HasOwnConfig() bool

	// WithConfig returns a copy of the target with the given
	// configuration bound. The receiver is never modified.
	WithConfig(cfg MatchConfig) Target
}

// ImageTarget is a target described by a reference image.
type ImageTarget struct {
	name string
	path string
	img  image.Image
	cfg  MatchConfig
	own  bool
}

// NewImageTarget loads a reference image from a PNG file.
func NewImageTarget(path string) (*ImageTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reference image %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &ImageTarget{name: name, path: path, img: img}, nil
}

// NewImageTargetFromImage builds a target from an already decoded image.
func NewImageTargetFromImage(name string, img image.Image) *ImageTarget {
	return &ImageTarget{name: name, img: img}
}

func (t *ImageTarget) Name() string       { return t.name }
func (t *ImageTarget) Category() Category { return CategoryImage }
func (t *ImageTarget) Config() MatchConfig {
	return t.cfg
}
func (t *ImageTarget) HasOwnConfig() bool { return t.own }

func (t *ImageTarget) WithConfig(cfg MatchConfig) Target {
	copied := *t
	copied.cfg = cfg
	copied.own = true
	return &copied
}

// Image returns the reference image.
func (t *ImageTarget) Image() image.Image { return t.img }

// Path returns the file the reference image was loaded from, if any.
func (t *ImageTarget) Path() string { return t.path }

// Save writes the reference image as PNG.
func (t *ImageTarget) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, t.img); err != nil {
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	return nil
}

// TextTarget is a target described by literal text to be recognized on
// the screen. It requires a text capable matcher.
type TextTarget struct {
	name string
	text string
	cfg  MatchConfig
	own  bool
}

// NewTextTarget builds a target from the text itself.
func NewTextTarget(text string) *TextTarget {
	return &TextTarget{name: text, text: text}
}

func (t *TextTarget) Name() string        { return t.name }
func (t *TextTarget) Category() Category  { return CategoryText }
func (t *TextTarget) Config() MatchConfig { return t.cfg }
func (t *TextTarget) HasOwnConfig() bool  { return t.own }

func (t *TextTarget) WithConfig(cfg MatchConfig) Target {
	copied := *t
	copied.cfg = cfg
	copied.own = true
	return &copied
}

// Text returns the text to search for.
func (t *TextTarget) Text() string { return t.text }

// PatternTarget is a target described by a trained pattern file, e.g. a
// cascade or model. It requires a pattern capable matcher.
type PatternTarget struct {
	name string
	path string
	cfg  MatchConfig
	own  bool
}

// NewPatternTarget references a pattern data file.
func NewPatternTarget(path string) *PatternTarget {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &PatternTarget{name: name, path: path}
}

func (t *PatternTarget) Name() string        { return t.name }
func (t *PatternTarget) Category() Category  { return CategoryPattern }
func (t *PatternTarget) Config() MatchConfig { return t.cfg }
func (t *PatternTarget) HasOwnConfig() bool  { return t.own }

func (t *PatternTarget) WithConfig(cfg MatchConfig) Target {
	copied := *t
	copied.cfg = cfg
	copied.own = true
	return &copied
}

// Path returns the pattern data file.
func (t *PatternTarget) Path() string { return t.path }

// ChainTarget is a sequence of targets to be matched one after another.
// It requires a chain (hybrid) capable matcher.
type ChainTarget struct {
	name  string
	steps []Target
	cfg   MatchConfig
	own   bool
}

// NewChainTarget builds a chain from individual steps.
func NewChainTarget(name string, steps ...Target) *ChainTarget {
	return &ChainTarget{name: name, steps: steps}
}

func (t *ChainTarget) Name() string        { return t.name }
func (t *ChainTarget) Category() Category  { return CategoryChain }
func (t *ChainTarget) Config() MatchConfig { return t.cfg }
func (t *ChainTarget) HasOwnConfig() bool  { return t.own }

func (t *ChainTarget) WithConfig(cfg MatchConfig) Target {
	copied := *t
	copied.cfg = cfg
	copied.own = true
	return &copied
}

// Steps returns the chained targets in order.
func (t *ChainTarget) Steps() []Target { return t.steps }

// FileResolver keeps the list of directories searched when resolving
// target descriptors to data files.
type FileResolver struct {
	paths []string
}

// NewFileResolver starts with the current directory on the search path.
func NewFileResolver() *FileResolver {
	return &FileResolver{paths: []string{"."}}
}

// AddPath appends a directory to the search path if not already present.
func (r *FileResolver) AddPath(dir string) {
	for _, p := range r.paths {
		if p == dir {
			return
		}
	}
	r.paths = append(r.paths, dir)
}

// RemovePath drops a directory from the search path.
func (r *FileResolver) RemovePath(dir string) {
	for i, p := range r.paths {
		if p == dir {
			r.paths = append(r.paths[:i], r.paths[i+1:]...)
			return
		}
	}
}

// Resolve locates a file by name in the search path.
func (r *FileResolver) Resolve(name string) (string, error) {
	for _, dir := range r.paths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("file %s not found in %v", name, r.paths)
}

// resolver is one attempt at turning a descriptor string into a target.
type resolver func(descriptor string, files *FileResolver) (Target, error)

// targetResolvers is the prioritized resolution chain: a match file has
// the highest precedence, then a data file by extension, then the
// default image type. First success wins. Built per call because the
// chain is mutually recursive with TargetFromString via chain steps,
// which rules out a package-level slice.
func targetResolvers() []resolver {
	return []resolver{
		targetFromMatchFile,
		targetFromDataFile,
		targetFromDefault,
	}
}

// TargetFromString resolves a descriptor through the resolution chain.
func TargetFromString(descriptor string, files *FileResolver) (Target, error) {
	if files == nil {
		files = NewFileResolver()
	}
	var firstErr error
	for _, resolve := range targetResolvers() {
		t, err := resolve(descriptor, files)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("cannot resolve target %q: %w", descriptor, firstErr)
}

// targetFromMatchFile reads a "<descriptor>.match" key=value file with a
// data file reference and an optional similarity override.
func targetFromMatchFile(descriptor string, files *FileResolver) (Target, error) {
	path, err := files.Resolve(descriptor + ".match")
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dataFile string
	similarity := -1.0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("malformed line %q in %s", line, path)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "data":
			dataFile = value
		case "similarity":
			similarity, err = strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("bad similarity in %s: %w", path, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if dataFile == "" {
		return nil, fmt.Errorf("match file %s names no data file", path)
	}

	target, err := targetFromDataFile(strings.TrimSuffix(dataFile, filepath.Ext(dataFile)), files)
	if err != nil {
		return nil, err
	}
	if similarity >= 0 {
		target = target.WithConfig(MatchConfig{Similarity: similarity})
	}
	return target, nil
}

// targetFromDataFile tries the known data file extensions in order.
func targetFromDataFile(descriptor string, files *FileResolver) (Target, error) {
	if path, err := files.Resolve(descriptor + ".png"); err == nil {
		return NewImageTarget(path)
	}
	if path, err := files.Resolve(descriptor + ".txt"); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		t := NewTextTarget(strings.TrimSpace(string(data)))
		t.name = descriptor
		return t, nil
	}
	if path, err := files.Resolve(descriptor + ".xml"); err == nil {
		return NewPatternTarget(path), nil
	}
	if path, err := files.Resolve(descriptor + ".steps"); err == nil {
		return chainFromStepsFile(descriptor, path, files)
	}
	return nil, fmt.Errorf("no data file for %s", descriptor)
}

// targetFromDefault falls back on the default concrete type, an image.
func targetFromDefault(descriptor string, files *FileResolver) (Target, error) {
	path, err := files.Resolve(descriptor + ".png")
	if err != nil {
		return nil, err
	}
	return NewImageTarget(path)
}

// chainFromStepsFile reads one descriptor per line and resolves each
// through the same chain.
func chainFromStepsFile(descriptor, path string, files *FileResolver) (Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var steps []Target
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := TargetFromString(line, files)
		if err != nil {
			return nil, fmt.Errorf("bad chain step %q: %w", line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("chain file %s has no steps", path)
	}
	return NewChainTarget(descriptor, steps...), nil
}
