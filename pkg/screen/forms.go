package screen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// anchorLocation resolves an anchor of any supported kind to a concrete
// location. Targets and descriptor strings require a hover (and thereby
// a find) first.
func (r *Region) anchorLocation(anchor any) (Location, error) {
	switch a := anchor.(type) {
	case *Match:
		return a.Anchor(), nil
	case Location:
		return a, nil
	}
	match, err := r.Hover(anchor)
	if err != nil {
		return Location{}, err
	}
	return match.Anchor(), nil
}

// ClickAt clicks count times on a location displaced by (dx, dy) from
// an anchor match, location, target or descriptor string.
func (r *Region) ClickAt(anchor any, dx, dy, count int) error {
	if count < 0 {
		return fmt.Errorf("click count cannot be negative, got %d", count)
	}
	start, err := r.anchorLocation(anchor)
	if err != nil {
		return err
	}
	_, err = r.MultiClick(start.Offset(dx, dy), count)
	return err
}

// FillOptions tunes FillAt. The zero value differs from the defaults:
// use DefaultFillOptions as the base.
type FillOptions struct {
	// Delete removes the marked previous content before typing;
	// otherwise a right arrow appends to it.
	Delete bool

	// Escape dismisses fill suggestion dropdowns after typing so they
	// cannot cover matching areas.
	Escape bool

	// MarkClicks is the number of clicks used to highlight previous
	// content; interfaces need a single, double or triple click.
	MarkClicks int
}

// DefaultFillOptions deletes marked content, escapes suggestions and
// marks with a single click.
func DefaultFillOptions() FillOptions {
	return FillOptions{Delete: true, Escape: true, MarkClicks: 1}
}

// FillAt fills text into an input field at a displacement from an
// anchor. Empty text is a no-op.
func (r *Region) FillAt(anchor any, text string, dx, dy int, opts *FillOptions) error {
	if text == "" {
		return nil
	}
	o := DefaultFillOptions()
	if opts != nil {
		o = *opts
	}
	r.log.Info("Filling text at anchor", zap.String("text", text))

	if err := r.ClickAt(anchor, dx, dy, o.MarkClicks); err != nil {
		return err
	}
	// give any content highlighting enough time
	r.Idle(r.settings.HighlightDelay)

	if o.Delete {
		if err := r.PressKeys(KeyDelete); err != nil {
			return err
		}
	} else {
		if err := r.PressKeys(KeyRight); err != nil {
			return err
		}
	}
	if err := r.TypeText(text); err != nil {
		return err
	}
	if o.Escape {
		if err := r.PressKeys(KeyEsc); err != nil {
			return err
		}
	}
	return nil
}

// SelectOptions tunes SelectAt.
type SelectOptions struct {
	// DW, DH is the size of the search area spanned for an option
	// image, wide enough for the option list plus a repeated rendering
	// of the already selected option.
	DW int
	DH int

	// Enter confirms an index based selection with an enter press.
	Enter bool

	// MarkClicks is the number of clicks used to open the dropdown.
	MarkClicks int

	// Tries bounds how often the whole open-and-select sequence is
	// repeated when the dropdown does not open.
	Tries int
}

// DefaultSelectOptions confirms with enter, opens with a single click
// and retries the sequence up to three times.
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{Enter: true, MarkClicks: 1, Tries: 3}
}

// SelectAt selects an option from a dropdown at a displacement from an
// anchor. The option is either an int index navigated to with up/down
// key presses (sign gives the direction, magnitude the repeat count,
// index 0 keeps the current selection) or an option image matched in a
// sub-region positioned below and horizontally centered on the opened
// dropdown.
func (r *Region) SelectAt(anchor any, option any, dx, dy int, opts *SelectOptions) error {
	o := DefaultSelectOptions()
	if opts != nil {
		o = *opts
	}
	tries := o.Tries
	if tries < 1 {
		tries = 1
	}

	index, byIndex := option.(int)
	if byIndex && index == 0 {
		return nil
	}
	if descriptor, ok := option.(string); ok && descriptor == "" {
		return nil
	}

	for attempt := 0; ; attempt++ {
		if err := r.ClickAt(anchor, dx, dy, o.MarkClicks); err != nil {
			return err
		}
		// make sure the dropdown options appear
		r.Idle(r.settings.HighlightDelay)

		if byIndex {
			return r.selectByIndex(index, o.Enter)
		}

		err := r.selectByImage(option, o.DW, o.DH)
		if err == nil {
			return nil
		}
		var findErr *FindError
		if !errors.As(err, &findErr) || attempt == tries-1 {
			return err
		}
		if _, hoverErr := r.Hover(Location{X: 0, Y: 0}); hoverErr != nil {
			r.log.Warn("Failed to park the pointer", zap.Error(hoverErr))
		}
		r.log.Info("Opening the dropdown menu didn't work, retrying")
	}
}

// selectByIndex navigates the open dropdown with repeated arrow key
// presses.
func (r *Region) selectByIndex(index int, enter bool) error {
	moveKey := KeyDown
	if index < 0 {
		moveKey = KeyUp
		index = -index
	}
	for i := 0; i < index; i++ {
		// one press per step, repeated presses in a single call are
		// not registered reliably by all toolkits
		if err := r.PressKeys(moveKey); err != nil {
			return err
		}
	}
	if enter {
		return r.PressKeys(KeyEnter)
	}
	return nil
}

// selectByImage clicks the first match of the option image inside a
// search area below and horizontally centered on the pointer. The area
// keeps the dropdown box itself inside so an option that coincides with
// the already selected one can still be matched at the box.
func (r *Region) selectByImage(option any, dw, dh int) error {
	loc := r.MouseLocation()
	haystack := r.derive(loc.X-dw/2, loc.Y-dh/4, dw, dh)
	_, err := haystack.Click(option)
	return err
}
