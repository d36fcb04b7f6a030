package screen

import "fmt"

// FindError is returned when a target could not be located within the
// timeout budget and zero matches were not permitted.
type FindError struct {
	Target string
}

func (e *FindError) Error() string {
	return fmt.Sprintf("could not find target %q on the screen", e.Target)
}

// NotFindError is returned when a target was still present although its
// absence was expected.
type NotFindError struct {
	Target string
}

func (e *NotFindError) Error() string {
	return fmt.Sprintf("target %q is still present on the screen", e.Target)
}

// IncompatibleTargetError is returned before polling begins when the
// bound matcher cannot handle the target's category.
type IncompatibleTargetError struct {
	Target   string
	Category Category
}

func (e *IncompatibleTargetError) Error() string {
	return fmt.Sprintf("target %q needs a %s capable matcher", e.Target, e.Category)
}

// UnsupportedBackendError is returned when a backend name is unknown or
// not usable on the current system.
type UnsupportedBackendError struct {
	Backend string
	Reason  string
}

func (e *UnsupportedBackendError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported backend %q", e.Backend)
	}
	return fmt.Sprintf("unsupported backend %q: %s", e.Backend, e.Reason)
}

// UninitializedBackendError is returned when an operation is attempted
// on a region whose display or matcher was never set up.
type UninitializedBackendError struct {
	Backend string
}

func (e *UninitializedBackendError) Error() string {
	return fmt.Sprintf("backend %q is not initialized", e.Backend)
}
