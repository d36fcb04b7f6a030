package backend

import (
	"os"

	"github.com/screenpilot/screenpilot/pkg/integrations/hybrid"
	"github.com/screenpilot/screenpilot/pkg/integrations/imagematch"
	"github.com/screenpilot/screenpilot/pkg/integrations/x11"
	"github.com/screenpilot/screenpilot/pkg/screen"

	"go.uber.org/zap"
)

// Backend names accepted by the factory. "auto" resolves through
// DetectDisplayServer.
const (
	BackendAuto    = "auto"
	BackendX11     = "x11"
	BackendWayland = "wayland"
)

// NewDisplay opens the display backend with the given name.
func NewDisplay(name string) (screen.Display, error) {
	if name == "" || name == BackendAuto {
		name = DetectDisplayServer()
	}

	switch name {
	case BackendX11:
		return x11.NewDisplay()
	case BackendWayland:
		return nil, &screen.UnsupportedBackendError{
			Backend: name,
			Reason:  "wayland compositors expose no screen capture or input injection protocol usable here",
		}
	default:
		return nil, &screen.UnsupportedBackendError{
			Backend: name,
			Reason:  "no display server detected",
		}
	}
}

// NewMatcher builds the default find stack: the pure Go template
// matcher behind the category dispatching front.
func NewMatcher(log *zap.Logger) screen.Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return hybrid.NewMatcher(
		[]screen.Matcher{imagematch.NewMatcher()},
		hybrid.WithLogger(log),
	)
}

// DetectDisplayServer inspects the session environment to pick the
// display backend.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return BackendWayland
	}

	if sessionType == "x11" || x11Display != "" {
		return BackendX11
	}

	return "unknown"
}
