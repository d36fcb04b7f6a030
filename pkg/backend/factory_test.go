package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		want           string
	}{
		{"explicit wayland session", "wayland", "", "", BackendWayland},
		{"wayland display set", "", "wayland-0", "", BackendWayland},
		{"explicit x11 session", "x11", "", "", BackendX11},
		{"display set", "", "", ":0", BackendX11},
		{"wayland wins over display", "wayland", "", ":0", BackendWayland},
		{"headless", "", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			assert.Equal(t, tt.want, DetectDisplayServer())
		})
	}
}

func TestNewDisplayWayland(t *testing.T) {
	_, err := NewDisplay(BackendWayland)
	require.Error(t, err)

	var unsupported *screen.UnsupportedBackendError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, BackendWayland, unsupported.Backend)
}

func TestNewDisplayUnknownName(t *testing.T) {
	_, err := NewDisplay("directfb")
	require.Error(t, err)

	var unsupported *screen.UnsupportedBackendError
	assert.True(t, errors.As(err, &unsupported))
}

func TestNewDisplayAutoHeadless(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")

	_, err := NewDisplay(BackendAuto)
	require.Error(t, err)

	var unsupported *screen.UnsupportedBackendError
	assert.True(t, errors.As(err, &unsupported))
}

func TestNewMatcherServesImagesAndChains(t *testing.T) {
	m := NewMatcher(nil)

	assert.True(t, m.Capabilities().Has(screen.CategoryImage))
	assert.True(t, m.Capabilities().Has(screen.CategoryChain))
	assert.False(t, m.Capabilities().Has(screen.CategoryText))
}
