package x11

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

func TestKeysymForPrintableASCII(t *testing.T) {
	sym, err := keysymFor(screen.Key("a"))
	require.NoError(t, err)
	assert.Equal(t, xproto.Keysym('a'), sym)

	sym, err = keysymFor(screen.Key("%"))
	require.NoError(t, err)
	assert.Equal(t, xproto.Keysym('%'), sym)
}

func TestKeysymForNamedKeys(t *testing.T) {
	sym, err := keysymFor(screen.KeyEnter)
	require.NoError(t, err)
	assert.Equal(t, xproto.Keysym(0xff0d), sym)

	sym, err = keysymFor(screen.ModShift)
	require.NoError(t, err)
	assert.Equal(t, xproto.Keysym(0xffe1), sym)
}

func TestKeysymForUnknownKey(t *testing.T) {
	_, err := keysymFor(screen.Key("hyper"))
	assert.Error(t, err)
}

// testKeymap emulates a fragment of a pc105 layout: keycode 10 is 1/!,
// keycode 14 is Shift_L and keycode 15 is a/A.
func testKeymap() *keymap {
	return &keymap{
		minCode:    10,
		perKeycode: 2,
		keysyms: []xproto.Keysym{
			'1', '!', // keycode 10
			'2', '@', // keycode 11
			0, 0, // keycode 12 unbound
			0, 0, // keycode 13 unbound
			0xffe1, 0, // keycode 14: Shift_L
			'a', 'A', // keycode 15
		},
		shift: 14,
	}
}

func TestKeycodePlainSymbol(t *testing.T) {
	km := testKeymap()

	code, shifted, err := km.keycode(screen.Key("a"))
	require.NoError(t, err)
	assert.Equal(t, byte(15), code)
	assert.False(t, shifted)
}

func TestKeycodeShiftedSymbol(t *testing.T) {
	km := testKeymap()

	code, shifted, err := km.keycode(screen.Key("A"))
	require.NoError(t, err)
	assert.Equal(t, byte(15), code)
	assert.True(t, shifted)

	code, shifted, err = km.keycode(screen.Key("!"))
	require.NoError(t, err)
	assert.Equal(t, byte(10), code)
	assert.True(t, shifted)
}

func TestKeycodeMissingSymbol(t *testing.T) {
	km := testKeymap()

	_, _, err := km.keycode(screen.KeyF5)
	assert.Error(t, err)
}
