package screen

import "fmt"

// Location is a 2D point in absolute screen coordinates.
type Location struct {
	X int
	Y int
}

// Offset returns a new location displaced by (dx, dy).
func (l Location) Offset(dx, dy int) Location {
	return Location{X: l.X + dx, Y: l.Y + dy}
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.X, l.Y)
}
