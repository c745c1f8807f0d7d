package core

import "fmt"

// Axis identifies one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the three axes in slab-test order
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// AxisFromIndex converts 0, 1 or 2 to an Axis. Any other value panics.
func AxisFromIndex(i int) Axis {
	if i < 0 || i > 2 {
		panic(fmt.Sprintf("core: axis index %d out of range", i))
	}
	return Axis(i)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}
