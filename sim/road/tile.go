package road

import "fmt"

// Tile is a 2D integer grid coordinate. Tiles compare by value.
type Tile struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Unset is the sentinel tile for "no position" or "no predecessor".
var Unset = Tile{X: -1, Y: -1}

// T is shorthand for Tile{X: x, Y: y}.
func T(x, y int) Tile {
	return Tile{X: x, Y: y}
}

// IsUnset reports whether t is the Unset sentinel.
func (t Tile) IsUnset() bool {
	return t == Unset
}

// Offset returns the tile displaced by (dx, dy).
func (t Tile) Offset(dx, dy int) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Orthogonal returns the four edge-adjacent tiles in a fixed order:
// north, east, south, west. Callers that build adjacency from this list
// inherit its order, which in turn fixes shortest-path tie-breaking.
func (t Tile) Orthogonal() [4]Tile {
	return [4]Tile{
		t.Offset(0, -1),
		t.Offset(1, 0),
		t.Offset(0, 1),
		t.Offset(-1, 0),
	}
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}
