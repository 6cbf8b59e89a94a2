package core

// EmptyType is the type id stored in slots that hold no tile.
const EmptyType = -1

// Size describes the dimensions of a puzzle grid.
type Size struct {
	W int
	H int
}

// Coord addresses a single cell by column and row.
type Coord struct {
	X int
	Y int
}

// Add returns the coordinate offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

// Slot is the content of one grid cell. Level and State are meaningless when
// the slot is empty.
type Slot struct {
	TypeID int `json:"typeId"`
	Level  int `json:"level"`
	State  int `json:"state"`
}

// Empty returns the canonical empty slot.
func Empty() Slot { return Slot{TypeID: EmptyType} }

// NewSlot returns a slot holding a tile of the given type and level.
func NewSlot(typeID, level int) Slot { return Slot{TypeID: typeID, Level: level} }

// IsEmpty reports whether the slot holds no tile.
func (s Slot) IsEmpty() bool { return s.TypeID < 0 }
