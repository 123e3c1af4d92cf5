package board

import (
	"fmt"
	"strings"
)

// Size is the fixed edge length of the board.
const Size = 15

// WinCount is the number of contiguous stones needed to win.
const WinCount = 5

// Cell represents the content of one intersection. Black and White also
// identify the two players.
type Cell int8

const (
	Empty Cell = iota
	Black
	White
)

var cellNames = map[Cell]string{
	Empty: "empty",
	Black: "black",
	White: "white",
}

func (c Cell) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CELL_%d", int(c))
}

// MarshalText renders the cell by name.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsPlayer reports whether c identifies a player (Black or White).
func (c Cell) IsPlayer() bool {
	return c == Black || c == White
}

// ParseCell converts "black"/"white"/"empty" (case-insensitive) to a Cell.
func ParseCell(s string) (Cell, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	case "empty", "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("unknown cell %q", s)
	}
}

// Opponent returns the other player. Empty has no opponent and maps to Empty.
func Opponent(c Cell) Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// Position is a 0-indexed (row, col) pair.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < Size && p.Col < Size
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Center is the middle intersection, where professional games open.
var Center = Position{Row: Size / 2, Col: Size / 2}

// Board is a fixed 15x15 grid. It is a value type: assignment copies it.
type Board [Size][Size]Cell

// At returns the cell at p. Off-board positions read as Empty.
func (b *Board) At(p Position) Cell {
	if !p.InBounds() {
		return Empty
	}
	return b[p.Row][p.Col]
}

// Set stores c at p. Off-board writes are ignored.
func (b *Board) Set(p Position, c Cell) {
	if !p.InBounds() {
		return
	}
	b[p.Row][p.Col] = c
}

// Remove clears p.
func (b *Board) Remove(p Position) {
	b.Set(p, Empty)
}

// IsEmpty reports whether p is on the board and unoccupied.
func (b *Board) IsEmpty(p Position) bool {
	return p.InBounds() && b[p.Row][p.Col] == Empty
}

// Clear empties every cell.
func (b *Board) Clear() {
	*b = Board{}
}

// CountEmpty returns the number of unoccupied cells.
func (b *Board) CountEmpty() int {
	count := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				count++
			}
		}
	}
	return count
}

// Stones returns the occupied positions in row-major order.
func (b *Board) Stones() []Position {
	stones := make([]Position, 0, Size*Size-b.CountEmpty())
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != Empty {
				stones = append(stones, Position{Row: r, Col: c})
			}
		}
	}
	return stones
}

// EmptyPositions returns the unoccupied positions in row-major order.
func (b *Board) EmptyPositions() []Position {
	empty := make([]Position, 0, b.CountEmpty())
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				empty = append(empty, Position{Row: r, Col: c})
			}
		}
	}
	return empty
}

// String renders the board with '.', 'X' (black) and 'O' (white), one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b[r][c] {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
