package rules

import (
	"fmt"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// Violation names the renju restriction a Black placement breaks.
type Violation int

const (
	ViolationNone Violation = iota
	ViolationOverline
	ViolationDoubleThree
	ViolationDoubleFour
)

var violationNames = map[Violation]string{
	ViolationNone:        "none",
	ViolationOverline:    "overline",
	ViolationDoubleThree: "double-three",
	ViolationDoubleFour:  "double-four",
}

func (v Violation) String() string {
	if name, ok := violationNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VIOLATION_%d", int(v))
}

// Classify probes a Black stone at p and reports which restriction it breaks.
// The board is restored before returning. Occupied or off-board cells are
// never forbidden.
func Classify(b *board.Board, p board.Position) Violation {
	if !b.IsEmpty(p) {
		return ViolationNone
	}
	b.Set(p, board.Black)
	defer b.Remove(p)

	liveThrees := 0
	fours := 0
	for _, d := range board.Directions {
		pattern := board.CheckPattern(b, p, d[0], d[1], board.Black)
		if pattern.Count >= 6 {
			return ViolationOverline
		}
		if pattern.Count == 3 && pattern.Type == board.PatternLive {
			liveThrees++
		}
		if pattern.Count == 4 {
			fours++
		}
	}

	switch {
	case liveThrees >= 2:
		return ViolationDoubleThree
	case fours >= 2:
		return ViolationDoubleFour
	}
	return ViolationNone
}

// IsForbidden reports whether Black may not play p.
func IsForbidden(b *board.Board, p board.Position) bool {
	return Classify(b, p) != ViolationNone
}

// ForbiddenMoves scans every empty cell in row-major order.
func ForbiddenMoves(b *board.Board) []board.Position {
	var forbidden []board.Position
	for _, p := range b.EmptyPositions() {
		if IsForbidden(b, p) {
			forbidden = append(forbidden, p)
		}
	}
	return forbidden
}
