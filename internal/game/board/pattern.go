package board

import "fmt"

// Directions are the four line axes: horizontal, vertical and both diagonals.
var Directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// PatternType classifies a line by how many of its ends are open.
type PatternType int

const (
	PatternDead PatternType = iota
	PatternHalf
	PatternLive
)

var patternTypeNames = map[PatternType]string{
	PatternDead: "dead",
	PatternHalf: "half",
	PatternLive: "live",
}

func (t PatternType) String() string {
	if name, ok := patternTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PATTERN_%d", int(t))
}

// Pattern describes the contiguous run through a cell along one axis.
type Pattern struct {
	Count    int
	OpenEnds int
	Type     PatternType
}

// CheckWin reports whether the stone at p is part of five or more in a row.
func CheckWin(b *Board, p Position) bool {
	player := b.At(p)
	if player == Empty {
		return false
	}
	for _, d := range Directions {
		count := 1
		count += countDirection(b, p, d[0], d[1], player)
		count += countDirection(b, p, -d[0], -d[1], player)
		if count >= WinCount {
			return true
		}
	}
	return false
}

// CheckPattern extends the line through p along (dx, dy) in both directions
// while cells hold player. An end is open only when the first blocking cell is
// an empty intersection; the board edge and opponent stones close it.
func CheckPattern(b *Board, p Position, dx, dy int, player Cell) Pattern {
	if !player.IsPlayer() {
		return Pattern{Type: PatternDead}
	}
	count := 1
	forward, forwardOpen := scanOpen(b, p, dx, dy, player)
	backward, backwardOpen := scanOpen(b, p, -dx, -dy, player)
	count += forward + backward

	open := 0
	if forwardOpen {
		open++
	}
	if backwardOpen {
		open++
	}
	pattern := Pattern{Count: count, OpenEnds: open, Type: PatternDead}
	switch open {
	case 2:
		pattern.Type = PatternLive
	case 1:
		pattern.Type = PatternHalf
	}
	return pattern
}

// IsFull reports whether no empty cell remains.
func IsFull(b *Board) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

// WinStillValid rescans the whole board for any five of player.
func WinStillValid(b *Board, player Cell) bool {
	if !player.IsPlayer() {
		return false
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == player && CheckWin(b, Position{Row: r, Col: c}) {
				return true
			}
		}
	}
	return false
}

func countDirection(b *Board, start Position, dx, dy int, target Cell) int {
	count := 0
	p := Position{Row: start.Row + dx, Col: start.Col + dy}
	for p.InBounds() && b[p.Row][p.Col] == target {
		count++
		p.Row += dx
		p.Col += dy
	}
	return count
}

func scanOpen(b *Board, start Position, dx, dy int, target Cell) (int, bool) {
	count := 0
	p := Position{Row: start.Row + dx, Col: start.Col + dy}
	for p.InBounds() {
		switch b[p.Row][p.Col] {
		case target:
			count++
			p.Row += dx
			p.Col += dy
			continue
		case Empty:
			return count, true
		}
		return count, false
	}
	return count, false
}
