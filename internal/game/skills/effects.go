package skills

import (
	"lukechampine.com/frand"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// CleanerSpan is how many rows on each side of the chosen row Cleaner clears.
const CleanerSpan = 1

// neighbours is the scan order used to relocate a returned stone.
var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Shuffler permutes n elements through swap.
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler draws from a cryptographically seeded generator.
var DefaultShuffler Shuffler = frand.Shuffle

// ClearRows empties row and its neighbours within CleanerSpan, clipped to the
// board, and returns the removed stones in row-major order.
func ClearRows(b *board.Board, row int) []board.Position {
	if row < 0 || row >= board.Size {
		return nil
	}
	start := max(0, row-CleanerSpan)
	end := min(board.Size-1, row+CleanerSpan)

	var removed []board.Position
	for r := start; r <= end; r++ {
		for c := 0; c < board.Size; c++ {
			p := board.Pos(r, c)
			if b.At(p) != board.Empty {
				b.Remove(p)
				removed = append(removed, p)
			}
		}
	}
	return removed
}

// RetrievalSlot picks where a returned stone goes: its original cell when
// empty, otherwise the first empty neighbour in fixed scan order.
func RetrievalSlot(b *board.Board, original board.Position) (board.Position, bool) {
	if b.IsEmpty(original) {
		return original, true
	}
	for _, d := range neighbours {
		p := board.Pos(original.Row+d[0], original.Col+d[1])
		if b.IsEmpty(p) {
			return p, true
		}
	}
	return board.Position{}, false
}

// Scatter lifts every stone and drops them on uniformly random cells of the
// emptied board. Stone counts per colour are preserved. It returns the new
// layout's stones in row-major order.
func Scatter(b *board.Board, shuffle Shuffler) []board.Position {
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	stones := b.Stones()
	colors := make([]board.Cell, len(stones))
	for i, p := range stones {
		colors[i] = b.At(p)
	}

	b.Clear()
	slots := b.EmptyPositions()
	shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
	for i, color := range colors {
		b.Set(slots[i], color)
	}
	return b.Stones()
}
