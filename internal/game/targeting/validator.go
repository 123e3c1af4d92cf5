package targeting

import (
	"fmt"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// ValidateTarget checks that p satisfies requirement on b.
func ValidateTarget(b *board.Board, p board.Position, requirement TargetRequirement) error {
	switch requirement.Type {
	case TargetTypeStone:
		if !p.InBounds() {
			return fmt.Errorf("target %s is off the board", p)
		}
		if b.IsEmpty(p) {
			return fmt.Errorf("target %s has no stone", p)
		}
	case TargetTypeRow:
		if p.Row < 0 || p.Row >= board.Size {
			return fmt.Errorf("target row %d is off the board", p.Row)
		}
	default:
		return fmt.Errorf("unknown target type %q", requirement.Type)
	}
	return nil
}
