package targeting

import (
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

// TargetType represents what a targeted skill acts on.
type TargetType string

const (
	// TargetTypeStone targets one stone of either colour.
	TargetTypeStone TargetType = "STONE"
	// TargetTypeRow targets a board row; the column is ignored.
	TargetTypeRow TargetType = "ROW"
)

// TargetRequirement defines what a targeted skill needs from the follow-up
// board click.
type TargetRequirement struct {
	Type        TargetType
	Description string
}

var requirements = map[skills.ID]TargetRequirement{
	skills.FlySand: {Type: TargetTypeStone, Description: "any stone on the board"},
	skills.Cleaner: {Type: TargetTypeRow, Description: "the middle of three rows to clear"},
}

// RequirementFor returns the target requirement of a targeted skill.
func RequirementFor(id skills.ID) (TargetRequirement, bool) {
	r, ok := requirements[id]
	return r, ok
}
