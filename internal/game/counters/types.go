package counters

// Type identifies what a turn counter tracks.
type Type string

const (
	// FlySandBan counts the owner's remaining turns during which fly-sand cannot be cast.
	FlySandBan Type = "fly-sand-ban"
	// Diversion counts the extra consecutive turns left for the owner.
	Diversion Type = "diversion"
	// ReverseMoves counts the consecutive moves granted to the owner once a reverse lock lifts.
	ReverseMoves Type = "reverse-moves"
)

// Initial counts set when the corresponding skill resolves.
const (
	FlySandBanTurns   = 2
	DiversionTurns    = 3
	ReverseMoveGrants = 2
)
