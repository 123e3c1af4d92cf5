package rules

import (
	"fmt"
	"strings"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// Mode selects the rule set for a game.
type Mode int

const (
	ModeBasic Mode = iota
	ModeProfessional
)

var modeNames = map[Mode]string{
	ModeBasic:        "basic",
	ModeProfessional: "professional",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MODE_%d", int(m))
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode converts "basic" or "professional" to a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, modeName := range modeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return ModeBasic, fmt.Errorf("unknown mode %q", s)
}

// Phase is the professional opening phase. Basic games stay in PhaseNormal.
type Phase int

const (
	PhaseNormal Phase = iota
	PhaseThreeSwap
	PhaseFiveOffer
	PhaseFiveChoose
)

var phaseNames = map[Phase]string{
	PhaseNormal:     "normal",
	PhaseThreeSwap:  "three-swap",
	PhaseFiveOffer:  "five-offer",
	PhaseFiveChoose: "five-choose",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// AllowsPlacement reports whether MakeMove may place a stone in this phase.
// ThreeSwap waits for a swap decision and FiveChoose for an offer choice.
func (p Phase) AllowsPlacement() bool {
	return p == PhaseNormal || p == PhaseFiveOffer
}

// OfferCount is the number of candidates proposed for the fifth move.
const OfferCount = 2

// StoneColor returns the colour of the stone committed when toMove plays the
// move following historyLen stones. The second stone of a professional game
// is always White.
func StoneColor(mode Mode, historyLen int, toMove board.Cell) board.Cell {
	if mode == ModeProfessional && historyLen == 1 {
		return board.White
	}
	return toMove
}

// Transition is the outcome of an opening table row.
type Transition struct {
	Phase  Phase
	ToMove board.Cell
}

type openingEntry struct {
	moves int
	from  Phase
	to    Phase
	next  func(swapped bool) board.Cell
	clear bool
}

func always(c board.Cell) func(bool) board.Cell {
	return func(bool) board.Cell { return c }
}

func proposer(swapped bool) board.Cell {
	if swapped {
		return board.White
	}
	return board.Black
}

// openingTable is keyed on (history length after the move, phase before it).
var openingTable = []openingEntry{
	{moves: 2, from: PhaseNormal, to: PhaseNormal, next: always(board.Black)},
	{moves: 3, from: PhaseNormal, to: PhaseThreeSwap, next: always(board.White)},
	{moves: 4, from: PhaseNormal, to: PhaseFiveOffer, next: proposer, clear: true},
}

// Opening tracks the professional opening protocol: the third-move swap
// decision and the fifth-move offers.
type Opening struct {
	phase      Phase
	hasSwapped bool
	offers     []board.Position
}

// NewOpening creates an opening in PhaseNormal with no swap.
func NewOpening() *Opening {
	return &Opening{phase: PhaseNormal}
}

// Reset returns the opening to its initial state.
func (o *Opening) Reset() {
	o.phase = PhaseNormal
	o.hasSwapped = false
	o.offers = nil
}

// Phase returns the current phase.
func (o *Opening) Phase() Phase {
	return o.phase
}

// HasSwapped reports whether White chose to swap colours at move three.
func (o *Opening) HasSwapped() bool {
	return o.hasSwapped
}

// Offers returns a copy of the pending fifth-move offers.
func (o *Opening) Offers() []board.Position {
	offers := make([]board.Position, len(o.offers))
	copy(offers, o.offers)
	return offers
}

// Proposer is the side that offers fifth-move candidates: Black, or White after a swap.
func (o *Opening) Proposer() board.Cell {
	return proposer(o.hasSwapped)
}

// Chooser is the side that picks one of the offers.
func (o *Opening) Chooser() board.Cell {
	return board.Opponent(o.Proposer())
}

// Advance applies the table row matching historyLen and the current phase.
// It returns false when no row matches and normal turn handling applies.
func (o *Opening) Advance(historyLen int) (Transition, bool) {
	for _, entry := range openingTable {
		if entry.moves != historyLen || entry.from != o.phase {
			continue
		}
		o.phase = entry.to
		if entry.clear {
			o.offers = nil
		}
		return Transition{
			Phase:  entry.to,
			ToMove: entry.next(o.hasSwapped),
		}, true
	}
	return Transition{}, false
}

// Swap records a colour swap. Black moves next.
func (o *Opening) Swap() bool {
	if o.phase != PhaseThreeSwap {
		return false
	}
	o.hasSwapped = true
	o.phase = PhaseNormal
	return true
}

// Decline records a refused swap. White keeps the move.
func (o *Opening) Decline() bool {
	if o.phase != PhaseThreeSwap {
		return false
	}
	o.hasSwapped = false
	o.phase = PhaseNormal
	return true
}

// Offer records a fifth-move candidate. The position must be distinct from
// the earlier offer. It returns whether the offer was accepted and whether
// the offer set is now complete, in which case the phase is FiveChoose.
func (o *Opening) Offer(p board.Position) (accepted, complete bool) {
	if o.phase != PhaseFiveOffer || len(o.offers) >= OfferCount || !p.InBounds() {
		return false, false
	}
	for _, existing := range o.offers {
		if existing == p {
			return false, false
		}
	}
	o.offers = append(o.offers, p)
	if len(o.offers) == OfferCount {
		o.phase = PhaseFiveChoose
		return true, true
	}
	return true, false
}

// Choose resolves the FiveChoose phase with the offer at index.
// Out-of-range indexes are rejected.
func (o *Opening) Choose(index int) (board.Position, bool) {
	if o.phase != PhaseFiveChoose || index < 0 || index >= len(o.offers) {
		return board.Position{}, false
	}
	chosen := o.offers[index]
	o.offers = nil
	o.phase = PhaseNormal
	return chosen, true
}
