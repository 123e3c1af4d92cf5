package skills

import (
	"fmt"
	"strings"
)

// ID identifies a skill.
type ID string

const (
	FlySand     ID = "fly-sand"
	StillWater  ID = "still-water"
	MightyPower ID = "mighty-power"
	Comeback    ID = "comeback"
	Capture     ID = "capture"
	Diversion   ID = "diversion"
	Cleaner     ID = "cleaner"
	Honesty     ID = "honesty"
	WaterDrop   ID = "water-drop"
	Reverse     ID = "reverse"
	SeeYou      ID = "see-you"
	EarthRotate ID = "earth-rotate"
	ColdKing    ID = "cold-king"
)

// Shape describes how a skill resolves once cast.
type Shape int

const (
	// ShapeInstant resolves fully when cast.
	ShapeInstant Shape = iota
	// ShapeTargeted arms a selection resolved by a follow-up board click.
	ShapeTargeted
	// ShapeCounter opens or answers a counter window.
	ShapeCounter
	// ShapeUnavailable is catalogued but cannot be cast.
	ShapeUnavailable
)

var shapeNames = map[Shape]string{
	ShapeInstant:     "instant",
	ShapeTargeted:    "targeted",
	ShapeCounter:     "counter",
	ShapeUnavailable: "unavailable",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SHAPE_%d", int(s))
}

// Skill is a static catalog entry.
type Skill struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManaCost    int    `json:"manaCost"`
	Icon        string `json:"icon"`
	Shape       Shape  `json:"-"`
}

var catalog = []Skill{
	{FlySand, "Flying Sand", "Remove any one stone from the board", 3, "🌪️", ShapeTargeted},
	{StillWater, "Still Water", "The opponent skips their next turn", 5, "💧", ShapeInstant},
	{MightyPower, "Mighty Power", "Clear the board and win unless countered", 15, "💪", ShapeCounter},
	{Comeback, "Comeback", "Counter Mighty Power; the game goes on with stones scattered at random", 13, "🔄", ShapeCounter},
	{Capture, "Capture", "The opponent cannot use Flying Sand for their next two turns", 2, "✊", ShapeInstant},
	{Diversion, "Diversion", "Take three extra turns in a row", 10, "🎯", ShapeInstant},
	{Cleaner, "Cleaner", "Clear three adjacent rows", 7, "🧹", ShapeTargeted},
	{Honesty, "Honesty", "Return the stone the opponent removed with Flying Sand", 2, "💰", ShapeInstant},
	{WaterDrop, "Water Drop", "Erase the opponent's last stone while Still Water holds them", 7, "💦", ShapeInstant},
	{Reverse, "Reverse", "Lock yourself briefly, then move twice in a row", 15, "🔃", ShapeInstant},
	{SeeYou, "See You Again", "Win immediately", 30, "👋", ShapeInstant},
	{EarthRotate, "Earth Rotation", "Not yet available", 20, "🌍", ShapeUnavailable},
	{ColdKing, "Cold King", "Not yet available", 25, "❄️", ShapeUnavailable},
}

var byID = func() map[ID]Skill {
	m := make(map[ID]Skill, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// Catalog returns every skill in display order.
func Catalog() []Skill {
	out := make([]Skill, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id ID) (Skill, bool) {
	s, ok := byID[id]
	return s, ok
}

// Cost returns the mana cost of id, or 0 for an unknown skill.
func Cost(id ID) int {
	return byID[id].ManaCost
}

// ParseID validates a skill identifier.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := byID[id]; !ok {
		return "", fmt.Errorf("unknown skill %q", s)
	}
	return id, nil
}
