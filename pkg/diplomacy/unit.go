package diplomacy

import (
	"fmt"
	"strings"
)

// UnitType represents the type of a military unit.
type UnitType int

const (
	Army UnitType = iota
	Fleet
)

func (u UnitType) String() string {
	if u == Army {
		return "Army"
	}
	return "Fleet"
}

// Abbrev returns the one-letter form used in order notation.
func (u UnitType) Abbrev() string {
	if u == Army {
		return "A"
	}
	return "F"
}

// ParseUnitType accepts "A", "F", "Army" or "Fleet" in any case.
func ParseUnitType(s string) (UnitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "army":
		return Army, nil
	case "f", "fleet":
		return Fleet, nil
	}
	return Army, fmt.Errorf("unknown unit type %q", s)
}

// Unit is a value: two units are equal when type and position match.
// Position is the exact territory name, so a fleet keeps its coast.
type Unit struct {
	Type     UnitType
	Position string
}

func (u Unit) String() string {
	return u.Type.Abbrev() + " " + u.Position
}

// ParseUnit parses "A Paris" or "Fleet Spain North Coast".
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	typ, rest, ok := strings.Cut(s, " ")
	if !ok {
		return Unit{}, fmt.Errorf("malformed unit %q", s)
	}
	ut, err := ParseUnitType(typ)
	if err != nil {
		return Unit{}, err
	}
	pos := strings.TrimSpace(rest)
	if pos == "" {
		return Unit{}, fmt.Errorf("malformed unit %q", s)
	}
	return Unit{Type: ut, Position: pos}, nil
}

// MarshalText lets units serve as JSON object keys.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
