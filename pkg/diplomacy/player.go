package diplomacy

import (
	"fmt"
	"slices"
)

// Player issues orders for its units. Every constructor checks the order
// against the map and the player's position and returns a *ValidationError
// when the order is illegal, so the adjudicators only ever see legal orders.
type Player struct {
	Name string

	m        *Map
	units    []Unit
	occupied map[string]struct{} // folded territories holding one of the units
}

// NewPlayer creates a player with its current units. Armies must stand on
// land and fleets on a sea or coast, and no two units may share a territory.
func NewPlayer(name string, m *Map, units []Unit) (*Player, error) {
	p := &Player{
		Name:     name,
		m:        m,
		units:    make([]Unit, 0, len(units)),
		occupied: make(map[string]struct{}, len(units)),
	}
	for _, u := range units {
		if !m.Has(u.Position) {
			return nil, fmt.Errorf("%s %s: %w", name, u, ErrUnknownTerritory)
		}
		if !m.CanEnter(u.Type, u.Position) {
			return nil, fmt.Errorf("%s %s: %s cannot stand in %s", name, u, u.Type, u.Position)
		}
		t := m.RelevantName(u.Position)
		if _, dup := p.occupied[t]; dup {
			return nil, fmt.Errorf("%s has two units in %s", name, t)
		}
		p.occupied[t] = struct{}{}
		p.units = append(p.units, u)
	}
	return p, nil
}

// Units returns a copy of the player's units.
func (p *Player) Units() []Unit {
	return slices.Clone(p.units)
}

// Has reports whether the player owns the unit.
func (p *Player) Has(u Unit) bool {
	return slices.Contains(p.units, u)
}

func (p *Player) invalid(u Unit, format string, args ...any) error {
	return &ValidationError{Player: p.Name, Unit: u, Message: fmt.Sprintf(format, args...)}
}

func (p *Player) own(u Unit) error {
	if !p.Has(u) {
		return p.invalid(u, "unit does not belong to %s", p.Name)
	}
	return nil
}

func (p *Player) known(u Unit, names ...string) error {
	for _, n := range names {
		if !p.m.Has(n) {
			return p.invalid(u, "unknown territory %q", n)
		}
	}
	return nil
}

func (p *Player) issue(u Unit) issued {
	return issued{Player: p.Name, Unit: u}
}

// Hold orders a unit to stay in place.
func (p *Player) Hold(u Unit) (Hold, error) {
	if err := p.own(u); err != nil {
		return Hold{}, err
	}
	return Hold{p.issue(u)}, nil
}

// Move orders a unit into an adjacent territory it can enter.
func (p *Player) Move(u Unit, dest string) (Move, error) {
	if err := p.own(u); err != nil {
		return Move{}, err
	}
	if err := p.known(u, dest); err != nil {
		return Move{}, err
	}
	if !p.m.Adjacent(u.Position, dest) || !p.m.CanEnter(u.Type, dest) {
		return Move{}, p.invalid(u, "cannot move to %s", dest)
	}
	return Move{issued: p.issue(u), Destination: dest}, nil
}

// Support orders a unit to support supported into dest. Pass the supported
// unit's own position as dest to support it holding. The supporter must be
// able to reach dest itself, on any of its coasts.
func (p *Player) Support(u, supported Unit, dest string) (Support, error) {
	if err := p.own(u); err != nil {
		return Support{}, err
	}
	if err := p.known(u, supported.Position, dest); err != nil {
		return Support{}, err
	}
	if p.m.SameTerritory(u.Position, supported.Position) {
		return Support{}, p.invalid(u, "a unit cannot support itself")
	}
	if !p.m.CanSupportInto(u, dest) {
		return Support{}, p.invalid(u, "cannot reach %s to support", dest)
	}
	return Support{issued: p.issue(u), Supported: supported, Destination: dest}, nil
}

// ConvoyMove orders an army on a coastal territory to be convoyed to another
// coastal territory. Adjacency is not required.
func (p *Player) ConvoyMove(u Unit, dest string) (ConvoyMove, error) {
	if err := p.own(u); err != nil {
		return ConvoyMove{}, err
	}
	if err := p.known(u, dest); err != nil {
		return ConvoyMove{}, err
	}
	if u.Type != Army {
		return ConvoyMove{}, p.invalid(u, "only armies can be convoyed")
	}
	if !p.m.ConvoyCompatible(u.Position) || !p.m.ConvoyCompatible(dest) {
		return ConvoyMove{}, p.invalid(u, "convoys run between coastal territories")
	}
	if u.Position == dest {
		return ConvoyMove{}, p.invalid(u, "cannot convoy to its own territory")
	}
	return ConvoyMove{issued: p.issue(u), Destination: dest}, nil
}

// ConvoyTransport orders a fleet at sea to carry an army between coastal territories.
func (p *Player) ConvoyTransport(u, transported Unit, dest string) (ConvoyTransport, error) {
	if err := p.own(u); err != nil {
		return ConvoyTransport{}, err
	}
	if err := p.known(u, transported.Position, dest); err != nil {
		return ConvoyTransport{}, err
	}
	if u.Type != Fleet {
		return ConvoyTransport{}, p.invalid(u, "only fleets can convoy")
	}
	if t, _ := p.m.Territory(u.Position); t.Kind != Sea {
		return ConvoyTransport{}, p.invalid(u, "only fleets at sea can convoy")
	}
	if transported.Type != Army {
		return ConvoyTransport{}, p.invalid(u, "only armies can be convoyed")
	}
	if !p.m.ConvoyCompatible(transported.Position) || !p.m.ConvoyCompatible(dest) {
		return ConvoyTransport{}, p.invalid(u, "convoys run between coastal territories")
	}
	if transported.Position == dest {
		return ConvoyTransport{}, p.invalid(u, "cannot convoy an army to its own territory")
	}
	return ConvoyTransport{issued: p.issue(u), Transported: transported, Destination: dest}, nil
}

func (p *Player) obligation(obligations Resolution, u Unit) (Outcome, error) {
	o, ok := obligations[p.Name][u]
	if !ok || !o.Dislodged {
		return Outcome{}, p.invalid(u, "unit was not dislodged")
	}
	return o, nil
}

// RetreatMove orders a dislodged unit to one of its retreat options.
func (p *Player) RetreatMove(obligations Resolution, u Unit, dest string) (RetreatMove, error) {
	o, err := p.obligation(obligations, u)
	if err != nil {
		return RetreatMove{}, err
	}
	if !slices.Contains(o.Retreats, dest) {
		return RetreatMove{}, p.invalid(u, "cannot retreat to %s", dest)
	}
	return RetreatMove{issued: p.issue(u), Destination: dest}, nil
}

// RetreatDisband orders a dislodged unit off the board.
func (p *Player) RetreatDisband(obligations Resolution, u Unit) (RetreatDisband, error) {
	if _, err := p.obligation(obligations, u); err != nil {
		return RetreatDisband{}, err
	}
	return RetreatDisband{p.issue(u)}, nil
}

// Build orders a new unit on an owned, unoccupied home center.
func (p *Player) Build(own *OwnershipMap, u Unit) (Build, error) {
	if err := p.known(u, u.Position); err != nil {
		return Build{}, err
	}
	if !own.IsOwned(p.Name, u.Position) {
		return Build{}, p.invalid(u, "%s does not own %s", p.Name, p.m.RelevantName(u.Position))
	}
	if !own.IsHome(p.Name, u.Position) {
		return Build{}, p.invalid(u, "%s is not a home center of %s", p.m.RelevantName(u.Position), p.Name)
	}
	if !p.m.CanEnter(u.Type, u.Position) {
		return Build{}, p.invalid(u, "%s cannot be built in %s", u.Type, u.Position)
	}
	if _, taken := p.occupied[p.m.RelevantName(u.Position)]; taken {
		return Build{}, p.invalid(u, "%s is occupied", p.m.RelevantName(u.Position))
	}
	return Build{p.issue(u)}, nil
}

// Disband orders one of the player's units off the board during adjustments.
func (p *Player) Disband(u Unit) (Disband, error) {
	if err := p.own(u); err != nil {
		return Disband{}, err
	}
	return Disband{p.issue(u)}, nil
}
