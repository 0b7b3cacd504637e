package scenario

import (
	"fmt"
	"sort"

	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

// Turn is a decoded document turned into legal orders, ready for the
// adjudicator of its phase. Only the fields of Phase are set.
type Turn struct {
	Phase   diplomacy.Phase
	Strict  bool
	Players map[string]*diplomacy.Player

	// Units is every player's units before the phase; for the retreat phase
	// it includes the dislodged units.
	Units map[string][]diplomacy.Unit

	Movement []diplomacy.MovementOrder

	Obligations diplomacy.Resolution
	Retreat     []diplomacy.RetreatOrder

	// Ownership is the ownership after the year-end update, and Counts the
	// builds (positive) or disbands (negative) each player has.
	Ownership  *diplomacy.OwnershipMap
	Counts     map[string]int
	Adjustment []diplomacy.AdjustmentOrder
}

// Build checks a document against the standard board on m and issues its
// orders. Units without a movement order hold and dislodged units without a
// retreat order disband. Adjustment documents use the standard supply
// centers and, unless Home is given, the standard home centers.
func (d *Document) Build(m *diplomacy.Map) (*Turn, error) {
	phase, err := diplomacy.ParsePhase(d.Phase)
	if err != nil {
		return nil, &Error{Path: "/phase", Err: err}
	}
	t := &Turn{Phase: phase, Strict: d.Strict, Players: make(map[string]*diplomacy.Player)}

	if t.Units, err = parseUnits(d.Units, "/units"); err != nil {
		return nil, err
	}

	if phase == diplomacy.RetreatPhase {
		if err := d.buildObligations(t); err != nil {
			return nil, err
		}
	}

	for _, name := range d.playerNames() {
		p, err := diplomacy.NewPlayer(name, m, t.Units[name])
		if err != nil {
			return nil, &Error{Path: "/units/" + name, Err: err}
		}
		t.Players[name] = p
	}

	switch phase {
	case diplomacy.MovementPhase:
		err = d.buildMovement(t)
	case diplomacy.RetreatPhase:
		err = d.buildRetreat(t)
	case diplomacy.AdjustmentPhase:
		err = d.buildAdjustment(t, m)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// playerNames lists everyone named anywhere in the document, sorted.
func (d *Document) playerNames() []string {
	set := make(map[string]struct{})
	for p := range d.Units {
		set[p] = struct{}{}
	}
	for p := range d.Orders {
		set[p] = struct{}{}
	}
	for p := range d.Retreats {
		set[p] = struct{}{}
	}
	for p := range d.Ownership {
		set[p] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for p := range set {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

func parseUnits(in map[string][]string, path string) (map[string][]diplomacy.Unit, error) {
	out := make(map[string][]diplomacy.Unit, len(in))
	for player, list := range in {
		units := make([]diplomacy.Unit, 0, len(list))
		for i, s := range list {
			u, err := diplomacy.ParseUnit(s)
			if err != nil {
				return nil, &Error{Path: fmt.Sprintf("%s/%s/%d", path, player, i), Err: err}
			}
			units = append(units, u)
		}
		out[player] = units
	}
	return out, nil
}

func (d *Document) buildObligations(t *Turn) error {
	t.Obligations = make(diplomacy.Resolution)
	for player, units := range t.Units {
		t.Obligations[player] = make(map[diplomacy.Unit]diplomacy.Outcome, len(units))
		for _, u := range units {
			t.Obligations[player][u] = diplomacy.Outcome{}
		}
	}
	for player, dislodged := range d.Retreats {
		if t.Obligations[player] == nil {
			t.Obligations[player] = make(map[diplomacy.Unit]diplomacy.Outcome, len(dislodged))
		}
		for s, options := range dislodged {
			u, err := diplomacy.ParseUnit(s)
			if err != nil {
				return &Error{Path: "/retreats/" + player + "/" + s, Err: err}
			}
			if _, dup := t.Obligations[player][u]; dup {
				return &Error{Path: "/retreats/" + player + "/" + s, Err: fmt.Errorf("%s is listed twice", u)}
			}
			opts := append([]string{}, options...)
			sort.Strings(opts)
			t.Obligations[player][u] = diplomacy.Outcome{Dislodged: true, Retreats: opts}
			t.Units[player] = append(t.Units[player], u)
		}
	}
	return nil
}

// eachOrder parses every order string of the phase in player order.
func (d *Document) eachOrder(phase diplomacy.Phase, fn func(p string, o ParsedOrder) error) error {
	players := make([]string, 0, len(d.Orders))
	for p := range d.Orders {
		players = append(players, p)
	}
	sort.Strings(players)
	for _, player := range players {
		for i, s := range d.Orders[player] {
			path := fmt.Sprintf("/orders/%s/%d", player, i)
			o, err := ParseOrder(phase, s)
			if err != nil {
				return &Error{Path: path, Err: err}
			}
			if err := fn(player, o); err != nil {
				return &Error{Path: path, Err: err}
			}
		}
	}
	return nil
}

func (d *Document) buildMovement(t *Turn) error {
	ordered := make(map[string]map[diplomacy.Unit]bool)
	err := d.eachOrder(diplomacy.MovementPhase, func(player string, o ParsedOrder) error {
		mo, err := o.Movement(t.Players[player])
		if err != nil {
			return err
		}
		if ordered[player] == nil {
			ordered[player] = make(map[diplomacy.Unit]bool)
		}
		ordered[player][o.Unit] = true
		t.Movement = append(t.Movement, mo)
		return nil
	})
	if err != nil {
		return err
	}
	for _, name := range sortedPlayers(t.Players) {
		p := t.Players[name]
		for _, u := range p.Units() {
			if ordered[name][u] {
				continue
			}
			h, err := p.Hold(u)
			if err != nil {
				return &Error{Path: "/units/" + name, Err: err}
			}
			t.Movement = append(t.Movement, h)
		}
	}
	return nil
}

func (d *Document) buildRetreat(t *Turn) error {
	ordered := make(map[string]map[diplomacy.Unit]bool)
	err := d.eachOrder(diplomacy.RetreatPhase, func(player string, o ParsedOrder) error {
		ro, err := o.Retreat(t.Players[player], t.Obligations)
		if err != nil {
			return err
		}
		if ordered[player] == nil {
			ordered[player] = make(map[diplomacy.Unit]bool)
		}
		ordered[player][o.Unit] = true
		t.Retreat = append(t.Retreat, ro)
		return nil
	})
	if err != nil {
		return err
	}
	dislodged := t.Obligations.Obligations()
	for _, name := range sortedPlayers(t.Players) {
		p := t.Players[name]
		for _, u := range dislodged[name] {
			if ordered[name][u] {
				continue
			}
			rd, err := p.RetreatDisband(t.Obligations, u)
			if err != nil {
				return &Error{Path: "/retreats/" + name, Err: err}
			}
			t.Retreat = append(t.Retreat, rd)
		}
	}
	return nil
}

func (d *Document) buildAdjustment(t *Turn, m *diplomacy.Map) error {
	sc, err := diplomacy.NewSupplyCenterMap(m, diplomacy.VanillaSupplyCenters())
	if err != nil {
		return &Error{Err: err}
	}
	home := d.Home
	if home == nil {
		home = diplomacy.VanillaHomeCenters()
	}
	own, err := diplomacy.NewOwnershipMap(sc, d.Ownership, home)
	if err != nil {
		if d.Home != nil {
			return &Error{Path: "/home", Err: err}
		}
		return &Error{Path: "/ownership", Err: err}
	}
	t.Ownership, t.Counts = diplomacy.CalculateAdjustments(own, t.Units)

	return d.eachOrder(diplomacy.AdjustmentPhase, func(player string, o ParsedOrder) error {
		ao, err := o.Adjustment(t.Players[player], t.Ownership)
		if err != nil {
			return err
		}
		t.Adjustment = append(t.Adjustment, ao)
		return nil
	})
}

func sortedPlayers(players map[string]*diplomacy.Player) []string {
	names := make([]string, 0, len(players))
	for n := range players {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
