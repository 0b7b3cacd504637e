package diplomacy

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Outcome is the movement-phase result for one unit. A unit that was not
// dislodged has no retreat obligation. A dislodged unit must retreat to one of
// Retreats; an empty list means it will be disbanded.
type Outcome struct {
	Dislodged bool
	Retreats  []string
}

// MarshalJSON encodes an outcome as null (no obligation) or the list of options.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.Dislodged {
		return []byte("null"), nil
	}
	if o.Retreats == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Retreats)
}

// UnmarshalJSON reverses MarshalJSON. An empty list decodes to a dislodged
// unit with no retreat options.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Outcome{}
		return nil
	}
	var retreats []string
	if err := json.Unmarshal(b, &retreats); err != nil {
		return err
	}
	if retreats == nil {
		retreats = []string{}
	}
	*o = Outcome{Dislodged: true, Retreats: retreats}
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (o Outcome) MarshalYAML() (interface{}, error) {
	if !o.Dislodged {
		return nil, nil
	}
	if o.Retreats == nil {
		return []string{}, nil
	}
	return o.Retreats, nil
}

// UnmarshalYAML reverses MarshalYAML with the same null and empty list
// handling as UnmarshalJSON.
func (o *Outcome) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var retreats *[]string
	if err := unmarshal(&retreats); err != nil {
		return err
	}
	if retreats == nil {
		*o = Outcome{}
		return nil
	}
	list := *retreats
	if list == nil {
		list = []string{}
	}
	*o = Outcome{Dislodged: true, Retreats: list}
	return nil
}

// Resolution maps player -> unit after the phase -> outcome. Units that moved
// appear at their destination; dislodged units at the position they held.
type Resolution map[string]map[Unit]Outcome

// Obligations returns the dislodged units of every player.
func (r Resolution) Obligations() map[string][]Unit {
	out := make(map[string][]Unit)
	for player, units := range r {
		for u, o := range units {
			if o.Dislodged {
				out[player] = append(out[player], u)
			}
		}
		sortUnits(out[player])
	}
	return out
}

// Units returns every unit in the resolution, grouped by player and sorted.
func (r Resolution) Units() map[string][]Unit {
	out := make(map[string][]Unit, len(r))
	for player, units := range r {
		list := make([]Unit, 0, len(units))
		for u := range units {
			list = append(list, u)
		}
		sortUnits(list)
		out[player] = list
	}
	return out
}

// decision is the state of one move during a resolution pass.
type decision int

const (
	undecided decision = iota
	succeeds
	fails
)

// attack is a Move, or a ConvoyMove with a working convoy chain.
type attack struct {
	player string
	from   string // folded origin
	to     string // folded destination
	dest   string // destination as ordered, possibly a specific coast
	convoy bool

	active bool
	state  decision
}

type movementResolver struct {
	m    *Map
	cmds *CommandMap

	orders   []MovementOrder
	attackAt map[string]*attack // folded origin -> attack
	attacks  []*attack
	supports []Support

	// convoyBroken only grows. supportLost holds the supporters dislodged in
	// the previous pass and is cleared whenever a convoy breaks.
	convoyBroken map[string]bool
	supportLost  map[string]bool
	lostPasses   int // passes since supportLost was last cleared

	cut         map[string]bool // folded supporter territory -> support cut this pass
	dislodgedBy map[string]*attack
	contested   map[string]bool
}

// ResolveMovement adjudicates one movement phase. Every unit on the board
// must have exactly one order. The returned resolution lists every ordered
// unit, keyed by player, with its position after the phase and, if it was
// dislodged, its retreat options.
func ResolveMovement(m *Map, orders []MovementOrder) (Resolution, error) {
	cmds, err := NewCommandMap(m, orders)
	if err != nil {
		return nil, err
	}
	r := newMovementResolver(m, cmds, orders)
	r.resolve()
	return r.buildResults(), nil
}

func newMovementResolver(m *Map, cmds *CommandMap, orders []MovementOrder) *movementResolver {
	r := &movementResolver{
		m:            m,
		cmds:         cmds,
		orders:       orders,
		attackAt:     make(map[string]*attack),
		convoyBroken: make(map[string]bool),
		supportLost:  make(map[string]bool),
	}
	for _, o := range orders {
		switch o := o.(type) {
		case Move:
			r.addAttack(o.Player, o.Unit, o.Destination, false)
		case ConvoyMove:
			r.addAttack(o.Player, o.Unit, o.Destination, true)
		case Support:
			r.supports = append(r.supports, o)
		}
	}
	return r
}

func (r *movementResolver) addAttack(player string, u Unit, dest string, convoy bool) {
	a := &attack{
		player: player,
		from:   r.m.RelevantName(u.Position),
		to:     r.m.RelevantName(dest),
		dest:   dest,
		convoy: convoy,
	}
	r.attacks = append(r.attacks, a)
	r.attackAt[a.from] = a
}

// resolve runs resolution passes until neither convoy validity nor support
// validity changes. Working convoys only shrink. Between two convoy breaks the
// set of lost supports is recomputed from each pass, and once it has changed
// more times than there are supports it may only grow, so the loop terminates.
func (r *movementResolver) resolve() {
	for _, a := range r.attacks {
		if a.convoy && !r.hasConvoyPath(a, nil) {
			r.convoyBroken[a.from] = true
		}
	}
	for {
		r.pass()
		if !r.shrink() {
			return
		}
	}
}

// pass resolves every move given the current convoy and support validity.
func (r *movementResolver) pass() {
	for _, a := range r.attacks {
		a.active = !a.convoy || !r.convoyBroken[a.from]
		a.state = undecided
	}
	r.cutSupports()

	for {
		progress := false
		pending := 0
		for _, a := range r.attacks {
			if !a.active || a.state != undecided {
				continue
			}
			if d := r.decide(a); d != undecided {
				a.state = d
				progress = true
			} else {
				pending++
			}
		}
		if pending == 0 {
			break
		}
		if !progress && !r.resolveCycles() {
			for _, a := range r.attacks {
				if a.active && a.state == undecided {
					a.state = fails
				}
			}
			break
		}
	}

	r.dislodgedBy = make(map[string]*attack)
	r.contested = make(map[string]bool)
	targets := make(map[string]int)
	won := make(map[string]bool)
	for _, a := range r.attacks {
		if !a.active {
			continue
		}
		targets[a.to]++
		if a.state != succeeds {
			continue
		}
		won[a.to] = true
		if _, ok := r.cmds.Home(a.to); ok && !r.movesAway(a.to) {
			r.dislodgedBy[a.to] = a
		}
	}
	for t, n := range targets {
		if n > 1 && !won[t] {
			r.contested[t] = true
		}
	}
}

// shrink removes convoys whose chain lost a dislodged fleet. If none broke, it
// recomputes the supports lost to a dislodged supporter from the last pass.
// It reports whether anything changed.
func (r *movementResolver) shrink() bool {
	broke := false
	for _, a := range r.attacks {
		if a.convoy && !r.convoyBroken[a.from] && !r.hasConvoyPath(a, r.dislodgedBy) {
			r.convoyBroken[a.from] = true
			broke = true
		}
	}
	if broke {
		// Dislodgements of the last pass may have depended on the broken convoy.
		r.supportLost = make(map[string]bool)
		r.lostPasses = 0
		return true
	}

	lost := make(map[string]bool)
	for _, s := range r.supports {
		t := r.m.RelevantName(s.Unit.Position)
		if _, ok := r.dislodgedBy[t]; ok {
			lost[t] = true
		}
	}
	if r.lostPasses > len(r.supports) {
		for t := range r.supportLost {
			lost[t] = true
		}
	}
	if maps.Equal(lost, r.supportLost) {
		return false
	}
	r.supportLost = lost
	r.lostPasses++
	return true
}

// movesAway reports whether the unit in a territory leaves it this pass.
func (r *movementResolver) movesAway(territory string) bool {
	a, ok := r.attackAt[territory]
	return ok && a.active && a.state == succeeds
}

// cutSupports marks every support attacked from anywhere but the territory it
// is directed at. Attacks by the supporter's own player never cut, and a
// convoyed army cannot cut support for an attack on one of its own fleets.
func (r *movementResolver) cutSupports() {
	r.cut = make(map[string]bool)
	for _, s := range r.supports {
		t := r.m.RelevantName(s.Unit.Position)
		if r.supportLost[t] {
			r.cut[t] = true
			continue
		}
		target := r.m.RelevantName(s.Destination)
		for _, a := range r.competitors(t) {
			if !a.active || a.player == s.Player || a.from == target {
				continue
			}
			if a.convoy && r.carriedBy(a, target) {
				continue
			}
			r.cut[t] = true
			break
		}
	}
}

// competitors returns the moves and convoyed moves into a territory.
func (r *movementResolver) competitors(territory string) []*attack {
	moves, convoys := r.cmds.Attackers(territory), r.cmds.ConvoyAttackers(territory)
	out := make([]*attack, 0, len(moves)+len(convoys))
	for _, o := range moves {
		out = append(out, r.attackAt[r.m.RelevantName(o.Unit.Position)])
	}
	for _, o := range convoys {
		out = append(out, r.attackAt[r.m.RelevantName(o.Unit.Position)])
	}
	return out
}

// carriedBy reports whether a fleet in territory takes part in a's convoy.
func (r *movementResolver) carriedBy(a *attack, territory string) bool {
	for _, t := range r.cmds.Transports(a.from, a.to) {
		if r.m.RelevantName(t.Unit.Position) == territory {
			return true
		}
	}
	return false
}

// supportCount counts uncut supports for the unit at from moving to to (or
// holding, when from == to), ignoring supports given by player exclude.
func (r *movementResolver) supportCount(from, to, exclude string) int {
	n := 0
	for _, s := range r.cmds.Supports(from, to) {
		if s.Player == exclude || r.cut[r.m.RelevantName(s.Unit.Position)] {
			continue
		}
		n++
	}
	return n
}

// attackStrength is the strength of a against the units of defender. A unit
// never dislodges its own side, and a defender's supports do not help dislodge it.
func (r *movementResolver) attackStrength(a *attack, defender string) int {
	if defender == a.player {
		return 0
	}
	return 1 + r.supportCount(a.from, a.to, defender)
}

// fullStrength counts every uncut support. It is the strength a move uses to
// keep others out of its destination and to defend in a head-to-head battle.
func (r *movementResolver) fullStrength(a *attack) int {
	return 1 + r.supportCount(a.from, a.to, "")
}

// holdStrength is the strength of a unit that stays put.
func (r *movementResolver) holdStrength(territory string) int {
	return 1 + r.supportCount(territory, territory, "")
}

// headToHead reports whether a and b swap places without a convoy.
func headToHead(a, b *attack) bool {
	return a.to == b.from && b.to == a.from && !a.convoy && !b.convoy
}

// opponent returns the active attack leaving a's destination, if any.
func (r *movementResolver) opponent(a *attack) *attack {
	b, ok := r.attackAt[a.to]
	if !ok || !b.active {
		return nil
	}
	return b
}

// preventStrength bounds the strength with which c keeps others out of its
// destination. A move that lost a head-to-head battle prevents nothing.
func (r *movementResolver) preventStrength(c *attack) (lo, hi int) {
	s := r.fullStrength(c)
	if b := r.opponent(c); b != nil && headToHead(c, b) {
		switch b.state {
		case succeeds:
			return 0, 0
		case undecided:
			return 0, s
		}
	}
	return s, s
}

// decide settles a if the current partial state allows it.
func (r *movementResolver) decide(a *attack) decision {
	open := false
	strength := r.fullStrength(a)

	for _, c := range r.competitors(a.to) {
		if c == a || !c.active {
			continue
		}
		lo, hi := r.preventStrength(c)
		if strength <= lo {
			return fails
		}
		if strength <= hi {
			open = true
		}
	}

	home, occupied := r.cmds.Home(a.to)
	if !occupied {
		if open {
			return undecided
		}
		return succeeds
	}
	defender := home.Issuer()

	if b := r.opponent(a); b != nil {
		if headToHead(a, b) {
			if r.attackStrength(a, defender) <= r.fullStrength(b) {
				return fails
			}
		} else {
			switch b.state {
			case fails:
				if r.attackStrength(a, defender) <= 1 {
					return fails
				}
			case undecided:
				if r.attackStrength(a, defender) <= 1 {
					open = true
				}
			}
		}
	} else if r.attackStrength(a, defender) <= r.holdStrength(a.to) {
		return fails
	}

	if open {
		return undecided
	}
	return succeeds
}

// resolveCycles settles a pass that stopped making progress. Every undecided
// move then waits on the move leaving its destination, so following those
// links from any undecided move ends in a ring of units moving into each
// other's territories. Such a ring moves together.
func (r *movementResolver) resolveCycles() bool {
	for _, start := range r.attacks {
		if !start.active || start.state != undecided {
			continue
		}
		seen := make(map[*attack]bool)
		a := start
		for a != nil && a.state == undecided && !seen[a] {
			seen[a] = true
			a = r.opponent(a)
		}
		if a == nil || a.state != undecided {
			continue
		}
		for ring := a; ; {
			ring.state = succeeds
			ring = r.opponent(ring)
			if ring == a {
				break
			}
		}
		return true
	}
	return false
}

// hasConvoyPath searches for a chain of fleets, all ordered to convoy this
// army to this destination and none of them dislodged, leading from a coast
// of the army's territory to a coast of its destination.
func (r *movementResolver) hasConvoyPath(a *attack, dislodged map[string]*attack) bool {
	var fleets []string
	for _, t := range r.cmds.Transports(a.from, a.to) {
		pos := t.Unit.Position
		if _, gone := dislodged[r.m.RelevantName(pos)]; gone {
			continue
		}
		fleets = append(fleets, pos)
	}
	if len(fleets) == 0 {
		return false
	}

	touches := func(fleet, land string) bool {
		t, ok := r.m.Territory(land)
		if !ok {
			return false
		}
		for _, c := range t.Coasts {
			if r.m.Adjacent(fleet, c) {
				return true
			}
		}
		return false
	}

	visited := make(map[string]bool, len(fleets))
	var queue []string
	for _, f := range fleets {
		if touches(f, a.from) {
			visited[f] = true
			queue = append(queue, f)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if touches(cur, a.to) {
			return true
		}
		for _, f := range fleets {
			if !visited[f] && r.m.Adjacent(cur, f) {
				visited[f] = true
				queue = append(queue, f)
			}
		}
	}
	return false
}

// retreatOptions lists where a unit dislodged from territory by a may go.
func (r *movementResolver) retreatOptions(u Unit, by *attack, occupied map[string]bool) []string {
	options := []string{}
	for _, n := range r.m.Neighbors(u.Position) {
		f := r.m.RelevantName(n)
		if occupied[f] || f == by.from || r.contested[f] || !r.m.CanEnter(u.Type, n) {
			continue
		}
		options = append(options, n)
	}
	return options
}

// buildResults converts the final pass into a Resolution.
func (r *movementResolver) buildResults() Resolution {
	occupied := make(map[string]bool, len(r.orders))
	for _, o := range r.orders {
		origin := r.m.RelevantName(o.OrderedUnit().Position)
		if a, ok := r.attackAt[origin]; ok && a.active && a.state == succeeds {
			occupied[a.to] = true
			continue
		}
		if _, gone := r.dislodgedBy[origin]; !gone {
			occupied[origin] = true
		}
	}

	res := make(Resolution)
	for _, o := range r.orders {
		player, u := o.Issuer(), o.OrderedUnit()
		if res[player] == nil {
			res[player] = make(map[Unit]Outcome)
		}
		origin := r.m.RelevantName(u.Position)
		if a, ok := r.attackAt[origin]; ok && a.active && a.state == succeeds {
			res[player][Unit{Type: u.Type, Position: a.dest}] = Outcome{}
			continue
		}
		if by, ok := r.dislodgedBy[origin]; ok {
			res[player][u] = Outcome{Dislodged: true, Retreats: r.retreatOptions(u, by, occupied)}
			continue
		}
		res[player][u] = Outcome{}
	}
	return res
}

func sortUnits(units []Unit) {
	sort.Slice(units, func(i, j int) bool {
		if units[i].Position != units[j].Position {
			return units[i].Position < units[j].Position
		}
		return units[i].Type < units[j].Type
	})
}

// String renders a resolution one unit per line, for logs and debugging.
func (r Resolution) String() string {
	players := make([]string, 0, len(r))
	for p := range r {
		players = append(players, p)
	}
	sort.Strings(players)
	var sb strings.Builder
	for _, p := range players {
		units := make([]Unit, 0, len(r[p]))
		for u := range r[p] {
			units = append(units, u)
		}
		sortUnits(units)
		for _, u := range units {
			o := r[p][u]
			if o.Dislodged {
				fmt.Fprintf(&sb, "%s %s dislodged %v\n", p, u, o.Retreats)
			} else {
				fmt.Fprintf(&sb, "%s %s\n", p, u)
			}
		}
	}
	return sb.String()
}
