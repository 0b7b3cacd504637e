package diplomacy

import "fmt"

// route is a (source, destination) pair of folded territory names.
type route struct {
	From, To string
}

// CommandMap indexes one phase's movement orders. All keys are folded with
// Map.RelevantName, so an order on any coast of a territory is found under
// the territory itself. It is read-only once built.
type CommandMap struct {
	m               *Map
	attackers       map[string][]Move
	convoyAttackers map[string][]ConvoyMove
	transports      map[route][]ConvoyTransport
	supports        map[route][]Support
	home            map[string]MovementOrder
}

// NewCommandMap indexes orders. It fails if two orders are given to units in
// the same territory or an order names a territory the map does not know.
func NewCommandMap(m *Map, orders []MovementOrder) (*CommandMap, error) {
	c := &CommandMap{
		m:               m,
		attackers:       make(map[string][]Move),
		convoyAttackers: make(map[string][]ConvoyMove),
		transports:      make(map[route][]ConvoyTransport),
		supports:        make(map[route][]Support),
		home:            make(map[string]MovementOrder, len(orders)),
	}

	known := func(o Order, names ...string) error {
		for _, n := range names {
			if !m.Has(n) {
				return fmt.Errorf("%s: %w: %q", o, ErrUnknownTerritory, n)
			}
		}
		return nil
	}

	for _, o := range orders {
		pos := o.OrderedUnit().Position
		if err := known(o, pos); err != nil {
			return nil, err
		}
		origin := m.RelevantName(pos)
		if prev, dup := c.home[origin]; dup {
			return nil, fmt.Errorf("%w in %s: %q and %q", ErrDuplicateOrder, origin, prev, o)
		}
		c.home[origin] = o

		switch o := o.(type) {
		case Hold:
		case Move:
			if err := known(o, o.Destination); err != nil {
				return nil, err
			}
			to := m.RelevantName(o.Destination)
			c.attackers[to] = append(c.attackers[to], o)
		case ConvoyMove:
			if err := known(o, o.Destination); err != nil {
				return nil, err
			}
			to := m.RelevantName(o.Destination)
			c.convoyAttackers[to] = append(c.convoyAttackers[to], o)
		case ConvoyTransport:
			if err := known(o, o.Transported.Position, o.Destination); err != nil {
				return nil, err
			}
			r := c.routeOf(o.Transported.Position, o.Destination)
			c.transports[r] = append(c.transports[r], o)
		case Support:
			if err := known(o, o.Supported.Position, o.Destination); err != nil {
				return nil, err
			}
			r := c.routeOf(o.Supported.Position, o.Destination)
			c.supports[r] = append(c.supports[r], o)
		default:
			return nil, fmt.Errorf("unhandled movement order %T", o)
		}
	}
	return c, nil
}

func (c *CommandMap) routeOf(source, dest string) route {
	return route{From: c.m.RelevantName(source), To: c.m.RelevantName(dest)}
}

// Attackers returns the Move orders into a territory.
func (c *CommandMap) Attackers(territory string) []Move {
	return c.attackers[c.m.RelevantName(territory)]
}

// ConvoyAttackers returns the ConvoyMove orders into a territory.
func (c *CommandMap) ConvoyAttackers(territory string) []ConvoyMove {
	return c.convoyAttackers[c.m.RelevantName(territory)]
}

// Transports returns the ConvoyTransport orders carrying the army at source to dest.
func (c *CommandMap) Transports(source, dest string) []ConvoyTransport {
	return c.transports[c.routeOf(source, dest)]
}

// Supports returns the Support orders for the unit at source moving to dest.
// Hold supports are found with source == dest.
func (c *CommandMap) Supports(source, dest string) []Support {
	return c.supports[c.routeOf(source, dest)]
}

// Home returns the order given to the unit standing in a territory.
func (c *CommandMap) Home(territory string) (MovementOrder, bool) {
	o, ok := c.home[c.m.RelevantName(territory)]
	return o, ok
}
