package diplomacy

import "fmt"

// ResolveRetreats applies retreat orders to the result of a movement phase.
// Exactly the dislodged units in obligations must be ordered. Units without
// an obligation stay where they are. Retreats that collide (two or more units
// heading for the same territory, on any coast) all fail, and every unit that
// fails to retreat is disbanded. The result maps each player to its units.
func ResolveRetreats(m *Map, obligations Resolution, orders []RetreatOrder) (map[string][]Unit, error) {
	type key struct {
		player string
		unit   Unit
	}

	ordered := make(map[key]RetreatOrder, len(orders))
	for _, o := range orders {
		k := key{o.Issuer(), o.OrderedUnit()}
		if _, dup := ordered[k]; dup {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateOrder, k.player, k.unit)
		}
		outcome, ok := obligations[k.player][k.unit]
		if !ok || !outcome.Dislodged {
			return nil, fmt.Errorf("%w: %s %s has no retreat obligation", ErrRetreatMismatch, k.player, k.unit)
		}
		if mv, isMove := o.(RetreatMove); isMove && !m.Has(mv.Destination) {
			return nil, fmt.Errorf("%s: %w: %q", mv, ErrUnknownTerritory, mv.Destination)
		}
		ordered[k] = o
	}
	for player, units := range obligations {
		for u, outcome := range units {
			if outcome.Dislodged {
				if _, ok := ordered[key{player, u}]; !ok {
					return nil, fmt.Errorf("%w: no order for %s %s", ErrRetreatMismatch, player, u)
				}
			}
		}
	}

	targets := make(map[string]int)
	for _, o := range orders {
		if mv, ok := o.(RetreatMove); ok {
			targets[m.RelevantName(mv.Destination)]++
		}
	}

	survivors := make(map[string][]Unit, len(obligations))
	for player, units := range obligations {
		list := make([]Unit, 0, len(units))
		for u, outcome := range units {
			if !outcome.Dislodged {
				list = append(list, u)
				continue
			}
			switch o := ordered[key{player, u}].(type) {
			case RetreatMove:
				if targets[m.RelevantName(o.Destination)] == 1 {
					list = append(list, Unit{Type: u.Type, Position: o.Destination})
				}
			case RetreatDisband:
			}
		}
		sortUnits(list)
		survivors[player] = list
	}
	return survivors, nil
}
