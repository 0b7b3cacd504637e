package diplomacy

import (
	"fmt"
	"math"
	"sort"
)

// ResolveAdjustment applies builds and disbands leniently. counts comes from
// CalculateAdjustments. A player with builds available gets up to that many
// of its Build orders, in the order given; extra or conflicting builds are
// ignored. A player that must disband loses exactly the required number of
// units: its own Disband orders are used first, and when there are too few
// or too many the choice is made by civil disorder ranking (see
// DisbandPriority). Orders for units a player does not have are ignored.
func ResolveAdjustment(own *OwnershipMap, counts map[string]int, units map[string][]Unit, orders []AdjustmentOrder) map[string][]Unit {
	m := own.Supply.Map
	builds := make(map[string][]Build)
	disbands := make(map[string][]Unit)
	for _, o := range orders {
		switch o := o.(type) {
		case Build:
			builds[o.Player] = append(builds[o.Player], o)
		case Disband:
			disbands[o.Player] = append(disbands[o.Player], o.Unit)
		}
	}

	players := make(map[string]struct{}, len(units))
	for p := range units {
		players[p] = struct{}{}
	}
	for p := range counts {
		players[p] = struct{}{}
	}

	out := make(map[string][]Unit, len(players))
	for player := range players {
		list := units[player]
		count := counts[player]
		result := append(make([]Unit, 0, len(list)), list...)

		switch {
		case count > 0:
			occupied := make(map[string]bool, len(list))
			for _, u := range list {
				occupied[m.RelevantName(u.Position)] = true
			}
			built := 0
			for _, b := range builds[player] {
				if built == count {
					break
				}
				t := m.RelevantName(b.Unit.Position)
				if occupied[t] || !own.IsOwned(player, t) || !own.IsHome(player, t) || !m.CanEnter(b.Unit.Type, b.Unit.Position) {
					continue
				}
				occupied[t] = true
				result = append(result, b.Unit)
				built++
			}
		case count < 0:
			gone := chooseDisbands(m, own.Home(player), list, disbands[player], -count)
			result = result[:0]
			for _, u := range list {
				if !gone[u] {
					result = append(result, u)
				}
			}
		}

		sortUnits(result)
		out[player] = result
	}
	return out
}

// ResolveAdjustmentValidated is ResolveAdjustment for strict callers: it
// fails instead of guessing when a player disbands a unit twice, disbands a
// unit it does not have, disbands a different number of units than required,
// or orders more builds than it has.
func ResolveAdjustmentValidated(own *OwnershipMap, counts map[string]int, units map[string][]Unit, orders []AdjustmentOrder) (map[string][]Unit, error) {
	m := own.Supply.Map
	disbanded := make(map[string]map[Unit]bool)
	built := make(map[string]map[string]bool)
	for _, o := range orders {
		player := o.Issuer()
		switch o := o.(type) {
		case Disband:
			if !hasUnit(units[player], o.Unit) {
				return nil, fmt.Errorf("%w: %s %s", ErrUnknownUnit, player, o.Unit)
			}
			if disbanded[player] == nil {
				disbanded[player] = make(map[Unit]bool)
			}
			if disbanded[player][o.Unit] {
				return nil, fmt.Errorf("%w: %s %s", ErrDuplicateDisband, player, o.Unit)
			}
			disbanded[player][o.Unit] = true
		case Build:
			if built[player] == nil {
				built[player] = make(map[string]bool)
			}
			t := m.RelevantName(o.Unit.Position)
			if built[player][t] {
				return nil, fmt.Errorf("%w: %s builds twice in %s", ErrDuplicateOrder, player, t)
			}
			built[player][t] = true
		}
	}

	for player, c := range counts {
		if need := max(-c, 0); len(disbanded[player]) != need {
			return nil, fmt.Errorf("%w: %s disbands %d, needs %d", ErrDisbandCount, player, len(disbanded[player]), need)
		}
	}
	for player, set := range disbanded {
		if _, ok := counts[player]; !ok {
			return nil, fmt.Errorf("%w: %s disbands %d, needs 0", ErrDisbandCount, player, len(set))
		}
	}
	for player, set := range built {
		if len(set) > counts[player] {
			return nil, fmt.Errorf("%w: %s builds %d, allowed %d", ErrBuildCount, player, len(set), max(counts[player], 0))
		}
	}

	return ResolveAdjustment(own, counts, units, orders), nil
}

func hasUnit(list []Unit, u Unit) bool {
	for _, x := range list {
		if x == u {
			return true
		}
	}
	return false
}

// chooseDisbands picks need units from list. Ordered disbands are taken
// first; any shortfall or excess is settled by DisbandPriority.
func chooseDisbands(m *Map, homes []string, list []Unit, ordered []Unit, need int) map[Unit]bool {
	owned := make(map[Unit]bool, len(list))
	for _, u := range list {
		owned[u] = true
	}
	var picked []Unit
	seen := make(map[Unit]bool)
	for _, u := range ordered {
		if owned[u] && !seen[u] {
			seen[u] = true
			picked = append(picked, u)
		}
	}

	gone := make(map[Unit]bool, need)
	if len(picked) >= need {
		for _, u := range DisbandPriority(m, homes, picked)[:need] {
			gone[u] = true
		}
		return gone
	}
	for _, u := range picked {
		gone[u] = true
	}
	var rest []Unit
	for _, u := range list {
		if !gone[u] {
			rest = append(rest, u)
		}
	}
	ranked := DisbandPriority(m, homes, rest)
	for i := 0; i < need-len(picked) && i < len(ranked); i++ {
		gone[ranked[i]] = true
	}
	return gone
}

// DisbandPriority orders units for civil disorder, first to go first:
// farthest from any of the given home centers, then fleets before armies,
// then by territory name. Distance counts borders crossed between
// territories; the coasts of a territory count as the territory itself.
func DisbandPriority(m *Map, homes []string, units []Unit) []Unit {
	dist := distancesFrom(m, homes)
	distOf := func(u Unit) int {
		if d, ok := dist[m.RelevantName(u.Position)]; ok {
			return d
		}
		return math.MaxInt
	}

	ranked := append([]Unit(nil), units...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if da, db := distOf(a), distOf(b); da != db {
			return da > db
		}
		if a.Type != b.Type {
			return a.Type == Fleet
		}
		return a.Position < b.Position
	})
	return ranked
}

// distancesFrom runs a breadth-first search from every source at once over
// folded territories.
func distancesFrom(m *Map, sources []string) map[string]int {
	dist := make(map[string]int, len(m.Names()))
	var queue []string
	for _, s := range sources {
		s = m.RelevantName(s)
		if _, ok := dist[s]; ok || !m.Has(s) {
			continue
		}
		dist[s] = 0
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.landNeighbors(cur) {
			if _, ok := dist[n]; ok {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return dist
}
