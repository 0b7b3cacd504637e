package diplomacy

import (
	"fmt"
	"sort"
)

// SupplyCenterMap marks which land territories of a map are supply centers.
type SupplyCenterMap struct {
	Map     *Map
	centers map[string]struct{}
}

// NewSupplyCenterMap fails if a center is unknown or not a land territory.
func NewSupplyCenterMap(m *Map, centers []string) (*SupplyCenterMap, error) {
	s := &SupplyCenterMap{Map: m, centers: make(map[string]struct{}, len(centers))}
	for _, c := range centers {
		t, ok := m.Territory(c)
		if !ok {
			return nil, fmt.Errorf("supply center: %w: %q", ErrUnknownTerritory, c)
		}
		if t.Kind != Land {
			return nil, fmt.Errorf("supply center %q is a %s territory", c, t.Kind)
		}
		s.centers[c] = struct{}{}
	}
	return s, nil
}

// IsSupplyCenter reports whether the territory, or the land owning a coast, is a center.
func (s *SupplyCenterMap) IsSupplyCenter(name string) bool {
	_, ok := s.centers[s.Map.RelevantName(name)]
	return ok
}

// Centers returns the supply centers in sorted order.
func (s *SupplyCenterMap) Centers() []string {
	out := make([]string, 0, len(s.centers))
	for c := range s.centers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// OwnershipMap records which player controls each supply center and which
// centers are each player's home centers.
type OwnershipMap struct {
	Supply *SupplyCenterMap
	owned  map[string]map[string]struct{}
	home   map[string]map[string]struct{}
}

// NewOwnershipMap checks that every owned and home territory is a supply
// center and that no center has two owners.
func NewOwnershipMap(sc *SupplyCenterMap, owned, home map[string][]string) (*OwnershipMap, error) {
	o := &OwnershipMap{
		Supply: sc,
		owned:  make(map[string]map[string]struct{}, len(owned)),
		home:   make(map[string]map[string]struct{}, len(home)),
	}
	owner := make(map[string]string)
	for player, centers := range owned {
		o.owned[player] = make(map[string]struct{}, len(centers))
		for _, c := range centers {
			if !sc.IsSupplyCenter(c) {
				return nil, fmt.Errorf("%s owns %q, which is not a supply center", player, c)
			}
			c = sc.Map.RelevantName(c)
			if prev, taken := owner[c]; taken && prev != player {
				return nil, fmt.Errorf("%q owned by both %s and %s", c, prev, player)
			}
			owner[c] = player
			o.owned[player][c] = struct{}{}
		}
	}
	for player, centers := range home {
		o.home[player] = make(map[string]struct{}, len(centers))
		for _, c := range centers {
			if !sc.IsSupplyCenter(c) {
				return nil, fmt.Errorf("home center %q of %s is not a supply center", c, player)
			}
			o.home[player][sc.Map.RelevantName(c)] = struct{}{}
		}
	}
	return o, nil
}

// VanillaOwnership is the ownership at the start of a standard game: every
// player owns exactly its home centers.
func VanillaOwnership() *OwnershipMap {
	sc, err := NewSupplyCenterMap(Vanilla(), VanillaSupplyCenters())
	if err != nil {
		panic("diplomacy: standard supply centers: " + err.Error())
	}
	homes := VanillaHomeCenters()
	o, err := NewOwnershipMap(sc, homes, homes)
	if err != nil {
		panic("diplomacy: standard ownership: " + err.Error())
	}
	return o
}

// IsOwned reports whether player controls the territory (any coast folds to its land).
func (o *OwnershipMap) IsOwned(player, territory string) bool {
	_, ok := o.owned[player][o.Supply.Map.RelevantName(territory)]
	return ok
}

// IsHome reports whether the territory is one of player's home centers.
func (o *OwnershipMap) IsHome(player, territory string) bool {
	_, ok := o.home[player][o.Supply.Map.RelevantName(territory)]
	return ok
}

// Owner returns the player controlling a supply center.
func (o *OwnershipMap) Owner(territory string) (string, bool) {
	t := o.Supply.Map.RelevantName(territory)
	for player, centers := range o.owned {
		if _, ok := centers[t]; ok {
			return player, true
		}
	}
	return "", false
}

// Owned returns the centers a player controls, sorted.
func (o *OwnershipMap) Owned(player string) []string {
	return sortedKeys(o.owned[player])
}

// Home returns a player's home centers, sorted.
func (o *OwnershipMap) Home(player string) []string {
	return sortedKeys(o.home[player])
}

// Players returns every player that owns a center or has home centers.
func (o *OwnershipMap) Players() []string {
	seen := make(map[string]struct{})
	for p := range o.owned {
		seen[p] = struct{}{}
	}
	for p := range o.home {
		seen[p] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CalculateAdjustments applies end-of-year ownership changes, where every
// occupied supply center passes to the occupying player, and returns the new
// ownership together with each player's adjustment count: positive for
// builds, negative for required disbands.
func CalculateAdjustments(own *OwnershipMap, units map[string][]Unit) (*OwnershipMap, map[string]int) {
	next := &OwnershipMap{
		Supply: own.Supply,
		owned:  make(map[string]map[string]struct{}, len(own.owned)),
		home:   own.home,
	}
	for player, centers := range own.owned {
		next.owned[player] = make(map[string]struct{}, len(centers))
		for c := range centers {
			next.owned[player][c] = struct{}{}
		}
	}

	m := own.Supply.Map
	for player, list := range units {
		for _, u := range list {
			t := m.RelevantName(u.Position)
			if !own.Supply.IsSupplyCenter(t) {
				continue
			}
			for _, centers := range next.owned {
				delete(centers, t)
			}
			if next.owned[player] == nil {
				next.owned[player] = make(map[string]struct{})
			}
			next.owned[player][t] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for player, centers := range next.owned {
		counts[player] = len(centers)
	}
	for player, list := range units {
		counts[player] -= len(list)
	}
	return next, counts
}
