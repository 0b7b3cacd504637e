package diplomacy

import (
	"fmt"
	"sort"
)

// TerritoryKind classifies a territory as land, sea, or the coast of a land territory.
type TerritoryKind int

const (
	Land  TerritoryKind = iota // Armies only; may own coasts
	Sea                        // Fleets only
	Coast                      // Fleets only; belongs to exactly one land territory
)

func (k TerritoryKind) String() string {
	switch k {
	case Land:
		return "land"
	case Sea:
		return "sea"
	case Coast:
		return "coast"
	default:
		return "unknown"
	}
}

// Territory is a named node of the map graph.
type Territory struct {
	Name string
	Kind TerritoryKind

	// Parent is the owning land territory of a coast ("" otherwise).
	Parent string
	// Coasts lists the coasts owned by a land territory, in declaration order.
	Coasts []string
}

// TerritoryDescriptor describes one land or sea territory when building a map.
// Coasts are only allowed on land territories.
type TerritoryDescriptor struct {
	Name   string
	Kind   TerritoryKind
	Coasts []string
}

// Map is an immutable territory graph. It is safe for concurrent use once built.
type Map struct {
	territories map[string]*Territory
	adjacency   map[string][]string // sorted
	adjSet      map[string]map[string]struct{}
	names       []string
}

// NewMap builds a map from territory descriptors and undirected adjacency pairs.
// Adjacency must respect class compatibility: land borders land, while sea and
// coast territories border seas and coasts.
func NewMap(descriptors []TerritoryDescriptor, adjacencies [][2]string) (*Map, error) {
	m := &Map{
		territories: make(map[string]*Territory, len(descriptors)*2),
		adjacency:   make(map[string][]string, len(descriptors)*2),
		adjSet:      make(map[string]map[string]struct{}, len(descriptors)*2),
	}

	add := func(t *Territory) error {
		if t.Name == "" {
			return fmt.Errorf("territory with empty name")
		}
		if _, dup := m.territories[t.Name]; dup {
			return fmt.Errorf("duplicate territory %q", t.Name)
		}
		m.territories[t.Name] = t
		m.adjSet[t.Name] = make(map[string]struct{})
		return nil
	}

	for _, d := range descriptors {
		switch d.Kind {
		case Land:
			land := &Territory{Name: d.Name, Kind: Land, Coasts: append([]string(nil), d.Coasts...)}
			if err := add(land); err != nil {
				return nil, err
			}
			for _, c := range d.Coasts {
				if err := add(&Territory{Name: c, Kind: Coast, Parent: d.Name}); err != nil {
					return nil, err
				}
			}
		case Sea:
			if len(d.Coasts) > 0 {
				return nil, fmt.Errorf("sea territory %q cannot have coasts", d.Name)
			}
			if err := add(&Territory{Name: d.Name, Kind: Sea}); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("territory %q: descriptors must be land or sea, got %s", d.Name, d.Kind)
		}
	}

	for _, pair := range adjacencies {
		a, b := pair[0], pair[1]
		ta, ok := m.territories[a]
		if !ok {
			return nil, fmt.Errorf("adjacency %q-%q: %w: %q", a, b, ErrUnknownTerritory, a)
		}
		tb, ok := m.territories[b]
		if !ok {
			return nil, fmt.Errorf("adjacency %q-%q: %w: %q", a, b, ErrUnknownTerritory, b)
		}
		if a == b {
			return nil, fmt.Errorf("territory %q cannot border itself", a)
		}
		if (ta.Kind == Land) != (tb.Kind == Land) {
			return nil, fmt.Errorf("adjacency %q-%q mixes %s and %s", a, b, ta.Kind, tb.Kind)
		}
		if _, dup := m.adjSet[a][b]; dup {
			return nil, fmt.Errorf("duplicate adjacency %q-%q", a, b)
		}
		m.adjSet[a][b] = struct{}{}
		m.adjSet[b][a] = struct{}{}
		m.adjacency[a] = append(m.adjacency[a], b)
		m.adjacency[b] = append(m.adjacency[b], a)
	}

	m.names = make([]string, 0, len(m.territories))
	for name := range m.territories {
		m.names = append(m.names, name)
		sort.Strings(m.adjacency[name])
	}
	sort.Strings(m.names)
	return m, nil
}

// Territory looks up a territory by name.
func (m *Map) Territory(name string) (*Territory, bool) {
	t, ok := m.territories[name]
	return t, ok
}

// Has reports whether the map contains the named territory.
func (m *Map) Has(name string) bool {
	_, ok := m.territories[name]
	return ok
}

// Names returns every territory name in sorted order. Callers must not modify the slice.
func (m *Map) Names() []string {
	return m.names
}

// Neighbors returns the sorted names adjacent to a territory. Callers must not
// modify the slice.
func (m *Map) Neighbors(name string) []string {
	return m.adjacency[name]
}

// Adjacent reports whether two territories share a border.
func (m *Map) Adjacent(a, b string) bool {
	_, ok := m.adjSet[a][b]
	return ok
}

// RelevantName folds a coast onto the land territory that owns it. Any other
// name is returned unchanged. Orders, supports and attacks are grouped by the
// folded name so that every coast of a territory competes for the same space.
func (m *Map) RelevantName(name string) string {
	if t, ok := m.territories[name]; ok && t.Kind == Coast {
		return t.Parent
	}
	return name
}

// SameTerritory reports whether two names fold to the same territory.
func (m *Map) SameTerritory(a, b string) bool {
	return m.RelevantName(a) == m.RelevantName(b)
}

// CanEnter reports whether a unit of the given type may stand in the territory.
func (m *Map) CanEnter(ut UnitType, name string) bool {
	t, ok := m.territories[name]
	if !ok {
		return false
	}
	if ut == Army {
		return t.Kind == Land
	}
	return t.Kind == Sea || t.Kind == Coast
}

// ConvoyCompatible reports whether an army could be convoyed from or to the
// territory: a land territory with at least one coast.
func (m *Map) ConvoyCompatible(name string) bool {
	t, ok := m.territories[name]
	return ok && t.Kind == Land && len(t.Coasts) > 0
}

// CanSupportInto reports whether a unit at its current position could support
// a hold or move into dest. A fleet on a coast may support into any coast of
// the same land, and into the land itself, as long as it borders one of them.
func (m *Map) CanSupportInto(u Unit, dest string) bool {
	if m.Adjacent(u.Position, dest) {
		return true
	}
	t, ok := m.territories[dest]
	if !ok {
		return false
	}
	land := t
	if t.Kind == Coast {
		land = m.territories[t.Parent]
		if m.Adjacent(u.Position, land.Name) {
			return true
		}
	}
	for _, c := range land.Coasts {
		if m.Adjacent(u.Position, c) {
			return true
		}
	}
	return false
}

// landNeighbors returns folded neighbors of a folded territory: for a land
// territory this includes everything bordering any of its coasts.
func (m *Map) landNeighbors(name string) []string {
	t, ok := m.territories[name]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	visit := func(from string) {
		for _, n := range m.adjacency[from] {
			f := m.RelevantName(n)
			if f == name {
				continue
			}
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				out = append(out, f)
			}
		}
	}
	visit(name)
	for _, c := range t.Coasts {
		visit(c)
	}
	sort.Strings(out)
	return out
}
