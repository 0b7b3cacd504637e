package handler

import (
	"net/http"

	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

type territoryView struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Parent       string   `json:"parent,omitempty"`
	Coasts       []string `json:"coasts,omitempty"`
	Neighbors    []string `json:"neighbors"`
	SupplyCenter bool     `json:"supply_center,omitempty"`
}

type mapView struct {
	Territories   []territoryView     `json:"territories"`
	SupplyCenters []string            `json:"supply_centers"`
	HomeCenters   map[string][]string `json:"home_centers"`
	StartingUnits map[string][]string `json:"starting_units"`
}

// MapHandler serves the standard map.
type MapHandler struct {
	view   mapView
	byName map[string]territoryView
}

// NewMapHandler builds the map description once; it never changes.
func NewMapHandler(m *diplomacy.Map) *MapHandler {
	centers := make(map[string]bool)
	for _, c := range diplomacy.VanillaSupplyCenters() {
		centers[c] = true
	}

	h := &MapHandler{byName: make(map[string]territoryView)}
	for _, name := range m.Names() {
		t, _ := m.Territory(name)
		tv := territoryView{
			Name:         t.Name,
			Kind:         t.Kind.String(),
			Parent:       t.Parent,
			Coasts:       t.Coasts,
			Neighbors:    m.Neighbors(name),
			SupplyCenter: centers[name],
		}
		h.view.Territories = append(h.view.Territories, tv)
		h.byName[name] = tv
	}
	h.view.SupplyCenters = diplomacy.VanillaSupplyCenters()
	h.view.HomeCenters = diplomacy.VanillaHomeCenters()
	h.view.StartingUnits = make(map[string][]string)
	for player, units := range diplomacy.VanillaStartingUnits() {
		for _, u := range units {
			h.view.StartingUnits[player] = append(h.view.StartingUnits[player], u.String())
		}
	}
	return h
}

// GetMap handles GET /api/v1/map.
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view)
}

// GetTerritory handles GET /api/v1/map/territories/{name}.
func (h *MapHandler) GetTerritory(w http.ResponseWriter, r *http.Request) {
	tv, ok := h.byName[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "territory not found")
		return
	}
	writeJSON(w, http.StatusOK, tv)
}
