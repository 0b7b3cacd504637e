package diplomacy

import (
	"sort"
	"sync"
)

// The seven players of the standard game.
const (
	Austria = "Austria"
	England = "England"
	France  = "France"
	Germany = "Germany"
	Italy   = "Italy"
	Russia  = "Russia"
	Turkey  = "Turkey"
)

// Players returns the seven standard players in alphabetical order.
func Players() []string {
	return []string{Austria, England, France, Germany, Italy, Russia, Turkey}
}

var (
	vanillaOnce sync.Once
	vanillaMap  *Map
)

// Vanilla returns the standard 75-province map. Coastal provinces are split
// into a land territory ("Brest") and its coast ("Brest Coast"); Spain,
// St. Petersburg and Bulgaria have a north and a south coast. The map is
// built once and shared; it is immutable.
func Vanilla() *Map {
	vanillaOnce.Do(func() {
		m, err := NewMap(vanillaTerritories(), vanillaAdjacencies())
		if err != nil {
			panic("diplomacy: standard map: " + err.Error())
		}
		vanillaMap = m
	})
	return vanillaMap
}

func coast(land string) string {
	return land + " Coast"
}

func vanillaTerritories() []TerritoryDescriptor {
	var ts []TerritoryDescriptor
	inland := func(names ...string) {
		for _, n := range names {
			ts = append(ts, TerritoryDescriptor{Name: n, Kind: Land})
		}
	}
	coastal := func(names ...string) {
		for _, n := range names {
			ts = append(ts, TerritoryDescriptor{Name: n, Kind: Land, Coasts: []string{coast(n)}})
		}
	}
	split := func(name string) {
		ts = append(ts, TerritoryDescriptor{Name: name, Kind: Land, Coasts: []string{name + " North Coast", name + " South Coast"}})
	}
	seas := func(names ...string) {
		for _, n := range names {
			ts = append(ts, TerritoryDescriptor{Name: n, Kind: Sea})
		}
	}

	inland("Bohemia", "Budapest", "Burgundy", "Galicia", "Moscow", "Munich", "Paris",
		"Ruhr", "Serbia", "Silesia", "Tyrolia", "Ukraine", "Vienna", "Warsaw")

	coastal("Albania", "Ankara", "Apulia", "Armenia", "Belgium", "Berlin", "Brest",
		"Clyde", "Constantinople", "Denmark", "Edinburgh", "Finland", "Gascony",
		"Greece", "Holland", "Kiel", "Liverpool", "Livonia", "London", "Marseilles",
		"Naples", "North Africa", "Norway", "Picardy", "Piedmont", "Portugal",
		"Prussia", "Rome", "Rumania", "Sevastopol", "Smyrna", "Sweden", "Syria",
		"Trieste", "Tunis", "Tuscany", "Venice", "Wales", "Yorkshire")

	split("Bulgaria")
	split("Spain")
	split("St. Petersburg")

	seas("Adriatic Sea", "Aegean Sea", "Baltic Sea", "Barents Sea", "Black Sea",
		"Eastern Mediterranean Sea", "English Channel", "Gulf of Bothnia",
		"Gulf of Lyon", "Helgoland Bight", "Ionian Sea", "Irish Sea",
		"Mid-Atlantic Ocean", "North Atlantic Ocean", "North Sea", "Norwegian Sea",
		"Skagerrak", "Tyrrhenian Sea", "Western Mediterranean Sea")

	return ts
}

func vanillaAdjacencies() [][2]string {
	adj := make([][2]string, 0, 420)
	fleet := func(a, b string) {
		adj = append(adj, [2]string{a, b})
	}
	army := func(a, b string) {
		adj = append(adj, [2]string{a, b})
	}
	// both links two coastal provinces by land and along their coasts.
	both := func(a, b string) {
		army(a, b)
		fleet(coast(a), coast(b))
	}

	// ---- Sea to sea ----
	fleet("Adriatic Sea", "Ionian Sea")
	fleet("Aegean Sea", "Eastern Mediterranean Sea")
	fleet("Aegean Sea", "Ionian Sea")
	fleet("Baltic Sea", "Gulf of Bothnia")
	fleet("English Channel", "Irish Sea")
	fleet("English Channel", "Mid-Atlantic Ocean")
	fleet("English Channel", "North Sea")
	fleet("Gulf of Lyon", "Tyrrhenian Sea")
	fleet("Gulf of Lyon", "Western Mediterranean Sea")
	fleet("Helgoland Bight", "North Sea")
	fleet("Ionian Sea", "Eastern Mediterranean Sea")
	fleet("Ionian Sea", "Tyrrhenian Sea")
	fleet("Irish Sea", "Mid-Atlantic Ocean")
	fleet("Irish Sea", "North Atlantic Ocean")
	fleet("Mid-Atlantic Ocean", "North Atlantic Ocean")
	fleet("Mid-Atlantic Ocean", "Western Mediterranean Sea")
	fleet("North Atlantic Ocean", "Norwegian Sea")
	fleet("North Sea", "Norwegian Sea")
	fleet("North Sea", "Skagerrak")
	fleet("Norwegian Sea", "Barents Sea")
	fleet("Tyrrhenian Sea", "Western Mediterranean Sea")

	// ---- Sea to coast ----

	// Adriatic Sea
	fleet("Adriatic Sea", coast("Albania"))
	fleet("Adriatic Sea", coast("Apulia"))
	fleet("Adriatic Sea", coast("Trieste"))
	fleet("Adriatic Sea", coast("Venice"))

	// Aegean Sea
	fleet("Aegean Sea", "Bulgaria South Coast")
	fleet("Aegean Sea", coast("Constantinople"))
	fleet("Aegean Sea", coast("Greece"))
	fleet("Aegean Sea", coast("Smyrna"))

	// Baltic Sea
	fleet("Baltic Sea", coast("Berlin"))
	fleet("Baltic Sea", coast("Denmark"))
	fleet("Baltic Sea", coast("Kiel"))
	fleet("Baltic Sea", coast("Livonia"))
	fleet("Baltic Sea", coast("Prussia"))
	fleet("Baltic Sea", coast("Sweden"))

	// Barents Sea
	fleet("Barents Sea", coast("Norway"))
	fleet("Barents Sea", "St. Petersburg North Coast")

	// Black Sea
	fleet("Black Sea", coast("Ankara"))
	fleet("Black Sea", coast("Armenia"))
	fleet("Black Sea", "Bulgaria North Coast")
	fleet("Black Sea", coast("Constantinople"))
	fleet("Black Sea", coast("Rumania"))
	fleet("Black Sea", coast("Sevastopol"))

	// Gulf of Bothnia
	fleet("Gulf of Bothnia", coast("Finland"))
	fleet("Gulf of Bothnia", coast("Livonia"))
	fleet("Gulf of Bothnia", "St. Petersburg South Coast")
	fleet("Gulf of Bothnia", coast("Sweden"))

	// Eastern Mediterranean Sea
	fleet("Eastern Mediterranean Sea", coast("Smyrna"))
	fleet("Eastern Mediterranean Sea", coast("Syria"))

	// English Channel
	fleet("English Channel", coast("Belgium"))
	fleet("English Channel", coast("Brest"))
	fleet("English Channel", coast("London"))
	fleet("English Channel", coast("Picardy"))
	fleet("English Channel", coast("Wales"))

	// Gulf of Lyon
	fleet("Gulf of Lyon", coast("Marseilles"))
	fleet("Gulf of Lyon", coast("Piedmont"))
	fleet("Gulf of Lyon", "Spain South Coast")
	fleet("Gulf of Lyon", coast("Tuscany"))

	// Helgoland Bight
	fleet("Helgoland Bight", coast("Denmark"))
	fleet("Helgoland Bight", coast("Holland"))
	fleet("Helgoland Bight", coast("Kiel"))

	// Ionian Sea
	fleet("Ionian Sea", coast("Albania"))
	fleet("Ionian Sea", coast("Apulia"))
	fleet("Ionian Sea", coast("Greece"))
	fleet("Ionian Sea", coast("Naples"))
	fleet("Ionian Sea", coast("Tunis"))

	// Irish Sea
	fleet("Irish Sea", coast("Liverpool"))
	fleet("Irish Sea", coast("Wales"))

	// Mid-Atlantic Ocean
	fleet("Mid-Atlantic Ocean", coast("Brest"))
	fleet("Mid-Atlantic Ocean", coast("Gascony"))
	fleet("Mid-Atlantic Ocean", coast("North Africa"))
	fleet("Mid-Atlantic Ocean", coast("Portugal"))
	fleet("Mid-Atlantic Ocean", "Spain North Coast")
	fleet("Mid-Atlantic Ocean", "Spain South Coast")

	// North Atlantic Ocean
	fleet("North Atlantic Ocean", coast("Clyde"))
	fleet("North Atlantic Ocean", coast("Liverpool"))

	// North Sea
	fleet("North Sea", coast("Belgium"))
	fleet("North Sea", coast("Denmark"))
	fleet("North Sea", coast("Edinburgh"))
	fleet("North Sea", coast("Holland"))
	fleet("North Sea", coast("London"))
	fleet("North Sea", coast("Norway"))
	fleet("North Sea", coast("Yorkshire"))

	// Norwegian Sea
	fleet("Norwegian Sea", coast("Clyde"))
	fleet("Norwegian Sea", coast("Edinburgh"))
	fleet("Norwegian Sea", coast("Norway"))

	// Skagerrak
	fleet("Skagerrak", coast("Denmark"))
	fleet("Skagerrak", coast("Norway"))
	fleet("Skagerrak", coast("Sweden"))

	// Tyrrhenian Sea
	fleet("Tyrrhenian Sea", coast("Naples"))
	fleet("Tyrrhenian Sea", coast("Rome"))
	fleet("Tyrrhenian Sea", coast("Tunis"))
	fleet("Tyrrhenian Sea", coast("Tuscany"))

	// Western Mediterranean Sea
	fleet("Western Mediterranean Sea", coast("North Africa"))
	fleet("Western Mediterranean Sea", "Spain South Coast")
	fleet("Western Mediterranean Sea", coast("Tunis"))

	// ---- Inland to inland ----
	army("Bohemia", "Galicia")
	army("Bohemia", "Munich")
	army("Bohemia", "Silesia")
	army("Bohemia", "Tyrolia")
	army("Bohemia", "Vienna")
	army("Budapest", "Galicia")
	army("Budapest", "Vienna")
	army("Burgundy", "Munich")
	army("Burgundy", "Paris")
	army("Burgundy", "Ruhr")
	army("Galicia", "Silesia")
	army("Galicia", "Ukraine")
	army("Galicia", "Vienna")
	army("Galicia", "Warsaw")
	army("Moscow", "Ukraine")
	army("Moscow", "Warsaw")
	army("Munich", "Ruhr")
	army("Munich", "Silesia")
	army("Munich", "Tyrolia")
	army("Silesia", "Warsaw")
	army("Tyrolia", "Vienna")
	army("Ukraine", "Warsaw")

	// ---- Inland to coastal land ----
	army("Budapest", "Rumania")
	army("Budapest", "Serbia")
	army("Budapest", "Trieste")
	army("Burgundy", "Belgium")
	army("Burgundy", "Gascony")
	army("Burgundy", "Marseilles")
	army("Burgundy", "Picardy")
	army("Galicia", "Rumania")
	army("Gascony", "Marseilles")
	army("Moscow", "Livonia")
	army("Moscow", "Sevastopol")
	army("Moscow", "St. Petersburg")
	army("Munich", "Berlin")
	army("Munich", "Kiel")
	army("Paris", "Brest")
	army("Paris", "Gascony")
	army("Paris", "Picardy")
	army("Ruhr", "Belgium")
	army("Ruhr", "Holland")
	army("Ruhr", "Kiel")
	army("Serbia", "Albania")
	army("Serbia", "Bulgaria")
	army("Serbia", "Greece")
	army("Serbia", "Rumania")
	army("Serbia", "Trieste")
	army("Silesia", "Berlin")
	army("Silesia", "Prussia")
	army("Tyrolia", "Piedmont")
	army("Tyrolia", "Trieste")
	army("Tyrolia", "Venice")
	army("Ukraine", "Rumania")
	army("Ukraine", "Sevastopol")
	army("Vienna", "Trieste")
	army("Warsaw", "Livonia")
	army("Warsaw", "Prussia")

	// ---- Coastal neighbours sharing both a land border and a coastline ----
	both("Albania", "Greece")
	both("Albania", "Trieste")
	both("Ankara", "Armenia")
	both("Ankara", "Constantinople")
	both("Apulia", "Naples")
	both("Apulia", "Venice")
	both("Belgium", "Holland")
	both("Belgium", "Picardy")
	both("Berlin", "Kiel")
	both("Berlin", "Prussia")
	both("Brest", "Gascony")
	both("Brest", "Picardy")
	both("Clyde", "Edinburgh")
	both("Clyde", "Liverpool")
	both("Constantinople", "Smyrna")
	both("Denmark", "Kiel")
	both("Denmark", "Sweden")
	both("Edinburgh", "Yorkshire")
	both("Finland", "Sweden")
	both("Holland", "Kiel")
	both("London", "Wales")
	both("London", "Yorkshire")
	both("Liverpool", "Wales")
	both("Marseilles", "Piedmont")
	both("North Africa", "Tunis")
	both("Norway", "Sweden")
	both("Piedmont", "Tuscany")
	both("Prussia", "Livonia")
	both("Rome", "Naples")
	both("Rome", "Tuscany")
	both("Sevastopol", "Armenia")
	both("Sevastopol", "Rumania")
	both("Smyrna", "Syria")
	both("Trieste", "Venice")

	// Land border only; the coasts face different seas.
	army("Ankara", "Smyrna")
	army("Apulia", "Rome")
	army("Armenia", "Smyrna")
	army("Armenia", "Syria")
	army("Edinburgh", "Liverpool")
	army("Finland", "Norway")
	army("Liverpool", "Yorkshire")
	army("Piedmont", "Venice")
	army("Rome", "Venice")
	army("Tuscany", "Venice")
	army("Wales", "Yorkshire")

	// ---- Split coasts: coastline links ----
	fleet(coast("Constantinople"), "Bulgaria North Coast")
	fleet(coast("Constantinople"), "Bulgaria South Coast")
	fleet(coast("Greece"), "Bulgaria South Coast")
	fleet(coast("Rumania"), "Bulgaria North Coast")
	fleet(coast("Gascony"), "Spain North Coast")
	fleet(coast("Marseilles"), "Spain South Coast")
	fleet(coast("Portugal"), "Spain North Coast")
	fleet(coast("Portugal"), "Spain South Coast")
	fleet(coast("Finland"), "St. Petersburg South Coast")
	fleet(coast("Livonia"), "St. Petersburg South Coast")
	fleet(coast("Norway"), "St. Petersburg North Coast")

	// ---- Split coasts: land borders ----
	army("Constantinople", "Bulgaria")
	army("Greece", "Bulgaria")
	army("Rumania", "Bulgaria")
	army("Gascony", "Spain")
	army("Marseilles", "Spain")
	army("Portugal", "Spain")
	army("Finland", "St. Petersburg")
	army("Livonia", "St. Petersburg")
	army("Norway", "St. Petersburg")

	return adj
}

// VanillaSupplyCenters returns the 34 supply centers of the standard map.
func VanillaSupplyCenters() []string {
	scs := []string{
		"Ankara", "Belgium", "Berlin", "Brest", "Budapest", "Bulgaria",
		"Constantinople", "Denmark", "Edinburgh", "Greece", "Holland", "Kiel",
		"Liverpool", "London", "Marseilles", "Moscow", "Munich", "Naples",
		"Norway", "Paris", "Portugal", "Rome", "Rumania", "Serbia", "Sevastopol",
		"Smyrna", "Spain", "St. Petersburg", "Sweden", "Trieste", "Tunis",
		"Venice", "Vienna", "Warsaw",
	}
	sort.Strings(scs)
	return scs
}

// VanillaHomeCenters returns each player's home supply centers.
func VanillaHomeCenters() map[string][]string {
	return map[string][]string{
		Austria: {"Budapest", "Trieste", "Vienna"},
		England: {"Edinburgh", "Liverpool", "London"},
		France:  {"Brest", "Marseilles", "Paris"},
		Germany: {"Berlin", "Kiel", "Munich"},
		Italy:   {"Naples", "Rome", "Venice"},
		Russia:  {"Moscow", "Sevastopol", "St. Petersburg", "Warsaw"},
		Turkey:  {"Ankara", "Constantinople", "Smyrna"},
	}
}

// VanillaStartingUnits returns the spring 1901 position.
func VanillaStartingUnits() map[string][]Unit {
	return map[string][]Unit{
		Austria: {{Army, "Budapest"}, {Fleet, "Trieste Coast"}, {Army, "Vienna"}},
		England: {{Fleet, "Edinburgh Coast"}, {Army, "Liverpool"}, {Fleet, "London Coast"}},
		France:  {{Fleet, "Brest Coast"}, {Army, "Marseilles"}, {Army, "Paris"}},
		Germany: {{Army, "Berlin"}, {Fleet, "Kiel Coast"}, {Army, "Munich"}},
		Italy:   {{Fleet, "Naples Coast"}, {Army, "Rome"}, {Army, "Venice"}},
		Russia:  {{Army, "Moscow"}, {Fleet, "Sevastopol Coast"}, {Fleet, "St. Petersburg South Coast"}, {Army, "Warsaw"}},
		Turkey:  {{Fleet, "Ankara Coast"}, {Army, "Constantinople"}, {Army, "Smyrna"}},
	}
}
