package diplomacy

import (
	"errors"
	"testing"
)

func mustPlayer(t *testing.T, name string, units ...string) *Player {
	t.Helper()
	p, err := NewPlayer(name, Vanilla(), unitsOf(t, units...))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return p
}

func expectInvalid(t *testing.T, err error) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		name  string
		units []string
		ok    bool
	}{
		{"no units", nil, true},
		{"army on land", []string{"A Paris"}, true},
		{"fleet on coast", []string{"F Brest Coast"}, true},
		{"fleet at sea", []string{"F North Sea"}, true},
		{"army at sea", []string{"A North Sea"}, false},
		{"army on coast", []string{"A Brest Coast"}, false},
		{"fleet on land", []string{"F Brest"}, false},
		{"unknown territory", []string{"A Atlantis"}, false},
		{"two units on one territory", []string{"A Spain", "F Spain North Coast"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayer(France, Vanilla(), unitsOf(t, tt.units...))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected error")
			}
			if tt.ok && len(p.Units()) != len(tt.units) {
				t.Errorf("got %d units, want %d", len(p.Units()), len(tt.units))
			}
		})
	}
}

func TestPlayerUnitsIsACopy(t *testing.T) {
	p := mustPlayer(t, France, "A Paris")
	p.Units()[0] = Unit{Army, "Burgundy"}
	if !p.Has(Unit{Army, "Paris"}) {
		t.Error("Units() must not expose internal state")
	}
}

func TestMoveOrders(t *testing.T) {
	tests := []struct {
		name string
		unit string
		dest string
		ok   bool
	}{
		{"not adjacent", "A Moscow", "Sevastopol Coast", false},
		{"army into sea", "A Livonia", "Baltic Sea", false},
		{"fleet inland", "F Sevastopol Coast", "Moscow", false},
		{"land to land", "A Paris", "Brest", true},
		{"sea to sea", "F North Sea", "Norwegian Sea", true},
		{"sea to coast", "F Adriatic Sea", "Trieste Coast", true},
		{"coast to coast", "F Spain North Coast", "Portugal Coast", true},
		{"around a coast", "F Spain North Coast", "Marseilles Coast", false},
		{"unknown territory", "A Paris", "Atlantis", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPlayer(t, Russia, tt.unit)
			o, err := p.Move(mustUnit(t, tt.unit), tt.dest)
			if !tt.ok {
				expectInvalid(t, err)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if o.Destination != tt.dest || o.Issuer() != Russia {
				t.Errorf("got %+v", o)
			}
		})
	}
}

func TestOrdersRequireOwnUnit(t *testing.T) {
	p := mustPlayer(t, France, "A Paris")
	stranger := Unit{Army, "Burgundy"}
	_, err := p.Hold(stranger)
	expectInvalid(t, err)
	_, err = p.Move(stranger, "Paris")
	expectInvalid(t, err)
	_, err = p.Disband(stranger)
	expectInvalid(t, err)
}

func TestSupportOrders(t *testing.T) {
	tests := []struct {
		name      string
		supporter string
		supported string
		dest      string
		ok        bool
	}{
		{"destination not adjacent", "A Trieste", "A Budapest", "Galicia", false},
		{"fleet into landlocked territory", "F Rumania Coast", "A Serbia", "Budapest", false},
		{"supported unit not adjacent", "A Paris", "A Ruhr", "Burgundy", true},
		{"supported unit adjacent", "A Tuscany", "A Rome", "Venice", true},
		{"fleet into land through its coast", "F Gulf of Lyon", "A Tuscany", "Piedmont", true},
		{"army into a coast through its land", "A Finland", "F Baltic Sea", "Sweden Coast", true},
		{"fleet into a land from the sea", "F Norwegian Sea", "A Norway", "Edinburgh", true},
		{"hold support", "A Paris", "A Burgundy", "Burgundy", true},
		{"self support", "A Paris", "A Paris", "Paris", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPlayer(t, France, tt.supporter)
			o, err := p.Support(mustUnit(t, tt.supporter), mustUnit(t, tt.supported), tt.dest)
			if !tt.ok {
				expectInvalid(t, err)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if o.Supported != mustUnit(t, tt.supported) || o.Destination != tt.dest {
				t.Errorf("got %+v", o)
			}
		})
	}
}

func TestConvoyMoveOrders(t *testing.T) {
	tests := []struct {
		name string
		unit string
		dest string
		ok   bool
	}{
		{"fleet cannot be convoyed", "F Finland Coast", "Sweden Coast", false},
		{"landlocked destination", "A Brest", "Paris", false},
		{"landlocked origin", "A Paris", "London", false},
		{"same territory", "A Brest", "Brest", false},
		{"coastal to coastal", "A Brest", "Tunis", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPlayer(t, France, tt.unit)
			_, err := p.ConvoyMove(mustUnit(t, tt.unit), tt.dest)
			if !tt.ok {
				expectInvalid(t, err)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestConvoyTransportOrders(t *testing.T) {
	tests := []struct {
		name        string
		fleet       string
		transported string
		dest        string
		ok          bool
	}{
		{"army cannot transport", "A Spain", "A Portugal", "Marseilles", false},
		{"fleet on a coast cannot transport", "F Spain South Coast", "A Portugal", "Tunis", false},
		{"cannot carry a fleet", "F Mid-Atlantic Ocean", "F Portugal Coast", "Tunis", false},
		{"landlocked origin", "F Tyrrhenian Sea", "A Paris", "Rome", false},
		{"landlocked destination", "F Mid-Atlantic Ocean", "A Portugal", "Warsaw", false},
		{"at sea", "F Western Mediterranean Sea", "A Spain", "Tunis", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPlayer(t, France, tt.fleet)
			o, err := p.ConvoyTransport(mustUnit(t, tt.fleet), mustUnit(t, tt.transported), tt.dest)
			if !tt.ok {
				expectInvalid(t, err)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if o.Transported != mustUnit(t, tt.transported) {
				t.Errorf("got %+v", o)
			}
		})
	}
}

func TestOrderStrings(t *testing.T) {
	p := mustPlayer(t, England, "F English Channel", "A Belgium", "A Wales")
	ch, bel, wal := Unit{Fleet, "English Channel"}, Unit{Army, "Belgium"}, Unit{Army, "Wales"}

	hold, _ := p.Hold(wal)
	move, _ := p.Move(bel, "Holland")
	convoy, _ := p.ConvoyMove(bel, "London")
	transport, _ := p.ConvoyTransport(ch, bel, "London")
	supMove, _ := p.Support(wal, Unit{Army, "Yorkshire"}, "London")
	supHold, _ := p.Support(wal, Unit{Army, "London"}, "London")
	disband, _ := p.Disband(wal)

	tests := []struct {
		order Order
		want  string
	}{
		{hold, "A Wales H"},
		{move, "A Belgium - Holland"},
		{convoy, "A Belgium - London via convoy"},
		{transport, "F English Channel C A Belgium - London"},
		{supMove, "A Wales S A Yorkshire - London"},
		{supHold, "A Wales S A London"},
		{disband, "Disband A Wales"},
	}
	for _, tt := range tests {
		if got := tt.order.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
