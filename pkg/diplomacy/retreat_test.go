package diplomacy

import (
	"errors"
	"slices"
	"testing"
)

// twoDislodged produces a position where France loses Burgundy and Picardy
// and both units could retreat to Paris.
func twoDislodged(t *testing.T) (Resolution, map[string]*Player) {
	t.Helper()
	tr := newTurn(t, map[string][]string{
		France:  {"A Burgundy", "A Picardy"},
		Germany: {"A Ruhr", "A Munich"},
		England: {"A Belgium", "F English Channel"},
	})
	tr.hold(France, "A Burgundy")
	tr.hold(France, "A Picardy")
	tr.move(Germany, "A Ruhr", "Burgundy")
	tr.support(Germany, "A Munich", "A Ruhr", "Burgundy")
	tr.move(England, "A Belgium", "Picardy")
	tr.support(England, "F English Channel", "A Belgium", "Picardy")
	res := tr.resolve()

	for _, u := range []string{"A Burgundy", "A Picardy"} {
		o := res[France][mustUnit(t, u)]
		if !o.Dislodged || !slices.Contains(o.Retreats, "Paris") {
			t.Fatalf("%s: expected dislodged with Paris open, got %+v\n%s", u, o, res)
		}
	}
	return res, tr.players
}

func TestResolveRetreats(t *testing.T) {
	res, players := twoDislodged(t)
	france := players[France]
	bur, pic := mustUnit(t, "A Burgundy"), mustUnit(t, "A Picardy")

	retreat := func(u Unit, dest string) RetreatOrder {
		o, err := france.RetreatMove(res, u, dest)
		if err != nil {
			t.Fatal(err)
		}
		return o
	}
	disband := func(u Unit) RetreatOrder {
		o, err := france.RetreatDisband(res, u)
		if err != nil {
			t.Fatal(err)
		}
		return o
	}

	tests := []struct {
		name   string
		orders []RetreatOrder
		want   []Unit
	}{
		{
			name:   "separate destinations",
			orders: []RetreatOrder{retreat(bur, "Gascony"), retreat(pic, "Paris")},
			want:   []Unit{{Army, "Gascony"}, {Army, "Paris"}},
		},
		{
			name:   "collision disbands both",
			orders: []RetreatOrder{retreat(bur, "Paris"), retreat(pic, "Paris")},
			want:   []Unit{},
		},
		{
			name:   "disband order",
			orders: []RetreatOrder{disband(bur), retreat(pic, "Paris")},
			want:   []Unit{{Army, "Paris"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRetreats(Vanilla(), res, tt.orders)
			if err != nil {
				t.Fatalf("ResolveRetreats: %v", err)
			}
			if !slices.Equal(got[France], tt.want) {
				t.Errorf("France: got %v, want %v", got[France], tt.want)
			}
			// Units that were not dislodged pass through untouched.
			if len(got[Germany]) != 2 || len(got[England]) != 2 {
				t.Errorf("other players changed: %v", got)
			}
		})
	}
}

func TestResolveRetreatsMismatch(t *testing.T) {
	res, players := twoDislodged(t)
	france := players[France]
	o, err := france.RetreatDisband(res, mustUnit(t, "A Burgundy"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("missing order", func(t *testing.T) {
		_, err := ResolveRetreats(Vanilla(), res, []RetreatOrder{o})
		if !errors.Is(err, ErrRetreatMismatch) {
			t.Fatalf("expected ErrRetreatMismatch, got %v", err)
		}
	})
	t.Run("duplicate order", func(t *testing.T) {
		_, err := ResolveRetreats(Vanilla(), res, []RetreatOrder{o, o})
		if !errors.Is(err, ErrDuplicateOrder) {
			t.Fatalf("expected ErrDuplicateOrder, got %v", err)
		}
	})
	t.Run("unit without obligation", func(t *testing.T) {
		stale := Resolution{France: {mustUnit(t, "A Picardy"): dislodged("Paris")}}
		_, err := ResolveRetreats(Vanilla(), stale, []RetreatOrder{o})
		if !errors.Is(err, ErrRetreatMismatch) {
			t.Fatalf("expected ErrRetreatMismatch, got %v", err)
		}
	})
}

func TestRetreatOrderRejectedOutsideOptions(t *testing.T) {
	res, players := twoDislodged(t)
	france := players[France]

	if _, err := france.RetreatMove(res, mustUnit(t, "A Burgundy"), "Ruhr"); err == nil {
		t.Error("retreat into the attacker's origin should be rejected")
	}
	if _, err := france.RetreatMove(res, mustUnit(t, "A Paris"), "Gascony"); err == nil {
		t.Error("retreat for a unit that was not dislodged should be rejected")
	}
}

func TestRetreatCollisionAcrossCoasts(t *testing.T) {
	obligations := Resolution{
		France: {mustUnit(t, "F Mid-Atlantic Ocean"): dislodged("Spain North Coast")},
		Italy:  {mustUnit(t, "F Western Mediterranean Sea"): dislodged("Spain South Coast")},
	}
	m := Vanilla()
	france, err := NewPlayer(France, m, unitsOf(t, "F Mid-Atlantic Ocean"))
	if err != nil {
		t.Fatal(err)
	}
	italy, err := NewPlayer(Italy, m, unitsOf(t, "F Western Mediterranean Sea"))
	if err != nil {
		t.Fatal(err)
	}
	a, err := france.RetreatMove(obligations, mustUnit(t, "F Mid-Atlantic Ocean"), "Spain North Coast")
	if err != nil {
		t.Fatal(err)
	}
	b, err := italy.RetreatMove(obligations, mustUnit(t, "F Western Mediterranean Sea"), "Spain South Coast")
	if err != nil {
		t.Fatal(err)
	}

	got, err := ResolveRetreats(m, obligations, []RetreatOrder{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(got[France]) != 0 || len(got[Italy]) != 0 {
		t.Errorf("both fleets should be disbanded, got %v", got)
	}
}
