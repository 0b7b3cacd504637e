package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

const supportedAttack = `
phase: movement
units:
  France: [A Paris, A Picardy]
  Germany: [A Burgundy]
orders:
  France:
    - A Paris - Burgundy
    - A Picardy S A Paris - Burgundy
`

func TestResolveMovement(t *testing.T) {
	svc := NewAdjudicationService(diplomacy.Vanilla(), nil, 1)
	got, err := svc.Resolve(context.Background(), decode(t, supportedAttack))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Phase != "movement" {
		t.Errorf("expected movement, got %s", got.Phase)
	}
	if want := []string{"A Burgundy", "A Picardy"}; !slices.Equal(got.Units["France"], want) {
		t.Errorf("French units = %v, want %v", got.Units["France"], want)
	}
	o, ok := got.Resolution["Germany"]["A Burgundy"]
	if !ok || !o.Dislodged {
		t.Fatalf("A Burgundy should be dislodged: %+v", got.Resolution)
	}
	want := []string{"Belgium", "Gascony", "Marseilles", "Munich", "Ruhr"}
	if !slices.Equal(o.Retreats, want) {
		t.Errorf("retreats = %v, want %v", o.Retreats, want)
	}
	if got.Cached {
		t.Error("first resolution should not be cached")
	}
}

func TestResolveUsesCache(t *testing.T) {
	cache := newMockCache()
	svc := NewAdjudicationService(diplomacy.Vanilla(), cache, 1)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, decode(t, supportedAttack))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Resolve(ctx, decode(t, supportedAttack))
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second resolution should come from the cache")
	}
	if cache.sets != 1 {
		t.Errorf("expected 1 cache write, got %d", cache.sets)
	}
	if !slices.Equal(first.Units["France"], second.Units["France"]) {
		t.Errorf("cached units differ: %v vs %v", first.Units, second.Units)
	}
	if o := second.Resolution["Germany"]["A Burgundy"]; !o.Dislodged || len(o.Retreats) != 5 {
		t.Errorf("cached outcome lost: %+v", o)
	}
}

func TestResolveCacheFailureFallsThrough(t *testing.T) {
	cache := newMockCache()
	cache.failGet, cache.failSet = true, true
	svc := NewAdjudicationService(diplomacy.Vanilla(), cache, 1)

	got, err := svc.Resolve(context.Background(), decode(t, supportedAttack))
	if err != nil {
		t.Fatalf("cache failures should not fail resolution: %v", err)
	}
	if got.Cached || len(got.Units["France"]) != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestResolveRetreat(t *testing.T) {
	svc := NewAdjudicationService(diplomacy.Vanilla(), nil, 1)
	got, err := svc.Resolve(context.Background(), decode(t, `
phase: retreat
units:
  France: [A Burgundy, A Picardy]
retreats:
  Germany:
    A Burgundy: [Belgium, Munich]
orders:
  Germany: [A Burgundy - Munich]
`))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := []string{"A Munich"}; !slices.Equal(got.Units["Germany"], want) {
		t.Errorf("German units = %v, want %v", got.Units["Germany"], want)
	}
	if got.Resolution != nil {
		t.Error("retreat results carry no resolution")
	}
}

const overextended = `
phase: adjustment
strict: %s
units:
  France: [A Paris, A Picardy]
ownership:
  France: [Paris]
orders:
  France:
    - Disband A Picardy
    - Disband A Picardy
`

func TestResolveAdjustmentStrictness(t *testing.T) {
	svc := NewAdjudicationService(diplomacy.Vanilla(), nil, 1)
	ctx := context.Background()

	lenient, err := svc.Resolve(ctx, decode(t, fmt.Sprintf(overextended, "false")))
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if len(lenient.Units["France"]) != 1 {
		t.Errorf("France should keep one unit, got %v", lenient.Units["France"])
	}
	if lenient.Adjustments["France"] != -1 {
		t.Errorf("expected France to owe one disband, got %d", lenient.Adjustments["France"])
	}
	if !slices.Equal(lenient.Ownership["France"], []string{"Paris"}) {
		t.Errorf("unexpected ownership %v", lenient.Ownership)
	}

	_, err = svc.Resolve(ctx, decode(t, fmt.Sprintf(overextended, "true")))
	if !errors.Is(err, ErrAdjudication) || !errors.Is(err, diplomacy.ErrDuplicateDisband) {
		t.Errorf("expected a wrapped ErrDuplicateDisband, got %v", err)
	}
}

func TestResolveErrors(t *testing.T) {
	svc := NewAdjudicationService(diplomacy.Vanilla(), nil, 1)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, decode(t, `
phase: movement
units:
  France: [A Paris]
orders:
  France: [A Paris H, A Paris - Burgundy]
`))
	if !errors.Is(err, ErrAdjudication) || !errors.Is(err, diplomacy.ErrDuplicateOrder) {
		t.Errorf("expected a structural error, got %v", err)
	}

	_, err = svc.Resolve(ctx, decode(t, `
phase: movement
units:
  France: [A Paris]
orders:
  France: [A Paris - London]
`))
	var se *scenario.Error
	if !errors.As(err, &se) || errors.Is(err, ErrAdjudication) {
		t.Errorf("expected a scenario error, got %v", err)
	}
}

func TestCacheKey(t *testing.T) {
	a, err := CacheKey(decode(t, supportedAttack))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := CacheKey(decode(t, supportedAttack))
	if a != b || len(a) != 64 {
		t.Errorf("expected equal 64-char keys, got %q and %q", a, b)
	}
	other := decode(t, supportedAttack)
	other.Orders["France"] = other.Orders["France"][:1]
	c, _ := CacheKey(other)
	if c == a {
		t.Error("different orders should change the key")
	}
}
