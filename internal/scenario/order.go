package scenario

import (
	"fmt"
	"strings"

	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

// OrderKind is the shape of a parsed order string.
type OrderKind int

const (
	HoldOrder OrderKind = iota
	MoveOrder
	SupportOrder
	ConvoyMoveOrder
	ConvoyTransportOrder
	RetreatMoveOrder
	RetreatDisbandOrder
	BuildOrder
	DisbandOrder
)

var orderKindNames = [...]string{
	HoldOrder:            "hold",
	MoveOrder:            "move",
	SupportOrder:         "support",
	ConvoyMoveOrder:      "convoy move",
	ConvoyTransportOrder: "convoy transport",
	RetreatMoveOrder:     "retreat move",
	RetreatDisbandOrder:  "retreat disband",
	BuildOrder:           "build",
	DisbandOrder:         "disband",
}

func (k OrderKind) String() string {
	if int(k) < len(orderKindNames) {
		return orderKindNames[k]
	}
	return "unknown"
}

// ParsedOrder is an order string split into its parts. Target is the
// supported or transported unit; Destination is empty for holds and disbands.
// A hold support has Destination equal to Target.Position.
type ParsedOrder struct {
	Kind        OrderKind
	Unit        diplomacy.Unit
	Target      diplomacy.Unit
	Destination string
}

const viaConvoy = " via convoy"

// ParseOrder parses one order in the notation used by Order.String:
//
//	movement:   "A Paris H", "A Paris - Burgundy", "A Belgium - London via convoy",
//	            "A Munich S A Paris - Burgundy", "A Ruhr S A Munich",
//	            "F English Channel C A Belgium - London"
//	retreat:    "F Ionian Sea - Tyrrhenian Sea", "A Vienna Disband"
//	adjustment: "Build A Paris", "Disband F Brest Coast"
//
// Territory names are not checked against a map here.
func ParseOrder(phase diplomacy.Phase, s string) (ParsedOrder, error) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ParsedOrder{}, fmt.Errorf("empty order")
	}
	var (
		p   ParsedOrder
		err error
	)
	switch phase {
	case diplomacy.MovementPhase:
		p, err = parseMovement(s)
	case diplomacy.RetreatPhase:
		p, err = parseRetreat(s)
	case diplomacy.AdjustmentPhase:
		p, err = parseAdjustment(s)
	default:
		err = fmt.Errorf("unknown phase %v", phase)
	}
	if err != nil {
		return ParsedOrder{}, fmt.Errorf("order %q: %w", s, err)
	}
	return p, nil
}

func parseMovement(s string) (ParsedOrder, error) {
	if unit, rest, ok := cutWord(s, "S"); ok {
		return parseSupport(unit, rest)
	}
	if unit, rest, ok := cutWord(s, "C"); ok {
		u, err := diplomacy.ParseUnit(unit)
		if err != nil {
			return ParsedOrder{}, err
		}
		target, dest, ok := strings.Cut(rest, " - ")
		if !ok {
			return ParsedOrder{}, fmt.Errorf("convoy needs a destination")
		}
		t, err := diplomacy.ParseUnit(target)
		if err != nil {
			return ParsedOrder{}, err
		}
		return ParsedOrder{Kind: ConvoyTransportOrder, Unit: u, Target: t, Destination: dest}, nil
	}
	if unit, dest, ok := strings.Cut(s, " - "); ok {
		kind := MoveOrder
		if trimmed, found := strings.CutSuffix(dest, viaConvoy); found {
			kind, dest = ConvoyMoveOrder, trimmed
		}
		u, err := diplomacy.ParseUnit(unit)
		if err != nil {
			return ParsedOrder{}, err
		}
		return ParsedOrder{Kind: kind, Unit: u, Destination: dest}, nil
	}
	for _, suffix := range []string{" H", " Hold"} {
		if unit, ok := cutSuffixFold(s, suffix); ok {
			u, err := diplomacy.ParseUnit(unit)
			if err != nil {
				return ParsedOrder{}, err
			}
			return ParsedOrder{Kind: HoldOrder, Unit: u}, nil
		}
	}
	return ParsedOrder{}, fmt.Errorf("unrecognized movement order")
}

func parseSupport(unit, rest string) (ParsedOrder, error) {
	u, err := diplomacy.ParseUnit(unit)
	if err != nil {
		return ParsedOrder{}, err
	}
	target, dest, isMove := strings.Cut(rest, " - ")
	t, err := diplomacy.ParseUnit(target)
	if err != nil {
		return ParsedOrder{}, err
	}
	if !isMove {
		dest = t.Position
	}
	return ParsedOrder{Kind: SupportOrder, Unit: u, Target: t, Destination: dest}, nil
}

func parseRetreat(s string) (ParsedOrder, error) {
	if unit, ok := cutSuffixFold(s, " Disband"); ok {
		u, err := diplomacy.ParseUnit(unit)
		if err != nil {
			return ParsedOrder{}, err
		}
		return ParsedOrder{Kind: RetreatDisbandOrder, Unit: u}, nil
	}
	unit, dest, ok := strings.Cut(s, " - ")
	if !ok {
		return ParsedOrder{}, fmt.Errorf("unrecognized retreat order")
	}
	u, err := diplomacy.ParseUnit(unit)
	if err != nil {
		return ParsedOrder{}, err
	}
	return ParsedOrder{Kind: RetreatMoveOrder, Unit: u, Destination: dest}, nil
}

func parseAdjustment(s string) (ParsedOrder, error) {
	verb, unit, _ := strings.Cut(s, " ")
	var kind OrderKind
	switch strings.ToLower(verb) {
	case "build":
		kind = BuildOrder
	case "disband":
		kind = DisbandOrder
	default:
		return ParsedOrder{}, fmt.Errorf("adjustment orders start with Build or Disband")
	}
	u, err := diplomacy.ParseUnit(unit)
	if err != nil {
		return ParsedOrder{}, err
	}
	return ParsedOrder{Kind: kind, Unit: u}, nil
}

// cutWord splits s around the first standalone occurrence of word.
func cutWord(s, word string) (before, after string, found bool) {
	before, after, found = strings.Cut(s, " "+word+" ")
	return
}

func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)], true
	}
	return "", false
}

// Movement issues a parsed movement order through p.
func (o ParsedOrder) Movement(p *diplomacy.Player) (diplomacy.MovementOrder, error) {
	switch o.Kind {
	case HoldOrder:
		return p.Hold(o.Unit)
	case MoveOrder:
		return p.Move(o.Unit, o.Destination)
	case SupportOrder:
		return p.Support(o.Unit, o.Target, o.Destination)
	case ConvoyMoveOrder:
		return p.ConvoyMove(o.Unit, o.Destination)
	case ConvoyTransportOrder:
		return p.ConvoyTransport(o.Unit, o.Target, o.Destination)
	}
	return nil, fmt.Errorf("%s is not a movement order", o.Kind)
}

// Retreat issues a parsed retreat order through p.
func (o ParsedOrder) Retreat(p *diplomacy.Player, obligations diplomacy.Resolution) (diplomacy.RetreatOrder, error) {
	switch o.Kind {
	case RetreatMoveOrder:
		return p.RetreatMove(obligations, o.Unit, o.Destination)
	case RetreatDisbandOrder:
		return p.RetreatDisband(obligations, o.Unit)
	}
	return nil, fmt.Errorf("%s is not a retreat order", o.Kind)
}

// Adjustment issues a parsed adjustment order through p.
func (o ParsedOrder) Adjustment(p *diplomacy.Player, own *diplomacy.OwnershipMap) (diplomacy.AdjustmentOrder, error) {
	switch o.Kind {
	case BuildOrder:
		return p.Build(own, o.Unit)
	case DisbandOrder:
		return p.Disband(o.Unit)
	}
	return nil, fmt.Errorf("%s is not an adjustment order", o.Kind)
}
