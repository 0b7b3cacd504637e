package diplomacy

import "fmt"

// Phase identifies which part of a game turn an order belongs to.
type Phase int

const (
	MovementPhase Phase = iota
	RetreatPhase
	AdjustmentPhase
)

func (p Phase) String() string {
	switch p {
	case MovementPhase:
		return "movement"
	case RetreatPhase:
		return "retreat"
	case AdjustmentPhase:
		return "adjustment"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "movement":
		return MovementPhase, nil
	case "retreat":
		return RetreatPhase, nil
	case "adjustment":
		return AdjustmentPhase, nil
	}
	return MovementPhase, fmt.Errorf("unknown phase %q", s)
}

// Order is an order issued by a player to one unit. Orders are only created
// through Player, which checks them against the board.
type Order interface {
	Issuer() string
	OrderedUnit() Unit
	Phase() Phase
	String() string
}

// MovementOrder is one of Hold, Move, Support, ConvoyMove or ConvoyTransport.
type MovementOrder interface {
	Order
	movementOrder()
}

// RetreatOrder is one of RetreatMove or RetreatDisband.
type RetreatOrder interface {
	Order
	retreatOrder()
}

// AdjustmentOrder is one of Build or Disband.
type AdjustmentOrder interface {
	Order
	adjustmentOrder()
}

type issued struct {
	Player string
	Unit   Unit
}

func (o issued) Issuer() string    { return o.Player }
func (o issued) OrderedUnit() Unit { return o.Unit }

// Hold keeps a unit in place.
type Hold struct{ issued }

// Move sends a unit to an adjacent territory.
type Move struct {
	issued
	Destination string
}

// Support adds strength to another unit's move into Destination, or to its
// hold when Destination is the supported unit's own territory.
type Support struct {
	issued
	Supported   Unit
	Destination string
}

// ConvoyMove sends an army across a chain of convoying fleets.
type ConvoyMove struct {
	issued
	Destination string
}

// ConvoyTransport is a fleet's part in carrying Transported to Destination.
type ConvoyTransport struct {
	issued
	Transported Unit
	Destination string
}

// RetreatMove relocates a dislodged unit to one of its retreat options.
type RetreatMove struct {
	issued
	Destination string
}

// RetreatDisband removes a dislodged unit.
type RetreatDisband struct{ issued }

// Build places a new unit, given as Unit, on a home supply center.
type Build struct{ issued }

// Disband removes a unit during adjustments.
type Disband struct{ issued }

func (Hold) Phase() Phase            { return MovementPhase }
func (Move) Phase() Phase            { return MovementPhase }
func (Support) Phase() Phase         { return MovementPhase }
func (ConvoyMove) Phase() Phase      { return MovementPhase }
func (ConvoyTransport) Phase() Phase { return MovementPhase }
func (RetreatMove) Phase() Phase     { return RetreatPhase }
func (RetreatDisband) Phase() Phase  { return RetreatPhase }
func (Build) Phase() Phase           { return AdjustmentPhase }
func (Disband) Phase() Phase         { return AdjustmentPhase }

func (Hold) movementOrder()            {}
func (Move) movementOrder()            {}
func (Support) movementOrder()         {}
func (ConvoyMove) movementOrder()      {}
func (ConvoyTransport) movementOrder() {}
func (RetreatMove) retreatOrder()      {}
func (RetreatDisband) retreatOrder()   {}
func (Build) adjustmentOrder()         {}
func (Disband) adjustmentOrder()       {}

func (o Hold) String() string { return o.Unit.String() + " H" }

func (o Move) String() string { return o.Unit.String() + " - " + o.Destination }

func (o Support) String() string {
	if o.Destination == o.Supported.Position {
		return fmt.Sprintf("%s S %s", o.Unit, o.Supported)
	}
	return fmt.Sprintf("%s S %s - %s", o.Unit, o.Supported, o.Destination)
}

func (o ConvoyMove) String() string {
	return o.Unit.String() + " - " + o.Destination + " via convoy"
}

func (o ConvoyTransport) String() string {
	return fmt.Sprintf("%s C %s - %s", o.Unit, o.Transported, o.Destination)
}

func (o RetreatMove) String() string    { return o.Unit.String() + " - " + o.Destination }
func (o RetreatDisband) String() string { return o.Unit.String() + " Disband" }
func (o Build) String() string          { return "Build " + o.Unit.String() }
func (o Disband) String() string        { return "Disband " + o.Unit.String() }
