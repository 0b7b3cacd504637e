package diplomacy

import (
	"errors"
	"fmt"
)

// Structural errors. They indicate an inconsistent order set rather than an
// illegal order; the phase call that returns one applies nothing.
var (
	ErrUnknownTerritory = errors.New("unknown territory")
	ErrDuplicateOrder   = errors.New("more than one order for a unit")
	ErrRetreatMismatch  = errors.New("retreat orders do not match retreat obligations")
	ErrDisbandCount     = errors.New("wrong number of disbands")
	ErrDuplicateDisband = errors.New("unit disbanded more than once")
	ErrUnknownUnit      = errors.New("no such unit")
	ErrBuildCount       = errors.New("too many builds")
)

// ValidationError describes why an order could not be issued.
type ValidationError struct {
	Player  string
	Unit    Unit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order for %s %s: %s", e.Player, e.Unit, e.Message)
}
