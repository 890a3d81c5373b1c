package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/orbitarena/internal/physics"
)

var (
	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")

	// ErrUnknownBody indicates a body id that does not exist in the controller.
	ErrUnknownBody = errors.New("sim: unknown body id")

	// ErrInvalidState indicates a body with NaN or Inf values after a tick.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrContainment indicates a body left the arena after boundary resolution.
	ErrContainment = errors.New("sim: body escaped the arena")

	// ErrPaused is returned by headless runs on a paused controller.
	ErrPaused = errors.New("sim: controller is paused")
)

func boundsError(param string, value float64, reason string) error {
	return fmt.Errorf("%w: %s=%g %s", ErrParameterBounds, param, value, reason)
}

// SimulationError wraps an invariant violation with the tick it occurred on.
type SimulationError struct {
	Step    int
	Time    float64
	Body    physics.ID
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
