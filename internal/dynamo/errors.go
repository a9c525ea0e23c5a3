package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for system setup and stepping.
var (
	// ErrInvalidStep indicates a non-positive or non-finite time step.
	ErrInvalidStep = errors.New("dynamo: time step must be positive")

	// ErrBodyNotAdded indicates a link references a body that is not part of the system.
	ErrBodyNotAdded = errors.New("dynamo: body not added to system")

	// ErrLinkNotInitialized indicates a link was added before Initialize.
	ErrLinkNotInitialized = errors.New("dynamo: link not initialized")

	// ErrOutOfPlane indicates a position, velocity or anchor leaves the XY motion plane.
	ErrOutOfPlane = errors.New("dynamo: value leaves the motion plane")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDuplicate indicates an item was added to the system twice.
	ErrDuplicate = errors.New("dynamo: item already added")

	// ErrInvalidState indicates the engine produced NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrOutputDir indicates the output directory could not be created.
	ErrOutputDir = errors.New("dynamo: cannot create output directory")

	// ErrTemplate indicates the POV-Ray template could not be read.
	ErrTemplate = errors.New("dynamo: cannot read template")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
