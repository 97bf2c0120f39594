package reflexpong

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHardware = errors.New("missing hardware collaborator")
	ErrHardwareInit    = errors.New("hardware initialization failed")
	ErrNotInitialized  = errors.New("engine not initialized")
)

// HardwareError names the peripheral an error came from.
type HardwareError struct {
	Component string
	Err       error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *HardwareError) Unwrap() error {
	return e.Err
}
