package core

import "fmt"

// InitializationError reports that no rendering context could be created.
// It is fatal: the caller should surface it to the user and abort startup.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed (%s): %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
