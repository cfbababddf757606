package services

import "fmt"

// ServiceError reports that a service cannot run with the current configuration
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

var (
	// ErrNoTournament is returned by stream services without a tournament slug
	ErrNoTournament = &ServiceError{Message: "no tournament slug configured"}
	// ErrNoPhase is logged when the bracket has no phase to fetch
	ErrNoPhase = &ServiceError{Message: "no phase id configured"}
)

// UnknownPoolError is returned when a pool id is not part of the current snapshot
type UnknownPoolError struct {
	Pool string
}

func (e *UnknownPoolError) Error() string {
	return fmt.Sprintf("pool %q is not in the current bracket", e.Pool)
}
