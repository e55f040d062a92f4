package supervisor

import (
	"errors"
	"fmt"
)

// SpawnReason tells why a spawned server could not be used.
type SpawnReason string

const (
	// ReasonStart means the command could not be started at all.
	ReasonStart SpawnReason = "start"
	// ReasonTimeout means the server did not become ready in time.
	ReasonTimeout SpawnReason = "timeout"
	// ReasonExited means the process exited before it became ready.
	ReasonExited SpawnReason = "exited"
)

// SpawnError is returned by SpawnAndWait when a spawned server is unusable.
type SpawnError struct {
	Name   string
	Reason SpawnReason
	Err    error
}

func (e *SpawnError) Error() string {
	switch e.Reason {
	case ReasonTimeout:
		return fmt.Sprintf("server %s did not become ready: %v", e.Name, e.Err)
	case ReasonExited:
		return fmt.Sprintf("server %s exited before becoming ready: %v", e.Name, e.Err)
	default:
		return fmt.Sprintf("failed to start server %s: %v", e.Name, e.Err)
	}
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsSpawnTimeout reports whether err is a SpawnError caused by the ready
// timeout.
func IsSpawnTimeout(err error) bool {
	var se *SpawnError
	return errors.As(err, &se) && se.Reason == ReasonTimeout
}

// ProbeError is returned when a server's catalog cannot be fetched.
type ProbeError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ProbeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("probe %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("probe %s: %v", e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// IsProbeError checks if an error is a ProbeError.
func IsProbeError(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe)
}
