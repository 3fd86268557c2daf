package uvstorage

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by errors caused by missing configuration
	ErrConfiguration = errors.New("configuration error")
	// ErrConnectionInit is matched by errors from constructing the storage handles
	ErrConnectionInit = errors.New("connection initialization error")
	// ErrObjectNotFound is returned when a key does not exist in a bucket
	ErrObjectNotFound = errors.New("object not found")
)

// EnvVarMissingError is returned when a required credential variable is unset or empty.
type EnvVarMissingError struct {
	Name string
}

func (e *EnvVarMissingError) Error() string {
	return fmt.Sprintf("environment variable '%s' is not set", e.Name)
}

func (e *EnvVarMissingError) Unwrap() error {
	return ErrConfiguration
}

// ConnectionInitError wraps a failure from the handle factory.
type ConnectionInitError struct {
	Region string
	Cause  error
}

func (e *ConnectionInitError) Error() string {
	return fmt.Sprintf("failed to initialize S3 client or resource (region %s): %v", e.Region, e.Cause)
}

func (e *ConnectionInitError) Unwrap() error {
	return e.Cause
}

func (e *ConnectionInitError) Is(target error) bool {
	return target == ErrConnectionInit
}
