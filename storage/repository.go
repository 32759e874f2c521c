// Package storage persists the encoded form of wrappers as records.
package storage

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNamespaceNotFound is returned when a namespace holds no records.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrCASFailed is returned when a compare-and-swap version check fails.
	ErrCASFailed = errors.New("CAS version mismatch")
)

// Repository defines the interface for record storage. Records are
// addressed by namespace and name.
type Repository interface {
	Put(namespace string, name string, record *Record) error
	Get(namespace string, name string) (*Record, error)
	List(namespace string) ([]string, error)
	Delete(namespace string, name string) error
	// PutCAS writes record only if the stored version equals
	// expectedVersion. An expectedVersion of 0 means the record must not
	// exist yet.
	PutCAS(namespace string, name string, expectedVersion uint64, record *Record) error
}
