package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps connection and transport failures of the KV store.
	ErrStoreUnavailable = errors.New("plan index store unavailable")
	// ErrDetailNotFound means a detail record expired or was never written.
	ErrDetailNotFound = errors.New("plan detail not found")
	// ErrInvalidWindow is returned for inverted or empty query windows.
	ErrInvalidWindow = errors.New("invalid query window")
	// ErrInvalidEntryKey is returned for keys that cannot round-trip through a member string.
	ErrInvalidEntryKey = errors.New("invalid entry key")
)

// IndexWriteError reports that the write path could not index an entity that
// was already persisted. Callers may retry indexing without re-persisting.
type IndexWriteError struct {
	Key EntryKey
	Op  string
	Err error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("index write %s for %s: %v", e.Op, e.Key, e.Err)
}

func (e *IndexWriteError) Unwrap() error {
	return e.Err
}

// SerializationError reports a detail record that could not be encoded or decoded.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("detail serialization for %s: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
