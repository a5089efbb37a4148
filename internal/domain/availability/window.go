package availability

import (
	"fmt"
	"time"
)

// Window is a query range in epoch seconds. From must be strictly before To.
type Window struct {
	From int64
	To   int64
}

// NewWindow validates and builds a Window from two instants.
func NewWindow(from, to time.Time) (Window, error) {
	return NewEpochWindow(from.Unix(), to.Unix())
}

// NewEpochWindow validates and builds a Window from epoch seconds.
func NewEpochWindow(from, to int64) (Window, error) {
	if from >= to {
		return Window{}, fmt.Errorf("%w: from %d is not before to %d", ErrInvalidWindow, from, to)
	}
	return Window{From: from, To: to}, nil
}

// Contains reports whether [start, end] lies inside the window with both
// edges inclusive. This is the match policy the index scans implement.
func (w Window) Contains(start, end int64) bool {
	return start >= w.From && end <= w.To
}
