package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySelection = errors.New("EMPTY_SELECTION")
	ErrLineNotFound   = errors.New("cart line not found")
	ErrStoreNotFound  = errors.New("store not in cart")
	ErrSessionExpired = errors.New("session expired")
	ErrNetworkFailure = errors.New("cart backend unavailable")
	ErrInvalidItem    = errors.New("invalid cart item")
)

// NetworkError describes a backend command or fetch that did not complete.
type NetworkError struct {
	Op      string
	StoreID string
	Status  int // zero when no HTTP response was received
	Err     error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString("cart backend ")
	b.WriteString(e.Op)
	if e.StoreID != "" {
		fmt.Fprintf(&b, " (store %s)", e.StoreID)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetworkFailure}
	}
	return []error{ErrNetworkFailure, e.Err}
}

// RemovalError reports the lines a bulk removal could not delete.
type RemovalError struct {
	Failed []string // line ids
	Err    error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("failed to remove %d line(s) [%s]: %v", len(e.Failed), strings.Join(e.Failed, ", "), e.Err)
}

func (e *RemovalError) Unwrap() error {
	return e.Err
}
