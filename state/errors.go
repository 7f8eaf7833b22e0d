// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrInvalidHandle is returned by any operation on a closed state.
	ErrInvalidHandle = errors.New("state: invalid handle")
	// ErrStateNotFound is returned when opening a root which is absent in the database.
	ErrStateNotFound = errors.New("state: root not found")
	// ErrInsufficientBalance is returned when subtracting more than the balance.
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	// ErrBalanceOverflow is returned when a balance exceeds 256 bits.
	ErrBalanceOverflow = errors.New("state: balance overflow")
	// ErrInvalidSnapshot is returned when reverting to a stale or unknown revision.
	ErrInvalidSnapshot = errors.New("state: invalid snapshot")
	// ErrEncoding indicates corrupted storage data.
	ErrEncoding = errors.New("state: encoding error")
	// ErrValueTooLong is returned when a raw storage value exceeds one word,
	// or a chunked value exceeds 16 MiB.
	ErrValueTooLong = errors.New("state: storage value too long")
)

// Error is the error caused by state access failure, e.g. database I/O error
// or missing trie node.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the cause, for github.com/pkg/errors.
func (e *Error) Cause() error {
	return e.cause
}

// IsStorageError returns whether err is caused by state access failure.
func IsStorageError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// storageError wraps err with msg as a state access failure.
func storageError(err error, msg string) error {
	return &Error{pkgerrors.WithMessage(err, msg)}
}
