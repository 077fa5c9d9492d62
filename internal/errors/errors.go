// Package errors defines the stable failure codes surfaced by the bridge.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NoFolderSelected indicates the user cancelled directory selection
	NoFolderSelected ErrorCode = "NO_FOLDER_SELECTED"
	// NoReadableFiles indicates acquisition produced zero eligible files
	NoReadableFiles ErrorCode = "NO_READABLE_FILES"
	// NoWritableHandle indicates a mutating operation without a capability handle
	NoWritableHandle ErrorCode = "NO_WRITABLE_HANDLE"
	// PermissionDenied indicates the write consent prompt was declined
	PermissionDenied ErrorCode = "PERMISSION_DENIED"
	// InvalidBranchName indicates a branch name failing the ref pattern
	InvalidBranchName ErrorCode = "INVALID_BRANCH_NAME"
	// BranchExists indicates branch creation over an existing ref
	BranchExists ErrorCode = "BRANCH_EXISTS"
	// BranchNotFound indicates checkout of a missing branch
	BranchNotFound ErrorCode = "BRANCH_NOT_FOUND"
	// NoResolvableSource indicates no starting commit could be resolved
	NoResolvableSource ErrorCode = "NO_RESOLVABLE_SOURCE"
	// StorageFailed indicates an unexpected persistence-tier fault
	StorageFailed ErrorCode = "STORAGE_FAILED"
	// SnapshotMissing indicates an operation on a project with no snapshot
	SnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
)

// BridgeError carries a stable code alongside a human-readable message.
type BridgeError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

// New creates a BridgeError with the given code and message.
func New(code ErrorCode, message string) *BridgeError {
	return &BridgeError{Code: code, Message: message}
}

// Wrap creates a BridgeError wrapping an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *BridgeError {
	return &BridgeError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BridgeError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the ErrorCode from err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var be *BridgeError
	if stderrors.As(err, &be) {
		return be.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
