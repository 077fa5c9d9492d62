package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(BranchNotFound, "branch not found: x")
	if got := err.Error(); got != "[BRANCH_NOT_FOUND] branch not found: x" {
		t.Errorf("unexpected message: %s", got)
	}

	cause := stderrors.New("disk full")
	wrapped := Wrap(StorageFailed, "failed to persist snapshot", cause)
	if got := wrapped.Error(); got != "[STORAGE_FAILED] failed to persist snapshot: disk full" {
		t.Errorf("unexpected message: %s", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped cause should be reachable through Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	err := New(PermissionDenied, "declined")
	if CodeOf(err) != PermissionDenied {
		t.Error("code not extracted")
	}
	// Codes survive fmt wrapping.
	outer := fmt.Errorf("context: %w", err)
	if !HasCode(outer, PermissionDenied) {
		t.Error("code not found through wrapping")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("plain error should carry no code")
	}
	if CodeOf(nil) != "" {
		t.Error("nil error should carry no code")
	}
}
