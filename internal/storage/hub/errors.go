package hub

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a node ID does not resolve.
	ErrNotFound = errors.New("node not found")

	// ErrInvalidParent is returned when a parent target is missing, deleted,
	// or not a folder.
	ErrInvalidParent = errors.New("parent must be an existing, non-deleted folder")

	// ErrCycleDetected is returned when a move would make a node its own
	// ancestor.
	ErrCycleDetected = errors.New("move would create a cycle")

	// ErrTreeTooDeep is returned when an ancestor chain exceeds the
	// configured depth bound.
	ErrTreeTooDeep = errors.New("tree depth limit exceeded")

	// ErrNotDeleted is returned when purging a node that is not in the trash.
	ErrNotDeleted = errors.New("node is not deleted")

	// ErrQuotaExceeded is returned when creating a node would exceed the
	// configured node quota.
	ErrQuotaExceeded = errors.New("node quota exceeded")
)

// WarnParentStillDeleted accompanies a successful restore whose parent is
// still in the trash: the node is live but unreachable through normal
// navigation until the parent is restored too. A warning, never an error.
var WarnParentStillDeleted = errors.New("parent folder is still deleted")

// VersionConflictError is returned on a stale write. It carries the current
// version so the caller can re-read, re-apply and retry.
type VersionConflictError struct {
	Current int
}

// Error implements the error interface.
func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: stored version is %d", e.Current)
}

// IsVersionConflict reports whether err is a version conflict and returns
// the stored version if so.
func IsVersionConflict(err error) (int, bool) {
	var vc *VersionConflictError
	if errors.As(err, &vc) {
		return vc.Current, true
	}
	return 0, false
}
