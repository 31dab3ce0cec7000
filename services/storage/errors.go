package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// The repository boundary translates driver errors into this small taxonomy
// so callers can tell "never heard back" from "heard back with an error".
var (
	ErrNotFound = errors.New("storage: not found")
	ErrTimeout  = errors.New("storage: operation timed out")
	ErrConflict = errors.New("storage: conflict")
	ErrStale    = errors.New("storage: stale state")
)

func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrConflict, err)
	default:
		return err
	}
}

// isUniqueViolation matches unique index violations across drivers. The
// driver pinned here predates gorm's error translation, so the string
// checks stay as a fallback.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
