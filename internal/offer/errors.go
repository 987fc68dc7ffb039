package offer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// ErrNotFound is returned when an offer does not exist.
var ErrNotFound = fmt.Errorf("offer %w", apperr.ErrNotFound)

// StateConflictError reports that an offer was not in the status a transition
// expected, either because the caller held stale data or because a concurrent
// transition won the race.
type StateConflictError struct {
	OfferID  uuid.UUID
	Action   Action
	Expected Status
	Actual   Status // empty when unknown
}

func (e *StateConflictError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("offer %s: cannot %s, no longer %s", e.OfferID, e.Action, e.Expected)
	}

	return fmt.Sprintf("offer %s: cannot %s, expected %s but is %s", e.OfferID, e.Action, e.Expected, e.Actual)
}

func (e *StateConflictError) Is(target error) bool {
	return target == apperr.ErrStateConflict
}
