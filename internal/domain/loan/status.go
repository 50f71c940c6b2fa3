package loan

import (
	"fmt"
	"time"
)

// transitions is the full status machine:
// draft → pending → {approved | rejected}; approved → disbursed → paid.
// draft → rejected covers borrower withdrawal. Nothing moves backward,
// and paid/rejected are terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPending, StatusRejected},
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusDisbursed},
	StatusDisbursed: {StatusPaid},
}

// CanTransitionTo reports whether next is a legal move from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Transition moves the loan to next or fails with ErrInvalidTransition,
// leaving the loan untouched.
func (l *Loan) Transition(next Status, now time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, next)
	}
	l.Status = next
	l.StatusUpdatedAt = now.UTC()
	return nil
}
