package loan

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:     {StatusPending, StatusRejected},
		StatusPending:   {StatusApproved, StatusRejected},
		StatusApproved:  {StatusDisbursed},
		StatusDisbursed: {StatusPaid},
		StatusPaid:      {},
		StatusRejected:  {},
	}
	all := []Status{StatusDraft, StatusPending, StatusApproved, StatusDisbursed, StatusPaid, StatusRejected}

	for from, nexts := range allowed {
		ok := map[Status]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != ok[to] {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestTransition_InvalidLeavesLoanUnchanged(t *testing.T) {
	before := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := &Loan{Status: StatusPaid, StatusUpdatedAt: before}

	err := l.Transition(StatusDraft, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if l.Status != StatusPaid || !l.StatusUpdatedAt.Equal(before) {
		t.Fatalf("loan mutated on failed transition: %+v", l)
	}
}

func TestTransition_MovesForward(t *testing.T) {
	l := &Loan{Status: StatusDraft}
	now := time.Now()
	if err := l.Transition(StatusPending, now); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if l.Status != StatusPending {
		t.Fatalf("status = %s, want pending", l.Status)
	}
	if !l.StatusUpdatedAt.Equal(now.UTC()) {
		t.Fatalf("status_updated_at not set")
	}
}

func TestLiveGuarantees_ExcludesRejectedAndReleased(t *testing.T) {
	l := &Loan{Guarantees: []Guarantee{
		{Status: GuaranteePending},
		{Status: GuaranteeAccepted},
		{Status: GuaranteeRejected},
		{Status: GuaranteeReleased},
	}}
	if got := l.LiveGuarantees(); got != 2 {
		t.Fatalf("LiveGuarantees() = %d, want 2", got)
	}
}

func TestDropGuarantee(t *testing.T) {
	l := &Loan{Guarantees: []Guarantee{
		{GuarantorID: "g1", Status: GuaranteePending},
		{GuarantorID: "g2", Status: GuaranteeRejected},
	}}
	if !l.DropGuarantee("g2") {
		t.Fatal("DropGuarantee(g2) = false, want true")
	}
	if len(l.Guarantees) != 1 || l.Guarantees[0].GuarantorID != "g1" {
		t.Fatalf("unexpected guarantees: %+v", l.Guarantees)
	}
	if l.DropGuarantee("missing") {
		t.Fatal("DropGuarantee(missing) = true, want false")
	}
}

func TestRepaidTotal(t *testing.T) {
	l := &Loan{Repayments: []Repayment{{Amount: 100.50}, {Amount: 899.50}}}
	if got := l.RepaidTotal(); got != 1000 {
		t.Fatalf("RepaidTotal() = %v, want 1000", got)
	}
}
