package loan

import (
	"fmt"
	"math"
)

// DefaultCreditUnit is the loan amount covered by one legacy credit.
const DefaultCreditUnit = 1000

// Readiness is the submission-readiness report for a draft loan.
type Readiness struct {
	Ready              bool `json:"ready"`
	AcceptedGuarantors int  `json:"accepted_guarantors"`
	RequiredGuarantors int  `json:"required_guarantors"`
	CreditsCommitted   int  `json:"credits_committed"`
	CreditsRequired    int  `json:"credits_required"`
}

// Evaluator decides whether a loan may move from draft to pending.
// It is pure: Evaluate never mutates the loan and always returns the
// same result for the same loan state.
type Evaluator struct {
	creditUnit float64
}

func NewEvaluator(creditUnit float64) Evaluator {
	if creditUnit <= 0 {
		creditUnit = DefaultCreditUnit
	}
	return Evaluator{creditUnit: creditUnit}
}

// RequiredCredits is ceil(amount / creditUnit): one credit reserved per
// creditUnit currency units.
func (e Evaluator) RequiredCredits(amount float64) int {
	return int(math.Ceil(amount / e.creditUnit))
}

// Evaluate reports readiness: at least MaxGuarantors accepted
// commitments whose reserved credits cover RequiredCredits.
func (e Evaluator) Evaluate(l *Loan) Readiness {
	r := Readiness{
		RequiredGuarantors: MaxGuarantors,
		CreditsRequired:    e.RequiredCredits(l.Amount),
	}
	for i := range l.Guarantees {
		if l.Guarantees[i].Status == GuaranteeAccepted {
			r.AcceptedGuarantors++
			r.CreditsCommitted += l.Guarantees[i].LegacyCreditsUsed
		}
	}
	r.Ready = r.AcceptedGuarantors >= r.RequiredGuarantors && r.CreditsCommitted >= r.CreditsRequired
	return r
}

// IneligibleError carries the guarantor/credit gap back to the caller.
type IneligibleError struct {
	Readiness Readiness
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("loan is not ready for submission: %d/%d guarantors accepted, %d/%d credits committed",
		e.Readiness.AcceptedGuarantors, e.Readiness.RequiredGuarantors,
		e.Readiness.CreditsCommitted, e.Readiness.CreditsRequired)
}

func (e *IneligibleError) Unwrap() error { return ErrIneligibleSubmission }
