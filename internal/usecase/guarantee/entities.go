package guarantee

import (
	"time"

	loanDomain "welfare-backend/internal/domain/loan"
)

type InviteInput struct {
	GuarantorID       string `json:"guarantorId"`
	LegacyCreditsUsed int    `json:"legacyCreditsUsed"`
}

type CommitmentDTO struct {
	LoanID            string     `json:"loan_id"`
	GuarantorID       string     `json:"guarantor_id"`
	LegacyCreditsUsed int        `json:"legacy_credits_used"`
	Status            string     `json:"status"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
}

// RespondResult carries the resolved commitment plus the loan's
// refreshed readiness, so the borrower's view reflects the change.
type RespondResult struct {
	Commitment CommitmentDTO        `json:"commitment"`
	Readiness  loanDomain.Readiness `json:"readiness"`
}

// RequestDTO is one pending invitation addressed to the caller.
type RequestDTO struct {
	LoanID            string    `json:"loan_id"`
	BorrowerID        string    `json:"borrower_id"`
	Amount            float64   `json:"amount"`
	Purpose           string    `json:"purpose"`
	LegacyCreditsUsed int       `json:"legacy_credits_used"`
	RequestedAt       time.Time `json:"requested_at"`
}

func toCommitmentDTO(loanID string, g *loanDomain.Guarantee) CommitmentDTO {
	return CommitmentDTO{
		LoanID:            loanID,
		GuarantorID:       g.GuarantorID,
		LegacyCreditsUsed: g.LegacyCreditsUsed,
		Status:            string(g.Status),
		RespondedAt:       g.RespondedAt,
	}
}
