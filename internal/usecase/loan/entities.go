package loan

import (
	"time"

	domain "welfare-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	Amount                float64 `json:"amount"`
	Purpose               string  `json:"purpose"`
	RepaymentPeriodMonths int     `json:"repayment_period_months"`
}

type GuaranteeDTO struct {
	GuarantorID       string     `json:"guarantor_id"`
	LegacyCreditsUsed int        `json:"legacy_credits_used"`
	Status            string     `json:"status"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
}

type RepaymentDTO struct {
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}

type LoanDTO struct {
	LoanID                string           `json:"loan_id"`
	BorrowerID            string           `json:"borrower_id"`
	Amount                float64          `json:"amount"`
	Purpose               string           `json:"purpose"`
	RepaymentPeriodMonths int              `json:"repayment_period_months"`
	Status                string           `json:"status"`
	Guarantors            []GuaranteeDTO   `json:"guarantors"`
	Repayments            []RepaymentDTO   `json:"repayments"`
	Readiness             domain.Readiness `json:"readiness"`
	ApprovedAt            *time.Time       `json:"approved_at,omitempty"`
	ApprovedBy            string           `json:"approved_by,omitempty"`
	DisbursedAt           *time.Time       `json:"disbursed_at,omitempty"`
	RepaidTotal           float64          `json:"repaid_total"`
	CreatedAt             time.Time        `json:"created_at"`
}

func toDTO(l *domain.Loan, eval domain.Evaluator) *LoanDTO {
	dto := &LoanDTO{
		LoanID:                l.LoanID,
		BorrowerID:            l.BorrowerID,
		Amount:                l.Amount,
		Purpose:               l.Purpose,
		RepaymentPeriodMonths: l.RepaymentPeriodMonths,
		Status:                string(l.Status),
		Guarantors:            make([]GuaranteeDTO, 0, len(l.Guarantees)),
		Repayments:            make([]RepaymentDTO, 0, len(l.Repayments)),
		Readiness:             eval.Evaluate(l),
		ApprovedAt:            l.ApprovedAt,
		ApprovedBy:            l.ApprovedBy,
		DisbursedAt:           l.DisbursedAt,
		RepaidTotal:           l.RepaidTotal(),
		CreatedAt:             l.CreatedAt,
	}
	for i := range l.Guarantees {
		g := &l.Guarantees[i]
		dto.Guarantors = append(dto.Guarantors, GuaranteeDTO{
			GuarantorID:       g.GuarantorID,
			LegacyCreditsUsed: g.LegacyCreditsUsed,
			Status:            string(g.Status),
			RespondedAt:       g.RespondedAt,
		})
	}
	for i := range l.Repayments {
		p := &l.Repayments[i]
		dto.Repayments = append(dto.Repayments, RepaymentDTO{Amount: p.Amount, PaidAt: p.PaidAt})
	}
	return dto
}
