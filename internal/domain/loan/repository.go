package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the duration of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	// ListWithPendingGuaranteeFor returns loans holding a pending
	// commitment addressed to guarantorID.
	ListWithPendingGuaranteeFor(ctx context.Context, guarantorID string) ([]Loan, error)

	SaveGuarantee(ctx context.Context, g *Guarantee) error
	DeleteGuarantee(ctx context.Context, g *Guarantee) error
	AddRepayment(ctx context.Context, r *Repayment) error
}
