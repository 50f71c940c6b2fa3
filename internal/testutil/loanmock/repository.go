package loanmock

import (
	"context"

	domain "welfare-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn                      func(ctx context.Context, l *domain.Loan) error
	SaveFn                        func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                 func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn        func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByBorrowerIDFn            func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListAllFn                     func(ctx context.Context) ([]domain.Loan, error)
	ListWithPendingGuaranteeForFn func(ctx context.Context, guarantorID string) ([]domain.Loan, error)
	SaveGuaranteeFn               func(ctx context.Context, g *domain.Guarantee) error
	DeleteGuaranteeFn             func(ctx context.Context, g *domain.Guarantee) error
	AddRepaymentFn                func(ctx context.Context, p *domain.Repayment) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListWithPendingGuaranteeFor(ctx context.Context, guarantorID string) ([]domain.Loan, error) {
	if m.ListWithPendingGuaranteeForFn != nil {
		return m.ListWithPendingGuaranteeForFn(ctx, guarantorID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveGuarantee(ctx context.Context, g *domain.Guarantee) error {
	if m.SaveGuaranteeFn != nil {
		return m.SaveGuaranteeFn(ctx, g)
	}
	return nil
}

func (m *Repo) DeleteGuarantee(ctx context.Context, g *domain.Guarantee) error {
	if m.DeleteGuaranteeFn != nil {
		return m.DeleteGuaranteeFn(ctx, g)
	}
	return nil
}

func (m *Repo) AddRepayment(ctx context.Context, p *domain.Repayment) error {
	if m.AddRepaymentFn != nil {
		return m.AddRepaymentFn(ctx, p)
	}
	return nil
}
