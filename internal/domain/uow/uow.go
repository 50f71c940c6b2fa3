package uow

import (
	"context"

	"welfare-backend/internal/domain/loan"
	"welfare-backend/internal/domain/member"
)

type Repos struct {
	Loans   loan.Repository
	Members member.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
