package mysql

import (
	"context"
	"strings"

	"welfare-backend/internal/domain/loan"
	"welfare-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Loans:   &LoanRepository{db: tx},
			Members: &MemberRepository{db: tx},
		}
		return fn(r)
	})
	return translateConflict(err)
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Loans:   &LoanRepository{db: tx},
			Members: &MemberRepository{db: tx},
		}
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
	return translateConflict(err)
}

// translateConflict maps driver-level lock failures to the retryable
// domain conflict error. MySQL reports deadlocks/lock waits; sqlite
// reports a locked database.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked") {
		return loan.ErrConflict
	}
	return err
}
