package mysql

import (
	"context"
	"errors"
	"testing"

	domain "welfare-backend/internal/domain/loan"
	"welfare-backend/internal/domain/uow"
	"welfare-backend/pkg/id"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTxCommits(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	loanID := id.NewID32()
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Create(ctx, makeLoan(loanID, id.NewID32()))
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	loanID := id.NewID32()
	boom := errors.New("boom")
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, id.NewID32())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, loanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("loan survived rollback: err = %v", err)
	}
}

func TestGormUoW_WithinLoanTxHandsLockedLoan(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	seeded := makeLoan(id.NewID32(), id.NewID32())
	if err := NewLoanRepository(db).Create(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := u.WithinLoanTx(ctx, seeded.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if l.LoanID != seeded.LoanID {
			t.Fatalf("wrong loan handed to callback: %+v", l)
		}
		l.Status = domain.StatusPending
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := NewLoanRepository(db).GetByLoanID(ctx, seeded.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestGormUoW_WithinLoanTxMissingLoan(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)

	err := u.WithinLoanTx(context.Background(), id.NewID32(), func(r uow.Repos, l *domain.Loan) error {
		t.Fatal("callback must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestTranslateConflict(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{errors.New("Error 1213: Deadlock found when trying to get lock"), domain.ErrConflict},
		{errors.New("Error 1205: Lock wait timeout exceeded"), domain.ErrConflict},
		{errors.New("database is locked"), domain.ErrConflict},
		{gorm.ErrRecordNotFound, gorm.ErrRecordNotFound},
	}
	for _, tc := range cases {
		if got := translateConflict(tc.in); !errors.Is(got, tc.want) && got != tc.want {
			t.Errorf("translateConflict(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
