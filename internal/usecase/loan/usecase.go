package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "welfare-backend/internal/domain/loan"
	"welfare-backend/internal/domain/uow"
	"welfare-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	eval domain.Evaluator
}

// NewUsecase: repo for reads, UoW for locked transitions.
func NewUsecase(r domain.Repository, tx uow.UnitOfWork, eval domain.Evaluator) *Usecase {
	return &Usecase{repo: r, uow: tx, eval: eval}
}

func (u *Usecase) Create(ctx context.Context, borrowerID string, in CreateLoanInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if in.RepaymentPeriodMonths <= 0 {
		return nil, fmt.Errorf("%w: repayment period must be positive", domain.ErrValidation)
	}

	l := &domain.Loan{
		LoanID:                id.NewID32(),
		BorrowerID:            borrowerID,
		Amount:                in.Amount,
		Purpose:               in.Purpose,
		RepaymentPeriodMonths: in.RepaymentPeriodMonths,
		Status:                domain.StatusDraft,
		StatusUpdatedAt:       time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l, u.eval), nil
}

// Submit attempts draft → pending. The evaluator is the single gate;
// an ineligible loan is left untouched and the gap is returned.
func (u *Usecase) Submit(ctx context.Context, borrowerID, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.BorrowerID != borrowerID {
			return domain.ErrNotFound
		}
		if l.Status != domain.StatusDraft {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, domain.StatusPending)
		}
		readiness := u.eval.Evaluate(l)
		if !readiness.Ready {
			return &domain.IneligibleError{Readiness: readiness}
		}
		if err := l.Transition(domain.StatusPending, time.Now()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, u.eval)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

// Cancel is the borrower withdrawing a draft loan.
func (u *Usecase) Cancel(ctx context.Context, borrowerID, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.BorrowerID != borrowerID {
			return domain.ErrNotFound
		}
		if l.Status != domain.StatusDraft {
			return fmt.Errorf("%w: only draft loans can be cancelled", domain.ErrInvalidTransition)
		}
		if err := l.Transition(domain.StatusRejected, time.Now()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, u.eval)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

// Approve is admin-only: pending → approved, recording the approver.
func (u *Usecase) Approve(ctx context.Context, adminID, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, loanID, domain.StatusApproved, func(l *domain.Loan, now time.Time) {
		l.ApprovedAt = &now
		l.ApprovedBy = adminID
	})
}

// Reject is admin-only: pending → rejected.
func (u *Usecase) Reject(ctx context.Context, adminID, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, loanID, domain.StatusRejected, func(l *domain.Loan, now time.Time) {
		l.ApprovedBy = adminID
	})
}

// Disburse is admin-only: approved → disbursed, recording the timestamp.
func (u *Usecase) Disburse(ctx context.Context, adminID, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, loanID, domain.StatusDisbursed, func(l *domain.Loan, now time.Time) {
		l.DisbursedAt = &now
	})
}

func (u *Usecase) adminTransition(ctx context.Context, loanID string, next domain.Status, mutate func(*domain.Loan, time.Time)) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		now := time.Now().UTC()
		if err := l.Transition(next, now); err != nil {
			return err
		}
		mutate(l, now)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, u.eval)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

type RecordRepaymentInput struct {
	Amount float64    `json:"amount"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// RecordRepayment appends a repayment while disbursed; the loan flips
// to paid in the same transaction once the cumulative total covers the
// amount. Partial repayments leave it disbursed.
func (u *Usecase) RecordRepayment(ctx context.Context, loanID string, in RecordRepaymentInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: repayment amount must be positive", domain.ErrValidation)
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusDisbursed {
			return fmt.Errorf("%w: repayments only apply to disbursed loans", domain.ErrInvalidTransition)
		}
		paidAt := time.Now().UTC()
		if in.PaidAt != nil {
			paidAt = in.PaidAt.UTC()
		}
		p := &domain.Repayment{LoanID: l.ID, Amount: in.Amount, PaidAt: paidAt}
		if err := r.Loans.AddRepayment(ctx, p); err != nil {
			return err
		}
		l.Repayments = append(l.Repayments, *p)
		if l.RepaidTotal() >= l.Amount {
			if err := l.Transition(domain.StatusPaid, paidAt); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		}
		dto = toDTO(l, u.eval)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDTO(l, u.eval), nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	loans, err := u.repo.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(loans), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]LoanDTO, error) {
	loans, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(loans), nil
}

func (u *Usecase) toDTOs(loans []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i], u.eval))
	}
	return out
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
