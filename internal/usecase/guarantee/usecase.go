package guarantee

import (
	"context"
	"errors"
	"fmt"
	"time"

	loanDomain "welfare-backend/internal/domain/loan"
	memberDomain "welfare-backend/internal/domain/member"
	"welfare-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// conflictRetries bounds internal retries of the accept path when two
// transactions collide on the same guarantor; afterwards ErrConflict
// surfaces to the caller.
const conflictRetries = 3

type Usecase struct {
	loans   loanDomain.Repository
	members memberDomain.Repository
	uow     uow.UnitOfWork
	eval    loanDomain.Evaluator
}

func NewUsecase(loans loanDomain.Repository, members memberDomain.Repository, tx uow.UnitOfWork, eval loanDomain.Evaluator) *Usecase {
	return &Usecase{loans: loans, members: members, uow: tx, eval: eval}
}

// Invite adds a pending commitment to a draft loan. Credits are only
// reserved on acceptance, so the credit ledger is untouched here.
// Admins may invite on the borrower's behalf.
func (u *Usecase) Invite(ctx context.Context, actorID, loanID string, asAdmin bool, in InviteInput) (*CommitmentDTO, error) {
	if in.LegacyCreditsUsed <= 0 {
		return nil, fmt.Errorf("%w: legacy credits must be positive", loanDomain.ErrValidation)
	}

	var dto *CommitmentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.BorrowerID != actorID && !asAdmin {
			return loanDomain.ErrNotFound
		}
		if in.GuarantorID == l.BorrowerID {
			return fmt.Errorf("%w: borrower cannot guarantee their own loan", loanDomain.ErrValidation)
		}
		if l.Status != loanDomain.StatusDraft {
			return fmt.Errorf("%w: guarantors can only be invited while the loan is draft", loanDomain.ErrInvalidTransition)
		}
		if _, err := r.Members.GetByMemberID(ctx, in.GuarantorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return memberDomain.ErrNotFound
			}
			return err
		}

		g := l.FindGuarantee(in.GuarantorID)
		if g != nil && g.Status != loanDomain.GuaranteeRejected {
			return fmt.Errorf("%w: guarantor already has a commitment on this loan", loanDomain.ErrValidation)
		}
		if l.LiveGuarantees() >= loanDomain.MaxGuarantors {
			return fmt.Errorf("%w: all %d guarantor slots are taken", loanDomain.ErrValidation, loanDomain.MaxGuarantors)
		}

		if g != nil {
			// Re-invitation into the slot freed by a rejection reuses
			// the row, so the commitment list keeps its length.
			g.Status = loanDomain.GuaranteePending
			g.LegacyCreditsUsed = in.LegacyCreditsUsed
			g.RespondedAt = nil
		} else {
			// A different guarantor refilling a freed slot evicts the
			// stale resolved row, keeping the list within the slot count.
			if len(l.Guarantees) >= loanDomain.MaxGuarantors {
				if err := dropResolvedCommitment(ctx, r, l); err != nil {
					return err
				}
			}
			l.Guarantees = append(l.Guarantees, loanDomain.Guarantee{
				LoanID:            l.ID,
				GuarantorID:       in.GuarantorID,
				LegacyCreditsUsed: in.LegacyCreditsUsed,
				Status:            loanDomain.GuaranteePending,
			})
			g = &l.Guarantees[len(l.Guarantees)-1]
		}
		if err := r.Loans.SaveGuarantee(ctx, g); err != nil {
			return err
		}
		out := toCommitmentDTO(l.LoanID, g)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

// Respond resolves the caller's pending commitment. Acceptance locks
// the guarantor's member row so the capacity check and the status write
// are indivisible; collisions retry a bounded number of times.
func (u *Usecase) Respond(ctx context.Context, guarantorID, loanID string, accept bool) (*RespondResult, error) {
	var res *RespondResult
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		res, err = u.respondOnce(ctx, guarantorID, loanID, accept)
		if !errors.Is(err, loanDomain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, mapNotFound(err)
	}
	return res, nil
}

func (u *Usecase) respondOnce(ctx context.Context, guarantorID, loanID string, accept bool) (*RespondResult, error) {
	var res *RespondResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		g := l.FindGuarantee(guarantorID)
		if g == nil {
			return loanDomain.ErrNotFound
		}
		if g.Status != loanDomain.GuaranteePending {
			return fmt.Errorf("%w: commitment already %s", loanDomain.ErrInvalidTransition, g.Status)
		}

		now := time.Now().UTC()
		if accept {
			// Lock the member row, then recompute the derived ledger
			// under the lock. A failed guard leaves the commitment
			// pending and the transaction rolls back.
			m, err := r.Members.GetByMemberIDForUpdate(ctx, guarantorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return memberDomain.ErrNotFound
				}
				return err
			}
			usage, err := r.Members.CreditUsage(ctx, guarantorID)
			if err != nil {
				return err
			}
			if usage.ActiveGuarantees >= memberDomain.MaxActiveGuarantees {
				return memberDomain.ErrGuaranteeLimitExceeded
			}
			if m.TotalCredits-usage.UsedCredits < g.LegacyCreditsUsed {
				return memberDomain.ErrInsufficientCredits
			}
			g.Status = loanDomain.GuaranteeAccepted
		} else {
			g.Status = loanDomain.GuaranteeRejected
		}
		g.RespondedAt = &now
		if err := r.Loans.SaveGuarantee(ctx, g); err != nil {
			return err
		}

		res = &RespondResult{
			Commitment: toCommitmentDTO(l.LoanID, g),
			Readiness:  u.eval.Evaluate(l),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Remove drops a pending or rejected commitment from a draft loan. An
// accepted guarantor must be released first.
func (u *Usecase) Remove(ctx context.Context, borrowerID, loanID, guarantorID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.BorrowerID != borrowerID {
			return loanDomain.ErrNotFound
		}
		if l.Status != loanDomain.StatusDraft {
			return fmt.Errorf("%w: guarantors can only be removed while the loan is draft", loanDomain.ErrInvalidTransition)
		}
		g := l.FindGuarantee(guarantorID)
		if g == nil {
			return loanDomain.ErrNotFound
		}
		if g.Status != loanDomain.GuaranteePending && g.Status != loanDomain.GuaranteeRejected {
			return fmt.Errorf("%w: release an accepted guarantor before removing them", loanDomain.ErrInvalidTransition)
		}
		if err := r.Loans.DeleteGuarantee(ctx, g); err != nil {
			return err
		}
		l.DropGuarantee(guarantorID)
		return nil
	})
	return mapNotFound(err)
}

// Release frees an accepted guarantor's reserved credits on a draft
// loan, freeing the slot as well.
func (u *Usecase) Release(ctx context.Context, borrowerID, loanID, guarantorID string) (*CommitmentDTO, error) {
	var dto *CommitmentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.BorrowerID != borrowerID {
			return loanDomain.ErrNotFound
		}
		if l.Status != loanDomain.StatusDraft {
			return fmt.Errorf("%w: guarantors can only be released while the loan is draft", loanDomain.ErrInvalidTransition)
		}
		g := l.FindGuarantee(guarantorID)
		if g == nil {
			return loanDomain.ErrNotFound
		}
		if g.Status != loanDomain.GuaranteeAccepted {
			return fmt.Errorf("%w: only accepted commitments can be released", loanDomain.ErrInvalidTransition)
		}
		now := time.Now().UTC()
		g.Status = loanDomain.GuaranteeReleased
		g.RespondedAt = &now
		if err := r.Loans.SaveGuarantee(ctx, g); err != nil {
			return err
		}
		out := toCommitmentDTO(l.LoanID, g)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

// PendingRequests lists invitations awaiting the caller's response.
func (u *Usecase) PendingRequests(ctx context.Context, guarantorID string) ([]RequestDTO, error) {
	loans, err := u.loans.ListWithPendingGuaranteeFor(ctx, guarantorID)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		g := l.FindGuarantee(guarantorID)
		if g == nil || g.Status != loanDomain.GuaranteePending {
			continue
		}
		out = append(out, RequestDTO{
			LoanID:            l.LoanID,
			BorrowerID:        l.BorrowerID,
			Amount:            l.Amount,
			Purpose:           l.Purpose,
			LegacyCreditsUsed: g.LegacyCreditsUsed,
			RequestedAt:       g.CreatedAt,
		})
	}
	return out, nil
}

// Summary is the caller's credit-ledger view.
func (u *Usecase) Summary(ctx context.Context, memberID string) (*memberDomain.CreditSummary, error) {
	m, err := u.members.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberDomain.ErrNotFound
		}
		return nil, err
	}
	usage, err := u.members.CreditUsage(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &memberDomain.CreditSummary{
		TotalCredits:     m.TotalCredits,
		UsedCredits:      usage.UsedCredits,
		AvailableCredits: m.TotalCredits - usage.UsedCredits,
		ActiveGuarantees: usage.ActiveGuarantees,
	}, nil
}

// dropResolvedCommitment deletes the first rejected or released row.
// The live-slot guard has already run, so one must exist when the list
// is at capacity.
func dropResolvedCommitment(ctx context.Context, r uow.Repos, l *loanDomain.Loan) error {
	for i := range l.Guarantees {
		s := l.Guarantees[i].Status
		if s != loanDomain.GuaranteeRejected && s != loanDomain.GuaranteeReleased {
			continue
		}
		stale := l.Guarantees[i]
		if err := r.Loans.DeleteGuarantee(ctx, &stale); err != nil {
			return err
		}
		l.DropGuarantee(stale.GuarantorID)
		return nil
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanDomain.ErrNotFound
	}
	return err
}
