package loan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "welfare-backend/internal/domain/loan"
	"welfare-backend/internal/domain/uow"
	"welfare-backend/internal/testutil/loanmock"
	"welfare-backend/internal/testutil/uowmock"
)

const borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

// loanTx returns a UoW whose WithinLoanTx hands the callback the given
// loan, mimicking the locked fetch.
func loanTx(l *domain.Loan, repo *loanmock.Repo) *uowmock.UoW {
	u := uowmock.New()
	u.WithinLoanTxFn = func(ctx context.Context, loanID string, fn func(r uow.Repos, l *domain.Loan) error) error {
		if loanID != l.LoanID {
			return domain.ErrNotFound
		}
		return fn(uow.Repos{Loans: repo}, l)
	}
	return u
}

func readyDraftLoan() *domain.Loan {
	now := time.Now().UTC()
	return &domain.Loan{
		ID:                    7,
		LoanID:                strings.Repeat("a", 32),
		BorrowerID:            borrowerID,
		Amount:                3000,
		Purpose:               "school fees",
		RepaymentPeriodMonths: 12,
		Status:                domain.StatusDraft,
		StatusUpdatedAt:       now,
		Guarantees: []domain.Guarantee{
			{GuarantorID: strings.Repeat("1", 32), LegacyCreditsUsed: 1, Status: domain.GuaranteeAccepted},
			{GuarantorID: strings.Repeat("2", 32), LegacyCreditsUsed: 1, Status: domain.GuaranteeAccepted},
			{GuarantorID: strings.Repeat("3", 32), LegacyCreditsUsed: 1, Status: domain.GuaranteeAccepted},
		},
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			if l.CreatedAt.IsZero() {
				l.CreatedAt = time.Now().UTC()
			}
			return nil
		},
	}
	uc := NewUsecase(repo, uowmock.New(), domain.NewEvaluator(1000))

	dto, err := uc.Create(context.Background(), borrowerID, CreateLoanInput{
		Amount:                25_000,
		Purpose:               "stock for shop",
		RepaymentPeriodMonths: 18,
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length: %d", len(dto.LoanID))
	}
	if dto.Status != string(domain.StatusDraft) {
		t.Fatalf("status = %s, want draft", dto.Status)
	}
	if dto.Readiness.CreditsRequired != 25 {
		t.Fatalf("credits required = %d, want 25", dto.Readiness.CreditsRequired)
	}
}

func TestCreate_RejectsBadInput(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			t.Fatal("Create must not be called for invalid input")
			return nil
		},
	}, uowmock.New(), domain.NewEvaluator(1000))

	cases := []CreateLoanInput{
		{Amount: 0, Purpose: "x", RepaymentPeriodMonths: 12},
		{Amount: -5, Purpose: "x", RepaymentPeriodMonths: 12},
		{Amount: 1000, Purpose: "x", RepaymentPeriodMonths: 0},
	}
	for _, in := range cases {
		if _, err := uc.Create(context.Background(), borrowerID, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Create(%+v) err = %v, want ErrValidation", in, err)
		}
	}
}

func TestSubmit_ReadyLoanMovesToPending(t *testing.T) {
	l := readyDraftLoan()
	saved := false
	repo := &loanmock.Repo{
		SaveFn: func(ctx context.Context, got *domain.Loan) error {
			saved = true
			return nil
		},
	}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	dto, err := uc.Submit(context.Background(), borrowerID, l.LoanID)
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if !saved {
		t.Fatal("loan was not saved")
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want pending", dto.Status)
	}
}

func TestSubmit_IneligibleCarriesGap(t *testing.T) {
	l := readyDraftLoan()
	l.Guarantees = l.Guarantees[:2] // only two accepted
	repo := &loanmock.Repo{
		SaveFn: func(ctx context.Context, got *domain.Loan) error {
			t.Fatal("ineligible submit must not save")
			return nil
		},
	}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	_, err := uc.Submit(context.Background(), borrowerID, l.LoanID)
	if !errors.Is(err, domain.ErrIneligibleSubmission) {
		t.Fatalf("err = %v, want ErrIneligibleSubmission", err)
	}
	var inel *domain.IneligibleError
	if !errors.As(err, &inel) {
		t.Fatalf("err %T does not carry readiness", err)
	}
	if inel.Readiness.AcceptedGuarantors != 2 || inel.Readiness.CreditsRequired != 3 {
		t.Fatalf("unexpected gap: %+v", inel.Readiness)
	}
	if l.Status != domain.StatusDraft {
		t.Fatalf("loan state changed on failed submit: %s", l.Status)
	}
}

func TestSubmit_WrongBorrower(t *testing.T) {
	l := readyDraftLoan()
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	_, err := uc.Submit(context.Background(), strings.Repeat("9", 32), l.LoanID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestApprove_FromPending(t *testing.T) {
	l := readyDraftLoan()
	l.Status = domain.StatusPending
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	admin := strings.Repeat("d", 32)
	dto, err := uc.Approve(context.Background(), admin, l.LoanID)
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}
	if dto.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want approved", dto.Status)
	}
	if dto.ApprovedBy != admin || dto.ApprovedAt == nil {
		t.Fatalf("approval audit fields not set: %+v", dto)
	}
}

func TestApprove_FromDraftFails(t *testing.T) {
	l := readyDraftLoan()
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	_, err := uc.Approve(context.Background(), strings.Repeat("d", 32), l.LoanID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if l.Status != domain.StatusDraft {
		t.Fatalf("loan state changed: %s", l.Status)
	}
}

func TestReject_FromPending(t *testing.T) {
	l := readyDraftLoan()
	l.Status = domain.StatusPending
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	dto, err := uc.Reject(context.Background(), strings.Repeat("d", 32), l.LoanID)
	if err != nil {
		t.Fatalf("Reject err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", dto.Status)
	}
}

func TestCancel_DraftOnly(t *testing.T) {
	l := readyDraftLoan()
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	dto, err := uc.Cancel(context.Background(), borrowerID, l.LoanID)
	if err != nil {
		t.Fatalf("Cancel err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", dto.Status)
	}

	l2 := readyDraftLoan()
	l2.Status = domain.StatusPending
	uc2 := NewUsecase(repo, loanTx(l2, repo), domain.NewEvaluator(1000))
	if _, err := uc2.Cancel(context.Background(), borrowerID, l2.LoanID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("cancel of pending loan err = %v, want ErrInvalidTransition", err)
	}
}

func TestRecordRepayment_PartialThenPaid(t *testing.T) {
	l := readyDraftLoan()
	l.Status = domain.StatusDisbursed
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	dto, err := uc.RecordRepayment(context.Background(), l.LoanID, RecordRepaymentInput{Amount: 1000})
	if err != nil {
		t.Fatalf("RecordRepayment err: %v", err)
	}
	if dto.Status != string(domain.StatusDisbursed) {
		t.Fatalf("partial repayment: status = %s, want disbursed", dto.Status)
	}
	if dto.RepaidTotal != 1000 {
		t.Fatalf("repaid total = %v, want 1000", dto.RepaidTotal)
	}

	dto, err = uc.RecordRepayment(context.Background(), l.LoanID, RecordRepaymentInput{Amount: 2000})
	if err != nil {
		t.Fatalf("RecordRepayment err: %v", err)
	}
	if dto.Status != string(domain.StatusPaid) {
		t.Fatalf("full repayment: status = %s, want paid", dto.Status)
	}
}

func TestRecordRepayment_RejectsWrongState(t *testing.T) {
	l := readyDraftLoan() // still draft
	repo := &loanmock.Repo{}
	uc := NewUsecase(repo, loanTx(l, repo), domain.NewEvaluator(1000))

	_, err := uc.RecordRepayment(context.Background(), l.LoanID, RecordRepaymentInput{Amount: 10})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestGet_Success(t *testing.T) {
	l := readyDraftLoan()
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return l, nil
		},
	}
	uc := NewUsecase(repo, uowmock.New(), domain.NewEvaluator(1000))

	dto, err := uc.Get(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if dto.LoanID != l.LoanID || len(dto.Guarantors) != 3 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if !dto.Readiness.Ready {
		t.Fatalf("readiness not computed on read: %+v", dto.Readiness)
	}
}
