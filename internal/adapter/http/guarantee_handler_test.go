package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	domain "welfare-backend/internal/domain/loan"
	memberDomain "welfare-backend/internal/domain/member"
	"welfare-backend/internal/domain/uow"
	"welfare-backend/internal/testutil/loanmock"
	"welfare-backend/internal/testutil/membermock"
	"welfare-backend/internal/testutil/uowmock"
	guaranteeUC "welfare-backend/internal/usecase/guarantee"
)

var testGuarantor = strings.Repeat("c", 32)

func guaranteeTx(l *domain.Loan, loans *loanmock.Repo, members *membermock.Repo) *uowmock.UoW {
	u := uowmock.New()
	u.WithinLoanTxFn = func(ctx context.Context, loanID string, fn func(r uow.Repos, l2 *domain.Loan) error) error {
		if loanID != l.LoanID {
			return domain.ErrNotFound
		}
		return fn(uow.Repos{Loans: loans, Members: members}, l)
	}
	return u
}

func newGuaranteeHandler(l *domain.Loan, loans *loanmock.Repo, members *membermock.Repo) *GuaranteeHandler {
	return NewGuaranteeHandler(guaranteeUC.NewUsecase(loans, members, guaranteeTx(l, loans, members), domain.NewEvaluator(1000)))
}

func TestInvite_Created(t *testing.T) {
	l := draftLoan()
	loans := &loanmock.Repo{}
	members := &membermock.Repo{
		GetByMemberIDFn: func(ctx context.Context, memberID string) (*memberDomain.Member, error) {
			return &memberDomain.Member{MemberID: memberID, TotalCredits: 5}, nil
		},
	}
	h := newGuaranteeHandler(l, loans, members)

	c, rec := newTestContext(http.MethodPost, "/loans/"+testLoanID+"/guarantors",
		`{"guarantorId": "`+testGuarantor+`", "legacyCreditsUsed": 2}`)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	authenticate(c, testBorrower, "member")

	if err := h.Invite(c); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "pending" {
		t.Fatalf("commitment status = %v, want pending", body["status"])
	}
}

func TestInvite_RejectsMalformedGuarantorID(t *testing.T) {
	l := draftLoan()
	h := newGuaranteeHandler(l, &loanmock.Repo{}, &membermock.Repo{})

	c, rec := newTestContext(http.MethodPost, "/loans/"+testLoanID+"/guarantors",
		`{"guarantorId": "not-an-id", "legacyCreditsUsed": 2}`)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	authenticate(c, testBorrower, "member")

	if err := h.Invite(c); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lowercase hex") {
		t.Fatalf("missing hex32 detail: %s", rec.Body.String())
	}
}

func TestRespond_AcceptOverCapacityReturns422(t *testing.T) {
	l := draftLoan()
	l.Guarantees = []domain.Guarantee{
		{LoanID: l.ID, GuarantorID: testGuarantor, LegacyCreditsUsed: 2, Status: domain.GuaranteePending},
	}
	loans := &loanmock.Repo{}
	members := &membermock.Repo{
		GetByMemberIDForUpdateFn: func(ctx context.Context, memberID string) (*memberDomain.Member, error) {
			return &memberDomain.Member{MemberID: memberID, TotalCredits: 10}, nil
		},
		CreditUsageFn: func(ctx context.Context, memberID string) (*memberDomain.CreditUsage, error) {
			return &memberDomain.CreditUsage{UsedCredits: 6, ActiveGuarantees: memberDomain.MaxActiveGuarantees}, nil
		},
	}
	h := newGuaranteeHandler(l, loans, members)

	c, rec := newTestContext(http.MethodPost, "/loans/"+testLoanID+"/guarantors/respond",
		`{"status": "accepted"}`)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	authenticate(c, testGuarantor, "member")

	if err := h.Respond(c); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}
}

func TestRespond_RejectsUnknownStatusValue(t *testing.T) {
	l := draftLoan()
	h := newGuaranteeHandler(l, &loanmock.Repo{}, &membermock.Repo{})

	c, rec := newTestContext(http.MethodPost, "/loans/"+testLoanID+"/guarantors/respond",
		`{"status": "maybe"}`)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	authenticate(c, testGuarantor, "member")

	if err := h.Respond(c); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRemove_NoContent(t *testing.T) {
	l := draftLoan()
	l.Guarantees = []domain.Guarantee{
		{LoanID: l.ID, GuarantorID: testGuarantor, LegacyCreditsUsed: 2, Status: domain.GuaranteePending},
	}
	h := newGuaranteeHandler(l, &loanmock.Repo{}, &membermock.Repo{})

	c, rec := newTestContext(http.MethodDelete, "/loans/"+testLoanID+"/guarantors/"+testGuarantor, "")
	c.SetParamNames("loan_id", "guarantor_id")
	c.SetParamValues(testLoanID, testGuarantor)
	authenticate(c, testBorrower, "member")

	if err := h.Remove(c); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body: %s", rec.Code, rec.Body.String())
	}
}

func TestSummary_ReportsCreditLedger(t *testing.T) {
	members := &membermock.Repo{
		GetByMemberIDFn: func(ctx context.Context, memberID string) (*memberDomain.Member, error) {
			return &memberDomain.Member{MemberID: memberID, TotalCredits: 10}, nil
		},
		CreditUsageFn: func(ctx context.Context, memberID string) (*memberDomain.CreditUsage, error) {
			return &memberDomain.CreditUsage{UsedCredits: 4, ActiveGuarantees: 2}, nil
		},
	}
	h := newGuaranteeHandler(draftLoan(), &loanmock.Repo{}, members)

	c, rec := newTestContext(http.MethodGet, "/members/me/guarantees/summary", "")
	authenticate(c, testGuarantor, "member")

	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["availableCredits"] != float64(6) || body["activeGuarantees"] != float64(2) {
		t.Fatalf("unexpected summary: %v", body)
	}
}
