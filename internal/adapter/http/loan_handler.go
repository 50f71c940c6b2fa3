package http

import (
	"net/http"
	"time"

	mw "welfare-backend/internal/adapter/middleware"
	"welfare-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Amount                float64 `json:"amount" validate:"required,gt=0,dec2"`
	Purpose               string  `json:"purpose" validate:"required"`
	RepaymentPeriodMonths int     `json:"repaymentPeriod" validate:"required,gt=0"`
	// User lets an admin open the loan on a member's behalf.
	User string `json:"user" validate:"omitempty,hex32"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	borrower := mw.MemberID(c)
	if req.User != "" && req.User != borrower {
		if mw.Role(c) != "admin" {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot create a loan for another member"})
		}
		borrower = req.User
	}
	dto, err := h.uc.Create(c.Request().Context(), borrower, loan.CreateLoanInput{
		Amount:                req.Amount,
		Purpose:               req.Purpose,
		RepaymentPeriodMonths: req.RepaymentPeriodMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListUserLoans serves a member their own loans; admins may read any
// member's loans.
func (h *LoanHandler) ListUserLoans(c echo.Context) error {
	memberID := c.Param("member_id")
	if memberID != mw.MemberID(c) && mw.Role(c) != "admin" {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot read another member's loans"})
	}
	dtos, err := h.uc.ListByBorrower(c.Request().Context(), memberID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	dtos, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) Submit(c echo.Context) error {
	dto, err := h.uc.Submit(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Cancel(c echo.Context) error {
	dto, err := h.uc.Cancel(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Disburse(c echo.Context) error {
	dto, err := h.uc.Disburse(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type recordRepaymentReq struct {
	Amount float64    `json:"amount" validate:"required,gt=0,dec2"`
	PaidAt *time.Time `json:"paid_at"`
}

func (h *LoanHandler) RecordRepayment(c echo.Context) error {
	var req recordRepaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.RecordRepayment(c.Request().Context(), c.Param("loan_id"), loan.RecordRepaymentInput{
		Amount: req.Amount,
		PaidAt: req.PaidAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
