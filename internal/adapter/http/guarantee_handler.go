package http

import (
	"net/http"

	mw "welfare-backend/internal/adapter/middleware"
	"welfare-backend/internal/usecase/guarantee"

	"github.com/labstack/echo/v4"
)

type GuaranteeHandler struct{ uc *guarantee.Usecase }

func NewGuaranteeHandler(uc *guarantee.Usecase) *GuaranteeHandler {
	return &GuaranteeHandler{uc: uc}
}

type inviteGuarantorReq struct {
	GuarantorID       string `json:"guarantorId" validate:"required,hex32"`
	LegacyCreditsUsed int    `json:"legacyCreditsUsed" validate:"required,gt=0"`
}

func (h *GuaranteeHandler) Invite(c echo.Context) error {
	var req inviteGuarantorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Invite(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"), mw.Role(c) == "admin", guarantee.InviteInput{
		GuarantorID:       req.GuarantorID,
		LegacyCreditsUsed: req.LegacyCreditsUsed,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type guarantorResponseReq struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// Respond resolves the authenticated guarantor's own invitation.
func (h *GuaranteeHandler) Respond(c echo.Context) error {
	var req guarantorResponseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.uc.Respond(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"), req.Status == "accepted")
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *GuaranteeHandler) Remove(c echo.Context) error {
	err := h.uc.Remove(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"), c.Param("guarantor_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type releaseGuarantorReq struct {
	GuarantorID string `json:"guarantorId" validate:"required,hex32"`
}

func (h *GuaranteeHandler) Release(c echo.Context) error {
	var req releaseGuarantorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Release(c.Request().Context(), mw.MemberID(c), c.Param("loan_id"), req.GuarantorID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *GuaranteeHandler) PendingRequests(c echo.Context) error {
	dtos, err := h.uc.PendingRequests(c.Request().Context(), mw.MemberID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *GuaranteeHandler) Summary(c echo.Context) error {
	summary, err := h.uc.Summary(c.Request().Context(), mw.MemberID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
