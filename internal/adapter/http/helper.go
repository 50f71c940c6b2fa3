package http

import (
	"errors"
	"net/http"
	"strings"

	loanDomain "welfare-backend/internal/domain/loan"
	memberDomain "welfare-backend/internal/domain/member"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// writeDomainError is the single place domain errors become HTTP
// statuses, so every handler reports a guard failure the same way.
func writeDomainError(c echo.Context, err error) error {
	var inel *loanDomain.IneligibleError
	switch {
	case errors.As(err, &inel):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     inel.Error(),
			Readiness: inel.Readiness,
		})
	case errors.Is(err, loanDomain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, memberDomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loanDomain.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Retryable: true})
	case errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, memberDomain.ErrInsufficientCredits),
		errors.Is(err, memberDomain.ErrGuaranteeLimitExceeded):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, memberDomain.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, memberDomain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// ---- test helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
