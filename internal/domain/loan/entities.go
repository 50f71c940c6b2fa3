package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDisbursed Status = "disbursed"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
)

// MaxGuarantors is the number of guarantor slots per loan.
const MaxGuarantors = 3

var (
	ErrNotFound             = errors.New("loan not found")
	ErrValidation           = errors.New("invalid input")
	ErrInvalidTransition    = errors.New("invalid loan status transition")
	ErrIneligibleSubmission = errors.New("loan is not ready for submission")
	ErrConflict             = errors.New("concurrent update conflict")
)

type Loan struct {
	ID                    uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID                string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID            string         `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	Amount                float64        `gorm:"type:decimal(18,2)" json:"amount"`
	Purpose               string         `gorm:"type:text" json:"purpose"`
	RepaymentPeriodMonths int            `gorm:"column:repayment_period_months" json:"repayment_period_months"`
	Status                Status         `gorm:"type:enum('draft','pending','approved','disbursed','paid','rejected');default:'draft'" json:"status"`
	StatusUpdatedAt       time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	ApprovedAt            *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy            string         `gorm:"size:32" json:"approved_by,omitempty"`
	DisbursedAt           *time.Time     `json:"disbursed_at,omitempty"`
	Guarantees            []Guarantee    `gorm:"foreignKey:LoanID;references:ID" json:"guarantors"`
	Repayments            []Repayment    `gorm:"foreignKey:LoanID;references:ID" json:"repayments"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

type GuaranteeStatus string

const (
	GuaranteePending  GuaranteeStatus = "pending"
	GuaranteeAccepted GuaranteeStatus = "accepted"
	GuaranteeRejected GuaranteeStatus = "rejected"
	// GuaranteeReleased marks an accepted commitment the borrower has
	// explicitly freed; it no longer reserves the guarantor's credits.
	GuaranteeReleased GuaranteeStatus = "released"
)

// Guarantee is one invited guarantor's commitment on a loan.
// Row insertion order is invitation order.
type Guarantee struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            uint64          `gorm:"column:loan_id;not null;index;uniqueIndex:ux_guarantees_loan_guarantor" json:"-"`
	GuarantorID       string          `gorm:"size:32;index;uniqueIndex:ux_guarantees_loan_guarantor" json:"guarantor_id"`
	LegacyCreditsUsed int             `gorm:"column:legacy_credits_used" json:"legacy_credits_used"`
	Status            GuaranteeStatus `gorm:"type:enum('pending','accepted','rejected','released');default:'pending'" json:"status"`
	RespondedAt       *time.Time      `json:"responded_at,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Guarantee) TableName() string { return "guarantees" }

type Repayment struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID    uint64    `gorm:"column:loan_id;not null;index" json:"-"`
	Amount    float64   `gorm:"type:decimal(18,2)" json:"amount"`
	PaidAt    time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "repayments" }

// FindGuarantee returns the commitment held by guarantorID, or nil.
func (l *Loan) FindGuarantee(guarantorID string) *Guarantee {
	for i := range l.Guarantees {
		if l.Guarantees[i].GuarantorID == guarantorID {
			return &l.Guarantees[i]
		}
	}
	return nil
}

// DropGuarantee removes guarantorID's commitment from the in-memory
// list and reports whether it was present. Persistence is the caller's
// job.
func (l *Loan) DropGuarantee(guarantorID string) bool {
	for i := range l.Guarantees {
		if l.Guarantees[i].GuarantorID == guarantorID {
			l.Guarantees = append(l.Guarantees[:i], l.Guarantees[i+1:]...)
			return true
		}
	}
	return false
}

// LiveGuarantees counts commitments occupying a guarantor slot.
// Rejected and released commitments free their slot for re-invitation.
func (l *Loan) LiveGuarantees() int {
	n := 0
	for i := range l.Guarantees {
		switch l.Guarantees[i].Status {
		case GuaranteePending, GuaranteeAccepted:
			n++
		}
	}
	return n
}

// RepaidTotal sums recorded repayments.
func (l *Loan) RepaidTotal() float64 {
	var sum float64
	for i := range l.Repayments {
		sum += l.Repayments[i].Amount
	}
	return sum
}
