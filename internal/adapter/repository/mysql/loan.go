package mysql

import (
	"context"

	loanDomain "welfare-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// withAssociations preloads guarantees (invitation order) and repayments.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Guarantees", func(db *gorm.DB) *gorm.DB { return db.Order("guarantees.id ASC") }).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repayments.id ASC") })
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	// Omit associations: guarantees and repayments are written through
	// their own methods, not flushed wholesale with the loan row.
	return r.db.WithContext(ctx).Omit("Guarantees", "Repayments").Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := withAssociations(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	// sqlite (tests) has no FOR UPDATE; its single-writer model covers it.
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	if err := q.Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, err
	}
	// Associations are loaded after the row lock is held.
	if err := withAssociations(r.db.WithContext(ctx)).Where("id = ?", out.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := withAssociations(r.db.WithContext(ctx)).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := withAssociations(r.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListWithPendingGuaranteeFor(ctx context.Context, guarantorID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := withAssociations(r.db.WithContext(ctx)).
		Joins("JOIN guarantees g ON g.loan_id = loans.id").
		Where("g.guarantor_id = ? AND g.status = ?", guarantorID, loanDomain.GuaranteePending).
		Order("loans.created_at DESC, loans.id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) SaveGuarantee(ctx context.Context, g *loanDomain.Guarantee) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *LoanRepository) DeleteGuarantee(ctx context.Context, g *loanDomain.Guarantee) error {
	return r.db.WithContext(ctx).Delete(g).Error
}

func (r *LoanRepository) AddRepayment(ctx context.Context, p *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}
