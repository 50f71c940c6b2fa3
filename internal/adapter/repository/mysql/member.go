package mysql

import (
	"context"

	loanDomain "welfare-backend/internal/domain/loan"
	memberDomain "welfare-backend/internal/domain/member"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) Save(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MemberRepository) GetByMemberID(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out memberDomain.Member
	res := q.Where("member_id = ?", memberID).First(&out)
	return &out, res.Error
}

// CreditUsage recomputes the derived credit ledger from accepted
// commitments. Called under the member row lock during acceptance.
func (r *MemberRepository) CreditUsage(ctx context.Context, memberID string) (*memberDomain.CreditUsage, error) {
	var row struct {
		UsedCredits      int
		ActiveGuarantees int
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Guarantee{}).
		Select("COALESCE(SUM(legacy_credits_used), 0) AS used_credits, COUNT(*) AS active_guarantees").
		Where("guarantor_id = ? AND status = ?", memberID, loanDomain.GuaranteeAccepted).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	return &memberDomain.CreditUsage{
		UsedCredits:      row.UsedCredits,
		ActiveGuarantees: row.ActiveGuarantees,
	}, nil
}
