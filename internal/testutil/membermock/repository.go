package membermock

import (
	"context"

	domain "welfare-backend/internal/domain/member"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, m *domain.Member) error
	SaveFn                   func(ctx context.Context, m *domain.Member) error
	GetByMemberIDFn          func(ctx context.Context, memberID string) (*domain.Member, error)
	GetByEmailFn             func(ctx context.Context, email string) (*domain.Member, error)
	GetByMemberIDForUpdateFn func(ctx context.Context, memberID string) (*domain.Member, error)
	CreditUsageFn            func(ctx context.Context, memberID string) (*domain.CreditUsage, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, e *domain.Member) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDFn != nil {
		return m.GetByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDForUpdateFn != nil {
		return m.GetByMemberIDForUpdateFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) CreditUsage(ctx context.Context, memberID string) (*domain.CreditUsage, error) {
	if m.CreditUsageFn != nil {
		return m.CreditUsageFn(ctx, memberID)
	}
	return nil, context.Canceled
}
