package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	Save(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	// GetByMemberIDForUpdate locks the member row; the capacity
	// read-check-write during commitment acceptance runs under it.
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
	// CreditUsage recomputes used credits and active-guarantee count
	// from accepted commitments.
	CreditUsage(ctx context.Context, memberID string) (*CreditUsage, error)
}
