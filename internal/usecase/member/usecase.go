package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "welfare-backend/internal/domain/member"
	"welfare-backend/pkg/id"
	"welfare-backend/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Usecase struct {
	repo   domain.Repository
	tokens *token.Manager
}

func NewUsecase(r domain.Repository, tokens *token.Manager) *Usecase {
	return &Usecase{repo: r, tokens: tokens}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MemberDTO struct {
	MemberID     string    `json:"member_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	TotalCredits int       `json:"total_credits"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginResult struct {
	Token  string    `json:"token"`
	Member MemberDTO `json:"member"`
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*MemberDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || email == "" || len(in.Password) < 8 {
		return nil, errors.New("name, email and a password of at least 8 characters are required")
	}

	_, err := u.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := &domain.Member{
		MemberID:     id.NewID32(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toDTO(m), nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	m, err := u.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	tok, err := u.tokens.Issue(m.MemberID, string(m.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Member: *toDTO(m)}, nil
}

// GrantCredits accrues legacy credits onto a member's balance. Admins
// run this monthly; the derived used/available split is untouched.
func (u *Usecase) GrantCredits(ctx context.Context, memberID string, credits int) (*MemberDTO, error) {
	if credits <= 0 {
		return nil, errors.New("granted credits must be positive")
	}
	m, err := u.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.TotalCredits += credits
	if err := u.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	return toDTO(m), nil
}

func (u *Usecase) Get(ctx context.Context, memberID string) (*MemberDTO, error) {
	m, err := u.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(m), nil
}

func toDTO(m *domain.Member) *MemberDTO {
	return &MemberDTO{
		MemberID:     m.MemberID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         string(m.Role),
		TotalCredits: m.TotalCredits,
		CreatedAt:    m.CreatedAt,
	}
}
