package member

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// MaxActiveGuarantees caps concurrently accepted commitments per member,
// system-wide.
const MaxActiveGuarantees = 3

var (
	ErrNotFound               = errors.New("member not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInsufficientCredits    = errors.New("not enough available legacy credits")
	ErrGuaranteeLimitExceeded = errors.New("active guarantee limit reached")
)

type Member struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	MemberID     string         `gorm:"size:32;uniqueIndex:ux_members_member_id_active" json:"member_id"`
	Name         string         `gorm:"size:255" json:"name"`
	Email        string         `gorm:"size:255;uniqueIndex:ux_members_email_active" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;type:text" json:"-"`
	Role         Role           `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	TotalCredits int            `gorm:"column:total_credits" json:"total_credits"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }

// CreditUsage is the derived credit-ledger view for one member,
// recomputed from accepted commitments.
type CreditUsage struct {
	UsedCredits      int
	ActiveGuarantees int
}

// CreditSummary is the member-facing guarantee-summary payload.
type CreditSummary struct {
	TotalCredits     int `json:"totalCredits"`
	UsedCredits      int `json:"usedCredits"`
	AvailableCredits int `json:"availableCredits"`
	ActiveGuarantees int `json:"activeGuarantees"`
}
