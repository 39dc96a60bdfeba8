package types

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user permission levels.
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	return r == UserRoleMember || r == UserRoleAdmin
}

// CampaignStatus tracks how far a campaign got through the integrations.
type CampaignStatus string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// Valid reports whether the status is known.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusPending, CampaignStatusCompleted, CampaignStatusFailed:
		return true
	}
	return false
}

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderPassword AuthProvider = "password"
)

// BaseModel contains common fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
