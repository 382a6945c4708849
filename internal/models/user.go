package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an operator of the system, resolved per request from the trusted
// X-User-Id header. There is no password login; PasswordHash only exists so
// grants survive a future auth layer.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName     string    `gorm:"size:100;not null;uniqueIndex" json:"userName"`
	Email        *string   `gorm:"size:200" json:"email"`
	PasswordHash string    `gorm:"size:200" json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Profile *UserProfile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds display preferences, 1:1 with User.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	FullName  *string   `gorm:"size:200" json:"fullName"`
	AvatarUrl *string   `gorm:"size:300" json:"avatarUrl"`
	Locale    *string   `gorm:"size:10" json:"locale"`
	Phone     *string   `gorm:"size:30" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
