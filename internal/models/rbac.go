package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role groups accesses. System roles are seeded at startup and cannot be
// deleted through the admin API.
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"size:250" json:"description"`
	IsSystem    bool      `json:"isSystem"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Access is one protectable (HTTP method, route pattern) pair. Rows are
// soft-deactivated when the endpoint vanishes from the route inventory so
// historical grants are preserved.
type Access struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HttpMethod   string    `gorm:"size:20;not null;uniqueIndex:idx_accesses_method_pattern" json:"httpMethod"`
	RoutePattern string    `gorm:"size:300;not null;uniqueIndex:idx_accesses_method_pattern" json:"routePattern"`
	DisplayName  *string   `gorm:"size:200" json:"displayName"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
}

func (a *Access) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UserRole links a user to a role. Composite key, no lifecycle of its own.
type UserRole struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`
}

// RoleAccess grants an access to a role.
type RoleAccess struct {
	RoleID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`
	AccessID uuid.UUID `gorm:"type:uuid;primaryKey" json:"accessId"`
}
