package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/access"
	"github.com/mbgestor/anamnese-api/internal/models"
	"gorm.io/gorm"
)

const (
	adminRoleName        = "Admin"
	adminUserName        = "admin"
	sampleUserName       = "julia"
	defaultAdminPassword = "admin"
)

// AccessSyncService keeps the accesses table a mirror of the registered
// route inventory and guarantees a functional Admin identity. Every write
// is an existence-checked upsert so a re-sync may interleave with live
// admin traffic.
type AccessSyncService struct {
	db            *gorm.DB
	adminPassword string
}

// NewAccessSyncService creates the sync service. adminPassword overrides
// the default seeded password; empty keeps the default.
func NewAccessSyncService(db *gorm.DB, adminPassword string) *AccessSyncService {
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}
	return &AccessSyncService{db: db, adminPassword: adminPassword}
}

// Sync reconciles the accesses table against routes, then seeds the Admin
// role, the admin and sample users, and grants Admin every active access.
// Errors are returned for the caller to log; the routine never deletes an
// access row.
func (s *AccessSyncService) Sync(routes []access.Route) error {
	if err := s.reconcileAccesses(routes); err != nil {
		return fmt.Errorf("reconcile accesses: %w", err)
	}

	role, err := s.ensureAdminRole()
	if err != nil {
		return fmt.Errorf("ensure admin role: %w", err)
	}

	admin, err := s.ensureAdminUser()
	if err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	if err := s.ensureSampleUser(); err != nil {
		return fmt.Errorf("ensure sample user: %w", err)
	}

	if err := s.ensureUserRole(admin.ID, role.ID); err != nil {
		return fmt.Errorf("ensure admin role membership: %w", err)
	}

	if err := s.grantActiveAccesses(role.ID); err != nil {
		return fmt.Errorf("grant active accesses: %w", err)
	}

	return nil
}

func accessKey(method, pattern string) string {
	return strings.ToUpper(method) + " " + pattern
}

func (s *AccessSyncService) reconcileAccesses(routes []access.Route) error {
	var existing []models.Access
	if err := s.db.Find(&existing).Error; err != nil {
		return err
	}

	byKey := make(map[string]*models.Access, len(existing))
	for i := range existing {
		byKey[accessKey(existing[i].HttpMethod, existing[i].RoutePattern)] = &existing[i]
	}

	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if r.Path == "" {
			continue
		}
		method := strings.ToUpper(r.Method)
		key := accessKey(method, r.Path)
		seen[key] = true

		name := r.Name
		if row, ok := byKey[key]; ok {
			// Reappearing or renamed endpoints are refreshed in place.
			updates := map[string]interface{}{
				"is_active":    true,
				"display_name": &name,
			}
			if err := s.db.Model(&models.Access{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
				return err
			}
			continue
		}

		row := models.Access{
			HttpMethod:   method,
			RoutePattern: r.Path,
			DisplayName:  &name,
			IsActive:     true,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return err
		}
		byKey[key] = &row
	}

	// Soft removal: endpoints that vanished stay in the table, inactive.
	for i := range existing {
		row := &existing[i]
		if seen[accessKey(row.HttpMethod, row.RoutePattern)] || !row.IsActive {
			continue
		}
		if err := s.db.Model(&models.Access{}).Where("id = ?", row.ID).Update("is_active", false).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *AccessSyncService) ensureAdminRole() (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ?", adminRoleName).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		desc := "System administrator"
		role = models.Role{Name: adminRoleName, Description: &desc, IsSystem: true}
		if err := s.db.Create(&role).Error; err != nil {
			return nil, err
		}
		slog.Info("seeded admin role", "role", adminRoleName)
		return &role, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *AccessSyncService) ensureAdminUser() (*models.User, error) {
	var admin models.User
	err := s.db.Where("user_name = ?", adminUserName).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		email := "admin@example.com"
		fullName := "Administrador"
		locale := "pt-BR"
		admin = models.User{
			UserName: adminUserName,
			Email:    &email,
			IsAdmin:  true,
			IsActive: true,
			Profile:  &models.UserProfile{FullName: &fullName, Locale: &locale},
		}
		if err := s.db.Create(&admin).Error; err != nil {
			return nil, err
		}
		slog.Info("seeded admin user", "user", adminUserName)
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"is_admin": true}
	// The hash is written once and never overwritten, so an operator-set
	// password survives restarts.
	if admin.PasswordHash == "" {
		updates["password_hash"] = HashPassword(s.adminPassword)
	}
	if err := s.db.Model(&admin).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &admin, nil
}

func (s *AccessSyncService) ensureSampleUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("user_name = ?", sampleUserName).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := "julia@example.com"
	fullName := "Júlia Silva"
	locale := "pt-BR"
	user := models.User{
		UserName: sampleUserName,
		Email:    &email,
		IsAdmin:  false,
		IsActive: true,
		Profile:  &models.UserProfile{FullName: &fullName, Locale: &locale},
	}
	return s.db.Create(&user).Error
}

func (s *AccessSyncService) ensureUserRole(userID, roleID uuid.UUID) error {
	var count int64
	err := s.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

// grantActiveAccesses inserts a RoleAccess row for every active access the
// role does not hold yet, so Admin always covers the full active set.
func (s *AccessSyncService) grantActiveAccesses(roleID uuid.UUID) error {
	var activeIDs []uuid.UUID
	if err := s.db.Model(&models.Access{}).Where("is_active = ?", true).Pluck("id", &activeIDs).Error; err != nil {
		return err
	}

	var grantedIDs []uuid.UUID
	if err := s.db.Model(&models.RoleAccess{}).Where("role_id = ?", roleID).Pluck("access_id", &grantedIDs).Error; err != nil {
		return err
	}

	granted := make(map[uuid.UUID]bool, len(grantedIDs))
	for _, id := range grantedIDs {
		granted[id] = true
	}

	for _, id := range activeIDs {
		if granted[id] {
			continue
		}
		if err := s.db.Create(&models.RoleAccess{RoleID: roleID, AccessID: id}).Error; err != nil {
			return err
		}
	}

	return nil
}
