package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound   = errors.New("role not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrAccessNotFound = errors.New("access not found")
	ErrSystemRole     = errors.New("system roles cannot be deleted")
	ErrSeededUser     = errors.New("the seeded admin user cannot be deleted")
	ErrNameRequired   = errors.New("name is required")
	ErrNameTaken      = errors.New("name is already taken")
)

// RBACService backs the admin endpoints: roles, users, accesses and the
// two join tables. All writes are existence-checked so they tolerate a
// concurrent registry re-sync.
type RBACService struct {
	db *gorm.DB
}

func NewRBACService(db *gorm.DB) *RBACService {
	return &RBACService{db: db}
}

func (s *RBACService) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Order("name").Find(&roles).Error
	return roles, err
}

func (s *RBACService) CreateRole(req *dto.CreateRoleRequest) (*models.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var count int64
	if err := s.db.Model(&models.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	role := models.Role{Name: name, Description: req.Description}
	if err := s.db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RBACService) DeleteRole(id uuid.UUID) error {
	var role models.Role
	if err := s.db.First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.RoleAccess{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}

func (s *RBACService) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Profile").Order("user_name").Find(&users).Error
	return users, err
}

func (s *RBACService) CreateUser(req *dto.CreateUserRequest) (*models.User, error) {
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, ErrNameRequired
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("user_name = ?", userName).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	user := models.User{
		UserName: userName,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin,
		IsActive: true,
	}
	if req.Password != "" {
		user.PasswordHash = HashPassword(req.Password)
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RBACService) DeleteUser(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	// The sync would just recreate it; refusing keeps the Admin identity
	// guarantee honest between syncs.
	if user.UserName == adminUserName {
		return ErrSeededUser
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// ListAccesses returns every access row, inactive ones included, so the
// admin UI can show historical grants.
func (s *RBACService) ListAccesses() ([]models.Access, error) {
	var accesses []models.Access
	err := s.db.Order("route_pattern, http_method").Find(&accesses).Error
	return accesses, err
}

func (s *RBACService) ListRoleUsers(roleID uuid.UUID) ([]models.User, error) {
	if err := s.roleExists(roleID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Order("user_name").
		Find(&users).Error
	return users, err
}

func (s *RBACService) AddUserToRole(roleID, userID uuid.UUID) error {
	if err := s.roleExists(roleID); err != nil {
		return err
	}
	if err := s.userExists(userID); err != nil {
		return err
	}

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

func (s *RBACService) RemoveUserFromRole(roleID, userID uuid.UUID) error {
	if err := s.roleExists(roleID); err != nil {
		return err
	}
	return s.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&models.UserRole{}).Error
}

func (s *RBACService) ListRoleAccesses(roleID uuid.UUID) ([]models.Access, error) {
	if err := s.roleExists(roleID); err != nil {
		return nil, err
	}
	var accesses []models.Access
	err := s.db.
		Joins("JOIN role_accesses ON role_accesses.access_id = accesses.id").
		Where("role_accesses.role_id = ?", roleID).
		Order("route_pattern, http_method").
		Find(&accesses).Error
	return accesses, err
}

func (s *RBACService) GrantAccessToRole(roleID, accessID uuid.UUID) error {
	if err := s.roleExists(roleID); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&models.Access{}).Where("id = ?", accessID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAccessNotFound
	}

	err := s.db.Model(&models.RoleAccess{}).
		Where("role_id = ? AND access_id = ?", roleID, accessID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&models.RoleAccess{RoleID: roleID, AccessID: accessID}).Error
}

func (s *RBACService) RevokeAccessFromRole(roleID, accessID uuid.UUID) error {
	if err := s.roleExists(roleID); err != nil {
		return err
	}
	return s.db.Where("role_id = ? AND access_id = ?", roleID, accessID).Delete(&models.RoleAccess{}).Error
}

func (s *RBACService) roleExists(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Role{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *RBACService) userExists(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
