package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/models"
	"gorm.io/gorm"
)

// ProfileService reads and updates the 1:1 profile of the acting user.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No profile yet is not an error; the SPA shows an empty form.
		return &models.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update overwrites the profile fields, creating the row on first use.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	profile.FullName = req.FullName
	profile.AvatarUrl = req.AvatarUrl
	profile.Locale = req.Locale
	profile.Phone = req.Phone
	profile.UpdatedAt = time.Now().UTC()

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
