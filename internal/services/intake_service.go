package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFullNameRequired  = errors.New("fullName is required")
	ErrSignatureRequired = errors.New("signature is required")
	ErrClientNotFound    = errors.New("client not found")
	ErrAnamnesisNotFound = errors.New("anamnesis not found")
)

const (
	defaultTake = 20
	maxTake     = 100
)

// IntakeService creates intakes (client upsert + anamnesis insert) and
// serves the read side of the clinical data.
type IntakeService struct {
	db *gorm.DB
}

func NewIntakeService(db *gorm.DB) *IntakeService {
	return &IntakeService{db: db}
}

// CreateIntake validates the submission, then upserts the client and
// inserts a new anamnesis in one transaction. Anamnesis answers are copied
// verbatim; SignedAt is set server-side.
func (s *IntakeService) CreateIntake(req *dto.CreateIntakeRequest) (*dto.CreateIntakeResponse, error) {
	fullName := strings.TrimSpace(req.Client.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	if strings.TrimSpace(req.SignatureDataUrl) == "" {
		return nil, ErrSignatureRequired
	}

	var resp dto.CreateIntakeResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if req.ClientID != nil {
			if err := tx.First(&client, "id = ?", *req.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrClientNotFound
				}
				return err
			}
			applyClientInput(&client, &req.Client, fullName)
			client.UpdatedAt = time.Now().UTC()
			if err := tx.Save(&client).Error; err != nil {
				return err
			}
		} else {
			applyClientInput(&client, &req.Client, fullName)
			if err := tx.Create(&client).Error; err != nil {
				return err
			}
		}

		anamnesis := buildAnamnesis(client.ID, &req.Anamnesis, req.SignatureDataUrl)
		if err := tx.Create(anamnesis).Error; err != nil {
			return err
		}

		resp = dto.CreateIntakeResponse{ClientID: client.ID, AnamnesisID: anamnesis.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func applyClientInput(client *models.Client, in *dto.ClientInput, fullName string) {
	client.FullName = fullName
	client.BirthDate = in.BirthDate
	client.Sex = in.Sex
	client.MaritalStatus = in.MaritalStatus
	client.AddressStreet = in.AddressStreet
	client.AddressNumber = in.AddressNumber
	client.Neighborhood = in.Neighborhood
	client.City = in.City
	client.PostalCode = in.PostalCode
	client.Email = in.Email
	client.Profession = in.Profession
	client.HomePhone = in.HomePhone
	client.MobilePhone = in.MobilePhone
}

func buildAnamnesis(clientID uuid.UUID, in *dto.AnamnesisInput, signature string) *models.Anamnesis {
	now := time.Now().UTC()
	return &models.Anamnesis{
		ClientID:        clientID,
		FormDate:        in.FormDate,
		AreaToBeRemoved: in.AreaToBeRemoved,

		HasAllergies:     in.HasAllergies,
		AllergiesDetails: in.AllergiesDetails,

		IsPregnant: in.IsPregnant,

		IsBreastFeeding:       in.IsBreastFeeding,
		BreastFeedingDuration: in.BreastFeedingDuration,

		InCancerTreatment:      in.InCancerTreatment,
		IsExOncologicPatient:   in.IsExOncologicPatient,
		ExOncologicStoppedWhen: in.ExOncologicStoppedWhen,

		HasDiabetes:        in.HasDiabetes,
		DiabetesControlled: in.DiabetesControlled,

		HasHansenDisease: in.HasHansenDisease,
		HasEpilepsy:      in.HasEpilepsy,
		HasHemophilia:    in.HasHemophilia,
		HasHepatitis:     in.HasHepatitis,

		HasHypertension:         in.HasHypertension,
		BloodPressureControlled: in.BloodPressureControlled,

		UsedIsotretinoinLast6Months: in.UsedIsotretinoinLast6Months,

		HasGlaucoma:   in.HasGlaucoma,
		HasHerpes:     in.HasHerpes,
		HasHiv:        in.HasHiv,
		HasLupus:      in.HasLupus,
		HasPsoriasis:  in.HasPsoriasis,
		HasVitiligo:   in.HasVitiligo,
		HasThrombosis: in.HasThrombosis,
		HasPacemaker:  in.HasPacemaker,

		HasDermatitisAtArea:            in.HasDermatitisAtArea,
		HasRosacea:                     in.HasRosacea,
		HasCirculatoryProblems:         in.HasCirculatoryProblems,
		HasRespiratoryProblems:         in.HasRespiratoryProblems,
		RespiratoryProblemsDetails:     in.RespiratoryProblemsDetails,
		HasHormonalProblems:            in.HasHormonalProblems,
		HormonalProblemsDetails:        in.HormonalProblemsDetails,
		HasKeloidTendency:              in.HasKeloidTendency,
		UsesAcidCream:                  in.UsesAcidCream,
		UsedInjectableLast30DaysInArea: in.UsedInjectableLast30DaysInArea,
		IsSmoker:                       in.IsSmoker,
		UsesHormoneOrSteroidTherapy:    in.UsesHormoneOrSteroidTherapy,
		UsesRegularMedication:          in.UsesRegularMedication,
		RegularMedicationDetails:       in.RegularMedicationDetails,
		DrinksTwoLitersWaterDaily:      in.DrinksTwoLitersWaterDaily,
		WaterIntakeQuantity:            in.WaterIntakeQuantity,
		DoesPhysicalExercise:           in.DoesPhysicalExercise,
		ExerciseFrequency:              in.ExerciseFrequency,
		UsesSunscreenDaily:             in.UsesSunscreenDaily,

		Notes: in.Notes,

		SignatureDataUrl: &signature,
		SignedAt:         &now,
		SignatureCity:    in.SignatureCity,
	}
}

func (s *IntakeService) GetClient(id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// SearchClients matches q as a case-insensitive substring of the client
// name, ordered by name, at most take results. Each hit carries the
// timestamp of the client's newest anamnesis.
func (s *IntakeService) SearchClients(q string, take int) ([]dto.ClientSearchResult, error) {
	take = clampTake(take)

	tx := s.db.Model(&models.Client{})
	if q != "" {
		tx = tx.Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var clients []models.Client
	if err := tx.Order("full_name").Limit(take).Find(&clients).Error; err != nil {
		return nil, err
	}

	results := make([]dto.ClientSearchResult, 0, len(clients))
	if len(clients) == 0 {
		return results, nil
	}

	ids := make([]uuid.UUID, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	type latestRow struct {
		ClientID uuid.UUID
		Latest   time.Time
	}
	var latest []latestRow
	err := s.db.Model(&models.Anamnesis{}).
		Select("client_id, MAX(created_at) AS latest").
		Where("client_id IN ?", ids).
		Group("client_id").
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}

	latestByClient := make(map[uuid.UUID]time.Time, len(latest))
	for _, row := range latest {
		latestByClient[row.ClientID] = row.Latest
	}

	for _, c := range clients {
		result := dto.ClientSearchResult{Client: c}
		if ts, ok := latestByClient[c.ID]; ok {
			t := ts
			result.LastAnamnesisAt = &t
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *IntakeService) GetAnamnesis(id uuid.UUID) (*models.Anamnesis, error) {
	var anamnesis models.Anamnesis
	if err := s.db.Preload("Client").First(&anamnesis, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnamnesisNotFound
		}
		return nil, err
	}
	return &anamnesis, nil
}

// ListAnamneses pages through anamneses newest-first, optionally filtered
// by a case-insensitive substring of the client name.
func (s *IntakeService) ListAnamneses(q string, skip, take int) (*dto.AnamnesisPage, error) {
	if skip < 0 {
		skip = 0
	}
	take = clampTake(take)

	// Fresh chain per finisher; GORM statements are not reusable after Count.
	query := func() *gorm.DB {
		tx := s.db.Model(&models.Anamnesis{}).
			Joins("JOIN clients ON clients.id = anamneses.client_id")
		if q != "" {
			tx = tx.Where("LOWER(clients.full_name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		return tx
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Anamnesis
	err := query().
		Order("anamneses.created_at DESC").
		Offset(skip).
		Limit(take).
		Preload("Client").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &dto.AnamnesisPage{Total: total, Items: items}, nil
}

func clampTake(take int) int {
	switch {
	case take < 1:
		return defaultTake
	case take > maxTake:
		return maxTake
	default:
		return take
	}
}
