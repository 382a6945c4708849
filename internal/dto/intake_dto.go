package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/models"
)

// ClientInput carries the client block of an intake submission. Every field
// except FullName is optional.
type ClientInput struct {
	FullName      string     `json:"fullName"`
	BirthDate     *time.Time `json:"birthDate"`
	Sex           *string    `json:"sex"`
	MaritalStatus *string    `json:"maritalStatus"`
	AddressStreet *string    `json:"addressStreet"`
	AddressNumber *string    `json:"addressNumber"`
	Neighborhood  *string    `json:"neighborhood"`
	City          *string    `json:"city"`
	PostalCode    *string    `json:"postalCode"`
	Email         *string    `json:"email"`
	Profession    *string    `json:"profession"`
	HomePhone     *string    `json:"homePhone"`
	MobilePhone   *string    `json:"mobilePhone"`
}

// AnamnesisInput mirrors the form's question set one-to-one. Answers are
// copied verbatim onto the stored record, no cross-field validation.
type AnamnesisInput struct {
	FormDate        *time.Time `json:"formDate"`
	AreaToBeRemoved *string    `json:"areaToBeRemoved"`

	HasAllergies     *bool   `json:"hasAllergies"`
	AllergiesDetails *string `json:"allergiesDetails"`

	IsPregnant *bool `json:"isPregnant"`

	IsBreastFeeding       *bool   `json:"isBreastFeeding"`
	BreastFeedingDuration *string `json:"breastFeedingDuration"`

	InCancerTreatment      *bool   `json:"inCancerTreatment"`
	IsExOncologicPatient   *bool   `json:"isExOncologicPatient"`
	ExOncologicStoppedWhen *string `json:"exOncologicStoppedWhen"`

	HasDiabetes        *bool `json:"hasDiabetes"`
	DiabetesControlled *bool `json:"diabetesControlled"`

	HasHansenDisease *bool `json:"hasHansenDisease"`
	HasEpilepsy      *bool `json:"hasEpilepsy"`
	HasHemophilia    *bool `json:"hasHemophilia"`
	HasHepatitis     *bool `json:"hasHepatitis"`

	HasHypertension         *bool `json:"hasHypertension"`
	BloodPressureControlled *bool `json:"bloodPressureControlled"`

	UsedIsotretinoinLast6Months *bool `json:"usedIsotretinoinLast6Months"`

	HasGlaucoma   *bool `json:"hasGlaucoma"`
	HasHerpes     *bool `json:"hasHerpes"`
	HasHiv        *bool `json:"hasHiv"`
	HasLupus      *bool `json:"hasLupus"`
	HasPsoriasis  *bool `json:"hasPsoriasis"`
	HasVitiligo   *bool `json:"hasVitiligo"`
	HasThrombosis *bool `json:"hasThrombosis"`
	HasPacemaker  *bool `json:"hasPacemaker"`

	HasDermatitisAtArea            *bool   `json:"hasDermatitisAtArea"`
	HasRosacea                     *bool   `json:"hasRosacea"`
	HasCirculatoryProblems         *bool   `json:"hasCirculatoryProblems"`
	HasRespiratoryProblems         *bool   `json:"hasRespiratoryProblems"`
	RespiratoryProblemsDetails     *string `json:"respiratoryProblemsDetails"`
	HasHormonalProblems            *bool   `json:"hasHormonalProblems"`
	HormonalProblemsDetails        *string `json:"hormonalProblemsDetails"`
	HasKeloidTendency              *bool   `json:"hasKeloidTendency"`
	UsesAcidCream                  *bool   `json:"usesAcidCream"`
	UsedInjectableLast30DaysInArea *bool   `json:"usedInjectableLast30DaysInArea"`
	IsSmoker                       *bool   `json:"isSmoker"`
	UsesHormoneOrSteroidTherapy    *bool   `json:"usesHormoneOrSteroidTherapy"`
	UsesRegularMedication          *bool   `json:"usesRegularMedication"`
	RegularMedicationDetails       *string `json:"regularMedicationDetails"`
	DrinksTwoLitersWaterDaily      *bool   `json:"drinksTwoLitersWaterDaily"`
	WaterIntakeQuantity            *string `json:"waterIntakeQuantity"`
	DoesPhysicalExercise           *bool   `json:"doesPhysicalExercise"`
	ExerciseFrequency              *string `json:"exerciseFrequency"`
	UsesSunscreenDaily             *bool   `json:"usesSunscreenDaily"`

	Notes         *string `json:"notes"`
	SignatureCity *string `json:"signatureCity"`
}

type CreateIntakeRequest struct {
	Client           ClientInput    `json:"client"`
	Anamnesis        AnamnesisInput `json:"anamnesis"`
	SignatureDataUrl string         `json:"signatureDataUrl"`
	// When set, the intake reuses (and updates) an existing client.
	ClientID *uuid.UUID `json:"clientId"`
}

type CreateIntakeResponse struct {
	ClientID    uuid.UUID `json:"clientId"`
	AnamnesisID uuid.UUID `json:"anamnesisId"`
}

// ClientSearchResult annotates a client with the timestamp of their most
// recent anamnesis, for the list view.
type ClientSearchResult struct {
	models.Client
	LastAnamnesisAt *time.Time `json:"lastAnamnesisAt"`
}

type AnamnesisPage struct {
	Total int64              `json:"total"`
	Items []models.Anamnesis `json:"items"`
}
