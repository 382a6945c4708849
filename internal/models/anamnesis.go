package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Anamnesis is one signed medical-history form. Immutable once created;
// a correction means submitting a new intake.
//
// The yes/no flags are deliberately independent of each other. The form is
// filled out as dictated by the client, so internally inconsistent answers
// are stored verbatim.
type Anamnesis struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *Client   `json:"client,omitempty"`

	FormDate        *time.Time `gorm:"type:date" json:"formDate"`
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

	Notes *string `json:"notes"`

	// Signature is an opaque data URI captured by the SPA's canvas.
	SignatureDataUrl *string    `gorm:"type:text" json:"signatureDataUrl"`
	SignedAt         *time.Time `json:"signedAt"`
	SignatureCity    *string    `gorm:"size:100" json:"signatureCity"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (a *Anamnesis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
