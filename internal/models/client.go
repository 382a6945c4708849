package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is the person an anamnesis form is filled out for.
// JSON field names mirror the SPA wire format (camelCase).
type Client struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string     `gorm:"size:200;not null" json:"fullName"`
	BirthDate     *time.Time `gorm:"type:date" json:"birthDate"`
	Sex           *string    `gorm:"size:20" json:"sex"`
	MaritalStatus *string    `gorm:"size:40" json:"maritalStatus"`
	AddressStreet *string    `gorm:"size:200" json:"addressStreet"`
	AddressNumber *string    `gorm:"size:20" json:"addressNumber"`
	Neighborhood  *string    `gorm:"size:100" json:"neighborhood"`
	City          *string    `gorm:"size:100" json:"city"`
	PostalCode    *string    `gorm:"size:20" json:"postalCode"`
	Email         *string    `gorm:"size:200" json:"email"`
	Profession    *string    `gorm:"size:120" json:"profession"`
	HomePhone     *string    `gorm:"size:30" json:"homePhone"`
	MobilePhone   *string    `gorm:"size:30" json:"mobilePhone"`
	// Legacy field kept for older SPA builds.
	Phone     *string   `gorm:"size:30" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Anamneses []Anamnesis `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
