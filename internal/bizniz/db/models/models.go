// Package models contains the persisted row shapes, configured to work using
// GORM as the ORM. Domain code never sees these types; the db package converts.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is a row of the companies table.
type Company struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"size:255;not null"`
	Location       string    `gorm:"size:255;not null"`
	Description    string    `gorm:"size:3000"`
	ContractLength int       `gorm:"not null"`
	EmployeeCount  int       `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Company) TableName() string {
	return "companies"
}

// Employee is a row of the employees table. Company is only loaded through
// Preload and never written through the association.
type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName      string     `gorm:"size:255;not null"`
	LastName       string     `gorm:"size:255;not null"`
	Position       string     `gorm:"size:255;not null"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Company        *Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT"`
	ContractLength int        `gorm:"not null"`
	StartDate      time.Time  `gorm:"type:date;not null"`
	ReviewDate     *time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}
