// Package models contains the persistence records for the application,
// configured to work using GORM as the ORM. The records carry both company
// variants in a single table; the Type column discriminates which of the
// nullable variant columns are meaningful.
package models

import (
	"time"
)

// Company is the persisted form of a domain company. The unique indexes on
// CUIT and Email close the registration check-then-insert race at the storage
// layer.
type Company struct {
	ID              string `gorm:"primaryKey;size:36"`
	Name            string `gorm:"size:255;not null"`
	CUIT            string `gorm:"column:cuit;size:13;uniqueIndex"`
	Email           string `gorm:"size:255;uniqueIndex"`
	Type            string `gorm:"size:20;not null"`
	CreatedAt       time.Time
	EmployeeCount   *int
	AnnualRevenue   *float64
	Sector          *string `gorm:"size:100"`
	IsMultinational *bool
	StockSymbol     *string `gorm:"size:10"`
}

// TableName maps the record to the companies table.
func (Company) TableName() string { return "companies" }

// Transfer is the persisted form of a bank transfer.
type Transfer struct {
	ID                 string `gorm:"primaryKey;size:36"`
	CompanyID          string `gorm:"size:36;index;not null"`
	Amount             float64
	Currency           string    `gorm:"size:3"`
	DestinationAccount string    `gorm:"size:23"`
	Description        string    `gorm:"size:255"`
	TransferDate       time.Time `gorm:"index"`
}

// TableName maps the record to the transfers table.
func (Transfer) TableName() string { return "transfers" }

// Adhesion is the persisted form of an adhesion. The company is referenced by
// id and re-read on load to rebuild the owned domain reference.
type Adhesion struct {
	ID           string    `gorm:"primaryKey;size:36"`
	CompanyID    string    `gorm:"size:36;index;not null"`
	AdhesionDate time.Time `gorm:"index"`
	Status       string    `gorm:"size:20;default:PENDING"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName maps the record to the adhesions table.
func (Adhesion) TableName() string { return "adhesions" }
