// Package models defines the core domain entities: Company (with its PYME and
// CORPORATIVA variants), Transfer, and Adhesion. Every entity validates its own
// invariants at construction time and is immutable afterwards.
package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CompanyType discriminates the two company variants.
type CompanyType string

const (
	// Pyme is a small/medium enterprise, capped on headcount and revenue.
	Pyme CompanyType = "PYME"
	// Corporativa is a corporate company with sector and listing attributes.
	Corporativa CompanyType = "CORPORATIVA"
)

var (
	// CUIT format: XX-XXXXXXXX-X (11 digits).
	cuitPattern  = regexp.MustCompile(`^\d{2}-\d{8}-\d$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Company is the closed interface over the two variants. The variant set is
// fixed; storage adapters reconstruct the concrete type from the Type
// discriminator.
type Company interface {
	ID() string
	Name() string
	CUIT() string
	Email() string
	Type() CompanyType
	CreatedAt() time.Time
	// TypeSpecificInfo returns only the variant's own fields.
	TypeSpecificInfo() map[string]interface{}
	// JSON returns the serialization view: common fields merged with the
	// variant fields.
	JSON() map[string]interface{}
}

// companyBase carries the fields shared by both variants.
type companyBase struct {
	id        string
	name      string
	cuit      string
	email     string
	ctype     CompanyType
	createdAt time.Time
}

func newCompanyBase(id, name, cuit, email string, ctype CompanyType, createdAt time.Time) (companyBase, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return companyBase{}, errors.New("Company ID is required")
	case strings.TrimSpace(name) == "":
		return companyBase{}, errors.New("Company name is required")
	case strings.TrimSpace(cuit) == "":
		return companyBase{}, errors.New("CUIT is required")
	case !cuitPattern.MatchString(cuit):
		return companyBase{}, errors.New("Invalid CUIT format")
	case strings.TrimSpace(email) == "":
		return companyBase{}, errors.New("Company email is required")
	case !emailPattern.MatchString(email):
		return companyBase{}, errors.New("Invalid email format")
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return companyBase{
		id:        id,
		name:      name,
		cuit:      cuit,
		email:     email,
		ctype:     ctype,
		createdAt: createdAt,
	}, nil
}

func (c *companyBase) ID() string           { return c.id }
func (c *companyBase) Name() string         { return c.name }
func (c *companyBase) CUIT() string         { return c.cuit }
func (c *companyBase) Email() string        { return c.email }
func (c *companyBase) Type() CompanyType    { return c.ctype }
func (c *companyBase) CreatedAt() time.Time { return c.createdAt }

func companyJSON(c Company) map[string]interface{} {
	view := map[string]interface{}{
		"id":        c.ID(),
		"name":      c.Name(),
		"cuit":      c.CUIT(),
		"email":     c.Email(),
		"type":      string(c.Type()),
		"createdAt": c.CreatedAt(),
	}
	for k, v := range c.TypeSpecificInfo() {
		view[k] = v
	}
	return view
}

// CompanyPyme is the PYME variant, subject to Argentine PYME regulations.
type CompanyPyme struct {
	companyBase
	employeeCount int
	annualRevenue float64
}

// MaxPymeAnnualRevenue is the regulatory revenue cap for PYME companies, in ARS.
const MaxPymeAnnualRevenue = 50_000_000

// NewCompanyPyme builds and validates a PYME company. A zero createdAt defaults
// to the current time.
func NewCompanyPyme(id, name, cuit, email string, employeeCount int, annualRevenue float64, createdAt time.Time) (*CompanyPyme, error) {
	base, err := newCompanyBase(id, name, cuit, email, Pyme, createdAt)
	if err != nil {
		return nil, err
	}
	if employeeCount < 1 || employeeCount > 250 {
		return nil, errors.New("PYME must have between 1 and 250 employees")
	}
	if annualRevenue <= 0 {
		return nil, errors.New("Annual revenue must be positive")
	}
	if annualRevenue > MaxPymeAnnualRevenue {
		return nil, errors.New("PYME annual revenue cannot exceed $50M ARS")
	}
	return &CompanyPyme{
		companyBase:   base,
		employeeCount: employeeCount,
		annualRevenue: annualRevenue,
	}, nil
}

// EmployeeCount returns the company headcount.
func (c *CompanyPyme) EmployeeCount() int { return c.employeeCount }

// AnnualRevenue returns the declared annual revenue in ARS.
func (c *CompanyPyme) AnnualRevenue() float64 { return c.annualRevenue }

func (c *CompanyPyme) TypeSpecificInfo() map[string]interface{} {
	return map[string]interface{}{
		"employeeCount": c.employeeCount,
		"annualRevenue": c.annualRevenue,
	}
}

func (c *CompanyPyme) JSON() map[string]interface{} { return companyJSON(c) }

// CompanyCorporativa is the corporate variant.
type CompanyCorporativa struct {
	companyBase
	sector          string
	isMultinational bool
	stockSymbol     string
}

// NewCompanyCorporativa builds and validates a corporate company. stockSymbol
// is optional; the empty string means the company is not listed.
func NewCompanyCorporativa(id, name, cuit, email, sector string, isMultinational bool, stockSymbol string, createdAt time.Time) (*CompanyCorporativa, error) {
	base, err := newCompanyBase(id, name, cuit, email, Corporativa, createdAt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sector) == "" {
		return nil, errors.New("Corporate sector is required")
	}
	if stockSymbol != "" {
		if strings.TrimSpace(stockSymbol) == "" {
			return nil, errors.New("Stock symbol cannot be empty if provided")
		}
		if len(stockSymbol) < 3 || len(stockSymbol) > 5 {
			return nil, errors.New("Stock symbol must be between 3 and 5 characters")
		}
	}
	return &CompanyCorporativa{
		companyBase:     base,
		sector:          sector,
		isMultinational: isMultinational,
		stockSymbol:     stockSymbol,
	}, nil
}

// Sector returns the business sector.
func (c *CompanyCorporativa) Sector() string { return c.sector }

// IsMultinational reports whether the company operates in multiple countries.
func (c *CompanyCorporativa) IsMultinational() bool { return c.isMultinational }

// StockSymbol returns the ticker symbol, or the empty string when unlisted.
func (c *CompanyCorporativa) StockSymbol() string { return c.stockSymbol }

func (c *CompanyCorporativa) TypeSpecificInfo() map[string]interface{} {
	info := map[string]interface{}{
		"sector":          c.sector,
		"isMultinational": c.isMultinational,
	}
	if c.stockSymbol != "" {
		info["stockSymbol"] = c.stockSymbol
	}
	return info
}

func (c *CompanyCorporativa) JSON() map[string]interface{} { return companyJSON(c) }

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	Name  *string
	Email *string
}

func (u *CompanyUpdate) String() string {
	parts := make([]string, 0, 2)
	if u.Name != nil {
		parts = append(parts, fmt.Sprintf("name=%s", *u.Name))
	}
	if u.Email != nil {
		parts = append(parts, fmt.Sprintf("email=%s", *u.Email))
	}
	return strings.Join(parts, " ")
}
