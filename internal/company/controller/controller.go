// Package controller implements the core business logic (service layer):
// registering a company adhesion, deciding adhesions, and the two last-month
// reports, orchestrating repository operations and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/drosetti/interbanking/internal/company/errors"
	"github.com/drosetti/interbanking/internal/company/events"
	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/drosetti/interbanking/internal/pkg/daterange"
	"github.com/drosetti/interbanking/internal/pkg/idgen"
	"go.uber.org/zap"
)

// EventProducer publishes adhesion lifecycle events.
type EventProducer interface {
	Produce(eventType events.EventType, adhesion *models.Adhesion)
}

// CompanyRepository defines the storage contract for companies. Lookup methods
// return e.ErrNotFound for absence; any other error is a storage failure.
type CompanyRepository interface {
	FindAll(ctx context.Context) ([]models.Company, error)
	FindByID(ctx context.Context, id string) (models.Company, error)
	FindByCUIT(ctx context.Context, cuit string) (models.Company, error)
	FindByEmail(ctx context.Context, email string) (models.Company, error)
	Save(ctx context.Context, company models.Company) error
	Update(ctx context.Context, id string, update *models.CompanyUpdate) (models.Company, error)
	Delete(ctx context.Context, id string) error
}

// TransferRepository defines the storage contract for transfers.
type TransferRepository interface {
	FindAll(ctx context.Context) ([]*models.Transfer, error)
	FindByID(ctx context.Context, id string) (*models.Transfer, error)
	FindByCompanyID(ctx context.Context, companyID string) ([]*models.Transfer, error)
	// FindByDateRange returns transfers with transferDate in [start, end],
	// ordered by transferDate descending.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Transfer, error)
	// FindCompaniesByTransferDateRange returns the ids of companies with at
	// least one transfer in [start, end]. Ids, not companies: a transfer is
	// evidence of activity regardless of the company's adhesion outcome.
	FindCompaniesByTransferDateRange(ctx context.Context, start, end time.Time) ([]string, error)
	Save(ctx context.Context, transfer *models.Transfer) error
	Delete(ctx context.Context, id string) error
}

// AdhesionRepository defines the storage contract for adhesions.
type AdhesionRepository interface {
	FindAll(ctx context.Context) ([]*models.Adhesion, error)
	FindByID(ctx context.Context, id string) (*models.Adhesion, error)
	FindByCompanyID(ctx context.Context, companyID string) ([]*models.Adhesion, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Adhesion, error)
	// FindCompaniesByAdhesionDateRange returns the full companies whose
	// adhesion falls in [start, end] AND is APPROVED. Pending and rejected
	// adhesions are excluded: "adhered" is only meaningful once approved.
	FindCompaniesByAdhesionDateRange(ctx context.Context, start, end time.Time) ([]models.Company, error)
	Save(ctx context.Context, adhesion *models.Adhesion) error
	// UpdateStatus applies the status transition through the domain entity and
	// persists the result, returning the new adhesion value.
	UpdateStatus(ctx context.Context, id string, status models.AdhesionStatus) (*models.Adhesion, error)
	Delete(ctx context.Context, id string) error
}

// RegisterCompanyAdhesionRequest is the flat registration input. EmployeeCount
// and AnnualRevenue apply to PYME; Sector, IsMultinational and StockSymbol to
// CORPORATIVA. IsMultinational is a pointer so that an explicit false is
// distinguishable from an absent value.
type RegisterCompanyAdhesionRequest struct {
	Name            string
	CUIT            string
	Email           string
	Type            models.CompanyType
	EmployeeCount   int
	AnnualRevenue   float64
	Sector          string
	IsMultinational *bool
	StockSymbol     string
}

// CompanyService provides the adhesion and reporting use cases on top of the
// repository contracts. It is stateless aside from its injected collaborators;
// repository calls within a use case are strictly sequential.
type CompanyService struct {
	companies CompanyRepository
	transfers TransferRepository
	adhesions AdhesionRepository
	producer  EventProducer
	ids       idgen.Generator
	now       func() time.Time
	logger    *zap.Logger
}

// NewCompanyService constructs a CompanyService with its repositories, an
// event producer, an id generator, and a logger.
func NewCompanyService(
	companies CompanyRepository,
	transfers TransferRepository,
	adhesions AdhesionRepository,
	producer EventProducer,
	ids idgen.Generator,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companies: companies,
		transfers: transfers,
		adhesions: adhesions,
		producer:  producer,
		ids:       ids,
		now:       time.Now,
		logger:    logger.Named("company_service"),
	}
}

// GetCompaniesWithTransfersLastMonth reports the companies that made at least
// one transfer during the previous calendar month. The repository's id order
// is preserved and duplicates are passed through unchanged; ids that no longer
// resolve to a company are skipped.
func (s *CompanyService) GetCompaniesWithTransfersLastMonth(ctx context.Context) ([]models.Company, error) {
	start, end := daterange.LastMonth(s.now())

	ids, err := s.transfers.FindCompaniesByTransferDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	companies := make([]models.Company, 0, len(ids))
	for _, id := range ids {
		company, err := s.companies.FindByID(ctx, id)
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Debug("Transfer references unknown company, skipping",
				zap.String("company_id", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

// GetCompaniesAdheredLastMonth reports the companies whose adhesion was
// approved during the previous calendar month.
func (s *CompanyService) GetCompaniesAdheredLastMonth(ctx context.Context) ([]models.Company, error) {
	start, end := daterange.LastMonth(s.now())
	return s.adhesions.FindCompaniesByAdhesionDateRange(ctx, start, end)
}

// RegisterCompanyAdhesion registers a new company and its PENDING adhesion.
// Uniqueness conflicts are checked before any type-specific validation, and
// the CUIT check strictly precedes the email check. The company save and the
// adhesion save are independent steps: if the adhesion save fails the company
// remains persisted and the failure surfaces to the caller.
func (s *CompanyService) RegisterCompanyAdhesion(ctx context.Context, req *RegisterCompanyAdhesionRequest) (*models.Adhesion, error) {
	if _, err := s.companies.FindByCUIT(ctx, req.CUIT); err == nil {
		return nil, fmt.Errorf("Company with CUIT %s already exists", req.CUIT)
	} else if !errors.Is(err, e.ErrNotFound) {
		return nil, err
	}

	if _, err := s.companies.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("Company with email %s already exists", req.Email)
	} else if !errors.Is(err, e.ErrNotFound) {
		return nil, err
	}

	companyID := s.ids.NextID()

	var company models.Company
	if req.Type == models.Pyme {
		if req.EmployeeCount == 0 || req.AnnualRevenue == 0 {
			return nil, errors.New("Employee count and annual revenue are required for PYME companies")
		}
		pyme, err := models.NewCompanyPyme(companyID, req.Name, req.CUIT, req.Email, req.EmployeeCount, req.AnnualRevenue, time.Time{})
		if err != nil {
			return nil, err
		}
		company = pyme
	} else {
		if req.Sector == "" || req.IsMultinational == nil {
			return nil, errors.New("Sector and multinational status are required for Corporate companies")
		}
		corp, err := models.NewCompanyCorporativa(companyID, req.Name, req.CUIT, req.Email, req.Sector, *req.IsMultinational, req.StockSymbol, time.Time{})
		if err != nil {
			return nil, err
		}
		company = corp
	}

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, err
	}

	adhesionID := s.ids.NextID()
	for adhesionID == companyID {
		adhesionID = s.ids.NextID()
	}

	adhesion, err := models.NewAdhesion(adhesionID, company, time.Time{}, models.StatusPending)
	if err != nil {
		return nil, err
	}

	if err := s.adhesions.Save(ctx, adhesion); err != nil {
		s.logger.Error("Adhesion save failed after company was persisted",
			zap.Error(err),
			zap.String("company_id", company.ID()),
		)
		return nil, err
	}

	go func() {
		s.producer.Produce(events.AdhesionRegistered, adhesion)
	}()
	return adhesion, nil
}

// ApproveAdhesion transitions the adhesion to APPROVED and fires an event.
func (s *CompanyService) ApproveAdhesion(ctx context.Context, id string) (*models.Adhesion, error) {
	return s.decideAdhesion(ctx, id, models.StatusApproved, events.AdhesionApproved)
}

// RejectAdhesion transitions the adhesion to REJECTED and fires an event.
func (s *CompanyService) RejectAdhesion(ctx context.Context, id string) (*models.Adhesion, error) {
	return s.decideAdhesion(ctx, id, models.StatusRejected, events.AdhesionRejected)
}

func (s *CompanyService) decideAdhesion(ctx context.Context, id string, status models.AdhesionStatus, eventType events.EventType) (*models.Adhesion, error) {
	adhesion, err := s.adhesions.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update adhesion status: %w", err)
	}

	go func() {
		s.producer.Produce(eventType, adhesion)
	}()
	return adhesion, nil
}
