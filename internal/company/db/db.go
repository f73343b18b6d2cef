// Package db implements the repository contracts on PostgreSQL via GORM.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbm "github.com/drosetti/interbanking/internal/company/db/models"
	e "github.com/drosetti/interbanking/internal/company/errors"
	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/drosetti/interbanking/internal/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds the database connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DB wraps the GORM handle shared by the repositories.
type DB struct {
	db *gorm.DB
}

// New connects to PostgreSQL and migrates the schema.
func New(cfg *Config) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gdb.AutoMigrate(&dbm.Company{}, &dbm.Transfer{}, &dbm.Adhesion{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{db: gdb}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Companies returns the company repository backed by this database.
func (d *DB) Companies() *CompanyRepo { return &CompanyRepo{db: d.db} }

// Transfers returns the transfer repository backed by this database.
func (d *DB) Transfers() *TransferRepo { return &TransferRepo{db: d.db} }

// Adhesions returns the adhesion repository backed by this database.
func (d *DB) Adhesions() *AdhesionRepo { return &AdhesionRepo{db: d.db} }

// record mapping

func companyToRecord(company models.Company) (*dbm.Company, error) {
	rec := &dbm.Company{
		ID:        company.ID(),
		Name:      company.Name(),
		CUIT:      company.CUIT(),
		Email:     company.Email(),
		Type:      string(company.Type()),
		CreatedAt: company.CreatedAt(),
	}
	switch c := company.(type) {
	case *models.CompanyPyme:
		rec.EmployeeCount = utils.Ptr(c.EmployeeCount())
		rec.AnnualRevenue = utils.Ptr(c.AnnualRevenue())
	case *models.CompanyCorporativa:
		rec.Sector = utils.Ptr(c.Sector())
		rec.IsMultinational = utils.Ptr(c.IsMultinational())
		if c.StockSymbol() != "" {
			rec.StockSymbol = utils.Ptr(c.StockSymbol())
		}
	default:
		return nil, fmt.Errorf("unknown company type %T", company)
	}
	return rec, nil
}

func companyFromRecord(rec *dbm.Company) (models.Company, error) {
	switch models.CompanyType(rec.Type) {
	case models.Pyme:
		if rec.EmployeeCount == nil || rec.AnnualRevenue == nil {
			return nil, fmt.Errorf("company %s: PYME record missing variant fields", rec.ID)
		}
		return models.NewCompanyPyme(rec.ID, rec.Name, rec.CUIT, rec.Email, *rec.EmployeeCount, *rec.AnnualRevenue, rec.CreatedAt)
	case models.Corporativa:
		if rec.Sector == nil || rec.IsMultinational == nil {
			return nil, fmt.Errorf("company %s: CORPORATIVA record missing variant fields", rec.ID)
		}
		stockSymbol := ""
		if rec.StockSymbol != nil {
			stockSymbol = *rec.StockSymbol
		}
		return models.NewCompanyCorporativa(rec.ID, rec.Name, rec.CUIT, rec.Email, *rec.Sector, *rec.IsMultinational, stockSymbol, rec.CreatedAt)
	default:
		return nil, fmt.Errorf("company %s: unknown type %q", rec.ID, rec.Type)
	}
}

func transferToRecord(t *models.Transfer) *dbm.Transfer {
	return &dbm.Transfer{
		ID:                 t.ID(),
		CompanyID:          t.CompanyID(),
		Amount:             t.Amount(),
		Currency:           t.Currency(),
		DestinationAccount: t.DestinationAccount(),
		Description:        t.Description(),
		TransferDate:       t.TransferDate(),
	}
}

func transferFromRecord(rec *dbm.Transfer) (*models.Transfer, error) {
	return models.NewTransfer(rec.ID, rec.CompanyID, rec.Amount, rec.Currency, rec.DestinationAccount, rec.Description, rec.TransferDate)
}

// CompanyRepo implements controller.CompanyRepository.
type CompanyRepo struct {
	db *gorm.DB
}

func (r *CompanyRepo) FindAll(ctx context.Context) ([]models.Company, error) {
	var recs []dbm.Company
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	companies := make([]models.Company, 0, len(recs))
	for i := range recs {
		company, err := companyFromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func (r *CompanyRepo) FindByID(ctx context.Context, id string) (models.Company, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CompanyRepo) FindByCUIT(ctx context.Context, cuit string) (models.Company, error) {
	return r.findOne(ctx, "cuit = ?", cuit)
}

func (r *CompanyRepo) FindByEmail(ctx context.Context, email string) (models.Company, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *CompanyRepo) findOne(ctx context.Context, query string, arg interface{}) (models.Company, error) {
	var rec dbm.Company
	result := r.db.WithContext(ctx).First(&rec, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return companyFromRecord(&rec)
}

func (r *CompanyRepo) Save(ctx context.Context, company models.Company) error {
	rec, err := companyToRecord(company)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CompanyRepo) Update(ctx context.Context, id string, update *models.CompanyUpdate) (models.Company, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&dbm.Company{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, e.ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&dbm.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// TransferRepo implements controller.TransferRepository.
type TransferRepo struct {
	db *gorm.DB
}

func (r *TransferRepo) FindAll(ctx context.Context) ([]*models.Transfer, error) {
	var recs []dbm.Transfer
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return transfersFromRecords(recs)
}

func (r *TransferRepo) FindByID(ctx context.Context, id string) (*models.Transfer, error) {
	var rec dbm.Transfer
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return transferFromRecord(&rec)
}

func (r *TransferRepo) FindByCompanyID(ctx context.Context, companyID string) ([]*models.Transfer, error) {
	var recs []dbm.Transfer
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return transfersFromRecords(recs)
}

func (r *TransferRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Transfer, error) {
	var recs []dbm.Transfer
	err := r.db.WithContext(ctx).
		Where("transfer_date BETWEEN ? AND ?", start, end).
		Order("transfer_date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return transfersFromRecords(recs)
}

func (r *TransferRepo) FindCompaniesByTransferDateRange(ctx context.Context, start, end time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbm.Transfer{}).
		Distinct("company_id").
		Where("transfer_date BETWEEN ? AND ?", start, end).
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *TransferRepo) Save(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Create(transferToRecord(transfer)).Error
}

func (r *TransferRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&dbm.Transfer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func transfersFromRecords(recs []dbm.Transfer) ([]*models.Transfer, error) {
	transfers := make([]*models.Transfer, 0, len(recs))
	for i := range recs {
		transfer, err := transferFromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

// AdhesionRepo implements controller.AdhesionRepository. Adhesions own their
// company, so loading one re-reads the company row to rebuild the domain
// reference; rows whose company has disappeared are omitted from list results.
type AdhesionRepo struct {
	db *gorm.DB
}

func (r *AdhesionRepo) FindAll(ctx context.Context) ([]*models.Adhesion, error) {
	var recs []dbm.Adhesion
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return r.adhesionsFromRecords(ctx, recs)
}

func (r *AdhesionRepo) FindByID(ctx context.Context, id string) (*models.Adhesion, error) {
	var rec dbm.Adhesion
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return r.adhesionFromRecord(ctx, &rec)
}

func (r *AdhesionRepo) FindByCompanyID(ctx context.Context, companyID string) ([]*models.Adhesion, error) {
	var recs []dbm.Adhesion
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return r.adhesionsFromRecords(ctx, recs)
}

func (r *AdhesionRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Adhesion, error) {
	var recs []dbm.Adhesion
	err := r.db.WithContext(ctx).
		Where("adhesion_date BETWEEN ? AND ?", start, end).
		Order("adhesion_date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return r.adhesionsFromRecords(ctx, recs)
}

func (r *AdhesionRepo) FindCompaniesByAdhesionDateRange(ctx context.Context, start, end time.Time) ([]models.Company, error) {
	var recs []dbm.Adhesion
	err := r.db.WithContext(ctx).
		Where("adhesion_date BETWEEN ? AND ? AND status = ?", start, end, string(models.StatusApproved)).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	companies := make([]models.Company, 0, len(recs))
	for i := range recs {
		company, err := r.companyByID(ctx, recs[i].CompanyID)
		if errors.Is(err, e.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func (r *AdhesionRepo) Save(ctx context.Context, adhesion *models.Adhesion) error {
	rec := &dbm.Adhesion{
		ID:           adhesion.ID(),
		CompanyID:    adhesion.Company().ID(),
		AdhesionDate: adhesion.AdhesionDate(),
		Status:       string(adhesion.Status()),
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// UpdateStatus rebuilds the stored adhesion as a domain value, applies the
// transition through the entity, and persists the result.
func (r *AdhesionRepo) UpdateStatus(ctx context.Context, id string, status models.AdhesionStatus) (*models.Adhesion, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.Adhesion
	switch status {
	case models.StatusApproved:
		updated = current.Approve()
	case models.StatusRejected:
		updated = current.Reject()
	default:
		updated, err = models.NewAdhesion(current.ID(), current.Company(), current.AdhesionDate(), status)
		if err != nil {
			return nil, err
		}
	}

	result := r.db.WithContext(ctx).
		Model(&dbm.Adhesion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(updated.Status()),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return updated, nil
}

func (r *AdhesionRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&dbm.Adhesion{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *AdhesionRepo) adhesionFromRecord(ctx context.Context, rec *dbm.Adhesion) (*models.Adhesion, error) {
	company, err := r.companyByID(ctx, rec.CompanyID)
	if err != nil {
		return nil, err
	}
	return models.NewAdhesion(rec.ID, company, rec.AdhesionDate, models.AdhesionStatus(rec.Status))
}

func (r *AdhesionRepo) adhesionsFromRecords(ctx context.Context, recs []dbm.Adhesion) ([]*models.Adhesion, error) {
	adhesions := make([]*models.Adhesion, 0, len(recs))
	for i := range recs {
		adhesion, err := r.adhesionFromRecord(ctx, &recs[i])
		if errors.Is(err, e.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		adhesions = append(adhesions, adhesion)
	}
	return adhesions, nil
}

func (r *AdhesionRepo) companyByID(ctx context.Context, id string) (models.Company, error) {
	var rec dbm.Company
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return companyFromRecord(&rec)
}
