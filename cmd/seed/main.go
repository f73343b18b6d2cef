// Seeds the database with sample companies, transfers, and adhesions so the
// trailing-month reports return data out of the box.
package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/drosetti/interbanking/internal/company/config"
	"github.com/drosetti/interbanking/internal/company/db"
	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/drosetti/interbanking/internal/pkg/daterange"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	database, err := db.New(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := seed(context.Background(), database, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("database seeded successfully")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "company", "config", "config.yaml")
}

// seed inserts five companies, transfers inside and outside the previous
// calendar month, and a mix of approved and pending adhesions.
func seed(ctx context.Context, database *db.DB, logger *zap.Logger) error {
	lastMonth, _ := daterange.LastMonth(time.Now())
	day := func(d int) time.Time { return lastMonth.AddDate(0, 0, d-1) }

	techstart, err := models.NewCompanyPyme("1", "TechStart Solutions", "20-12345678-5", "contact@techstart.com", 15, 2_500_000, day(1).AddDate(-1, 0, 0))
	if err != nil {
		return err
	}
	innovacion, err := models.NewCompanyPyme("2", "Innovación Digital SRL", "20-87654321-3", "info@innovacion.com", 8, 1_800_000, day(1).AddDate(-1, 0, 0))
	if err != nil {
		return err
	}
	banco, err := models.NewCompanyCorporativa("3", "Banco Nacional SA", "30-11111111-9", "corporate@banconacional.com", "Financiero", false, "BNANC", day(1).AddDate(-1, -1, 0))
	if err != nil {
		return err
	}
	petroleo, err := models.NewCompanyCorporativa("4", "Petróleo Argentino Corp", "30-22222222-7", "contact@petroarg.com", "Energía", true, "PETRO", day(1).AddDate(-1, 0, 0))
	if err != nil {
		return err
	}
	devweb, err := models.NewCompanyPyme("5", "Desarrollo Web Buenos Aires", "20-33333333-1", "hello@devweb.com", 12, 3_200_000, day(1).AddDate(-1, 0, 0))
	if err != nil {
		return err
	}

	companies := []models.Company{techstart, innovacion, banco, petroleo, devweb}
	for _, company := range companies {
		if err := database.Companies().Save(ctx, company); err != nil {
			return err
		}
		logger.Info("created company", zap.String("name", company.Name()))
	}

	type transferSpec struct {
		id          string
		companyID   string
		amount      float64
		currency    string
		account     string
		description string
		date        time.Time
	}
	transferSpecs := []transferSpec{
		// transfers inside the previous calendar month
		{"1", "1", 150_000, "ARS", "0001-0001-0001-12345678", "Pago a proveedor de software", day(15)},
		{"2", "3", 500_000, "USD", "0002-0002-0002-87654321", "Transferencia internacional", day(20)},
		{"3", "2", 75_000, "ARS", "0003-0003-0003-11111111", "Pago de servicios", day(25)},
		{"4", "4", 1_000_000, "USD", "0004-0004-0004-22222222", "Inversión en exploración", day(28)},
		{"5", "1", 200_000, "ARS", "0005-0005-0005-33333333", "Pago de nómina", day(28)},
		// older transfers, outside the reporting window
		{"6", "3", 300_000, "ARS", "0006-0006-0006-44444444", "Transferencia histórica", day(15).AddDate(0, -1, 0)},
		{"7", "2", 50_000, "ARS", "0007-0007-0007-55555555", "Pago histórico", day(10).AddDate(0, -2, 0)},
	}
	for _, spec := range transferSpecs {
		transfer, err := models.NewTransfer(spec.id, spec.companyID, spec.amount, spec.currency, spec.account, spec.description, spec.date)
		if err != nil {
			return err
		}
		if err := database.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		logger.Info("created transfer", zap.String("description", spec.description))
	}

	type adhesionSpec struct {
		id      string
		company models.Company
		date    time.Time
		status  models.AdhesionStatus
	}
	adhesionSpecs := []adhesionSpec{
		{"1", techstart, day(10), models.StatusApproved},
		{"2", innovacion, day(15), models.StatusApproved},
		{"3", petroleo, day(25), models.StatusApproved},
		{"4", devweb, day(28), models.StatusPending},
		{"5", banco, day(20).AddDate(0, -1, 0), models.StatusApproved},
	}
	for _, spec := range adhesionSpecs {
		adhesion, err := models.NewAdhesion(spec.id, spec.company, spec.date, spec.status)
		if err != nil {
			return err
		}
		if err := database.Adhesions().Save(ctx, adhesion); err != nil {
			return err
		}
		logger.Info("created adhesion", zap.String("company", spec.company.Name()))
	}

	return nil
}
