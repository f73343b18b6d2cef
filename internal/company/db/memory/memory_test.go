package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e "github.com/drosetti/interbanking/internal/company/errors"
	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/drosetti/interbanking/internal/pkg/utils"
)

func mustPyme(t *testing.T, id, cuit, email string) *models.CompanyPyme {
	t.Helper()
	company, err := models.NewCompanyPyme(id, "Pyme "+id, cuit, email, 40, 10_000_000, time.Now())
	require.NoError(t, err)
	return company
}

func mustTransfer(t *testing.T, id, companyID string, date time.Time) *models.Transfer {
	t.Helper()
	transfer, err := models.NewTransfer(id, companyID, 1500.50, "ARS", "0001-2345-6789-12345678", "pago proveedores", date)
	require.NoError(t, err)
	return transfer
}

func mustAdhesion(t *testing.T, id string, company models.Company, date time.Time, status models.AdhesionStatus) *models.Adhesion {
	t.Helper()
	adhesion, err := models.NewAdhesion(id, company, date, status)
	require.NoError(t, err)
	return adhesion
}

func TestCompanyRepo_SaveAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo()
	company := mustPyme(t, "c-1", "30-12345678-9", "c1@pyme.com")
	require.NoError(t, repo.Save(ctx, company))

	byID, err := repo.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", byID.ID())

	byCUIT, err := repo.FindByCUIT(ctx, "30-12345678-9")
	require.NoError(t, err)
	assert.Equal(t, "c-1", byCUIT.ID())

	byEmail, err := repo.FindByEmail(ctx, "c1@pyme.com")
	require.NoError(t, err)
	assert.Equal(t, "c-1", byEmail.ID())
}

func TestCompanyRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo()

	_, err := repo.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, e.ErrNotFound)
	_, err = repo.FindByCUIT(ctx, "30-00000000-0")
	assert.ErrorIs(t, err, e.ErrNotFound)
	_, err = repo.FindByEmail(ctx, "ghost@none.com")
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), e.ErrNotFound)
}

func TestCompanyRepo_FindAllPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo()
	require.NoError(t, repo.Save(ctx, mustPyme(t, "c-1", "30-11111111-1", "c1@pyme.com")))
	require.NoError(t, repo.Save(ctx, mustPyme(t, "c-2", "30-22222222-2", "c2@pyme.com")))
	require.NoError(t, repo.Save(ctx, mustPyme(t, "c-3", "30-33333333-3", "c3@pyme.com")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c-1", all[0].ID())
	assert.Equal(t, "c-2", all[1].ID())
	assert.Equal(t, "c-3", all[2].ID())
}

func TestCompanyRepo_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo()
	require.NoError(t, repo.Save(ctx, mustPyme(t, "c-1", "30-12345678-9", "old@pyme.com")))

	updated, err := repo.Update(ctx, "c-1", &models.CompanyUpdate{Email: utils.Ptr("new@pyme.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@pyme.com", updated.Email())
	assert.Equal(t, "30-12345678-9", updated.CUIT())
	assert.Equal(t, "Pyme c-1", updated.Name())

	stored, err := repo.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "new@pyme.com", stored.Email())
}

func TestCompanyRepo_UpdateKeepsCorporativaFields(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo()
	corp, err := models.NewCompanyCorporativa("c-9", "Corp SA", "30-99999999-9", "corp@corp.com", "Energy", true, "CORP", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, corp))

	updated, err := repo.Update(ctx, "c-9", &models.CompanyUpdate{Name: utils.Ptr("Corp Renovada SA")})
	require.NoError(t, err)
	stored, ok := updated.(*models.CompanyCorporativa)
	require.True(t, ok)
	assert.Equal(t, "Corp Renovada SA", stored.Name())
	assert.Equal(t, "Energy", stored.Sector())
	assert.True(t, stored.IsMultinational())
	assert.Equal(t, "CORP", stored.StockSymbol())
}

func TestTransferRepo_FindByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepo()
	base := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-old", "c-1", base.AddDate(0, -2, 0))))
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-early", "c-1", base)))
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-late", "c-2", base.AddDate(0, 0, 5))))

	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 30, 23, 59, 59, 999000000, time.UTC)
	got, err := repo.FindByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-late", got[0].ID())
	assert.Equal(t, "t-early", got[1].ID())
}

func TestTransferRepo_FindCompaniesByTransferDateRangeDistinct(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepo()
	base := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-1", "c-1", base)))
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-2", "c-1", base.AddDate(0, 0, 3))))
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-3", "c-2", base.AddDate(0, 0, 4))))
	require.NoError(t, repo.Save(ctx, mustTransfer(t, "t-4", "c-3", base.AddDate(0, 2, 0))))

	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 30, 23, 59, 59, 999000000, time.UTC)
	ids, err := repo.FindCompaniesByTransferDateRange(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, ids)
}

func TestAdhesionRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAdhesionRepo()
	company := mustPyme(t, "c-1", "30-12345678-9", "c1@pyme.com")
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-1", company, time.Now(), models.StatusPending)))

	approved, err := repo.UpdateStatus(ctx, "a-1", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status())

	stored, err := repo.FindByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status())

	// status changes are not terminal
	rejected, err := repo.UpdateStatus(ctx, "a-1", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status())

	_, err = repo.UpdateStatus(ctx, "ghost", models.StatusApproved)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestAdhesionRepo_FindCompaniesByAdhesionDateRangeApprovedOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewAdhesionRepo()
	inWindow := time.Date(2025, time.September, 12, 9, 0, 0, 0, time.UTC)
	c1 := mustPyme(t, "c-1", "30-11111111-1", "c1@pyme.com")
	c2 := mustPyme(t, "c-2", "30-22222222-2", "c2@pyme.com")
	c3 := mustPyme(t, "c-3", "30-33333333-3", "c3@pyme.com")
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-1", c1, inWindow, models.StatusApproved)))
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-2", c2, inWindow, models.StatusPending)))
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-3", c3, inWindow.AddDate(0, 2, 0), models.StatusApproved)))

	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 30, 23, 59, 59, 999000000, time.UTC)
	companies, err := repo.FindCompaniesByAdhesionDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "c-1", companies[0].ID())
}

func TestAdhesionRepo_FindByCompanyID(t *testing.T) {
	ctx := context.Background()
	repo := NewAdhesionRepo()
	company := mustPyme(t, "c-1", "30-12345678-9", "c1@pyme.com")
	other := mustPyme(t, "c-2", "30-22222222-2", "c2@pyme.com")
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-1", company, time.Now(), models.StatusPending)))
	require.NoError(t, repo.Save(ctx, mustAdhesion(t, "a-2", other, time.Now(), models.StatusPending)))

	matched, err := repo.FindByCompanyID(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "a-1", matched[0].ID())
}
