// Package memory implements the repository contracts with mutex-guarded maps.
// It backs the memory storage driver and the service-level tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	e "github.com/drosetti/interbanking/internal/company/errors"
	"github.com/drosetti/interbanking/internal/company/models"
)

// CompanyRepo is an in-memory controller.CompanyRepository.
type CompanyRepo struct {
	mu        sync.RWMutex
	companies map[string]models.Company
	order     []string
}

// NewCompanyRepo returns an empty in-memory company repository.
func NewCompanyRepo() *CompanyRepo {
	return &CompanyRepo{companies: make(map[string]models.Company)}
}

func (r *CompanyRepo) FindAll(_ context.Context) ([]models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]models.Company, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.companies[id])
	}
	return all, nil
}

func (r *CompanyRepo) FindByID(_ context.Context, id string) (models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return company, nil
}

func (r *CompanyRepo) FindByCUIT(_ context.Context, cuit string) (models.Company, error) {
	return r.findBy(func(c models.Company) bool { return c.CUIT() == cuit })
}

func (r *CompanyRepo) FindByEmail(_ context.Context, email string) (models.Company, error) {
	return r.findBy(func(c models.Company) bool { return c.Email() == email })
}

func (r *CompanyRepo) findBy(match func(models.Company) bool) (models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if match(r.companies[id]) {
			return r.companies[id], nil
		}
	}
	return nil, e.ErrNotFound
}

func (r *CompanyRepo) Save(_ context.Context, company models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[company.ID()]; !ok {
		r.order = append(r.order, company.ID())
	}
	r.companies[company.ID()] = company
	return nil
}

// Update rebuilds the stored company with the changed fields; untouched
// attributes carry over from the stored variant.
func (r *CompanyRepo) Update(_ context.Context, id string, update *models.CompanyUpdate) (models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.companies[id]
	if !ok {
		return nil, e.ErrNotFound
	}

	name := current.Name()
	if update.Name != nil {
		name = *update.Name
	}
	email := current.Email()
	if update.Email != nil {
		email = *update.Email
	}

	var (
		updated models.Company
		err     error
	)
	switch c := current.(type) {
	case *models.CompanyPyme:
		updated, err = models.NewCompanyPyme(id, name, c.CUIT(), email, c.EmployeeCount(), c.AnnualRevenue(), c.CreatedAt())
	case *models.CompanyCorporativa:
		updated, err = models.NewCompanyCorporativa(id, name, c.CUIT(), email, c.Sector(), c.IsMultinational(), c.StockSymbol(), c.CreatedAt())
	}
	if err != nil {
		return nil, err
	}
	r.companies[id] = updated
	return updated, nil
}

func (r *CompanyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return e.ErrNotFound
	}
	delete(r.companies, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// TransferRepo is an in-memory controller.TransferRepository.
type TransferRepo struct {
	mu        sync.RWMutex
	transfers map[string]*models.Transfer
	order     []string
}

// NewTransferRepo returns an empty in-memory transfer repository.
func NewTransferRepo() *TransferRepo {
	return &TransferRepo{transfers: make(map[string]*models.Transfer)}
}

func (r *TransferRepo) FindAll(_ context.Context) ([]*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*models.Transfer, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.transfers[id])
	}
	return all, nil
}

func (r *TransferRepo) FindByID(_ context.Context, id string) (*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return transfer, nil
}

func (r *TransferRepo) FindByCompanyID(_ context.Context, companyID string) ([]*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Transfer
	for _, id := range r.order {
		if r.transfers[id].CompanyID() == companyID {
			matched = append(matched, r.transfers[id])
		}
	}
	return matched, nil
}

func (r *TransferRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Transfer
	for _, id := range r.order {
		if inRange(r.transfers[id].TransferDate(), start, end) {
			matched = append(matched, r.transfers[id])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TransferDate().After(matched[j].TransferDate())
	})
	return matched, nil
}

func (r *TransferRepo) FindCompaniesByTransferDateRange(_ context.Context, start, end time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var ids []string
	for _, id := range r.order {
		transfer := r.transfers[id]
		if !inRange(transfer.TransferDate(), start, end) {
			continue
		}
		if seen[transfer.CompanyID()] {
			continue
		}
		seen[transfer.CompanyID()] = true
		ids = append(ids, transfer.CompanyID())
	}
	return ids, nil
}

func (r *TransferRepo) Save(_ context.Context, transfer *models.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transfers[transfer.ID()]; !ok {
		r.order = append(r.order, transfer.ID())
	}
	r.transfers[transfer.ID()] = transfer
	return nil
}

func (r *TransferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transfers[id]; !ok {
		return e.ErrNotFound
	}
	delete(r.transfers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AdhesionRepo is an in-memory controller.AdhesionRepository.
type AdhesionRepo struct {
	mu        sync.RWMutex
	adhesions map[string]*models.Adhesion
	order     []string
}

// NewAdhesionRepo returns an empty in-memory adhesion repository.
func NewAdhesionRepo() *AdhesionRepo {
	return &AdhesionRepo{adhesions: make(map[string]*models.Adhesion)}
}

func (r *AdhesionRepo) FindAll(_ context.Context) ([]*models.Adhesion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*models.Adhesion, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.adhesions[id])
	}
	return all, nil
}

func (r *AdhesionRepo) FindByID(_ context.Context, id string) (*models.Adhesion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adhesion, ok := r.adhesions[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return adhesion, nil
}

func (r *AdhesionRepo) FindByCompanyID(_ context.Context, companyID string) ([]*models.Adhesion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Adhesion
	for _, id := range r.order {
		if r.adhesions[id].Company().ID() == companyID {
			matched = append(matched, r.adhesions[id])
		}
	}
	return matched, nil
}

func (r *AdhesionRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]*models.Adhesion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Adhesion
	for _, id := range r.order {
		if inRange(r.adhesions[id].AdhesionDate(), start, end) {
			matched = append(matched, r.adhesions[id])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].AdhesionDate().After(matched[j].AdhesionDate())
	})
	return matched, nil
}

func (r *AdhesionRepo) FindCompaniesByAdhesionDateRange(_ context.Context, start, end time.Time) ([]models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var companies []models.Company
	for _, id := range r.order {
		adhesion := r.adhesions[id]
		if adhesion.Status() != models.StatusApproved {
			continue
		}
		if !inRange(adhesion.AdhesionDate(), start, end) {
			continue
		}
		companies = append(companies, adhesion.Company())
	}
	return companies, nil
}

func (r *AdhesionRepo) Save(_ context.Context, adhesion *models.Adhesion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adhesions[adhesion.ID()]; !ok {
		r.order = append(r.order, adhesion.ID())
	}
	r.adhesions[adhesion.ID()] = adhesion
	return nil
}

func (r *AdhesionRepo) UpdateStatus(_ context.Context, id string, status models.AdhesionStatus) (*models.Adhesion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.adhesions[id]
	if !ok {
		return nil, e.ErrNotFound
	}

	var (
		updated *models.Adhesion
		err     error
	)
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
	r.adhesions[id] = updated
	return updated, nil
}

func (r *AdhesionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adhesions[id]; !ok {
		return e.ErrNotFound
	}
	delete(r.adhesions, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// inRange reports whether ts falls inside [start, end].
func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}
