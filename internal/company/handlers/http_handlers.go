// Package handlers exposes the company service over HTTP, translating
// between the JSON wire contract and the business layer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/drosetti/interbanking/internal/company/cache"
	"github.com/drosetti/interbanking/internal/company/controller"
	e "github.com/drosetti/interbanking/internal/company/errors"
	"github.com/drosetti/interbanking/internal/company/metrics"
	"github.com/drosetti/interbanking/internal/company/models"
)

// CompanyController defines the business logic the HTTP handlers invoke.
type CompanyController interface {
	GetCompaniesWithTransfersLastMonth(ctx context.Context) ([]models.Company, error)
	GetCompaniesAdheredLastMonth(ctx context.Context) ([]models.Company, error)
	RegisterCompanyAdhesion(ctx context.Context, req *controller.RegisterCompanyAdhesionRequest) (*models.Adhesion, error)
	ApproveAdhesion(ctx context.Context, id string) (*models.Adhesion, error)
	RejectAdhesion(ctx context.Context, id string) (*models.Adhesion, error)
}

// CompanyHandler serves the REST endpoints of the company service.
type CompanyHandler struct {
	svc       CompanyController
	cache     cache.Cache
	cacheTTL  time.Duration
	collector *metrics.Metrics
	logger    *zap.Logger
}

// NewCompanyHandler builds a handler. cache and collector may be nil, in
// which case reports hit storage on every request and nothing is recorded.
func NewCompanyHandler(svc CompanyController, reportCache cache.Cache, cacheTTL time.Duration, collector *metrics.Metrics, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		svc:       svc,
		cache:     reportCache,
		cacheTTL:  cacheTTL,
		collector: collector,
		logger:    logger.Named("http_handler"),
	}
}

// Routes registers the handler endpoints on the router.
func (h *CompanyHandler) Routes(r chi.Router) {
	r.Get("/v1/companies/transfers/last-month", h.CompaniesWithTransfersLastMonth)
	r.Get("/v1/companies/adhesions/last-month", h.CompaniesAdheredLastMonth)
	r.Post("/v1/companies/adhesions", h.RegisterAdhesion)
	r.Post("/v1/adhesions/{id}/approve", h.ApproveAdhesion)
	r.Post("/v1/adhesions/{id}/reject", h.RejectAdhesion)
}

// envelope is the uniform response body for every endpoint.
type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	TotalCount *int        `json:"totalCount,omitempty"`
}

// registerAdhesionRequest is the wire form of an adhesion registration.
type registerAdhesionRequest struct {
	Name            string  `json:"name"`
	CUIT            string  `json:"cuit"`
	Email           string  `json:"email"`
	Type            string  `json:"type"`
	EmployeeCount   int     `json:"employeeCount"`
	AnnualRevenue   float64 `json:"annualRevenue"`
	Sector          string  `json:"sector"`
	IsMultinational *bool   `json:"isMultinational"`
	StockSymbol     string  `json:"stockSymbol"`
}

// CompaniesWithTransfersLastMonth returns the companies that made transfers
// during the previous calendar month.
func (h *CompanyHandler) CompaniesWithTransfersLastMonth(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "transfers-last-month", h.svc.GetCompaniesWithTransfersLastMonth, h.observeTransferReport)
}

// CompaniesAdheredLastMonth returns the companies whose adhesions were
// approved during the previous calendar month.
func (h *CompanyHandler) CompaniesAdheredLastMonth(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "adhesions-last-month", h.svc.GetCompaniesAdheredLastMonth, h.observeAdhesionReport)
}

func (h *CompanyHandler) serveReport(
	w http.ResponseWriter,
	r *http.Request,
	cacheKey string,
	fetch func(context.Context) ([]models.Company, error),
	observe func(time.Time),
) {
	start := time.Now()
	defer observe(start)

	if h.cache != nil {
		if payload, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			if h.collector != nil {
				h.collector.IncrementReportCacheHit()
			}
			writeRawJSON(w, http.StatusOK, payload)
			return
		}
	}

	companies, err := fetch(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]map[string]interface{}, 0, len(companies))
	for _, company := range companies {
		views = append(views, company.JSON())
	}
	count := len(views)
	body, err := json.Marshal(envelope{Success: true, Data: views, TotalCount: &count})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, body, h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache report", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	writeRawJSON(w, http.StatusOK, body)
}

// RegisterAdhesion registers a company together with its initial adhesion.
func (h *CompanyHandler) RegisterAdhesion(w http.ResponseWriter, r *http.Request) {
	var body registerAdhesionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}
	if msg := validateRegistration(&body); msg != "" {
		h.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
		return
	}

	adhesion, err := h.svc.RegisterCompanyAdhesion(r.Context(), &controller.RegisterCompanyAdhesionRequest{
		Name:            body.Name,
		CUIT:            body.CUIT,
		Email:           body.Email,
		Type:            models.CompanyType(body.Type),
		EmployeeCount:   body.EmployeeCount,
		AnnualRevenue:   body.AnnualRevenue,
		Sector:          body.Sector,
		IsMultinational: body.IsMultinational,
		StockSymbol:     body.StockSymbol,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.invalidateReports(r.Context())
	if h.collector != nil {
		h.collector.IncrementAdhesionsRegistered()
	}
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: adhesion.JSON(), Message: "Adhesion registered successfully"})
}

// ApproveAdhesion moves a pending adhesion to APPROVED.
func (h *CompanyHandler) ApproveAdhesion(w http.ResponseWriter, r *http.Request) {
	h.decideAdhesion(w, r, "approved", h.svc.ApproveAdhesion)
}

// RejectAdhesion moves a pending adhesion to REJECTED.
func (h *CompanyHandler) RejectAdhesion(w http.ResponseWriter, r *http.Request) {
	h.decideAdhesion(w, r, "rejected", h.svc.RejectAdhesion)
}

func (h *CompanyHandler) decideAdhesion(
	w http.ResponseWriter,
	r *http.Request,
	decision string,
	decide func(context.Context, string) (*models.Adhesion, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Adhesion ID is required"})
		return
	}

	adhesion, err := decide(r.Context(), id)
	if errors.Is(err, e.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "adhesion not found"})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.invalidateReports(r.Context())
	if h.collector != nil {
		h.collector.IncrementAdhesionDecision(decision)
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: adhesion.JSON(), Message: "Adhesion " + decision})
}

// invalidateReports drops cached report payloads after a mutation.
func (h *CompanyHandler) invalidateReports(ctx context.Context) {
	if h.cache == nil {
		return
	}
	for _, key := range []string{"transfers-last-month", "adhesions-last-month"} {
		if err := h.cache.Delete(ctx, key); err != nil {
			h.logger.Warn("failed to invalidate report cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// validateRegistration does a shallow presence check on the wire request
// before the use case runs. Deeper invariants belong to the entities.
func validateRegistration(body *registerAdhesionRequest) string {
	switch {
	case body.Name == "":
		return "name is required"
	case body.CUIT == "":
		return "cuit is required"
	case body.Email == "":
		return "email is required"
	case body.Type == "":
		return "type is required"
	}
	switch models.CompanyType(body.Type) {
	case models.Pyme:
		if body.EmployeeCount == 0 || body.AnnualRevenue == 0 {
			return "employeeCount and annualRevenue are required for PYME"
		}
	case models.Corporativa:
		if body.Sector == "" || body.IsMultinational == nil {
			return "sector and isMultinational are required for CORPORATIVA"
		}
	default:
		return "Invalid company type"
	}
	return ""
}

// writeError maps business errors onto HTTP status codes by message
// content, mirroring the service's validation and conflict wording.
func (h *CompanyHandler) writeError(w http.ResponseWriter, err error) {
	msg := err.Error()
	status := http.StatusInternalServerError
	switch {
	case strings.Contains(msg, "already exists"):
		status = http.StatusConflict
	case strings.Contains(msg, "required") || strings.Contains(msg, "Invalid"):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, envelope{Success: false, Message: msg})
}

func (h *CompanyHandler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (h *CompanyHandler) observeTransferReport(start time.Time) {
	if h.collector != nil {
		h.collector.ObserveTransferReport(start)
	}
}

func (h *CompanyHandler) observeAdhesionReport(start time.Time) {
	if h.collector != nil {
		h.collector.ObserveAdhesionReport(start)
	}
}
