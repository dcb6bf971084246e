package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
	"github.com/meridian-erp/meridian-ledger/internal/platform/httpx"
	"github.com/meridian-erp/meridian-ledger/web"
)

const (
	defaultLedgerTitle = "General Ledger"
	defaultTBTitle     = "Trial Balance"
)

// PDFRenderClient defines the minimal subset of the report client we use.
type PDFRenderClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Handler wires the ledger and trial-balance report endpoints.
type Handler struct {
	logger       *slog.Logger
	service      *ledger.Service
	pdfTemplates *template.Template
	pdfClient    PDFRenderClient
	rateLimit    func(http.Handler) http.Handler
	cache        *responseCache
}

// Options tune the handler beyond its required dependencies.
type Options struct {
	CacheTTL        time.Duration
	ExportRateLimit int
}

// NewHandler constructs the report handler. pdfClient may be nil; the PDF
// routes then answer 503.
func NewHandler(logger *slog.Logger, service *ledger.Service, pdfClient PDFRenderClient, opts Options) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("report handler: service required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	pdfTpl, err := template.ParseFS(web.Templates,
		"templates/reports/ledger_pdf.html",
		"templates/reports/trial_balance_pdf.html")
	if err != nil {
		return nil, err
	}
	limit := opts.ExportRateLimit
	if limit <= 0 {
		limit = 10
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	limiter := httprate.Limit(limit, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))
	return &Handler{
		logger:       logger,
		service:      service,
		pdfTemplates: pdfTpl,
		pdfClient:    pdfClient,
		rateLimit:    limiter,
		cache:        newResponseCache(ttl),
	}, nil
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledger", h.handleLedger)
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/ledger/export.csv", h.handleLedgerCSV)
		r.Get("/ledger/pdf", h.handleLedgerPDF)
		r.Get("/trial-balance/export.csv", h.handleTrialBalanceCSV)
		r.Get("/trial-balance/pdf", h.handleTrialBalancePDF)
	})
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	vm, err := h.ledgerVM(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, "ledger", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	vm, err := h.trialBalanceVM(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, "trial balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

// ledgerVM returns the rendered ledger, serving repeats from the short-lived
// view-model cache. Degraded runs (ones carrying notices) are not cached so a
// recovered upstream is visible immediately.
func (h *Handler) ledgerVM(ctx context.Context, q reportQuery) (LedgerVM, error) {
	key := q.cacheKey("ledger")
	if cached, ok := h.cache.Get(key); ok {
		if vm, ok := cached.(LedgerVM); ok {
			return cloneLedgerVM(vm), nil
		}
	}
	report, err := h.service.Ledger(ctx, q.filters())
	if err != nil {
		return LedgerVM{}, err
	}
	vm := FromLedger(report, q.reportTitle(defaultLedgerTitle), q.Branch)
	if len(report.Notices) == 0 {
		h.cache.Set(key, cloneLedgerVM(vm))
	}
	return vm, nil
}

func (h *Handler) trialBalanceVM(ctx context.Context, q reportQuery) (TrialBalanceVM, error) {
	key := q.cacheKey("tb")
	if cached, ok := h.cache.Get(key); ok {
		if vm, ok := cached.(TrialBalanceVM); ok {
			return cloneTrialBalanceVM(vm), nil
		}
	}
	report, err := h.service.TrialBalance(ctx, q.filters())
	if err != nil {
		return TrialBalanceVM{}, err
	}
	vm := FromTrialBalance(report, q.reportTitle(defaultTBTitle), q.Branch)
	if len(report.Notices) == 0 {
		h.cache.Set(key, cloneTrialBalanceVM(vm))
	}
	return vm, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, report string, err error) {
	h.logger.Error("report run failed", slog.String("report", report), slog.Any("error", err))
	if errors.Is(err, ledger.ErrVoucherFetch) {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUpstream, err))
		return
	}
	httpx.RespondError(w, err)
}
