package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/meridian-erp/meridian-ledger/internal/platform/httpx"
)

func (h *Handler) handleLedgerPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdfClient == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	vm, err := h.ledgerVM(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, "ledger pdf", err)
		return
	}
	h.renderPDF(w, r, "ledger_pdf.html", vm, "general_ledger.pdf")
}

func (h *Handler) handleTrialBalancePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdfClient == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	vm, err := h.trialBalanceVM(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, "trial balance pdf", err)
		return
	}
	h.renderPDF(w, r, "trial_balance_pdf.html", vm, "trial_balance.pdf")
}

func (h *Handler) renderPDF(w http.ResponseWriter, r *http.Request, tpl string, vm any, filename string) {
	buf := &bytes.Buffer{}
	if err := h.pdfTemplates.ExecuteTemplate(buf, tpl, vm); err != nil {
		h.logger.Error("render report template", slog.String("template", tpl), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	pdf, err := h.pdfClient.RenderHTML(r.Context(), buf.String())
	if err != nil {
		h.logger.Error("generate report pdf", slog.String("template", tpl), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(pdf)
}
