package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/meridian-erp/meridian-ledger/internal/platform/httpx"
)

func (h *Handler) handleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	report, err := h.service.Ledger(r.Context(), q.filters())
	if err != nil {
		h.respondServiceError(w, "ledger csv", err)
		return
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"Account", "List ID", "Date", "Voucher No", "Cheque No", "Deposit Slip No", "Narration", "Debit", "Credit", "Balance"})
	for _, group := range report.Groups {
		for _, row := range group.Rows {
			date := ""
			if row.DateValid {
				date = row.Date.Format(displayDate)
			}
			_ = writer.Write([]string{
				group.Description,
				group.ListID,
				date,
				row.VoucherNo,
				row.ChequeNo,
				row.DepositSlipNo,
				row.Narration,
				csvAmount(row.Debit),
				csvAmount(row.Credit),
				fmt.Sprintf("%.2f", row.Balance),
			})
		}
		_ = writer.Write([]string{
			group.Description, group.ListID, "", "", "", "", "Closing Balance",
			fmt.Sprintf("%.2f", group.TotalDebit),
			fmt.Sprintf("%.2f", group.TotalCredit),
			fmt.Sprintf("%.2f", group.ClosingBalance),
		})
	}
	_ = writer.Write([]string{"", "", "", "", "", "", "Grand Total",
		fmt.Sprintf("%.2f", report.TotalDebit),
		fmt.Sprintf("%.2f", report.TotalCredit), ""})
	writer.Flush()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=general_ledger.csv")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleTrialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, errs)
		return
	}
	report, err := h.service.TrialBalance(r.Context(), q.filters())
	if err != nil {
		h.respondServiceError(w, "trial balance csv", err)
		return
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"List ID", "Account", "Debit", "Credit"})
	for _, row := range report.Rows {
		_ = writer.Write([]string{
			row.ListID,
			row.Description,
			csvAmount(row.Debit),
			csvAmount(row.Credit),
		})
	}
	_ = writer.Write([]string{"", "Total",
		fmt.Sprintf("%.2f", report.TotalDebit),
		fmt.Sprintf("%.2f", report.TotalCredit)})
	writer.Flush()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=trial_balance.csv")
	_, _ = w.Write(buf.Bytes())
}

// csvAmount leaves zero debit/credit cells empty, matching the on-screen
// rendering, but without thousands separators so spreadsheets parse them.
func csvAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
