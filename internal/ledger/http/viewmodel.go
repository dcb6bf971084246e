// Package http wires the report endpoints: JSON view models, CSV and PDF
// exports over the ledger engine.
package http

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a debit/credit cell: two decimals with thousands
// separators, and an empty cell for zero amounts.
func FormatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return printer.Sprintf("%.2f", v)
}

// FormatBalance renders a closing/net balance. Unlike amounts, a zero
// balance still shows as "0.00".
func FormatBalance(v float64) string {
	return printer.Sprintf("%.2f", v)
}

const displayDate = "2006-01-02"

// RowVM is one rendered ledger line.
type RowVM struct {
	Date          string `json:"date"`
	VoucherNo     string `json:"voucherNo"`
	ChequeNo      string `json:"chequeNo,omitempty"`
	DepositSlipNo string `json:"depositSlipNo,omitempty"`
	Narration     string `json:"narration"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Balance       string `json:"balance"`
	Opening       bool   `json:"opening,omitempty"`
}

// GroupVM is one rendered account group.
type GroupVM struct {
	AccountID      string  `json:"accountId"`
	ListID         string  `json:"listid"`
	Description    string  `json:"description"`
	Rows           []RowVM `json:"rows"`
	TotalDebit     string  `json:"totalDebit"`
	TotalCredit    string  `json:"totalCredit"`
	ClosingBalance string  `json:"closingBalance"`
}

// LedgerVM is the rendered general-ledger report.
type LedgerVM struct {
	RunID         string    `json:"runId"`
	Title         string    `json:"title"`
	Branch        string    `json:"branch"`
	FilterSummary string    `json:"filterSummary"`
	Groups        []GroupVM `json:"groups"`
	TotalDebit    string    `json:"totalDebit"`
	TotalCredit   string    `json:"totalCredit"`
	Notices       []string  `json:"notices,omitempty"`
}

// TrialBalanceRowVM is one rendered trial-balance line.
type TrialBalanceRowVM struct {
	AccountID   string `json:"accountId"`
	ListID      string `json:"listid"`
	Description string `json:"description"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// TrialBalanceVM is the rendered trial balance.
type TrialBalanceVM struct {
	RunID         string              `json:"runId"`
	Title         string              `json:"title"`
	Branch        string              `json:"branch"`
	FilterSummary string              `json:"filterSummary"`
	Rows          []TrialBalanceRowVM `json:"rows"`
	TotalDebit    string              `json:"totalDebit"`
	TotalCredit   string              `json:"totalCredit"`
	Notices       []string            `json:"notices,omitempty"`
}

// FromLedger maps the domain report onto the rendered view model.
func FromLedger(report ledger.LedgerReport, title, branch string) LedgerVM {
	vm := LedgerVM{
		RunID:         report.RunID,
		Title:         title,
		Branch:        branch,
		FilterSummary: report.FilterSummary,
		Groups:        make([]GroupVM, 0, len(report.Groups)),
		TotalDebit:    FormatBalance(report.TotalDebit),
		TotalCredit:   FormatBalance(report.TotalCredit),
		Notices:       append([]string(nil), report.Notices...),
	}
	for _, group := range report.Groups {
		gvm := GroupVM{
			AccountID:      group.AccountID,
			ListID:         group.ListID,
			Description:    group.Description,
			Rows:           make([]RowVM, 0, len(group.Rows)),
			TotalDebit:     FormatBalance(group.TotalDebit),
			TotalCredit:    FormatBalance(group.TotalCredit),
			ClosingBalance: FormatBalance(group.ClosingBalance),
		}
		for _, row := range group.Rows {
			date := ""
			if row.DateValid {
				date = row.Date.Format(displayDate)
			}
			gvm.Rows = append(gvm.Rows, RowVM{
				Date:          date,
				VoucherNo:     row.VoucherNo,
				ChequeNo:      row.ChequeNo,
				DepositSlipNo: row.DepositSlipNo,
				Narration:     row.Narration,
				Debit:         FormatAmount(row.Debit),
				Credit:        FormatAmount(row.Credit),
				Balance:       FormatBalance(row.Balance),
				Opening:       row.Opening,
			})
		}
		vm.Groups = append(vm.Groups, gvm)
	}
	return vm
}

// FromTrialBalance maps the domain report onto the rendered view model.
func FromTrialBalance(report ledger.TrialBalanceReport, title, branch string) TrialBalanceVM {
	vm := TrialBalanceVM{
		RunID:         report.RunID,
		Title:         title,
		Branch:        branch,
		FilterSummary: report.FilterSummary,
		Rows:          make([]TrialBalanceRowVM, 0, len(report.Rows)),
		TotalDebit:    FormatBalance(report.TotalDebit),
		TotalCredit:   FormatBalance(report.TotalCredit),
		Notices:       append([]string(nil), report.Notices...),
	}
	for _, row := range report.Rows {
		vm.Rows = append(vm.Rows, TrialBalanceRowVM{
			AccountID:   row.AccountID,
			ListID:      row.ListID,
			Description: row.Description,
			Debit:       FormatAmount(row.Debit),
			Credit:      FormatAmount(row.Credit),
		})
	}
	return vm
}
