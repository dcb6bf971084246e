package ledger

import "time"

// Category names for the five synthetic chart-of-accounts roots. Each
// category subtree is sourced from its own upstream endpoint.
const (
	CategoryAssets      = "Assets"
	CategoryRevenues    = "Revenues"
	CategoryLiabilities = "Liabilities"
	CategoryExpenses    = "Expenses"
	CategoryEquities    = "Equities"
)

// Categories lists the synthetic roots in display order.
var Categories = []string{
	CategoryAssets,
	CategoryRevenues,
	CategoryLiabilities,
	CategoryExpenses,
	CategoryEquities,
}

// AccountRecord is one flat chart-of-accounts row as delivered by the
// account category service, already normalized by the service adapter.
type AccountRecord struct {
	ID          string
	ListID      string
	Description string
	ParentID    string // empty for category roots
}

// CategoryAccounts groups the flat records of one category endpoint.
type CategoryAccounts struct {
	Category string
	Accounts []AccountRecord
}

// ChartSnapshot is the full chart-of-accounts read for one report run.
type ChartSnapshot struct {
	Categories []CategoryAccounts
}

// Leg is one side of a double-entry voucher detail row. Balance is the
// externally computed running-balance snapshot for the referenced account at
// voucher-creation time; the engine reads it, it never recomputes it.
type Leg struct {
	Account string // account id, listid, or a legacy free-text name
	Debit   float64
	Credit  float64
	Balance float64
}

// VoucherDetail pairs two independent legs under a shared narration.
type VoucherDetail struct {
	Narration string
	Legs      [2]Leg
}

// Voucher is one read-only voucher record. DateValid is false when the
// upstream date could not be parsed; such vouchers pass the date filter by
// default but never contribute an opening balance.
type Voucher struct {
	No            string
	Date          time.Time
	DateValid     bool
	Status        string
	Narration     string
	ChequeNo      string
	DepositSlipNo string
	Details       []VoucherDetail
}

// SelectionMode enumerates the three account-filter modes.
type SelectionMode string

const (
	SelectByHead   SelectionMode = "byhead"
	SelectRange    SelectionMode = "range"
	SelectSpecific SelectionMode = "specific"
)

// StatusAll disables status filtering (matched case-insensitively).
const StatusAll = "All"

// Filters carries the user's report parameters. Zero date values mean the
// corresponding bound is open.
type Filters struct {
	Mode          SelectionMode
	HeadAccountID string
	FromAccountID string
	ToAccountID   string
	AccountIDs    []string // specific mode, at most two
	FromDate      time.Time
	ToDate        time.Time
	Status        string
}

// Row is one materialized report line inside an account group. Opening marks
// the synthetic opening-balance row prepended by the ledger grouper.
type Row struct {
	Date          time.Time
	DateValid     bool
	VoucherNo     string
	ChequeNo      string
	DepositSlipNo string
	Narration     string
	Debit         float64
	Credit        float64
	Balance       float64
	Opening       bool
}

// AccountGroup is the per-account output of the ledger grouper. It is
// computed fresh on every run and never persisted.
type AccountGroup struct {
	AccountID      string
	ListID         string
	Description    string
	Rows           []Row
	TotalDebit     float64
	TotalCredit    float64
	ClosingBalance float64
	OpeningBalance float64
}

// LedgerReport is the general-ledger output consumed by the renderers.
type LedgerReport struct {
	RunID         string
	Title         string
	Branch        string
	FilterSummary string
	Groups        []AccountGroup
	TotalDebit    float64
	TotalCredit   float64
	Notices       []string
}

// TrialBalanceRow is one snapshot line of the trial balance. Exactly one of
// Debit/Credit is nonzero; Credit holds the absolute value of a negative
// balance.
type TrialBalanceRow struct {
	AccountID   string
	ListID      string
	Description string
	Debit       float64
	Credit      float64
}

// TrialBalanceReport is the trial-balance output consumed by the renderers.
// TotalDebit and TotalCredit are both computed; their equality is a property
// of the input ledger, not something the engine asserts.
type TrialBalanceReport struct {
	RunID         string
	Title         string
	Branch        string
	FilterSummary string
	Rows          []TrialBalanceRow
	TotalDebit    float64
	TotalCredit   float64
	Notices       []string
}
