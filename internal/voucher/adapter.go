// Package voucher reads the voucher service page by page and converts its
// loosely typed payloads into the engine's voucher records.
package voucher

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

// flexString tolerates upstream fields that arrive as strings, numbers or
// null. Anything else reads as empty.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = flexString(n.String())
		return nil
	}
	*s = ""
	return nil
}

// flexFloat tolerates amounts sent as numbers, numeric strings or null.
// Non-numeric garbage reads as 0 rather than failing the page.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(parsed)
		return nil
	}
	*f = 0
	return nil
}

// dateLayouts are tried in order against upstream voucher dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseDate attempts the known layouts. The second return is false for
// missing or unparseable dates; such vouchers pass the date filter by
// default downstream.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type rawDetail struct {
	Narration  flexString `json:"narration"`
	AccountOne flexString `json:"accountOne"`
	DebitOne   flexFloat  `json:"debitOne"`
	CreditOne  flexFloat  `json:"creditOne"`
	BalanceOne flexFloat  `json:"balanceOne"`
	AccountTwo flexString `json:"accountTwo"`
	DebitTwo   flexFloat  `json:"debitTwo"`
	CreditTwo  flexFloat  `json:"creditTwo"`
	BalanceTwo flexFloat  `json:"balanceTwo"`
}

type rawVoucher struct {
	VoucherNo     flexString  `json:"voucherNo"`
	VoucherDate   flexString  `json:"voucherDate"`
	Status        flexString  `json:"status"`
	Narration     flexString  `json:"narration"`
	ChequeNo      flexString  `json:"chequeNo"`
	DepositSlipNo flexString  `json:"depositSlipNo"`
	Details       []rawDetail `json:"voucherDetails"`
}

// normalizeVoucher converts one upstream voucher into the engine record.
func normalizeVoucher(raw rawVoucher) ledger.Voucher {
	date, valid := parseDate(string(raw.VoucherDate))
	v := ledger.Voucher{
		No:            string(raw.VoucherNo),
		Date:          date,
		DateValid:     valid,
		Status:        string(raw.Status),
		Narration:     string(raw.Narration),
		ChequeNo:      string(raw.ChequeNo),
		DepositSlipNo: string(raw.DepositSlipNo),
		Details:       make([]ledger.VoucherDetail, 0, len(raw.Details)),
	}
	for _, d := range raw.Details {
		v.Details = append(v.Details, ledger.VoucherDetail{
			Narration: string(d.Narration),
			Legs: [2]ledger.Leg{
				{
					Account: string(d.AccountOne),
					Debit:   float64(d.DebitOne),
					Credit:  float64(d.CreditOne),
					Balance: float64(d.BalanceOne),
				},
				{
					Account: string(d.AccountTwo),
					Debit:   float64(d.DebitTwo),
					Credit:  float64(d.CreditTwo),
					Balance: float64(d.BalanceTwo),
				},
			},
		})
	}
	return v
}
