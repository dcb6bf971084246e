package voucher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVoucherToleratesLooseShapes(t *testing.T) {
	payload := `{
		"voucherNo": 7,
		"voucherDate": "31/01/2024",
		"status": null,
		"chequeNo": "CHQ-9",
		"voucherDetails": [{
			"narration": "stringly typed amounts",
			"accountOne": "Cash",
			"debitOne": "1500.25",
			"creditOne": "not a number",
			"balanceOne": "1500.25",
			"accountTwo": "Sales",
			"creditTwo": 1500.25,
			"balanceTwo": -1500.25
		}]
	}`
	var raw rawVoucher
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	v := normalizeVoucher(raw)

	assert.Equal(t, "7", v.No, "numeric voucher numbers coerce to strings")
	assert.True(t, v.DateValid)
	assert.Equal(t, 2024, v.Date.Year())
	assert.Equal(t, "", v.Status)
	assert.Equal(t, "CHQ-9", v.ChequeNo)

	require.Len(t, v.Details, 1)
	legs := v.Details[0].Legs
	assert.Equal(t, 1500.25, legs[0].Debit)
	assert.Equal(t, float64(0), legs[0].Credit, "non-numeric amounts default to 0")
	assert.Equal(t, 1500.25, legs[0].Balance)
	assert.Equal(t, -1500.25, legs[1].Balance)
}

func TestNormalizeVoucherInvalidDate(t *testing.T) {
	var raw rawVoucher
	require.NoError(t, json.Unmarshal([]byte(`{"voucherNo":"V1","voucherDate":"soon"}`), &raw))
	v := normalizeVoucher(raw)
	assert.False(t, v.DateValid)
	assert.True(t, v.Date.IsZero())
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{"2024-01-31", true},
		{"2024-01-31T14:30:00Z", true},
		{"2024-01-31T14:30:00", true},
		{"2024-01-31 14:30:00", true},
		{"31/01/2024", true},
		{"", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		_, ok := parseDate(tc.raw)
		assert.Equal(t, tc.valid, ok, "parseDate(%q)", tc.raw)
	}
}
