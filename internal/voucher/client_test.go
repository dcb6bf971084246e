package voucher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchVouchersWalksAllPages(t *testing.T) {
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("pageIndex")
		pagesServed = append(pagesServed, page)
		require.Equal(t, "100", r.URL.Query().Get("pageSize"))
		fmt.Fprintf(w, `{
			"data": [{"voucherNo": "V%s", "voucherDate": "2024-01-0%s", "status": "Posted",
				"voucherDetails": [{"accountOne": "Cash", "debitOne": 10, "balanceOne": 10,
					"accountTwo": "Sales", "creditTwo": 10, "balanceTwo": -10}]}],
			"misc": {"totalPages": 3}
		}`, page, page)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	vouchers, err := client.FetchVouchers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, pagesServed, "pages are fetched sequentially until totalPages")
	require.Len(t, vouchers, 3)
	assert.Equal(t, "V2", vouchers[1].No)
	assert.True(t, vouchers[0].DateValid)
	assert.Equal(t, "Cash", vouchers[0].Details[0].Legs[0].Account)
	assert.Equal(t, float64(10), vouchers[0].Details[0].Legs[0].Debit)
	assert.Equal(t, float64(-10), vouchers[0].Details[0].Legs[1].Balance)
}

func TestFetchVouchersAbortsOnPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageIndex") == "2" {
			http.Error(w, "unavailable", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data": [{"voucherNo": "V1"}], "misc": {"totalPages": 2}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.FetchVouchers(context.Background())
	require.Error(t, err, "a failed page aborts the whole run, no partial list")
	assert.Contains(t, err.Error(), "page 2")
}
