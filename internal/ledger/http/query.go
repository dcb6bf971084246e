package http

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

var validate = validator.New()

const queryDate = "2006-01-02"

// reportQuery carries the raw report parameters of one request.
type reportQuery struct {
	Mode     string   `validate:"omitempty,oneof=byhead range specific"`
	Head     string   `validate:"omitempty,max=120"`
	From     string   `validate:"omitempty,max=120"`
	To       string   `validate:"omitempty,max=120"`
	Accounts []string `validate:"max=2,dive,max=120"`
	FromDate string   `validate:"omitempty,datetime=2006-01-02"`
	ToDate   string   `validate:"omitempty,datetime=2006-01-02"`
	Status   string   `validate:"omitempty,max=40"`
	Title    string   `validate:"omitempty,max=160"`
	Branch   string   `validate:"omitempty,max=160"`
}

func parseQuery(r *http.Request) (reportQuery, map[string]string) {
	q := r.URL.Query()
	rq := reportQuery{
		Mode:     strings.ToLower(strings.TrimSpace(q.Get("mode"))),
		Head:     strings.TrimSpace(q.Get("head")),
		From:     strings.TrimSpace(q.Get("fromAccount")),
		To:       strings.TrimSpace(q.Get("toAccount")),
		FromDate: strings.TrimSpace(q.Get("fromDate")),
		ToDate:   strings.TrimSpace(q.Get("toDate")),
		Status:   strings.TrimSpace(q.Get("status")),
		Title:    strings.TrimSpace(q.Get("title")),
		Branch:   strings.TrimSpace(q.Get("branch")),
	}
	if raw := strings.TrimSpace(q.Get("accounts")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				rq.Accounts = append(rq.Accounts, part)
			}
		}
	}

	errs := make(map[string]string)
	if err := validate.Struct(rq); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs["general"] = err.Error()
			return rq, errs
		}
		for _, fe := range fieldErrs {
			errs[queryField(fe.Field())] = queryMessage(fe)
		}
	}
	return rq, errs
}

func queryField(structField string) string {
	switch structField {
	case "Head":
		return "head"
	case "From":
		return "fromAccount"
	case "To":
		return "toAccount"
	case "FromDate":
		return "fromDate"
	case "ToDate":
		return "toDate"
	default:
		return strings.ToLower(structField)
	}
}

func queryMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of byhead, range, specific"
	case "datetime":
		return "must be formatted as YYYY-MM-DD"
	case "max":
		if fe.Kind().String() == "slice" {
			return "at most two accounts may be selected"
		}
		return "value too long"
	default:
		return "invalid value"
	}
}

// filters maps the validated query onto engine filters. Unparsable dates were
// rejected by validation, so a zero time here always means "bound not given".
func (q reportQuery) filters() ledger.Filters {
	mode := ledger.SelectByHead
	switch q.Mode {
	case "range":
		mode = ledger.SelectRange
	case "specific":
		mode = ledger.SelectSpecific
	}
	f := ledger.Filters{
		Mode:          mode,
		HeadAccountID: q.Head,
		FromAccountID: q.From,
		ToAccountID:   q.To,
		AccountIDs:    q.Accounts,
		Status:        q.Status,
	}
	if t, err := time.Parse(queryDate, q.FromDate); err == nil && q.FromDate != "" {
		f.FromDate = t
	}
	if t, err := time.Parse(queryDate, q.ToDate); err == nil && q.ToDate != "" {
		f.ToDate = t
	}
	return f
}

func (q reportQuery) reportTitle(fallback string) string {
	if q.Title != "" {
		return q.Title
	}
	return fallback
}

// cacheKey is a canonical token of every parameter that affects the output.
func (q reportQuery) cacheKey(report string) string {
	accounts := append([]string(nil), q.Accounts...)
	sort.Strings(accounts)
	parts := []string{
		report, q.Mode, q.Head, q.From, q.To,
		strings.Join(accounts, ","),
		q.FromDate, q.ToDate, strings.ToLower(q.Status),
		q.Title, q.Branch,
	}
	return strings.Join(parts, "|")
}
