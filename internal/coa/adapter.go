// Package coa reads the five chart-of-accounts category services and
// normalizes their payloads into the engine's account records.
package coa

import (
	"encoding/json"
	"strings"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

// Legacy payloads spell the same field several ways depending on which
// service wrote the row. The alias tables below replace the old scattered
// `field ?? Field ?? field_name` fallbacks with one mapping kept at the
// service boundary; the engine itself only ever sees normalized records.
var (
	idAliases          = []string{"id", "Id", "ID", "accountId", "account_id"}
	listIDAliases      = []string{"listid", "listId", "ListID", "list_id", "ListId"}
	descriptionAliases = []string{"description", "Description", "accountDescription", "account_description", "name"}
	parentAliases      = []string{"parentAccountId", "ParentAccountId", "parent_account_id", "parentId", "parent_id"}
)

// rawAccount keeps the undecoded upstream object so the alias tables can be
// applied field by field.
type rawAccount map[string]json.RawMessage

// normalizeAccount maps one upstream account object onto an AccountRecord.
// Missing or null fields become empty strings; a null parent marks a category
// root.
func normalizeAccount(raw rawAccount) ledger.AccountRecord {
	return ledger.AccountRecord{
		ID:          stringField(raw, idAliases),
		ListID:      stringField(raw, listIDAliases),
		Description: stringField(raw, descriptionAliases),
		ParentID:    stringField(raw, parentAliases),
	}
}

// stringField returns the first alias present, coerced to a string. Numeric
// ids are rendered without an exponent; null and unsupported shapes read as
// empty.
func stringField(raw rawAccount, aliases []string) string {
	for _, alias := range aliases {
		payload, ok := raw[alias]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(payload, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var n json.Number
		if err := json.Unmarshal(payload, &n); err == nil {
			return n.String()
		}
		return ""
	}
	return ""
}
