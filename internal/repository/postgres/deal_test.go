package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/apperr"
)

func TestCollapseContactIDsFromStrings(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()

	ids, err := collapseContactIDs([]any{c1.String(), c2.String()})
	if err != nil {
		t.Fatalf("collapse: %v", err)
	}
	if len(ids) != 2 || ids[0] != c1 || ids[1] != c2 {
		t.Fatalf("expected [c1 c2], got %v", ids)
	}
}

func TestCollapseContactIDsFromRehydratedObjects(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()

	// A detail response sent back whole: contacts arrive as resolved
	// objects, not ids.
	ids, err := collapseContactIDs([]any{
		map[string]any{"id": c1.String(), "name": "Dana", "email": "dana@acme.io"},
		map[string]any{"id": c2.String(), "name": "Lee", "email": "N/A"},
	})
	if err != nil {
		t.Fatalf("collapse: %v", err)
	}
	if len(ids) != 2 || ids[0] != c1 || ids[1] != c2 {
		t.Fatalf("expected bare ids, got %v", ids)
	}
}

func TestCollapseContactIDsDeduplicates(t *testing.T) {
	c1 := uuid.New()

	ids, err := collapseContactIDs([]any{c1.String(), c1.String()})
	if err != nil {
		t.Fatalf("collapse: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected a single occurrence, got %v", ids)
	}
}

func TestCollapseContactIDsRejectsJunk(t *testing.T) {
	if _, err := collapseContactIDs("not-a-list"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := collapseContactIDs([]any{42}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for numeric element, got %v", err)
	}
	if _, err := collapseContactIDs([]any{map[string]any{"name": "no id"}}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for object without id, got %v", err)
	}
}

func TestNormalizeDealFieldsParsesCloseDate(t *testing.T) {
	out, err := normalizeDealFields(map[string]any{
		"title":      "Acme renewal",
		"close_date": "2026-09-30T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got, ok := out["close_date"].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", out["close_date"])
	}
	if got.Year() != 2026 || got.Month() != time.September {
		t.Fatalf("unexpected close date %v", got)
	}
}

func TestNormalizeDealFieldsCoercesReferences(t *testing.T) {
	companyID := uuid.New()

	out, err := normalizeDealFields(map[string]any{
		"company_id": companyID.String(),
		"lead_id":    nil,
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out["company_id"] != companyID {
		t.Fatalf("expected parsed uuid, got %v", out["company_id"])
	}
	// nil stays nil: create skips the column, update writes NULL-safe.
	if out["lead_id"] != nil {
		t.Fatalf("expected nil lead_id, got %v", out["lead_id"])
	}
}

func TestNormalizeDealFieldsRejectsBadReference(t *testing.T) {
	_, err := normalizeDealFields(map[string]any{"company_id": "not-a-uuid"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeDealFieldsLeavesOtherKeysAlone(t *testing.T) {
	out, err := normalizeDealFields(map[string]any{
		"title":  "Acme renewal",
		"amount": 12500.0,
		"owner":  "Dana",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out["title"] != "Acme renewal" || out["amount"] != 12500.0 || out["owner"] != "Dana" {
		t.Fatalf("unexpected mutation of pass-through keys: %v", out)
	}
}

func TestIsBlank(t *testing.T) {
	if !isBlank(nil) || !isBlank("") || !isBlank("   ") {
		t.Fatal("nil and empty strings must count as blank")
	}
	if isBlank("x") || isBlank(0.0) || isBlank(false) {
		t.Fatal("non-string values and non-empty strings are not blank")
	}
}
