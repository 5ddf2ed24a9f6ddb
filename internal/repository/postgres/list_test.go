package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/models"
)

func TestToggleIDAddsWhenAbsent(t *testing.T) {
	x := uuid.New()

	next := toggleID(nil, x)
	if len(next) != 1 || next[0] != x {
		t.Fatalf("expected [x], got %v", next)
	}
}

func TestToggleIDRemovesWhenPresent(t *testing.T) {
	x := uuid.New()

	next := toggleID([]uuid.UUID{x}, x)
	if len(next) != 0 {
		t.Fatalf("expected empty array, got %v", next)
	}
}

func TestToggleIDRoundTrip(t *testing.T) {
	x, y := uuid.New(), uuid.New()

	arr := toggleID(nil, x)
	arr = toggleID(arr, y)
	if len(arr) != 2 {
		t.Fatalf("expected two elements, got %v", arr)
	}
	seen := map[uuid.UUID]int{}
	for _, id := range arr {
		seen[id]++
	}
	if seen[x] != 1 || seen[y] != 1 {
		t.Fatalf("expected one occurrence of each id, got %v", seen)
	}

	arr = toggleID(arr, x)
	if len(arr) != 1 || arr[0] != y {
		t.Fatalf("expected [y] after toggling x off, got %v", arr)
	}
}

func TestToggleIDLeavesInputUntouched(t *testing.T) {
	x, y := uuid.New(), uuid.New()
	orig := []uuid.UUID{x, y}

	_ = toggleID(orig, x)
	if len(orig) != 2 || orig[0] != x || orig[1] != y {
		t.Fatalf("input array mutated: %v", orig)
	}
}

func TestNormalizeListType(t *testing.T) {
	cases := map[string]string{
		"company": models.ListTypeCompany,
		"Company": models.ListTypeCompany,
		"CONTACT": models.ListTypeContact,
		"lead":    models.ListTypeLead,
		"Lead":    models.ListTypeLead,
		" lead ":  models.ListTypeLead,
	}
	for input, want := range cases {
		got, err := NormalizeListType(input)
		if err != nil {
			t.Fatalf("NormalizeListType(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeListType(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := NormalizeListType("deal"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	if _, err := NormalizeListType(""); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for empty type, got %v", err)
	}
}

func TestNormalizeListFieldsDefaultsAccessOnCreate(t *testing.T) {
	out, err := normalizeListFields(map[string]any{"name": "Q3 targets", "type": "Company"}, true)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out["access"] != models.ListAccessPublic {
		t.Fatalf("expected access to default to public, got %v", out["access"])
	}
	if out["type"] != models.ListTypeCompany {
		t.Fatalf("expected canonical type, got %v", out["type"])
	}
}

func TestNormalizeListFieldsNoDefaultOnUpdate(t *testing.T) {
	out, err := normalizeListFields(map[string]any{"name": "renamed"}, false)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, ok := out["access"]; ok {
		t.Fatalf("update must not inject an access value")
	}
}

func TestNormalizeListFieldsRejectsBadAccess(t *testing.T) {
	_, err := normalizeListFields(map[string]any{"access": "secret"}, true)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
