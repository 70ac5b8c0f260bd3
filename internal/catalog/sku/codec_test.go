package sku

import (
	"testing"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

func TestGetVariantComponentsDeterministic(t *testing.T) {
	for _, suffix := range []string{"", "X", "XT", "PE", "DON", "xt", "XQQ"} {
		a := GetVariantComponents(suffix, entity.GenderWomen)
		b := GetVariantComponents(suffix, entity.GenderWomen)
		if a != b {
			t.Fatalf("decode of %q not deterministic: %+v vs %+v", suffix, a, b)
		}
	}
}

func TestGetVariantComponents(t *testing.T) {
	tests := []struct {
		suffix string
		gender string
		finish string
		stone  string
		label  string
	}{
		{"", entity.GenderWomen, "", "", ""},
		{"X", entity.GenderWomen, "X", "", ""},
		{"XT", entity.GenderWomen, "X", "T", "Turquoise"},
		{"T", entity.GenderWomen, "", "T", "Turquoise"},
		{"T", entity.GenderMen, "", "T", "Tiger Eye"},
		{"XT", entity.GenderMen, "X", "T", "Tiger Eye"},
		{"PE", entity.GenderWomen, "", "PE", "Pearl"},
		{"DON", entity.GenderWomen, "D", "ON", "Onyx"},
		{"xon", entity.GenderWomen, "X", "ON", "Onyx"},
		{"MAL", entity.GenderWomen, "", "MAL", "Malachite"},
	}
	for _, tt := range tests {
		got := GetVariantComponents(tt.suffix, tt.gender)
		if got.Finish != tt.finish {
			t.Fatalf("%q/%s: finish = %q, want %q", tt.suffix, tt.gender, got.Finish, tt.finish)
		}
		if got.Stone != tt.stone {
			t.Fatalf("%q/%s: stone = %q, want %q", tt.suffix, tt.gender, got.Stone, tt.stone)
		}
		if got.StoneLabel != tt.label {
			t.Fatalf("%q/%s: stone label = %q, want %q", tt.suffix, tt.gender, got.StoneLabel, tt.label)
		}
		if got.Unknown != "" {
			t.Fatalf("%q/%s: unexpected unknown fragment %q", tt.suffix, tt.gender, got.Unknown)
		}
	}
}

func TestGetVariantComponentsUnknownFragment(t *testing.T) {
	got := GetVariantComponents("XQQ", entity.GenderWomen)
	if got.Finish != "X" {
		t.Fatalf("finish = %q, want X", got.Finish)
	}
	if got.Stone != "" || got.Unknown != "QQ" {
		t.Fatalf("expected unknown fragment QQ, got stone=%q unknown=%q", got.Stone, got.Unknown)
	}
}

func TestDescriptionOrder(t *testing.T) {
	got := GetVariantComponents("XON", entity.GenderWomen).Description()
	if got != "Gold-plated Onyx" {
		t.Fatalf("description = %q, want finish label before stone label", got)
	}
	if d := GetVariantComponents("", entity.GenderWomen).Description(); d != "Lustre" {
		t.Fatalf("empty suffix description = %q, want Lustre", d)
	}
}

func TestSplitSKUComponentsLongestPrefix(t *testing.T) {
	masters := []string{"RN10", "RN100", "BR55"}
	m, s := SplitSKUComponents("RN100XT", masters)
	if m != "RN100" || s != "XT" {
		t.Fatalf("split = %q/%q, want RN100/XT", m, s)
	}
	m, s = SplitSKUComponents("rn10pe", masters)
	if m != "RN10" || s != "PE" {
		t.Fatalf("split = %q/%q, want RN10/PE", m, s)
	}
}

func TestSplitSKUComponentsHeuristic(t *testing.T) {
	m, s := SplitSKUComponents("ZZ123XT", nil)
	if m != "ZZ123" || s != "XT" {
		t.Fatalf("heuristic split = %q/%q, want ZZ123/XT", m, s)
	}
	m, s = SplitSKUComponents("NODIGITS", nil)
	if m != "NODIGITS" || s != "" {
		t.Fatalf("heuristic split = %q/%q, want NODIGITS/", m, s)
	}
}

func TestAnalyzeSKU(t *testing.T) {
	masters := []string{"RN100"}

	a := AnalyzeSKU("RN100XT", entity.GenderWomen, masters)
	if !a.IsVariant || a.MasterSKU != "RN100" || a.Suffix != "XT" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if a.Description != "Gold-plated Turquoise" {
		t.Fatalf("description = %q", a.Description)
	}

	// Unrecognized suffix fragments never raise; they just demote the
	// code to non-variant.
	a = AnalyzeSKU("RN100QQQ", entity.GenderWomen, masters)
	if a.IsVariant {
		t.Fatalf("expected IsVariant=false for undecodable suffix, got %+v", a)
	}

	a = AnalyzeSKU("RN100", entity.GenderWomen, masters)
	if a.IsVariant || a.Suffix != "" {
		t.Fatalf("bare master should not be a variant: %+v", a)
	}
}
