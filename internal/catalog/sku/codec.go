// Package sku implements the variant codec for catalog codes.
//
// A full code reads MASTER+SUFFIX with no separator. MASTER is a catalog
// entry (letters then digits, e.g. RN100); SUFFIX is an optional finish
// code (single letter, closed set) followed by an optional stone code
// (1-3 letters, gender-aware). Matching is case-insensitive; codes are
// normalized to uppercase first.
package sku

import (
	"strings"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

// Finish codes. The empty string is the lustre default (no plating).
const (
	FinishLustre   = ""
	FinishGold     = "X"
	FinishOxidised = "O"
	FinishTwoTone  = "D"
	FinishPlatinum = "P"
)

var finishLabels = map[string]string{
	FinishLustre:   "Lustre",
	FinishGold:     "Gold-plated",
	FinishOxidised: "Oxidised",
	FinishTwoTone:  "Two-tone",
	FinishPlatinum: "Platinum-plated",
}

// Stone codes for the women's line. Codes are 1-3 uppercase letters and
// deliberately avoid single letters from the finish set.
var womenStones = map[string]string{
	"H":   "Hematite",
	"T":   "Turquoise",
	"PE":  "Pearl",
	"ON":  "Onyx",
	"LA":  "Lapis",
	"AM":  "Amethyst",
	"CR":  "Coral",
	"GR":  "Garnet",
	"MAL": "Malachite",
	"ZI":  "Zircon",
}

// Men's line re-uses some codes for different stones.
var menStoneOverrides = map[string]string{
	"T":  "Tiger Eye",
	"LA": "Lava",
	"CR": "Black Coral",
}

// VariantComponents is the decoded form of a suffix. Unknown carries any
// trailing characters that matched neither table; it is passed through
// rather than treated as an error.
type VariantComponents struct {
	Finish      string `json:"finish"`
	FinishLabel string `json:"finish_label"`
	Stone       string `json:"stone,omitempty"`
	StoneLabel  string `json:"stone_label,omitempty"`
	Unknown     string `json:"unknown,omitempty"`
}

// Description composes the human label: finish first, then stone.
func (v VariantComponents) Description() string {
	parts := make([]string, 0, 3)
	if v.FinishLabel != "" {
		parts = append(parts, v.FinishLabel)
	}
	if v.StoneLabel != "" {
		parts = append(parts, v.StoneLabel)
	}
	if v.Unknown != "" {
		parts = append(parts, v.Unknown)
	}
	return strings.Join(parts, " ")
}

// FinishLabel returns the display label for a finish code, or "" when the
// code is not in the closed set.
func FinishLabel(code string) string {
	return finishLabels[strings.ToUpper(code)]
}

func isFinishCode(c byte) bool {
	switch c {
	case 'X', 'O', 'D', 'P':
		return true
	}
	return false
}

func stoneLabel(code, gender string) (string, bool) {
	if gender == entity.GenderMen {
		if label, ok := menStoneOverrides[code]; ok {
			return label, true
		}
	}
	label, ok := womenStones[code]
	return label, ok
}

// matchStone matches the longest stone code (3, 2, then 1 letters) at the
// start of s. The remainder is returned as-is.
func matchStone(s, gender string) (code, label, rest string) {
	max := 3
	if len(s) < max {
		max = len(s)
	}
	for l := max; l >= 1; l-- {
		if lb, ok := stoneLabel(s[:l], gender); ok {
			return s[:l], lb, s[l:]
		}
	}
	return "", "", s
}

// GetVariantComponents decodes a suffix into finish and stone. The finish
// is an optional single-letter prefix; the rest is matched against the
// gender-aware stone table. Decoding is deterministic: when treating the
// first letter as a finish leaves an undecodable remainder but the whole
// suffix is a valid stone code, the stone reading wins.
func GetVariantComponents(suffix, gender string) VariantComponents {
	s := strings.ToUpper(strings.TrimSpace(suffix))
	out := VariantComponents{Finish: FinishLustre, FinishLabel: finishLabels[FinishLustre]}
	if s == "" {
		return out
	}

	finish := ""
	rest := s
	if isFinishCode(s[0]) {
		finish = s[:1]
		rest = s[1:]
	}

	stone, label, unknown := matchStone(rest, gender)
	if finish != "" && stone == "" && rest != "" {
		if st, lb, un := matchStone(s, gender); st != "" {
			finish, stone, label, unknown = "", st, lb, un
		}
	}
	if finish != "" && rest == "" {
		// bare finish code, no stone
		stone, label, unknown = "", "", ""
	}

	if finish != "" {
		out.Finish = finish
		out.FinishLabel = finishLabels[finish]
	}
	out.Stone = stone
	out.StoneLabel = label
	out.Unknown = unknown
	return out
}

// AnalyzeSuffix returns the display description of a suffix without
// needing a resolved master (manual price-list entry).
func AnalyzeSuffix(suffix, gender string) string {
	return GetVariantComponents(suffix, gender).Description()
}

// SplitSKUComponents splits a raw code into master and suffix. The
// longest known master SKU that prefixes the code wins. When no master
// matches, a structural letters-then-digits guess is returned for display
// purposes only.
func SplitSKUComponents(code string, masters []string) (master, suffix string) {
	c := strings.ToUpper(strings.TrimSpace(code))
	best := ""
	for _, m := range masters {
		m = strings.ToUpper(m)
		if strings.HasPrefix(c, m) && len(m) > len(best) {
			best = m
		}
	}
	if best != "" {
		return best, c[len(best):]
	}
	return heuristicSplit(c)
}

// heuristicSplit guesses a master/suffix boundary: everything up to and
// including the last digit is the master, trailing letters the suffix.
func heuristicSplit(code string) (string, string) {
	last := -1
	for i := 0; i < len(code); i++ {
		if code[i] >= '0' && code[i] <= '9' {
			last = i
		}
	}
	if last < 0 {
		return code, ""
	}
	return code[:last+1], code[last+1:]
}

// Analysis is the result of decoding a full catalog code.
type Analysis struct {
	MasterSKU   string `json:"master_sku"`
	Suffix      string `json:"suffix"`
	IsVariant   bool   `json:"is_variant"`
	Description string `json:"description"`
}

// AnalyzeSKU decodes a full code against the known masters. IsVariant is
// true only when the master is known and the suffix decodes cleanly into
// finish and/or stone with nothing left over.
func AnalyzeSKU(fullSKU, gender string, masters []string) Analysis {
	c := strings.ToUpper(strings.TrimSpace(fullSKU))
	known := false
	for _, m := range masters {
		if strings.HasPrefix(c, strings.ToUpper(m)) {
			known = true
			break
		}
	}
	master, suffix := SplitSKUComponents(c, masters)
	comps := GetVariantComponents(suffix, gender)
	return Analysis{
		MasterSKU:   master,
		Suffix:      suffix,
		IsVariant:   known && suffix != "" && comps.Unknown == "",
		Description: comps.Description(),
	}
}
