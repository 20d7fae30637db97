package migrate

import (
	"math"
	"strconv"
	"strings"
)

// Source weights are free-text grams, sometimes a "min-max" range, sometimes
// with a dropped decimal point on one side ("29-3.5" meaning 2.9-3.5). The
// destination weight field is ounces; both the initial migration and the
// verification fix path share this one conversion.

const gramsToOuncesFactor = 0.035274

// maxShiftCorrections caps how often a range bound may be divided by 10 while
// correcting a misplaced decimal point.
const maxShiftCorrections = 4

// NormalizedWeight is the canonical reading of a raw source weight string.
type NormalizedWeight struct {
	Grams     float64
	Ounces    float64
	RangeText string
	HasRange  bool
}

// NormalizeWeight parses a raw weight string, corrects digit-shifted range
// bounds, and picks the maximum of the pair as the canonical weight.
// ok is false when no numeric value can be extracted.
func NormalizeWeight(raw string) (NormalizedWeight, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NormalizedWeight{}, false
	}

	// Dash variants from copy-pasted range input.
	normalized := strings.NewReplacer("–", "-", "—", "-").Replace(raw)

	var values []float64
	for _, part := range strings.Split(normalized, "-") {
		if v, ok := parseWeightPart(part); ok {
			values = append(values, v)
		}
	}

	switch len(values) {
	case 0:
		return NormalizedWeight{}, false
	case 1:
		grams := values[0]
		return NormalizedWeight{Grams: grams, Ounces: gramsToOunces(grams)}, true
	}

	lo, hi := values[0], values[1]
	// A bound that exceeds its partner by an order of magnitude is a
	// data-entry defect: the decimal point was dropped, not the range inverted.
	for i := 0; i < maxShiftCorrections && lo > hi; i++ {
		lo /= 10
	}
	grams := math.Max(lo, hi)

	return NormalizedWeight{
		Grams:     grams,
		Ounces:    gramsToOunces(grams),
		RangeText: formatWeight(lo) + "-" + formatWeight(hi),
		HasRange:  true,
	}, true
}

func parseWeightPart(part string) (float64, bool) {
	var b strings.Builder
	for _, r := range part {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func gramsToOunces(grams float64) float64 {
	return math.Round(grams*gramsToOuncesFactor*100) / 100
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
