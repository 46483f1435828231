// Package combo enumerates shipping-rate combinations for multi-unit orders.
//
// Given a set of unit types (bike models with a unit weight and a unit
// shipping price) and an upper bound on units per order, it produces every
// distinct multiset of units whose total count is between 1 and the bound,
// together with the aggregate price, weight and generated rate name. Output
// order and naming are deterministic for identical inputs.
package combo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit describes a single orderable unit type.
type Unit struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Weight  float64         `json:"weight"`
	Price   decimal.Decimal `json:"price"`
	Enabled bool            `json:"enabled"`
}

// Part is the contribution of one unit type to a combination.
type Part struct {
	Type   string          `json:"type"`
	Count  int             `json:"count"`
	Weight float64         `json:"weight"`
	Price  decimal.Decimal `json:"price"`
}

// Combination is one multiset of units with derived aggregates. It is an
// ephemeral value: only combinations the caller confirms become real rates.
type Combination struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TotalWeight float64         `json:"total_weight"`
	UnitCount   int             `json:"unit_count"`
	Breakdown   []Part          `json:"breakdown"`
	Selected    bool            `json:"selected"`
}

type allocation struct {
	unitIndex int
	count     int
}

// Generate enumerates every combination of the enabled, priced units with a
// total count between 1 and maxCount. Units with Enabled=false or a
// non-positive price do not participate; if none qualify the result is empty.
//
// Enumeration order is ascending total count, then unit index, then per-unit
// multiplicity, so two calls with the same inputs yield identical output.
// The work grows exponentially with the number of unit types; callers keep
// maxCount small (the admin UI caps it at 10).
func Generate(units []Unit, maxCount int, customLabel string) []Combination {
	qualified := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.Enabled && u.Price.IsPositive() {
			qualified = append(qualified, u)
		}
	}
	if len(qualified) == 0 || maxCount < 1 {
		return nil
	}

	label := strings.TrimSpace(customLabel)
	var out []Combination
	for total := 1; total <= maxCount; total++ {
		out = appendDistributions(out, qualified, total, nil, 0, label)
	}
	return out
}

// appendDistributions walks every way to distribute the remaining count over
// the unit types starting at index start. Each recursive branch copies its
// allocation slice, so no state is shared between branches.
func appendDistributions(out []Combination, units []Unit, remaining int, picked []allocation, start int, label string) []Combination {
	if remaining == 0 {
		if len(picked) > 0 {
			out = append(out, build(units, picked, label))
		}
		return out
	}
	for i := start; i < len(units); i++ {
		for count := 1; count <= remaining; count++ {
			next := make([]allocation, len(picked), len(picked)+1)
			copy(next, picked)
			next = append(next, allocation{unitIndex: i, count: count})
			out = appendDistributions(out, units, remaining-count, next, i+1, label)
		}
	}
	return out
}

func build(units []Unit, picked []allocation, label string) Combination {
	breakdown := make([]Part, 0, len(picked))
	totalPrice := decimal.Zero
	totalWeight := 0.0
	unitCount := 0

	for _, a := range picked {
		u := units[a.unitIndex]
		price := u.Price.Mul(decimal.NewFromInt(int64(a.count)))
		breakdown = append(breakdown, Part{
			Type:   u.Name,
			Count:  a.count,
			Weight: u.Weight * float64(a.count),
			Price:  price,
		})
		totalPrice = totalPrice.Add(price)
		totalWeight += u.Weight * float64(a.count)
		unitCount += a.count
	}

	descParts := make([]string, 0, len(breakdown))
	for _, p := range breakdown {
		descParts = append(descParts, fmt.Sprintf("%dx %s", p.Count, p.Type))
	}
	description := fmt.Sprintf("%s | Total: %skg", strings.Join(descParts, " + "), formatWeight(totalWeight))

	var name string
	if label != "" {
		name = fmt.Sprintf("%s | %s", label, strings.Join(descParts, " + "))
	} else {
		nameParts := make([]string, 0, len(picked))
		for _, a := range picked {
			nameParts = append(nameParts, fmt.Sprintf("%dx %skg", a.count, formatWeight(units[a.unitIndex].Weight)))
		}
		word := "Bikes"
		if unitCount == 1 {
			word = "Bike"
		}
		name = fmt.Sprintf("%d %s (%skg): %s", unitCount, word, formatWeight(totalWeight), strings.Join(nameParts, " + "))
	}

	idParts := make([]string, 0, len(picked))
	for _, a := range picked {
		idParts = append(idParts, fmt.Sprintf("%d-%d", a.unitIndex, a.count))
	}

	return Combination{
		ID:          fmt.Sprintf("combo-%d-%s", unitCount, strings.Join(idParts, "-")),
		Name:        name,
		Description: description,
		TotalPrice:  totalPrice,
		TotalWeight: totalWeight,
		UnitCount:   unitCount,
		Breakdown:   breakdown,
		Selected:    true,
	}
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}
