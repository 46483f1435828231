package domain

import "strings"

// Canonical bike weights in kilograms, used to infer a rate's category from
// its weight bounds when no explicit category is stored.
const (
	WeightRoadBike     = 15.0
	WeightMountainBike = 18.0
	WeightEBike        = 25.0
)

const (
	CategoryRoadBike     = "Road Bike"
	CategoryMountainBike = "Mountain Bike"
	CategoryEBike        = "E-Bike"
)

// InferCategory classifies a weight range. A single exact weight (min==max,
// or only one bound present) is classified by exact canonical match, then by
// integer-multiple match (heaviest canonical weight checked first), then by
// a small table of known two-bike sums. A true range is labelled with every
// canonical type whose weight falls inside it, slash-joined. Zero or absent
// weights infer nothing.
func InferCategory(minWeight, maxWeight *float64) string {
	min := 0.0
	if minWeight != nil {
		min = *minWeight
	}
	max := min
	if maxWeight != nil {
		max = *maxWeight
	}

	if min == 0 && max == 0 {
		return ""
	}

	if min == max || (min > 0 && max == 0) || (min == 0 && max > 0) {
		weight := max
		if weight == 0 {
			weight = min
		}
		return classifySingleWeight(weight)
	}

	var categories []string
	if min <= WeightRoadBike && max >= WeightRoadBike {
		categories = append(categories, CategoryRoadBike)
	}
	if min <= WeightMountainBike && max >= WeightMountainBike {
		categories = append(categories, CategoryMountainBike)
	}
	if min <= WeightEBike && max >= WeightEBike {
		categories = append(categories, CategoryEBike)
	}
	return strings.Join(categories, " / ")
}

func classifySingleWeight(weight float64) string {
	if weight == 0 {
		return ""
	}

	switch weight {
	case WeightRoadBike:
		return CategoryRoadBike
	case WeightMountainBike:
		return CategoryMountainBike
	case WeightEBike:
		return CategoryEBike
	}

	// Multiples of a single type, heaviest first so e.g. 450kg reads as
	// E-Bikes rather than Road Bikes.
	switch {
	case isMultipleOf(weight, WeightEBike):
		return CategoryEBike
	case isMultipleOf(weight, WeightMountainBike):
		return CategoryMountainBike
	case isMultipleOf(weight, WeightRoadBike):
		return CategoryRoadBike
	}

	// Known two-bike sums.
	switch weight {
	case WeightRoadBike + WeightMountainBike: // 33
		return CategoryRoadBike + " + " + CategoryMountainBike
	case WeightEBike + WeightRoadBike: // 40
		return CategoryEBike + " + " + CategoryRoadBike
	case WeightEBike + WeightMountainBike: // 43
		return CategoryEBike + " + " + CategoryMountainBike
	}

	return ""
}

func isMultipleOf(weight, unit float64) bool {
	if weight <= 0 {
		return false
	}
	quotient := weight / unit
	return quotient == float64(int64(quotient))
}
