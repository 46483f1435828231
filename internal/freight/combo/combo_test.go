package combo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(id, name string, weight float64, price string, enabled bool) Unit {
	return Unit{
		ID:      id,
		Name:    name,
		Weight:  weight,
		Price:   decimal.RequireFromString(price),
		Enabled: enabled,
	}
}

func TestGenerateTwoTypesMaxTwo(t *testing.T) {
	units := []Unit{
		unit("road", "Road Bike", 15, "10", true),
		unit("mountain", "Mountain Bike", 18, "12", true),
	}

	combos := Generate(units, 2, "")
	require.Len(t, combos, 5)

	type expect struct {
		price  string
		weight float64
		count  int
	}
	expected := []expect{
		{"10", 15, 1}, // 1x Road
		{"12", 18, 1}, // 1x Mountain
		{"20", 30, 2}, // 2x Road
		{"22", 33, 2}, // 1x Road + 1x Mountain
		{"24", 36, 2}, // 2x Mountain
	}
	for i, e := range expected {
		assert.True(t, combos[i].TotalPrice.Equal(decimal.RequireFromString(e.price)),
			"combo %d price: got %s want %s", i, combos[i].TotalPrice, e.price)
		assert.Equal(t, e.weight, combos[i].TotalWeight, "combo %d weight", i)
		assert.Equal(t, e.count, combos[i].UnitCount, "combo %d count", i)
	}
}

func TestGenerateAutoNames(t *testing.T) {
	units := []Unit{
		unit("road", "Road Bike", 15, "10", true),
		unit("mountain", "Mountain Bike", 18, "12", true),
	}

	combos := Generate(units, 2, "")
	require.Len(t, combos, 5)

	assert.Equal(t, "1 Bike (15kg): 1x 15kg", combos[0].Name)
	assert.Equal(t, "1x Road Bike | Total: 15kg", combos[0].Description)
	assert.Equal(t, "2 Bikes (33kg): 1x 15kg + 1x 18kg", combos[3].Name)
	assert.Equal(t, "1x Road Bike + 1x Mountain Bike | Total: 33kg", combos[3].Description)
}

func TestGenerateCustomLabel(t *testing.T) {
	units := []Unit{unit("ebike", "E-Bike", 25, "30", true)}

	combos := Generate(units, 1, "  10-15 Days, DAP  ")
	require.Len(t, combos, 1)
	assert.Equal(t, "10-15 Days, DAP | 1x E-Bike", combos[0].Name)
}

func TestGenerateSkipsDisabledAndUnpriced(t *testing.T) {
	units := []Unit{
		unit("road", "Road Bike", 15, "10", false),
		unit("mountain", "Mountain Bike", 18, "0", true),
	}

	assert.Empty(t, Generate(units, 5, ""))
	assert.Empty(t, Generate(nil, 5, ""))
}

// The number of combinations for n units over k types is the stars-and-bars
// count C(n+k-1, k-1), summed over n=1..maxCount.
func TestGenerateCombinationCounts(t *testing.T) {
	units := []Unit{
		unit("a", "A", 10, "1", true),
		unit("b", "B", 20, "2", true),
		unit("c", "C", 30, "3", true),
	}

	// k=3: n=1 -> 3, n=2 -> 6, n=3 -> 10, n=4 -> 15
	combos := Generate(units, 4, "")
	assert.Len(t, combos, 34)

	seen := map[string]bool{}
	for _, c := range combos {
		require.False(t, seen[c.ID], "duplicate combination %s", c.ID)
		seen[c.ID] = true
		assert.GreaterOrEqual(t, c.UnitCount, 1)
		assert.LessOrEqual(t, c.UnitCount, 4)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	units := []Unit{
		unit("road", "Road Bike", 15, "10", true),
		unit("mountain", "Mountain Bike", 18, "12", true),
		unit("ebike", "E-Bike", 25, "30", true),
	}

	first := Generate(units, 3, "")
	second := Generate(units, 3, "")
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.True(t, first[i].TotalPrice.Equal(second[i].TotalPrice))
	}
}

func TestGenerateBreakdownSums(t *testing.T) {
	units := []Unit{
		unit("road", "Road Bike", 15, "10.50", true),
		unit("ebike", "E-Bike", 25, "29.90", true),
	}

	for _, c := range Generate(units, 3, "") {
		total := decimal.Zero
		weight := 0.0
		count := 0
		for _, p := range c.Breakdown {
			total = total.Add(p.Price)
			weight += p.Weight
			count += p.Count
		}
		assert.True(t, c.TotalPrice.Equal(total))
		assert.Equal(t, c.TotalWeight, weight)
		assert.Equal(t, c.UnitCount, count)
		assert.True(t, c.Selected)
	}
}
