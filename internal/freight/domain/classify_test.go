package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func w(v float64) *float64 { return &v }

func TestInferCategoryExactWeights(t *testing.T) {
	assert.Equal(t, "Road Bike", InferCategory(w(15), w(15)))
	assert.Equal(t, "Mountain Bike", InferCategory(w(18), w(18)))
	assert.Equal(t, "E-Bike", InferCategory(w(25), w(25)))
}

func TestInferCategorySingleBoundActsAsExact(t *testing.T) {
	assert.Equal(t, "Road Bike", InferCategory(w(15), nil))
	assert.Equal(t, "E-Bike", InferCategory(nil, w(25)))
	assert.Equal(t, "Mountain Bike", InferCategory(w(18), w(0)))
}

func TestInferCategoryMultiplesPreferHeaviest(t *testing.T) {
	assert.Equal(t, "Road Bike", InferCategory(w(30), w(30)))    // 2x15
	assert.Equal(t, "Mountain Bike", InferCategory(w(36), w(36))) // 2x18
	assert.Equal(t, "E-Bike", InferCategory(w(50), w(50)))       // 2x25
	// 450 = 30x15 = 25x18 = 18x25; the heaviest canonical weight wins.
	assert.Equal(t, "E-Bike", InferCategory(w(450), w(450)))
}

func TestInferCategoryPairedSums(t *testing.T) {
	assert.Equal(t, "Road Bike + Mountain Bike", InferCategory(w(33), w(33)))
	assert.Equal(t, "E-Bike + Road Bike", InferCategory(w(40), w(40)))
	assert.Equal(t, "E-Bike + Mountain Bike", InferCategory(w(43), w(43)))
}

func TestInferCategoryRangeJoinsTypesInRange(t *testing.T) {
	assert.Equal(t, "Road Bike / Mountain Bike / E-Bike", InferCategory(w(10), w(30)))
	assert.Equal(t, "Road Bike / Mountain Bike", InferCategory(w(14), w(20)))
	assert.Equal(t, "E-Bike", InferCategory(w(20), w(26)))
}

func TestInferCategoryNoMatch(t *testing.T) {
	assert.Empty(t, InferCategory(nil, nil))
	assert.Empty(t, InferCategory(w(0), w(0)))
	assert.Empty(t, InferCategory(w(17), w(17)))
	assert.Empty(t, InferCategory(w(1), w(2)))
}
