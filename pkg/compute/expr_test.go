package compute

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_derivedEval(t *testing.T) {
	d := NewDerivedCols(4)
	err := d.Eval(
		[]float64{100, 50},
		[]float64{0.1, 0},
		[]float64{0.05, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 50}, d.DiscPrice.Slice())
	assert.Equal(t, []float64{94.5, 50}, d.Charge.Slice())
}

func Test_derivedEvalShapeMismatch(t *testing.T) {
	d := NewDerivedCols(4)
	err := d.Eval([]float64{1, 2}, []float64{0}, []float64{0, 0})
	assert.Error(t, err)
}

// The vectorized kernels and the fused scalar path must agree bit for bit.
func Test_derivedEvalMatchesFused(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 4096
	price := make([]float64, n)
	discount := make([]float64, n)
	tax := make([]float64, n)
	for i := 0; i < n; i++ {
		price[i] = rng.Float64() * 100000
		discount[i] = rng.Float64()
		tax[i] = rng.Float64() * 0.1
	}

	d := NewDerivedCols(n)
	require.NoError(t, d.Eval(price, discount, tax))
	discPrice := d.DiscPrice.Slice()
	charge := d.Charge.Slice()
	for i := 0; i < n; i++ {
		dp := discPriceOp(price[i], discount[i])
		assert.Equal(t, dp, discPrice[i])
		assert.Equal(t, chargeOp(dp, tax[i]), charge[i])
	}
}
