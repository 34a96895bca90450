// Copyright 2025 Kzeezee
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compute

import (
	"fmt"

	"github.com/Kzeezee/goose-db/pkg/chunk"
)

type UnaryOp[T any, R any] func(input *T, result *R)

type BinaryOp[T any, S any, R any] func(left *T, right *S, result *R)

func UnaryExecFlat[T any, R any](
	input []T, result []R, count int,
	op UnaryOp[T, R]) {
	for i := 0; i < count; i++ {
		op(&input[i], &result[i])
	}
}

func BinaryExecFlat[T any, S any, R any](
	left []T, right []S, result []R, count int,
	op BinaryOp[T, S, R]) {
	for i := 0; i < count; i++ {
		op(&left[i], &right[i], &result[i])
	}
}

func unaryFloat64OneSubOp(input *float64, result *float64) {
	*result = 1 - *input
}

func unaryFloat64OnePlusOp(input *float64, result *float64) {
	*result = 1 + *input
}

func binFloat64MulOp(left, right *float64, result *float64) {
	*result = *left * *right
}

// Scalar forms fused into the aggregation loop. Operation order matches
// the vectorized kernels above, so both strategies produce bit-identical
// values for the same inputs.

func discPriceOp(price, discount float64) float64 {
	return price * (1 - discount)
}

func chargeOp(discPrice, tax float64) float64 {
	return discPrice * (1 + tax)
}

// DerivedCols holds the two derived measure columns for one chunk:
//
//	disc_price = l_extendedprice * (1 - l_discount)
//	charge     = disc_price * (1 + l_tax)
type DerivedCols struct {
	DiscPrice *chunk.Column[float64]
	Charge    *chunk.Column[float64]
}

func NewDerivedCols(capacity int) *DerivedCols {
	return &DerivedCols{
		DiscPrice: chunk.NewColumn[float64](capacity),
		Charge:    chunk.NewColumn[float64](capacity),
	}
}

// Eval computes both derived columns batch-wide. The fused per-row path
// in the aggregator skips the intermediate buffers; use this one when
// most rows survive the filter and the buffers get fully consumed.
func (d *DerivedCols) Eval(price, discount, tax []float64) error {
	count := len(price)
	if len(discount) != count || len(tax) != count {
		return fmt.Errorf("derived expr column length mismatch: price %d discount %d tax %d",
			count, len(discount), len(tax))
	}
	d.DiscPrice.Resize(count)
	d.Charge.Resize(count)
	discPrice := d.DiscPrice.Slice()
	charge := d.Charge.Slice()

	UnaryExecFlat(discount, discPrice, count, unaryFloat64OneSubOp)
	BinaryExecFlat(price, discPrice, discPrice, count, binFloat64MulOp)
	UnaryExecFlat(tax, charge, count, unaryFloat64OnePlusOp)
	BinaryExecFlat(discPrice, charge, charge, count, binFloat64MulOp)
	return nil
}
