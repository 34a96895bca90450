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
	"unsafe"

	"github.com/huandu/go-clone"
	"github.com/tidwall/btree"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/util"
)

// The grouping keys of Q1 are known up front:
// l_returnflag in {'A','N','R'}, l_linestatus in {'F','O'}. Six
// combinations, so a fixed array replaces a hash table entirely.
const (
	GroupCount = 6
	// BankCount accumulator banks break the read-modify-write chain in
	// the update loop: consecutive rows land in different banks, so the
	// additions can retire independently.
	BankCount = 4

	invalidCode = 0xFF
)

var flagCodes [256]uint8
var statusCodes [256]uint8

func init() {
	for i := range flagCodes {
		flagCodes[i] = invalidCode
		statusCodes[i] = invalidCode
	}
	flagCodes['A'] = 0
	flagCodes['N'] = 1
	flagCodes['R'] = 2
	statusCodes['F'] = 0
	statusCodes['O'] = 1
}

// HashKey maps (returnflag, linestatus) to a dense index in [0, GroupCount).
// Bytes outside the alphabets fall back to slot 0; they never index out of
// bounds. The aggregator itself rejects such rows before hashing.
func HashKey(flag, status byte) int {
	fc := flagCodes[flag]
	sc := statusCodes[status]
	if fc == invalidCode {
		fc = 0
	}
	if sc == invalidCode {
		sc = 0
	}
	return int(fc)*2 + int(sc)
}

// UnhashKey inverts HashKey for valid indices.
func UnhashKey(idx int) (flag, status byte) {
	flags := [3]byte{'A', 'N', 'R'}
	flag = flags[idx/2]
	status = 'F'
	if idx%2 == 1 {
		status = 'O'
	}
	return flag, status
}

func ValidKey(flag, status byte) bool {
	return flagCodes[flag] != invalidCode && statusCodes[status] != invalidCode
}

// AggState is the running aggregate of one group in one bank. Hot fields
// first. Padded to 64 bytes so neighboring groups never share a cache line.
type AggState struct {
	SumDiscPrice float64
	SumCharge    float64
	Count        uint64
	SumQty       float64
	SumBasePrice float64
	SumDiscount  float64
	_            [2]uint64
}

func (st *AggState) Merge(other *AggState) {
	st.SumDiscPrice += other.SumDiscPrice
	st.SumCharge += other.SumCharge
	st.Count += other.Count
	st.SumQty += other.SumQty
	st.SumBasePrice += other.SumBasePrice
	st.SumDiscount += other.SumDiscount
}

func (st *AggState) Empty() bool {
	return st.Count == 0
}

func (st *AggState) AvgQty() float64 {
	if st.Count == 0 {
		return 0
	}
	return st.SumQty / float64(st.Count)
}

func (st *AggState) AvgPrice() float64 {
	if st.Count == 0 {
		return 0
	}
	return st.SumBasePrice / float64(st.Count)
}

func (st *AggState) AvgDisc() float64 {
	if st.Count == 0 {
		return 0
	}
	return st.SumDiscount / float64(st.Count)
}

type bank [GroupCount]AggState

// Aggregator accumulates the Q1 aggregates across chunks. State only ever
// grows; a failed chunk never disturbs what earlier chunks contributed.
type Aggregator struct {
	banks []bank
	buf   []byte
}

func NewAggregator() *Aggregator {
	agg := &Aggregator{}
	sz := int(unsafe.Sizeof(bank{}))
	agg.buf = util.GAlloc.Alloc(sz * BankCount)
	agg.banks = util.ToSlice[bank](agg.buf, sz)[:BankCount]
	return agg
}

func accumulate(b *bank, sel bool, flag, status byte, qty, price, discount, tax float64) {
	if !sel {
		return
	}
	fc := flagCodes[flag]
	sc := statusCodes[status]
	if fc == invalidCode || sc == invalidCode {
		//row with a byte outside the alphabet is dropped
		return
	}
	st := &b[int(fc)*2+int(sc)]
	discPrice := discPriceOp(price, discount)
	st.SumQty += qty
	st.SumBasePrice += price
	st.SumDiscPrice += discPrice
	st.SumCharge += chargeOp(discPrice, tax)
	st.SumDiscount += discount
	st.Count++
}

// AggregateChunk folds the masked rows of one chunk into the banks.
func (agg *Aggregator) AggregateChunk(mask *chunk.Mask, c *chunk.LineChunk) error {
	if err := c.CheckShape(); err != nil {
		return err
	}
	return agg.AggregateColumns(
		mask.Bits(),
		c.ReturnFlag.Slice(),
		c.LineStatus.Slice(),
		c.Quantity.Slice(),
		c.ExtendedPrice.Slice(),
		c.Discount.Slice(),
		c.Tax.Slice(),
	)
}

// AggregateColumns is the hot loop. Rows where mask is false contribute
// nothing. Rows rotate across the banks in groups of BankCount; the
// remainder folds into bank 0. Which bank a row hits does not matter for
// the totals, merge at finalization is index-wise summation.
func (agg *Aggregator) AggregateColumns(
	mask []bool,
	flag, status []byte,
	qty, price, discount, tax []float64) error {
	count := len(mask)
	if len(flag) != count || len(status) != count ||
		len(qty) != count || len(price) != count ||
		len(discount) != count || len(tax) != count {
		return fmt.Errorf(
			"aggregate column length mismatch: mask %d flag %d status %d qty %d price %d discount %d tax %d",
			count, len(flag), len(status), len(qty), len(price), len(discount), len(tax))
	}
	if count == 0 {
		return nil
	}

	base := 0
	for ; base+BankCount <= count; base += BankCount {
		i0, i1, i2, i3 := base, base+1, base+2, base+3
		accumulate(&agg.banks[0], mask[i0], flag[i0], status[i0], qty[i0], price[i0], discount[i0], tax[i0])
		accumulate(&agg.banks[1], mask[i1], flag[i1], status[i1], qty[i1], price[i1], discount[i1], tax[i1])
		accumulate(&agg.banks[2], mask[i2], flag[i2], status[i2], qty[i2], price[i2], discount[i2], tax[i2])
		accumulate(&agg.banks[3], mask[i3], flag[i3], status[i3], qty[i3], price[i3], discount[i3], tax[i3])
	}
	for i := base; i < count; i++ {
		accumulate(&agg.banks[0], mask[i], flag[i], status[i], qty[i], price[i], discount[i], tax[i])
	}
	return nil
}

// Merge folds another aggregator's banks into this one. Used when chunks
// were partitioned across workers, each owning a private set of banks.
func (agg *Aggregator) Merge(other *Aggregator) {
	for b := 0; b < BankCount; b++ {
		for g := 0; g < GroupCount; g++ {
			agg.banks[b][g].Merge(&other.banks[b][g])
		}
	}
}

func (agg *Aggregator) mergedStates() [GroupCount]AggState {
	//snapshot keeps Finalize free of side effects on the live banks
	snap := clone.Clone(agg.banks).([]bank)
	merged := snap[0]
	for b := 1; b < BankCount; b++ {
		for g := 0; g < GroupCount; g++ {
			merged[g].Merge(&snap[b][g])
		}
	}
	return merged
}

// ResultRow is one finalized group of the Q1 output.
type ResultRow struct {
	ReturnFlag   byte
	LineStatus   byte
	SumQty       float64
	SumBasePrice float64
	SumDiscPrice float64
	SumCharge    float64
	AvgQty       float64
	AvgPrice     float64
	AvgDisc      float64
	Count        uint64
}

func resultRowLess(a, b ResultRow) bool {
	if a.ReturnFlag != b.ReturnFlag {
		return a.ReturnFlag < b.ReturnFlag
	}
	return a.LineStatus < b.LineStatus
}

// Finalize merges the banks and emits one row per non-empty group, ordered
// by (returnflag, linestatus) ascending. It does not mutate the banks, so
// calling it again without further aggregation returns the same rows.
func (agg *Aggregator) Finalize() []ResultRow {
	merged := agg.mergedStates()
	ordered := btree.NewBTreeG[ResultRow](resultRowLess)
	for idx := range merged {
		st := &merged[idx]
		if st.Empty() {
			continue
		}
		flag, status := UnhashKey(idx)
		ordered.Set(ResultRow{
			ReturnFlag:   flag,
			LineStatus:   status,
			SumQty:       st.SumQty,
			SumBasePrice: st.SumBasePrice,
			SumDiscPrice: st.SumDiscPrice,
			SumCharge:    st.SumCharge,
			AvgQty:       st.AvgQty(),
			AvgPrice:     st.AvgPrice(),
			AvgDisc:      st.AvgDisc(),
			Count:        st.Count,
		})
	}
	rows := make([]ResultRow, 0, ordered.Len())
	ordered.Scan(func(row ResultRow) bool {
		rows = append(rows, row)
		return true
	})
	return rows
}
