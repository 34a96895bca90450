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

package chunk

import (
	"fmt"

	"github.com/Kzeezee/goose-db/pkg/common"
)

// LineChunk is one columnar batch of the lineitem columns Q1 touches.
// All columns hold the same row count; row i across columns is one record.
type LineChunk struct {
	ReturnFlag    *Column[byte]
	LineStatus    *Column[byte]
	Quantity      *Column[float64]
	ExtendedPrice *Column[float64]
	Discount      *Column[float64]
	Tax           *Column[float64]
	ShipDate      *Column[common.Days]
}

func NewLineChunk(capacity int) *LineChunk {
	return &LineChunk{
		ReturnFlag:    NewColumn[byte](capacity),
		LineStatus:    NewColumn[byte](capacity),
		Quantity:      NewColumn[float64](capacity),
		ExtendedPrice: NewColumn[float64](capacity),
		Discount:      NewColumn[float64](capacity),
		Tax:           NewColumn[float64](capacity),
		ShipDate:      NewColumn[common.Days](capacity),
	}
}

func (c *LineChunk) Card() int {
	return c.ReturnFlag.Len()
}

// CheckShape fails when the columns disagree on row count.
func (c *LineChunk) CheckShape() error {
	card := c.ReturnFlag.Len()
	lens := [7]int{
		c.ReturnFlag.Len(),
		c.LineStatus.Len(),
		c.Quantity.Len(),
		c.ExtendedPrice.Len(),
		c.Discount.Len(),
		c.Tax.Len(),
		c.ShipDate.Len(),
	}
	for _, l := range lens {
		if l != card {
			return fmt.Errorf("column length mismatch in chunk: %v", lens)
		}
	}
	return nil
}

func (c *LineChunk) AppendRow(
	flag, status byte,
	qty, price, discount, tax float64,
	shipDate common.Days) {
	c.ReturnFlag.Append(flag)
	c.LineStatus.Append(status)
	c.Quantity.Append(qty)
	c.ExtendedPrice.Append(price)
	c.Discount.Append(discount)
	c.Tax.Append(tax)
	c.ShipDate.Append(shipDate)
}

func (c *LineChunk) Reset() {
	c.ReturnFlag.Reset()
	c.LineStatus.Reset()
	c.Quantity.Reset()
	c.ExtendedPrice.Reset()
	c.Discount.Reset()
	c.Tax.Reset()
	c.ShipDate.Reset()
}
