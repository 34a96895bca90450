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
	"unsafe"

	"github.com/Kzeezee/goose-db/pkg/util"
)

type FixedWidth interface {
	~bool | ~int8 | ~uint8 | ~int32 | ~int64 | ~uint64 | ~float64
}

func elemSize[T FixedWidth]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Column is a growable sequence of fixed-width elements whose backing
// buffer starts on a cache line boundary.
type Column[T FixedWidth] struct {
	buf  []byte
	data []T
	len  int
}

func NewColumn[T FixedWidth](capacity int) *Column[T] {
	col := &Column[T]{}
	if capacity > 0 {
		col.alloc(capacity)
	}
	return col
}

func (col *Column[T]) alloc(capacity int) {
	sz := elemSize[T]()
	col.buf = util.GAlloc.Alloc(capacity * sz)
	col.data = util.ToSlice[T](col.buf, sz)
}

func (col *Column[T]) grow(need int) {
	if need <= len(col.data) {
		return
	}
	newCap := int(util.NextPowerOfTwo(uint64(need)))
	if newCap < util.DefaultVectorSize {
		newCap = util.DefaultVectorSize
	}
	oldData := col.data
	oldBuf := col.buf
	col.alloc(newCap)
	copy(col.data, oldData[:col.len])
	util.GAlloc.Free(oldBuf)
}

func (col *Column[T]) Len() int {
	return col.len
}

func (col *Column[T]) Cap() int {
	return len(col.data)
}

func (col *Column[T]) Append(val T) {
	if col.len == len(col.data) {
		col.grow(col.len + 1)
	}
	col.data[col.len] = val
	col.len++
}

func (col *Column[T]) Get(idx int) T {
	util.AssertFunc(idx < col.len)
	return col.data[idx]
}

func (col *Column[T]) Set(idx int, val T) {
	util.AssertFunc(idx < col.len)
	col.data[idx] = val
}

// Resize sets the length to cnt. Newly exposed elements are zeroed.
func (col *Column[T]) Resize(cnt int) {
	col.grow(cnt)
	var zero T
	for i := col.len; i < cnt; i++ {
		col.data[i] = zero
	}
	col.len = cnt
}

// Slice exposes the live elements. The slice aliases the column.
func (col *Column[T]) Slice() []T {
	return col.data[:col.len]
}

func (col *Column[T]) Reset() {
	col.len = 0
}
