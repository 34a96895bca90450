package chunk

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kzeezee/goose-db/pkg/util"
)

func Test_columnAlignment(t *testing.T) {
	col := NewColumn[float64](100)
	col.Append(1.5)
	addr := uintptr(unsafe.Pointer(&col.Slice()[0]))
	assert.Zero(t, addr%util.CacheLineSize)

	//growth reallocates, alignment must hold
	for i := 0; i < 10000; i++ {
		col.Append(float64(i))
	}
	addr = uintptr(unsafe.Pointer(&col.Slice()[0]))
	assert.Zero(t, addr%util.CacheLineSize)
}

func Test_columnAppendGrow(t *testing.T) {
	col := NewColumn[int32](2)
	for i := 0; i < 5000; i++ {
		col.Append(int32(i))
	}
	assert.Equal(t, 5000, col.Len())
	for i := 0; i < 5000; i++ {
		assert.Equal(t, int32(i), col.Get(i))
	}
}

func Test_columnResizeZeroes(t *testing.T) {
	col := NewColumn[float64](4)
	col.Append(3.5)
	col.Reset()
	col.Resize(4)
	assert.Equal(t, []float64{0, 0, 0, 0}, col.Slice())
}

func Test_maskOps(t *testing.T) {
	m := NewMask(4)
	m.Resize(4)
	assert.Equal(t, 4, m.Len())
	assert.Zero(t, m.CountTrue())

	m.Set(1, true)
	m.Set(3, true)
	assert.Equal(t, 2, m.CountTrue())
	assert.False(t, m.Get(0))
	assert.True(t, m.Get(1))

	//resize clears
	m.Resize(4)
	assert.Zero(t, m.CountTrue())

	m.SetAll(true)
	assert.Equal(t, 4, m.CountTrue())
}

func Test_lineChunkShape(t *testing.T) {
	c := NewLineChunk(4)
	c.AppendRow('A', 'F', 1, 2, 0.1, 0.2, 100)
	require.NoError(t, c.CheckShape())
	assert.Equal(t, 1, c.Card())

	c.Quantity.Append(9)
	assert.Error(t, c.CheckShape())

	c.Reset()
	assert.Zero(t, c.Card())
	require.NoError(t, c.CheckShape())
}
