package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
)

func Test_dateFilterSelect(t *testing.T) {
	f := DateFilter{Cutoff: 10471}
	mask := chunk.NewMask(0)

	f.Select([]common.Days{10470, 10471, 10472, 0}, mask)
	assert.Equal(t, 4, mask.Len())
	assert.True(t, mask.Get(0))
	assert.True(t, mask.Get(1))
	assert.False(t, mask.Get(2))
	assert.True(t, mask.Get(3))
	assert.Equal(t, 3, mask.CountTrue())
}

func Test_dateFilterEmpty(t *testing.T) {
	f := DateFilter{Cutoff: 10471}
	mask := chunk.NewMask(8)
	mask.Resize(8)
	mask.SetAll(true)

	f.Select(nil, mask)
	assert.Zero(t, mask.Len())
	assert.Zero(t, mask.CountTrue())
}
