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
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
)

type memSource struct {
	chunks []*chunk.LineChunk
	pos    int
	closed bool
}

func (src *memSource) Next(c *chunk.LineChunk) (bool, error) {
	if src.pos >= len(src.chunks) {
		return true, nil
	}
	from := src.chunks[src.pos]
	src.pos++
	for i := 0; i < from.Card(); i++ {
		c.AppendRow(
			from.ReturnFlag.Get(i), from.LineStatus.Get(i),
			from.Quantity.Get(i), from.ExtendedPrice.Get(i),
			from.Discount.Get(i), from.Tax.Get(i),
			from.ShipDate.Get(i))
	}
	return src.pos >= len(src.chunks), nil
}

func (src *memSource) Close() error {
	src.closed = true
	return nil
}

const testCutoff = common.Days(10471)

func Test_pipelineSerial(t *testing.T) {
	c1 := chunk.NewLineChunk(4)
	c1.AppendRow('A', 'F', 1, 10, 0, 0, 10000)
	c1.AppendRow('A', 'F', 2, 10, 0, 0, 10471)
	//filtered out
	c1.AppendRow('A', 'F', 100, 10, 0, 0, 10472)
	c2 := chunk.NewLineChunk(4)
	c2.AppendRow('R', 'O', 5, 20, 0, 0, 9000)

	src := &memSource{chunks: []*chunk.LineChunk{c1, chunk.NewLineChunk(0), c2}}
	pipe := NewPipeline(testCutoff, 1)
	rows, err := pipe.Execute(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, byte('A'), rows[0].ReturnFlag)
	assert.Equal(t, 3.0, rows[0].SumQty)
	assert.Equal(t, uint64(2), rows[0].Count)
	assert.Equal(t, byte('R'), rows[1].ReturnFlag)
	assert.Equal(t, 5.0, rows[1].SumQty)
}

func Test_pipelineEmptySource(t *testing.T) {
	src := &memSource{}
	pipe := NewPipeline(testCutoff, 1)
	rows, err := pipe.Execute(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func Test_pipelineParallelMatchesSerial(t *testing.T) {
	flags := []byte{'A', 'N', 'R'}
	statuses := []byte{'F', 'O'}

	build := func() *memSource {
		rng := rand.New(rand.NewSource(11))
		chunks := make([]*chunk.LineChunk, 0, 8)
		for i := 0; i < 8; i++ {
			c := chunk.NewLineChunk(64)
			for j := 0; j < 64; j++ {
				c.AppendRow(
					flags[rng.Intn(3)], statuses[rng.Intn(2)],
					float64(rng.Intn(50)+1), float64(rng.Intn(100)+1),
					0, 0,
					common.Days(10000+rng.Intn(1000)))
			}
			chunks = append(chunks, c)
		}
		return &memSource{chunks: chunks}
	}

	serial, err := NewPipeline(testCutoff, 1).Execute(context.Background(), build())
	require.NoError(t, err)
	parallel, err := NewPipeline(testCutoff, 4).Execute(context.Background(), build())
	require.NoError(t, err)

	//integral measures keep the sums exact under any partition
	assert.Equal(t, serial, parallel)
}

func Test_pipelineCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &memSource{chunks: []*chunk.LineChunk{chunk.NewLineChunk(0)}}
	_, err := NewPipeline(testCutoff, 1).Execute(ctx, src)
	assert.Error(t, err)
}

func Test_pipelineExplain(t *testing.T) {
	pipe := NewPipeline(testCutoff, 2)
	plan := pipe.Explain()
	assert.Contains(t, plan, "Aggregate")
	assert.Contains(t, plan, "Filter: l_shipdate <= 1998-09-02")
	assert.Contains(t, plan, "Scan: lineitem")
}
