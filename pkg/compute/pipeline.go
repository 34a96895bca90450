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

	"golang.org/x/sync/errgroup"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
	"github.com/Kzeezee/goose-db/pkg/util"
)

// Source yields lineitem chunks until end of stream. Empty chunks are
// allowed and treated as no-ops.
type Source interface {
	// Next fills c with the next batch and reports whether the stream
	// ended. A chunk may be returned together with eof.
	Next(c *chunk.LineChunk) (eof bool, err error)
	Close() error
}

// Pipeline drives scan -> filter -> aggregate for Q1 and finalizes.
// Expressions are fused into the aggregation loop: after the date filter
// most rows are kept, but fusing still avoids two intermediate buffers
// per chunk.
type Pipeline struct {
	filter  DateFilter
	workers int
}

func NewPipeline(cutoff common.Days, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		filter:  DateFilter{Cutoff: cutoff},
		workers: workers,
	}
}

func (p *Pipeline) Execute(ctx context.Context, src Source) (rows []ResultRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, util.ConvertPanicError(r)
		}
	}()
	if p.workers > 1 {
		return p.executeParallel(ctx, src)
	}
	agg := NewAggregator()
	c := chunk.NewLineChunk(util.DefaultVectorSize)
	mask := chunk.NewMask(util.DefaultVectorSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.Reset()
		eof, err := src.Next(c)
		if err != nil {
			return nil, err
		}
		if c.Card() > 0 {
			p.filter.SelectChunk(c, mask)
			if mask.CountTrue() > 0 {
				if err = agg.AggregateChunk(mask, c); err != nil {
					return nil, err
				}
			}
		}
		if eof {
			break
		}
	}
	return agg.Finalize(), nil
}

// executeParallel partitions chunks across workers. Every worker owns a
// private aggregator; banks merge once at the end, so the totals match
// the serial path regardless of how chunks interleaved.
func (p *Pipeline) executeParallel(ctx context.Context, src Source) ([]ResultRow, error) {
	g, ctx := errgroup.WithContext(ctx)
	chunks := make(chan *chunk.LineChunk, p.workers)

	g.Go(func() error {
		defer close(chunks)
		for {
			c := chunk.NewLineChunk(util.DefaultVectorSize)
			eof, err := src.Next(c)
			if err != nil {
				return err
			}
			if c.Card() > 0 {
				select {
				case chunks <- c:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if eof {
				return nil
			}
		}
	})

	aggs := make([]*Aggregator, p.workers)
	for w := 0; w < p.workers; w++ {
		agg := NewAggregator()
		aggs[w] = agg
		g.Go(func() error {
			mask := chunk.NewMask(util.DefaultVectorSize)
			for c := range chunks {
				p.filter.SelectChunk(c, mask)
				if mask.CountTrue() == 0 {
					continue
				}
				if err := agg.AggregateChunk(mask, c); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := aggs[0]
	for _, agg := range aggs[1:] {
		total.Merge(agg)
	}
	return total.Finalize(), nil
}
