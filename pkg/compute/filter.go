package compute

import (
	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
)

// DateFilter marks rows whose ship date is on or before the cutoff.
type DateFilter struct {
	Cutoff common.Days
}

// Select fills mask with dates[i] <= Cutoff for every row. The mask is
// resized to the column length; zero-length input yields an empty mask.
func (f *DateFilter) Select(dates []common.Days, mask *chunk.Mask) {
	mask.Resize(len(dates))
	bits := mask.Bits()
	for i, d := range dates {
		bits[i] = d <= f.Cutoff
	}
}

func (f *DateFilter) SelectChunk(c *chunk.LineChunk, mask *chunk.Mask) {
	f.Select(c.ShipDate.Slice(), mask)
}
