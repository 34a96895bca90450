package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
)

const tblSample = `1|155190|7706|1|17|21168.23|0.04|0.02|N|O|1996-03-13|1996-02-12|1996-03-22|DELIVER IN PERSON|TRUCK|egular courts above the|
1|67310|7311|2|36|45983.16|0.09|0.06|N|O|1996-04-12|1996-02-28|1996-04-20|TAKE BACK RETURN|MAIL|ly final dependencies: slyly bold |
2|106170|1191|1|38|44694.46|0.00|0.05|R|F|1997-01-28|1997-01-14|1997-02-02|TAKE BACK RETURN|RAIL|ven requests. deposits breach a|
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineitem.tbl")
	require.NoError(t, os.WriteFile(path, []byte(tblSample), 0644))
	return path
}

func Test_csvSource(t *testing.T) {
	src, err := NewCsvSource(writeSample(t), Options{BatchSize: 2})
	require.NoError(t, err)
	defer src.Close()

	c := chunk.NewLineChunk(4)
	eof, err := src.Next(c)
	require.NoError(t, err)
	assert.False(t, eof)
	require.NoError(t, c.CheckShape())
	require.Equal(t, 2, c.Card())
	assert.Equal(t, byte('N'), c.ReturnFlag.Get(0))
	assert.Equal(t, byte('O'), c.LineStatus.Get(0))
	assert.Equal(t, 17.0, c.Quantity.Get(0))
	assert.Equal(t, 21168.23, c.ExtendedPrice.Get(0))
	assert.Equal(t, 0.04, c.Discount.Get(0))
	assert.Equal(t, 0.02, c.Tax.Get(0))
	d, err := common.ParseDays("1996-03-13")
	require.NoError(t, err)
	assert.Equal(t, d, c.ShipDate.Get(0))

	c.Reset()
	eof, err = src.Next(c)
	require.NoError(t, err)
	require.Equal(t, 1, c.Card())
	assert.Equal(t, byte('R'), c.ReturnFlag.Get(0))
	if !eof {
		c.Reset()
		eof, err = src.Next(c)
		require.NoError(t, err)
		assert.True(t, eof)
		assert.Zero(t, c.Card())
	}
}

func Test_csvSourceMaxRows(t *testing.T) {
	src, err := NewCsvSource(writeSample(t), Options{BatchSize: 8, MaxRows: 1})
	require.NoError(t, err)
	defer src.Close()

	c := chunk.NewLineChunk(4)
	eof, err := src.Next(c)
	require.NoError(t, err)
	assert.True(t, eof)
	assert.Equal(t, 1, c.Card())
}

func Test_csvSourceBadFile(t *testing.T) {
	_, err := NewCsvSource(filepath.Join(t.TempDir(), "missing.tbl"), Options{})
	assert.Error(t, err)
}
