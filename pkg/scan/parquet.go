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

package scan

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"
	pqLocal "github.com/xitongsys/parquet-go-source/local"
	pqCommon "github.com/xitongsys/parquet-go/common"
	pqReader "github.com/xitongsys/parquet-go/reader"
	pqSource "github.com/xitongsys/parquet-go/source"
	"go.uber.org/zap"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
	"github.com/Kzeezee/goose-db/pkg/util"
)

// ParquetSource reads the projected lineitem columns batch by batch.
type ParquetSource struct {
	file     pqSource.ParquetFile
	reader   *pqReader.ParquetReader
	opts     Options
	colIdx   []int64
	colScale []int
	total    int64
	cursor   int64
}

func NewParquetSource(path string, opts Options) (*ParquetSource, error) {
	opts.normalize()
	file, err := pqLocal.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	reader, err := pqReader.NewParquetColumnReader(file, 1)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	src := &ParquetSource{
		file:   file,
		reader: reader,
		opts:   opts,
		total:  reader.GetNumRows(),
	}
	if err = src.resolveColumns(); err != nil {
		_ = file.Close()
		return nil, err
	}
	if opts.MaxRows > 0 && int64(opts.MaxRows) < src.total {
		src.total = int64(opts.MaxRows)
	}
	util.Info("open parquet lineitem",
		zap.String("path", path),
		zap.Int64("rows", src.total))
	return src, nil
}

// resolveColumns maps the required column names to leaf column indices
// and records the DECIMAL scale of each, when any.
func (src *ParquetSource) resolveColumns() error {
	sh := src.reader.SchemaHandler
	for _, name := range RequiredColumns {
		found := -1
		scale := 0
		for i, path := range sh.ValueColumns {
			segs := strings.Split(path, pqCommon.PAR_GO_PATH_DELIMITER)
			leaf := segs[len(segs)-1]
			if strings.EqualFold(leaf, name) {
				found = i
				if elIdx, ok := sh.MapIndex[path]; ok {
					el := sh.SchemaElements[elIdx]
					if el.Scale != nil {
						scale = int(*el.Scale)
					}
				}
				break
			}
		}
		if found < 0 {
			return fmt.Errorf("column %s not found in parquet schema", name)
		}
		src.colIdx = append(src.colIdx, int64(found))
		src.colScale = append(src.colScale, scale)
	}
	return nil
}

func (src *ParquetSource) Next(c *chunk.LineChunk) (bool, error) {
	remain := src.total - src.cursor
	if remain <= 0 {
		return true, nil
	}
	num := int64(src.opts.BatchSize)
	if num > remain {
		num = remain
	}

	rowCnt := -1
	for col, idx := range src.colIdx {
		values, _, _, err := src.reader.ReadColumnByIndex(idx, num)
		if err != nil {
			return false, err
		}
		if rowCnt < 0 {
			rowCnt = len(values)
		} else if len(values) != rowCnt {
			return false, fmt.Errorf(
				"column %s read %d values, previous columns read %d",
				RequiredColumns[col], len(values), rowCnt)
		}
		if err = src.fillColumn(c, col, values); err != nil {
			return false, err
		}
	}
	if rowCnt <= 0 {
		return true, nil
	}
	src.cursor += int64(rowCnt)
	if src.opts.ShowRaw {
		fmt.Printf("scanned %d rows\n", rowCnt)
	}
	return src.cursor >= src.total, c.CheckShape()
}

func (src *ParquetSource) fillColumn(c *chunk.LineChunk, col int, values []interface{}) error {
	name := RequiredColumns[col]
	scale := src.colScale[col]
	for _, raw := range values {
		switch col {
		case 0, 1: //l_returnflag, l_linestatus
			s, ok := raw.(string)
			if !ok || len(s) == 0 {
				return fmt.Errorf("column %s: expected non-empty string, got %T", name, raw)
			}
			if col == 0 {
				c.ReturnFlag.Append(s[0])
			} else {
				c.LineStatus.Append(s[0])
			}
		case 2, 3, 4, 5: //measures
			f, err := measureToFloat(raw, scale)
			if err != nil {
				return fmt.Errorf("column %s: %w", name, err)
			}
			switch col {
			case 2:
				c.Quantity.Append(f)
			case 3:
				c.ExtendedPrice.Append(f)
			case 4:
				c.Discount.Append(f)
			case 5:
				c.Tax.Append(f)
			}
		case 6: //l_shipdate
			switch v := raw.(type) {
			case int32:
				c.ShipDate.Append(common.Days(v))
			case int64:
				c.ShipDate.Append(common.Days(v))
			default:
				return fmt.Errorf("column %s: unsupported date type %T", name, raw)
			}
		}
	}
	return nil
}

// measureToFloat converts one parquet measure value to float64. Integer
// encoded DECIMAL columns carry their scale from the schema.
func measureToFloat(raw interface{}, scale int) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int32:
		return decimalToFloat(int64(v), scale)
	case int64:
		return decimalToFloat(v, scale)
	case string:
		//DECIMAL with a byte array physical type: big endian two's complement
		return decimalToFloat(beTwosComplement([]byte(v)), scale)
	default:
		return 0, fmt.Errorf("unsupported physical type %T", raw)
	}
}

func beTwosComplement(buf []byte) int64 {
	var v int64
	if len(buf) > 0 && buf[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range buf {
		v = v<<8 | int64(b)
	}
	return v
}

func decimalToFloat(v int64, scale int) (float64, error) {
	d, err := decimal.New(v, scale)
	if err != nil {
		return 0, err
	}
	f, ok := d.Float64()
	if !ok {
		return 0, fmt.Errorf("decimal %s does not fit in float64", d)
	}
	return f, nil
}

func (src *ParquetSource) Close() error {
	src.reader.ReadStop()
	return src.file.Close()
}
