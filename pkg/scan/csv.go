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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Kzeezee/goose-db/pkg/chunk"
	"github.com/Kzeezee/goose-db/pkg/common"
	"github.com/Kzeezee/goose-db/pkg/util"
)

// Field positions in the full 16-column lineitem table.
const (
	tblQuantity      = 4
	tblExtendedPrice = 5
	tblDiscount      = 6
	tblTax           = 7
	tblReturnFlag    = 8
	tblLineStatus    = 9
	tblShipDate      = 10

	tblFieldCount = 16
)

// CsvSource reads lineitem rows from a dbgen .tbl file (pipe-delimited).
type CsvSource struct {
	dataFile *os.File
	reader   *csv.Reader
	opts     Options
	rows     int
}

func NewCsvSource(path string, opts Options) (*CsvSource, error) {
	opts.normalize()
	dataFile, err := os.OpenFile(path, os.O_RDONLY, 0755)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(dataFile)
	reader.Comma = '|'
	//.tbl lines carry a trailing delimiter
	reader.FieldsPerRecord = -1
	util.Info("open csv lineitem", zap.String("path", path))
	return &CsvSource{
		dataFile: dataFile,
		reader:   reader,
		opts:     opts,
	}, nil
}

func (src *CsvSource) Next(c *chunk.LineChunk) (bool, error) {
	for i := 0; i < src.opts.BatchSize; i++ {
		if src.opts.MaxRows > 0 && src.rows >= src.opts.MaxRows {
			return true, nil
		}
		line, err := src.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return false, err
		}
		if len(line) < tblFieldCount {
			return false, fmt.Errorf("no enough fields in the line: %d", len(line))
		}
		if err = appendTblRow(c, line); err != nil {
			return false, err
		}
		src.rows++
		if src.opts.ShowRaw {
			fmt.Println(line)
		}
	}
	return false, nil
}

func appendTblRow(c *chunk.LineChunk, line []string) error {
	if len(line[tblReturnFlag]) == 0 || len(line[tblLineStatus]) == 0 {
		return errors.New("empty returnflag or linestatus field")
	}
	qty, err := strconv.ParseFloat(line[tblQuantity], 64)
	if err != nil {
		return err
	}
	price, err := strconv.ParseFloat(line[tblExtendedPrice], 64)
	if err != nil {
		return err
	}
	discount, err := strconv.ParseFloat(line[tblDiscount], 64)
	if err != nil {
		return err
	}
	tax, err := strconv.ParseFloat(line[tblTax], 64)
	if err != nil {
		return err
	}
	shipDate, err := common.ParseDays(line[tblShipDate])
	if err != nil {
		return err
	}
	c.AppendRow(
		line[tblReturnFlag][0], line[tblLineStatus][0],
		qty, price, discount, tax,
		shipDate)
	return nil
}

func (src *CsvSource) Close() error {
	src.reader = nil
	return src.dataFile.Close()
}
