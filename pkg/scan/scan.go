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

// Columns Q1 reads from lineitem, in the order the sources fill them.
var RequiredColumns = []string{
	"l_returnflag",
	"l_linestatus",
	"l_quantity",
	"l_extendedprice",
	"l_discount",
	"l_tax",
	"l_shipdate",
}

type Options struct {
	//rows per chunk
	BatchSize int
	//stop after this many rows; 0 means read everything
	MaxRows int
	//echo raw values while scanning
	ShowRaw bool
}

func (opts *Options) normalize() {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 8192
	}
}
