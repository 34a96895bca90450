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

package util

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Q1Data struct {
	Path      string `toml:"path"`
	Format    string `toml:"format"`
	BatchSize int    `toml:"batchSize"`
}

type Q1Result struct {
	Path         string `toml:"path"`
	NeedHeadLine bool   `toml:"needHeadline"`
}

type Q1 struct {
	Data           Q1Data   `toml:"data"`
	Result         Q1Result `toml:"result"`
	ShipDateCutoff string   `toml:"shipdateCutoff"`
	Workers        int      `toml:"workers"`
}

type DebugOptions struct {
	ShowRaw           bool `toml:"showRaw"`
	EnableMaxScanRows bool `toml:"enableMaxScanRows"`
	MaxScanRows       int  `toml:"maxScanRows"`
	PrintResult       bool `toml:"printResult"`
	PrintPlan         bool `toml:"printPlan"`
	Count             int  `toml:"count"`
}

type Config struct {
	Q1    Q1           `toml:"q1"`
	Debug DebugOptions `toml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Q1: Q1{
			Data: Q1Data{
				Format:    "parquet",
				BatchSize: 8192,
			},
			Result: Q1Result{
				NeedHeadLine: true,
			},
			ShipDateCutoff: "1998-09-02",
			Workers:        1,
		},
		Debug: DebugOptions{
			Count: 1,
		},
	}
}

// LoadConfig decodes the first config file found under dirPaths into cfg.
// Returns the path it used, or "" if no file exists.
func LoadConfig(dirPaths []string, fileName string, cfg *Config) (string, error) {
	for _, dirPath := range dirPaths {
		fpath := filepath.Join(dirPath, fileName)
		if FileIsValid(fpath) {
			_, err := toml.DecodeFile(fpath, cfg)
			if err != nil {
				return fpath, err
			}
			return fpath, nil
		}
	}
	return "", nil
}
