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

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.uber.org/zap"

	"github.com/Kzeezee/goose-db/pkg/common"
	"github.com/Kzeezee/goose-db/pkg/compute"
	"github.com/Kzeezee/goose-db/pkg/scan"
	"github.com/Kzeezee/goose-db/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initQ1Cmd()
}

var runCfg = util.DefaultConfig()

///root cmd

var info = "goosedb"
var RootCmd = &cobra.Command{
	Use:          "goosedb",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use goosedb --help or -h")
	},
}

//q1 cmd

var q1Info = "run the lineitem pricing summary query"
var q1Cmd = &cobra.Command{
	Use:   "q1",
	Short: q1Info,
	Long:  q1Info,
	RunE: func(cmd *cobra.Command, args []string) error {
		initQ1Cfg()
		return runQ1(runCfg)
	},
}

func initQ1Cfg() {
	runCfg.Q1.Data.Path = viper.GetString("q1.data.path")
	runCfg.Q1.Data.Format = viper.GetString("q1.data.format")
	runCfg.Q1.Data.BatchSize = viper.GetInt("q1.data.batchSize")
	runCfg.Q1.Result.Path = viper.GetString("q1.result.path")
	runCfg.Q1.Result.NeedHeadLine = viper.GetBool("q1.result.needHeadline")
	runCfg.Q1.ShipDateCutoff = viper.GetString("q1.shipdateCutoff")
	runCfg.Q1.Workers = viper.GetInt("q1.workers")
	runCfg.Debug.ShowRaw = viper.GetBool("debug.showRaw")
	runCfg.Debug.EnableMaxScanRows = viper.GetBool("debug.enableMaxScanRows")
	runCfg.Debug.MaxScanRows = viper.GetInt("debug.maxScanRows")
	runCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	runCfg.Debug.PrintPlan = viper.GetBool("debug.printPlan")
	runCfg.Debug.Count = viper.GetInt("debug.count")
}

func initQ1Cmd() {
	RootCmd.AddCommand(q1Cmd)
	q1Cmd.Flags().StringVar(&runCfg.Q1.Data.Path, "data_path", "", "lineitem data path")
	q1Cmd.Flags().StringVar(&runCfg.Q1.Data.Format, "data_format", "parquet", "lineitem data format. csv, parquet")
	q1Cmd.Flags().IntVar(&runCfg.Q1.Data.BatchSize, "batch_size", 8192, "rows per scanned chunk")
	q1Cmd.Flags().StringVar(&runCfg.Q1.Result.Path, "result_path", "", "query result path")
	q1Cmd.Flags().BoolVar(&runCfg.Q1.Result.NeedHeadLine, "need_headline", true, "output headline in query result")
	q1Cmd.Flags().StringVar(&runCfg.Q1.ShipDateCutoff, "shipdate_cutoff", "1998-09-02", "filter l_shipdate <= cutoff")
	q1Cmd.Flags().IntVar(&runCfg.Q1.Workers, "workers", 1, "chunk processing workers")
	q1Cmd.Flags().IntVar(&runCfg.Debug.Count, "count", 1, "timed runs")
	q1Cmd.Flags().BoolVar(&runCfg.Debug.PrintResult, "print_result", true, "print result rows")
	q1Cmd.Flags().BoolVar(&runCfg.Debug.PrintPlan, "print_plan", false, "print the pipeline plan")

	viper.BindPFlag("q1.data.path", q1Cmd.Flags().Lookup("data_path"))
	viper.BindPFlag("q1.data.format", q1Cmd.Flags().Lookup("data_format"))
	viper.BindPFlag("q1.data.batchSize", q1Cmd.Flags().Lookup("batch_size"))
	viper.BindPFlag("q1.result.path", q1Cmd.Flags().Lookup("result_path"))
	viper.BindPFlag("q1.result.needHeadline", q1Cmd.Flags().Lookup("need_headline"))
	viper.BindPFlag("q1.shipdateCutoff", q1Cmd.Flags().Lookup("shipdate_cutoff"))
	viper.BindPFlag("q1.workers", q1Cmd.Flags().Lookup("workers"))
	viper.BindPFlag("debug.count", q1Cmd.Flags().Lookup("count"))
	viper.BindPFlag("debug.printResult", q1Cmd.Flags().Lookup("print_result"))
	viper.BindPFlag("debug.printPlan", q1Cmd.Flags().Lookup("print_plan"))
}

var defCfgFilePaths = []string{".", "etc/tpch/1g"}
var cfgFileName = "q1.toml"

func loadConfig() {
	has := false
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			err := viper.ReadInConfig()
			if err != nil {
				util.Error("viper load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			has = true
			break
		}
	}
	if !has {
		util.Warn("q1.toml does not exist. using flags and defaults")
	}
}

func newSource(cfg *util.Config) (compute.Source, error) {
	opts := scan.Options{
		BatchSize: cfg.Q1.Data.BatchSize,
		ShowRaw:   cfg.Debug.ShowRaw,
	}
	if cfg.Debug.EnableMaxScanRows {
		opts.MaxRows = cfg.Debug.MaxScanRows
	}
	switch cfg.Q1.Data.Format {
	case "parquet":
		return scan.NewParquetSource(cfg.Q1.Data.Path, opts)
	case "csv":
		return scan.NewCsvSource(cfg.Q1.Data.Path, opts)
	default:
		return nil, fmt.Errorf("unsupported data format %s", cfg.Q1.Data.Format)
	}
}

func runQ1(cfg *util.Config) error {
	cutoff, err := common.ParseDays(cfg.Q1.ShipDateCutoff)
	if err != nil {
		return fmt.Errorf("invalid shipdate cutoff %s: %w", cfg.Q1.ShipDateCutoff, err)
	}
	pipe := compute.NewPipeline(cutoff, cfg.Q1.Workers)
	if cfg.Debug.PrintPlan {
		fmt.Println(pipe.Explain())
	}

	runs := cfg.Debug.Count
	if runs < 1 {
		runs = 1
	}
	var rows []compute.ResultRow
	times := make([]float64, 0, runs)
	for r := 0; r < runs; r++ {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		st := time.Now()
		rows, err = pipe.Execute(context.Background(), src)
		dur := time.Since(st)
		if cerr := src.Close(); cerr != nil {
			util.Warn("close source failed", zap.Error(cerr))
		}
		if err != nil {
			return err
		}
		times = append(times, float64(dur.Microseconds())/1000.0)
		fmt.Printf("run %d took %s\n", r+1, dur)
	}
	printStats(times)

	if cfg.Debug.PrintResult {
		printResult(rows)
	}
	if cfg.Q1.Result.Path != "" {
		if err = writeResult(cfg.Q1.Result.Path, rows, cfg.Q1.Result.NeedHeadLine); err != nil {
			return err
		}
		util.Info("result written", zap.String("path", cfg.Q1.Result.Path))
	}
	return nil
}

func printStats(times []float64) {
	if len(times) < 2 {
		return
	}
	mean := 0.0
	minT := math.Inf(1)
	maxT := math.Inf(-1)
	for _, t := range times {
		mean += t
		minT = math.Min(minT, t)
		maxT = math.Max(maxT, t)
	}
	mean /= float64(len(times))
	variance := 0.0
	for _, t := range times {
		variance += (t - mean) * (t - mean)
	}
	variance /= float64(len(times))
	fmt.Printf("runs %d mean %.2fms stddev %.2fms min %.2fms max %.2fms\n",
		len(times), mean, math.Sqrt(variance), minT, maxT)
}

var resultHeader = []string{
	"l_returnflag", "l_linestatus",
	"sum_qty", "sum_base_price", "sum_disc_price", "sum_charge",
	"avg_qty", "avg_price", "avg_disc", "count_order",
}

func printResult(rows []compute.ResultRow) {
	fmt.Printf("%-12s %-12s %15s %18s %18s %18s %12s %12s %10s %12s\n",
		resultHeader[0], resultHeader[1], resultHeader[2], resultHeader[3],
		resultHeader[4], resultHeader[5], resultHeader[6], resultHeader[7],
		resultHeader[8], resultHeader[9])
	for _, row := range rows {
		fmt.Printf("%-12c %-12c %15.2f %18.2f %18.2f %18.2f %12.2f %12.2f %10.2f %12d\n",
			row.ReturnFlag, row.LineStatus,
			row.SumQty, row.SumBasePrice, row.SumDiscPrice, row.SumCharge,
			row.AvgQty, row.AvgPrice, row.AvgDisc, row.Count)
	}
}

func writeResult(path string, rows []compute.ResultRow, needHeadLine bool) error {
	resFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer resFile.Close()
	w := csv.NewWriter(resFile)
	defer w.Flush()
	if needHeadLine {
		if err = w.Write(resultHeader); err != nil {
			return err
		}
	}
	for _, row := range rows {
		rec := []string{
			string(row.ReturnFlag),
			string(row.LineStatus),
			fmt.Sprintf("%.2f", row.SumQty),
			fmt.Sprintf("%.2f", row.SumBasePrice),
			fmt.Sprintf("%.2f", row.SumDiscPrice),
			fmt.Sprintf("%.2f", row.SumCharge),
			fmt.Sprintf("%.2f", row.AvgQty),
			fmt.Sprintf("%.2f", row.AvgPrice),
			fmt.Sprintf("%.2f", row.AvgDisc),
			fmt.Sprintf("%d", row.Count),
		}
		if err = w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
