package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ivsweep/pkg/analysis"
	"ivsweep/pkg/report"
	"ivsweep/pkg/sweep"
)

type fileConfig struct {
	Analysis    analysis.Config `yaml:"analysis"`
	CurrentUnit string          `yaml:"current_unit"`
	VoltageUnit string          `yaml:"voltage_unit"`
	ColumnOrder string          `yaml:"column_order"`
	Separator   string          `yaml:"separator"`
	Workers     int             `yaml:"workers"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Analysis:    analysis.DefaultConfig(),
		CurrentUnit: "",
		VoltageUnit: "",
		ColumnOrder: string(sweep.OrderIV),
		Workers:     runtime.NumCPU(),
	}
}

func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func analyzeFile(ctx context.Context, a *analysis.Analyzer, cfg fileConfig, path string) (*analysis.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	iRaw, vRaw, err := sweep.ParseColumns(string(content), cfg.Separator, sweep.ColumnOrder(cfg.ColumnOrder))
	if err != nil {
		return nil, err
	}
	s, err := sweep.New(iRaw, vRaw, cfg.CurrentUnit, cfg.VoltageUnit)
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, s)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		sep        = flag.String("sep", "", "column separator (default: any whitespace)")
		order      = flag.String("order", "", "column order, IV or VI")
		iUnit      = flag.String("iunit", "", "current unit suffix, e.g. uA")
		vUnit      = flag.String("vunit", "", "voltage unit suffix, e.g. mV")
		workers    = flag.Int("workers", 0, "concurrent files (default: CPU count)")
		detail     = flag.Bool("detail", false, "print full per-file results after the table")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("Usage: ivfit [options] <sweep_file>...")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sep":
			cfg.Separator = *sep
		case "order":
			cfg.ColumnOrder = *order
		case "iunit":
			cfg.CurrentUnit = *iUnit
		case "vunit":
			cfg.VoltageUnit = *vUnit
		case "workers":
			cfg.Workers = *workers
		}
	})
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	zcfg := zap.NewProductionConfig()
	if *debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	a, err := analysis.New(cfg.Analysis, logger.Sugar())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx := context.Background()
	files := flag.Args()
	rows := make([]report.Row, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				res, err := analyzeFile(ctx, a, cfg, files[n])
				rows[n] = report.Row{File: files[n], Res: res, Err: err}
			}
		}()
	}
	for n := range files {
		jobs <- n
	}
	close(jobs)
	wg.Wait()

	if err := report.Write(os.Stdout, rows); err != nil {
		log.Fatalf("Error writing report: %v", err)
	}
	if *detail {
		for _, row := range rows {
			report.WriteDetail(os.Stdout, row)
		}
	}

	for _, row := range rows {
		if row.Err != nil {
			os.Exit(1)
		}
	}
}
