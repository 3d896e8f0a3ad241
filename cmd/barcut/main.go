// Command barcut optimizes a demand list from a CSV or Excel file and writes
// the cutting plan as JSON, PDF, labels or a workbook.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/piwi3910/barcut/internal/catalog"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/export"
	"github.com/piwi3910/barcut/internal/importer"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/piwi3910/barcut/internal/project"
)

func main() {
	var (
		inPath      = flag.String("in", "", "demand list file (.csv or .xlsx)")
		outPath     = flag.String("out", "", "output file (.json, .pdf, .xlsx; labels with -labels)")
		labelsPath  = flag.String("labels", "", "optional QR label sheet output (.pdf)")
		algorithm   = flag.String("algorithm", "ffd", "packing algorithm: ffd, bfd, pooling, genetic")
		stockLength = flag.Float64("stock", 0, "stock bar length in mm (0 uses the catalog)")
		kerf        = flag.Float64("kerf", 0, "kerf width in mm (0 uses the config default)")
		workOrder   = flag.String("work-order", "", "work order ID attached to the run")
		compare     = flag.Bool("compare", false, "run all algorithms and report the best")
		savePlan    = flag.String("save", "", "also save the plan JSON to this path")
		timeout     = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
		configPath  = flag.String("config", project.DefaultConfigPath(), "path to the config file")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: barcut -in parts.csv -out plan.pdf [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	rows, warnings, err := importRows(*inPath)
	if err != nil {
		fail(log, err)
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fail(log, err)
	}
	cat, _, err := catalog.LoadOrCreate()
	if err != nil {
		log.Warn("catalog unavailable, using defaults", "error", err)
	}

	orch := engine.NewOrchestrator(log)
	orch.Defaults = cfg.Constraints
	orch.Costs = cfg.Costs
	orch.Genetic = cfg.Genetic
	orch.Catalog = cat

	req := model.OptimizeRequest{
		WorkOrderID: *workOrder,
		Algorithm:   model.Algorithm(*algorithm),
		StockLength: *stockLength,
		Items:       rows,
	}
	if *kerf > 0 {
		req.Constraints = &model.ConstraintsInput{KerfWidth: kerf}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := runOptimization(ctx, orch, req, *compare)
	if err != nil {
		fail(log, err)
	}

	log.Info("optimization complete",
		"algorithm", string(result.Algorithm),
		"bars", result.Metrics.StockCount,
		"efficiency", fmt.Sprintf("%.1f%%", result.Metrics.Efficiency*100),
		"waste_mm", fmt.Sprintf("%.0f", result.Metrics.TotalWaste))
	for _, rec := range result.Recommendations {
		log.Info("recommendation", "severity", string(rec.Severity), "message", rec.Message)
	}

	if err := writeOutput(*outPath, *result); err != nil {
		fail(log, err)
	}
	if *labelsPath != "" {
		if err := export.ExportLabels(*labelsPath, *result); err != nil {
			fail(log, err)
		}
	}
	if *savePlan != "" {
		if err := project.SavePlan(*savePlan, *workOrder, *result); err != nil {
			fail(log, err)
		}
	}

	// Feed reclaimable remnants into the offcut store for future runs.
	if offcuts := model.DetectOffcuts(result.Cuts, *workOrder); len(offcuts) > 0 {
		path := project.DefaultOffcutsPath()
		existing, err := project.LoadOffcuts(path)
		if err == nil {
			err = project.SaveOffcuts(path, project.MergeOffcuts(existing, offcuts))
		}
		if err != nil {
			log.Warn("cannot update offcut store", "error", err)
		} else {
			log.Info("offcuts recorded", "count", len(offcuts), "total_mm", model.TotalOffcutLength(offcuts))
		}
	}
}

func importRows(path string) ([]model.ItemInput, []string, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		res = importer.ImportExcel(path)
	default:
		return nil, nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
	if len(res.Errors) > 0 {
		return nil, res.Warnings, fmt.Errorf("import failed: %s", strings.Join(res.Errors, "; "))
	}
	return res.Rows, res.Warnings, nil
}

func runOptimization(ctx context.Context, orch *engine.Orchestrator, req model.OptimizeRequest, compare bool) (*model.Result, error) {
	if compare {
		cmp := orch.Compare(ctx, req)
		if cmp.Best == nil {
			return nil, fmt.Errorf("every algorithm failed")
		}
		return cmp.Best, nil
	}

	resp := orch.Optimize(ctx, req)
	if !resp.Success {
		return nil, fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
	}
	return &model.Result{
		Algorithm:       req.Algorithm,
		Cuts:            resp.CuttingPlan,
		Metrics:         *resp.Metrics,
		Recommendations: resp.Recommendations,
		ExecutionTimeMs: resp.ExecutionTimeMs,
		Warnings:        resp.Warnings,
	}, nil
}

func writeOutput(path string, result model.Result) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	case ".pdf":
		return export.ExportPDF(path, result)
	case ".xlsx":
		return export.ExportExcel(path, result)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

func fail(log *slog.Logger, err error) {
	log.Error(err.Error())
	os.Exit(1)
}
