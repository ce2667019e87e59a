// Package batch discovers submission workbooks in a directory and validates
// each one in turn, writing an annotated result workbook per input. One
// file's failure never stops the batch.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scvtools/scvcheck/internal/logging"
	"github.com/scvtools/scvcheck/internal/scv"
	"github.com/scvtools/scvcheck/internal/xlsxio"
)

// ResultSuffix marks output workbooks so reruns skip them.
const ResultSuffix = "-result.xlsx"

// Runner validates every submission workbook in a directory against one
// rule catalog.
type Runner struct {
	Catalog *scv.Catalog

	// Workers is passed through to the engine's stateless stages.
	Workers int

	// ResultDir receives the output workbooks; empty writes them alongside
	// their inputs.
	ResultDir string
}

// Result summarizes one file's validation run.
type Result struct {
	RunID        uuid.UUID
	File         string
	ResultFile   string
	Exclusion    bool
	Records      int
	FailedFields int
	FooterFound  bool
	Duration     time.Duration
	Err          error
}

// Run validates every discovered workbook under dir. The returned slice has
// one entry per file, failed files included; the error covers only problems
// with the directory itself or context cancellation.
func (r *Runner) Run(ctx context.Context, dir string) ([]Result, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.ValidateFile(file)
		log := logging.WithRun(res.RunID.String(), filepath.Base(file))
		if res.Err != nil {
			log.Error("validation run failed", "error", res.Err)
		} else {
			log.Info("validation run complete",
				"records", res.Records,
				"failed_fields", res.FailedFields,
				"exclusion", res.Exclusion,
				"duration", res.Duration,
				"result", res.ResultFile,
			)
			if !res.FooterFound {
				log.Warn("submission file has no trailer record")
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// ValidateFile validates a single workbook and writes its result workbook.
// The exclusion run mode is derived from the file name, never from the
// contents.
func (r *Runner) ValidateFile(path string) Result {
	res := Result{
		RunID:     uuid.New(),
		File:      path,
		Exclusion: IsExclusionFile(filepath.Base(path)),
	}
	start := time.Now()

	in, err := os.Open(path)
	if err != nil {
		res.Err = fmt.Errorf("open %s: %w", path, err)
		return res
	}
	records, err := xlsxio.ReadRecords(in)
	in.Close()
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	engine := scv.NewEngine(r.Catalog, scv.Options{
		ExclusionFile: res.Exclusion,
		Workers:       r.Workers,
	})
	table := engine.Validate(records)

	res.Records = table.RecordCount()
	res.FailedFields = table.FailureCount()
	res.FooterFound = table.HasFooter()
	res.ResultFile = ResultPath(r.ResultDir, path)

	out, err := os.Create(res.ResultFile)
	if err != nil {
		res.Err = fmt.Errorf("create %s: %w", res.ResultFile, err)
		return res
	}
	if err := xlsxio.WriteAnnotated(out, table); err != nil {
		out.Close()
		res.Err = fmt.Errorf("write %s: %w", res.ResultFile, err)
		return res
	}
	if err := out.Close(); err != nil {
		res.Err = fmt.Errorf("close %s: %w", res.ResultFile, err)
		return res
	}

	res.Duration = time.Since(start)
	return res
}

// Discover lists the submission workbooks in dir, in name order. Previous
// result workbooks and spreadsheet lock files are skipped.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ResultSuffix)) {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".xls":
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// IsExclusionFile reports whether a file name marks an exclusions-view
// submission: an "EX" token anywhere in the base name, separated by the
// usual file-name punctuation.
func IsExclusionFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, tok := range strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	}) {
		if strings.EqualFold(tok, "EX") {
			return true
		}
	}
	return false
}

// ResultPath returns the output workbook path for an input file: the base
// name with ResultSuffix, in resultDir when set, else next to the input.
func ResultPath(resultDir, file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ResultSuffix
	if resultDir == "" {
		return filepath.Join(filepath.Dir(file), base)
	}
	return filepath.Join(resultDir, base)
}
