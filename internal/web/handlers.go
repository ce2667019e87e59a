package web

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scvtools/scvcheck/internal/audit"
	"github.com/scvtools/scvcheck/internal/batch"
	"github.com/scvtools/scvcheck/internal/logging"
	"github.com/scvtools/scvcheck/internal/scv"
	"github.com/scvtools/scvcheck/internal/xlsxio"
)

// validateSummary is the JSON response body for format=json validation runs.
type validateSummary struct {
	RunID         string `json:"runId"`
	File          string `json:"file"`
	ExclusionFile bool   `json:"exclusionFile"`
	Records       int    `json:"records"`
	FailedFields  int    `json:"failedFields"`
	FooterFound   bool   `json:"footerFound"`
	DurationMS    int64  `json:"durationMs"`
}

// handleValidate accepts a multipart workbook upload, validates it, and
// returns either the annotated workbook (default) or a JSON summary
// (?format=json). The exclusion run mode comes from ?exclusion=, falling
// back to the uploaded file's name.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Validate.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATE_NO_FILE",
			"multipart field \"file\" with a workbook is required", err)
		return
	}
	defer file.Close()

	exclusion := batch.IsExclusionFile(header.Filename)
	if q := r.URL.Query().Get("exclusion"); q != "" {
		exclusion, err = strconv.ParseBool(q)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATE_BAD_QUERY",
				"exclusion must be a boolean", err)
			return
		}
	}

	records, err := xlsxio.ReadRecords(file)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "VALIDATE_BAD_WORKBOOK",
			"the uploaded file could not be read as a submission workbook", err)
		return
	}

	start := time.Now()
	engine := scv.NewEngine(s.catalog, scv.Options{
		ExclusionFile: exclusion,
		Workers:       s.cfg.Validate.Workers,
	})
	table := engine.Validate(records)
	duration := time.Since(start)

	runID := uuid.New()
	logger := logging.FromContext(r.Context()).With("run_id", runID.String())
	logger.Info("validation run complete",
		"file", header.Filename,
		"records", table.RecordCount(),
		"failed_fields", table.FailureCount(),
		"exclusion", exclusion,
		"duration", duration,
	)
	if !table.HasFooter() {
		logger.Warn("submission file has no trailer record", "file", header.Filename)
	}

	s.recordRun(r, audit.RunRecord{
		ID:            runID,
		FileName:      header.Filename,
		ExclusionFile: exclusion,
		Records:       table.RecordCount(),
		FailedFields:  table.FailureCount(),
		Duration:      duration,
	})

	if r.URL.Query().Get("format") == "json" {
		respondJSON(w, r, http.StatusOK, validateSummary{
			RunID:         runID.String(),
			File:          header.Filename,
			ExclusionFile: exclusion,
			Records:       table.RecordCount(),
			FailedFields:  table.FailureCount(),
			FooterFound:   table.HasFooter(),
			DurationMS:    duration.Milliseconds(),
		})
		return
	}

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+batch.ResultSuffix))
	if err := xlsxio.WriteAnnotated(w, table); err != nil {
		// Headers are gone; all we can do is log.
		logger.Error("write result workbook", "error", err)
	}
}

// recordRun persists the run summary when a history store is configured.
// Persistence failures are logged, never surfaced to the client.
func (s *Server) recordRun(r *http.Request, run audit.RunRecord) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Insert(r.Context(), run); err != nil {
		logging.FromContext(r.Context()).Error("record run history", "run_id", run.ID, "error", err)
	}
}

// ruleJSON is one catalog entry in the /api/rules response.
type ruleJSON struct {
	Field     string `json:"field"`
	Type      string `json:"type"`
	MaxLength int    `json:"maxLength,omitempty"`
	Mandatory bool   `json:"mandatory"`
}

// handleRules returns the loaded catalog in field order.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := make([]ruleJSON, 0, s.catalog.Len())
	for _, field := range s.catalog.Fields() {
		spec, _ := s.catalog.Lookup(field)
		rules = append(rules, ruleJSON{
			Field:     spec.Field,
			Type:      spec.Type.String(),
			MaxLength: spec.MaxLength,
			Mandatory: spec.Mandatory,
		})
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"rules": rules})
}

// handleRuns returns recent run history, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		respondError(w, r, http.StatusServiceUnavailable, "RUNS_DISABLED",
			"run history is not configured", nil)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			respondError(w, r, http.StatusBadRequest, "RUNS_BAD_LIMIT",
				"limit must be a positive integer", err)
			return
		}
		limit = n
	}

	runs, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "RUNS_QUERY_FAILED",
			"run history is temporarily unavailable", err)
		return
	}
	if runs == nil {
		runs = []audit.RunRecord{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"runs": runs})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
