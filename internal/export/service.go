package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/signloop/internal/async"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/pipeline"
)

const (
	SheetOverview = "Overview"
	SheetRedFlags = "Red Flags"
	SheetKeyDates = "Key Dates"
	SheetRegion   = "Region"
	SheetActions  = "Actions"
	SheetBatch    = "Batch"
)

// Service renders analysis outcomes as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportAnalysisXLSX returns one workbook for a single analyzed contract.
func (s *Service) ExportAnalysisXLSX(_ context.Context, out pipeline.Outcome) ([]byte, error) {
	if out.Analysis == nil {
		return nil, common.NewAppError(common.CodeInternal, "outcome has no analysis to export", common.ErrInvalidInput)
	}
	start := time.Now()
	a := out.Analysis
	r := a.Result

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}

	sm := r.Summary
	overview := [][]any{
		{"Source", out.Source},
		{"Risk", string(r.RiskBadge)},
		{"What it is", sm.WhatItIs},
		{"Amount", deref(sm.Payments.Amount)},
		{"Frequency", deref(sm.Payments.Frequency)},
		{"Fees", strings.Join(sm.Payments.Fees, "; ")},
		{"Term start", deref(sm.Term.Start)},
		{"Term end", deref(sm.Term.End)},
		{"Minimum term", deref(sm.Term.MinimumTerm)},
		{"Auto renew", sm.Renewal.AutoRenew},
		{"Renewal period", deref(sm.Renewal.RenewalPeriod)},
		{"Cancellation", sm.Cancellation.How},
		{"Notice period (days)", sm.Cancellation.NoticePeriodDays},
		{"Penalties", strings.Join(sm.Cancellation.Penalties, "; ")},
		{"Key points", strings.Join(r.KeyPoints, "\n")},
		{"Obligations", strings.Join(r.Obligations, "\n")},
		{"Parties", strings.Join(r.Parties, "; ")},
		{"Extraction", string(out.Extraction.Method)},
		{"Provider", a.Provider},
		{"Model", a.Model},
		{"Validation", string(a.Tier)},
		{"Disclaimer", r.Disclaimer},
	}
	if err := writeRows(f, SheetOverview, nil, overview); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetOverview, "A", "A", 22)
	_ = f.SetColWidth(SheetOverview, "B", "B", 80)

	flags := make([][]any, 0, len(r.RedFlags))
	for _, rf := range r.RedFlags {
		flags = append(flags, []any{rf.Type, rf.Severity, rf.Explanation, deref(rf.Where), rf.Confidence})
	}
	if err := writeSheet(f, SheetRedFlags, []string{"Type", "Severity", "Explanation", "Where", "Confidence"}, flags); err != nil {
		return nil, err
	}

	dates := make([][]any, 0, len(r.KeyDates))
	for _, kd := range r.KeyDates {
		dates = append(dates, []any{string(kd.Type), kd.Date, deref(kd.DerivedFrom)})
	}
	if err := writeSheet(f, SheetKeyDates, []string{"Type", "Date", "Derived From"}, dates); err != nil {
		return nil, err
	}

	region := make([][]any, 0, len(r.NormalInRegion))
	for _, n := range r.NormalInRegion {
		region = append(region, []any{n.Topic, n.TypicalRange, deref(n.Yours), string(n.Label)})
	}
	if err := writeSheet(f, SheetRegion, []string{"Topic", "Typical Range", "Yours", "Label"}, region); err != nil {
		return nil, err
	}

	var actions [][]any
	for _, q := range r.NextActions.QuestionsToAsk {
		actions = append(actions, []any{"Question", q, ""})
	}
	for _, et := range r.NextActions.EmailTemplates {
		actions = append(actions, []any{"Email", et.Subject, et.Body})
	}
	if err := writeSheet(f, SheetActions, []string{"Kind", "Text / Subject", "Body"}, actions); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"req_id", out.ID.String(),
		"red_flags", len(r.RedFlags),
		"key_dates", len(r.KeyDates),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportBatchXLSX writes one row per queued job, failures included.
func (s *Service) ExportBatchXLSX(_ context.Context, results []async.Result) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetBatch); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(results))
	for _, res := range results {
		row := []any{res.Job.Path, string(res.Outcome.Extraction.Method), "", "", 0, "", ""}
		if a := res.Outcome.Analysis; a != nil {
			row[2] = string(a.Result.RiskBadge)
			row[3] = string(a.Tier)
			row[4] = len(a.Result.RedFlags)
			row[5] = truncate(a.Result.Summary.WhatItIs, 140)
		}
		if res.Err != nil {
			row[6] = common.Code(res.Err) + ": " + truncate(res.Err.Error(), 200)
		}
		rows = append(rows, row)
	}
	headers := []string{"File", "Extraction", "Risk", "Validation", "Red Flags", "What It Is", "Error"}
	if err := writeRows(f, SheetBatch, headers, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetBatch, "A", "A", 48)
	_ = f.SetColWidth(SheetBatch, "F", "G", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.batch_xlsx.ok", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, headers, rows)
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	row := 1
	if len(headers) > 0 {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		row++
	}
	for _, vals := range rows {
		for i, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
