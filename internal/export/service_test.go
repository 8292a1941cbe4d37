package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/async"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/extract"
	"github.com/joseph-ayodele/signloop/internal/llm"
	"github.com/joseph-ayodele/signloop/internal/pipeline"
)

func strp(s string) *string { return &s }

func sampleOutcome() pipeline.Outcome {
	return pipeline.Outcome{
		Source:     "lease.pdf",
		Extraction: extract.Result{Method: constants.MethodDirectParse},
		Analysis: &llm.Analysis{
			Provider: "openrouter",
			Model:    "test/model",
			Tier:     constants.TierLenient,
			Result: llm.AnalysisResult{
				RiskBadge: constants.RiskHigh,
				KeyPoints: []string{"Deposit is 3 months"},
				Summary: llm.Summary{
					WhatItIs: "Residential lease",
					Payments: llm.Payments{Amount: strp("£1,500")},
					Renewal:  llm.Renewal{AutoRenew: true},
				},
				RedFlags: []llm.RedFlag{
					{Type: "deposit", Severity: 8, Explanation: "Above legal cap", Where: strp("Clause 3"), Confidence: 90},
					{Type: "access", Severity: 4, Explanation: "Landlord access without notice", Confidence: 50},
				},
				NormalInRegion: []llm.RegionNorm{{Topic: "Deposit", TypicalRange: "5 weeks", Label: constants.LabelUnusual}},
				NextActions: llm.NextActions{
					QuestionsToAsk: []string{"Can the deposit be reduced?"},
					EmailTemplates: []llm.EmailTemplate{{Subject: "Deposit", Body: "Hi"}},
				},
				KeyDates:   []llm.KeyDate{{Type: constants.DateRenewal, Date: "2026-03-01"}},
				Disclaimer: llm.DefaultDisclaimer,
			},
		},
	}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestExportAnalysisXLSX(t *testing.T) {
	b, err := NewService(quiet()).ExportAnalysisXLSX(context.Background(), sampleOutcome())
	if err != nil {
		t.Fatalf("ExportAnalysisXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	want := []string{SheetOverview, SheetRedFlags, SheetKeyDates, SheetRegion, SheetActions}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	if v, _ := f.GetCellValue(SheetOverview, "B2"); v != "HIGH" {
		t.Errorf("risk cell = %q", v)
	}
	if v, _ := f.GetCellValue(SheetOverview, "B4"); v != "£1,500" {
		t.Errorf("amount cell = %q", v)
	}
	rows, _ := f.GetRows(SheetRedFlags)
	if len(rows) != 3 {
		t.Fatalf("red flag rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "deposit" || rows[1][3] != "Clause 3" {
		t.Errorf("first red flag row = %v", rows[1])
	}
	if v, _ := f.GetCellValue(SheetKeyDates, "B2"); v != "2026-03-01" {
		t.Errorf("key date = %q", v)
	}
	actions, _ := f.GetRows(SheetActions)
	if len(actions) != 3 {
		t.Errorf("action rows = %d, want header + question + email", len(actions))
	}
}

func TestExportAnalysisXLSXRequiresAnalysis(t *testing.T) {
	_, err := NewService(quiet()).ExportAnalysisXLSX(context.Background(), pipeline.Outcome{})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestExportBatchXLSX(t *testing.T) {
	results := []async.Result{
		{Job: async.Job{Path: "lease.pdf"}, Outcome: sampleOutcome()},
		{Job: async.Job{Path: "scan.pdf"}, Err: common.ErrNoUsableText},
	}
	b, err := NewService(quiet()).ExportBatchXLSX(context.Background(), results)
	if err != nil {
		t.Fatalf("ExportBatchXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetBatch)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[1][2] != "HIGH" || rows[1][3] != "lenient" {
		t.Errorf("analyzed row = %v", rows[1])
	}
	if last := rows[2][len(rows[2])-1]; last != "NO_USABLE_TEXT: no usable text extracted" {
		t.Errorf("error cell = %q", last)
	}
}
