package service

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/medianest/docqa/domain"
)

func TestReportStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewReportStore(dir, charmlog.New(io.Discard))

	if err := store.Save(sampleReport()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Per-module reports for executed modules only
	for _, name := range []string{"links", "formatting"} {
		path := filepath.Join(dir, name+"_report.json")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing module report %s: %v", path, err)
		}
		var mr domain.ModuleReport
		if err := json.Unmarshal(data, &mr); err != nil {
			t.Fatalf("module report %s is not valid JSON: %v", path, err)
		}
		if mr.ModuleName != name {
			t.Errorf("expected module name %q, got %q", name, mr.ModuleName)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "mobile_report.json")); !os.IsNotExist(err) {
		t.Error("skipped module should not produce a report file")
	}

	data, err := os.ReadFile(filepath.Join(dir, ComprehensiveReportFile))
	if err != nil {
		t.Fatalf("missing comprehensive report: %v", err)
	}
	var full domain.QualityReport
	if err := json.Unmarshal(data, &full); err != nil {
		t.Fatalf("comprehensive report is not valid JSON: %v", err)
	}
	if full.OverallScore != 72.5 {
		t.Errorf("expected overall score 72.5, got %v", full.OverallScore)
	}
	if err := ValidateReportJSON(data); err != nil {
		t.Errorf("saved report does not conform to schema: %v", err)
	}
}

func TestReportStore_SaveDashboard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewReportStore(dir, charmlog.New(io.Discard))

	path, err := store.SaveDashboard(sampleReport())
	if err != nil {
		t.Fatalf("SaveDashboard failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("missing dashboard file: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("dashboard file is not HTML")
	}
}
