package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/medianest/docqa/domain"
)

func TestDashboardCmd_FlagsExist(t *testing.T) {
	cmd := dashboardCmd()

	expectedFlags := []string{"config", "skip", "site-url", "json", "html", "ci", "details", "results-dir"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"config", "skip", "site-url", "json", "verbose", "min-score"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	expectedFlags := []string{"config", "force", "minimal", "interactive"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}

	configFlag := cmd.Flags().Lookup("config")
	if configFlag.DefValue != "docqa.yaml" {
		t.Errorf("Expected default config path 'docqa.yaml', got %q", configFlag.DefValue)
	}
}

func TestSchemaCmd_OutputsValidJSON(t *testing.T) {
	cmd := schemaCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("schema command failed: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(buf.Bytes(), &schema); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	if schema["title"] != "Documentation Quality Report" {
		t.Errorf("unexpected schema title: %v", schema["title"])
	}
}

func TestCheckExitError(t *testing.T) {
	err := &CheckExitError{Code: 1, Message: "gates failed"}
	if err.Error() != "gates failed" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSkipSet(t *testing.T) {
	if skipSet(nil) != nil {
		t.Error("expected nil set for empty skip list")
	}
	set := skipSet([]string{"mobile", "performance"})
	if !set["mobile"] || !set["performance"] || set["links"] {
		t.Errorf("unexpected skip set: %v", set)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		jsonFlag   bool
		htmlFlag   bool
		want       domain.OutputFormat
	}{
		{"default", "", false, false, domain.OutputFormatText},
		{"config format", "json", false, false, domain.OutputFormatJSON},
		{"json flag wins", "text", true, false, domain.OutputFormatJSON},
		{"html flag", "", false, true, domain.OutputFormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveFormat(tt.configured, tt.jsonFlag, tt.htmlFlag)
			if got != tt.want {
				t.Errorf("resolveFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDocsDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveDocsDir([]string{dir})
	if err != nil {
		t.Fatalf("resolveDocsDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("expected %q, got %q", dir, got)
	}

	if _, err := resolveDocsDir([]string{dir + "/does-not-exist"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	if cmd.Use != "version" {
		t.Errorf("unexpected use: %q", cmd.Use)
	}
	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("missing --verbose flag")
	}
}

func TestDashboardCmd_Help(t *testing.T) {
	cmd := dashboardCmd()
	if !strings.Contains(cmd.Long, "Exit codes") {
		t.Error("expected exit code documentation in long help")
	}
}
