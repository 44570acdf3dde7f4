package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInit_CreatesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", path})
	cmd.SetOut(io.Discard)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	content := string(data)
	for _, want := range []string{"weights:", "gates:", "checkers:", "links:"} {
		if !strings.Contains(content, want) {
			t.Errorf("config template missing %q", want)
		}
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", path})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for existing config file")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "existing" {
		t.Error("existing file was overwritten without --force")
	}
}

func TestRunInit_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", path, "--force"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) == "existing" {
		t.Error("--force did not overwrite the file")
	}
}

func TestRunInit_Minimal(t *testing.T) {
	fullPath := filepath.Join(t.TempDir(), "full.yaml")
	minPath := filepath.Join(t.TempDir(), "minimal.yaml")

	full := initCmd()
	full.SetArgs([]string{"--config", fullPath})
	if err := full.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	minimal := initCmd()
	minimal.SetArgs([]string{"--config", minPath, "--minimal"})
	if err := minimal.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	fullData, _ := os.ReadFile(fullPath)
	minData, _ := os.ReadFile(minPath)
	if len(minData) >= len(fullData) {
		t.Errorf("minimal template (%d bytes) should be smaller than full (%d bytes)",
			len(minData), len(fullData))
	}
}

func TestRunInit_MissingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "docqa.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", path})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
