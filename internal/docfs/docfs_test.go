package docfs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectMarkdown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "# Home")
	writeFile(t, root, "guides/setup.md", "# Setup")
	writeFile(t, root, "guides/advanced.markdown", "# Advanced")
	writeFile(t, root, "assets/logo.png", "binary")
	writeFile(t, root, ".git/config", "ignored")
	writeFile(t, root, "notes.txt", "not markdown")

	collector := NewCollector(nil)
	files, err := collector.CollectMarkdown(root)
	if err != nil {
		t.Fatalf("CollectMarkdown: %v", err)
	}

	expected := []string{"guides/advanced.markdown", "guides/setup.md", "index.md"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d: %v", len(expected), len(files), files)
	}
	for i, want := range expected {
		if files[i] != want {
			t.Errorf("Expected file %d to be %s, got %s", i, want, files[i])
		}
	}
}

func TestCollectMarkdown_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "# Home")
	writeFile(t, root, "drafts/wip.md", "# WIP")
	writeFile(t, root, "guides/setup.md", "# Setup")
	writeFile(t, root, "guides/setup.draft.md", "# Draft")

	collector := NewCollector([]string{"drafts/", "*.draft.md"})
	files, err := collector.CollectMarkdown(root)
	if err != nil {
		t.Fatalf("CollectMarkdown: %v", err)
	}

	expected := []string{"guides/setup.md", "index.md"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, files)
	}
	for i, want := range expected {
		if files[i] != want {
			t.Errorf("Expected file %d to be %s, got %s", i, want, files[i])
		}
	}
}

func TestCollectMarkdown_MissingRoot(t *testing.T) {
	collector := NewCollector(nil)
	if _, err := collector.CollectMarkdown(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"index.md", true},
		{"index.MD", true},
		{"index.markdown", true},
		{"index.txt", false},
		{"index", false},
	}

	for _, tt := range tests {
		if got := IsMarkdown(tt.path); got != tt.expected {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
