package docfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/medianest/docqa/domain"
)

// Collector walks a documentation root and gathers the markdown files
// checkers analyze. Exclude patterns use gitignore syntax so a docs
// tree can carry a plain ignore file and get identical behavior here.
type Collector struct {
	matcher *gitignore.GitIgnore
}

// NewCollector compiles the exclude patterns into a gitignore matcher.
func NewCollector(excludePatterns []string) *Collector {
	matcher := gitignore.CompileIgnoreLines(excludePatterns...)
	return &Collector{matcher: matcher}
}

// CollectMarkdown returns all markdown files under root, sorted, with
// paths relative to root. Excluded directories are pruned during the
// walk rather than filtered afterwards.
func (c *Collector) CollectMarkdown(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(root, err)
		}
		return nil, err
	}
	if !info.IsDir() {
		if IsMarkdown(root) {
			return []string{filepath.Base(root)}, nil
		}
		return nil, domain.NewInvalidInputError("not a markdown file or directory: "+root, nil)
	}

	return c.walk(root, IsMarkdown)
}

// CollectImages returns all image files under root, sorted, with paths
// relative to root.
func (c *Collector) CollectImages(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(root, err)
		}
		return nil, err
	}
	return c.walk(root, IsImage)
}

func (c *Collector) walk(root string, keep func(string) bool) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}
			if c.matcher != nil && c.matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !keep(path) {
			return nil
		}
		if c.matcher != nil && c.matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsMarkdown checks if a file is markdown based on extension
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// IsImage checks if a file is an image based on extension
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
		return true
	}
	return false
}

// FileSize returns the size in bytes of a file in the docs tree
func FileSize(root, rel string) (int64, error) {
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ReadFile reads file content from the docs tree
func ReadFile(root, rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, rel))
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
