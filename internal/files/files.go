// Package files finds and opens things on disk by spoken name.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxResults caps how many matches a search reports back.
const maxResults = 10

type Finder struct {
	// Root is the directory searches start from. Defaults to the
	// user's home directory.
	Root string

	lastResults []string
}

func (f *Finder) root() string {
	if f.Root != "" {
		return f.Root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// OpenExplorer opens the file manager at the search root.
func (f *Finder) OpenExplorer() error {
	cmd := exec.Command("xdg-open", f.root())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open file manager: %w", err)
	}
	go cmd.Wait()
	return nil
}

// Search walks the root for names containing the query. The results
// are remembered so OpenResult can open one by its number afterwards.
func (f *Finder) Search(query string) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("empty file query")
	}

	f.lastResults = f.lastResults[:0]
	err := filepath.WalkDir(f.root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if strings.Contains(strings.ToLower(d.Name()), query) {
			f.lastResults = append(f.lastResults, path)
			if len(f.lastResults) >= maxResults {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}
	return append([]string(nil), f.lastResults...), nil
}

// OpenResult opens the nth match from the previous search, 1-based,
// and returns the opened file's name.
func (f *Finder) OpenResult(n int) (string, error) {
	if n < 1 || n > len(f.lastResults) {
		return "", fmt.Errorf("no search result number %d", n)
	}
	path := f.lastResults[n-1]
	cmd := exec.Command("xdg-open", path)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	go cmd.Wait()
	return filepath.Base(path), nil
}
