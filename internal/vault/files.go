package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	qerrors "github.com/quillsafe/quill/internal/errors"
)

// ResolveAccountsFiles expands the configured accounts file entries into
// concrete paths. Entries may be literal paths or glob patterns; relative
// entries are resolved against baseDir.
func ResolveAccountsFiles(patterns []string, baseDir string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, qerrors.ErrNoAccountsFile
	}
	return files, nil
}

func resolvePattern(pattern, baseDir string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	if strings.ContainsAny(pattern, "*?[") {
		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid accounts file pattern %q: %w", pattern, err)
		}

		var files []string
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			// Backups and staging leftovers are never account sources.
			if strings.HasSuffix(m, BackupSuffix) || strings.Contains(filepath.Base(m), ".tmp.") {
				continue
			}
			files = append(files, m)
		}
		return files, nil
	}

	if _, err := os.Stat(absPattern); os.IsNotExist(err) {
		// A configured literal file that does not exist yet is skipped,
		// not an error: init creates it on first use.
		return nil, nil
	}
	return []string{absPattern}, nil
}
