package resource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ResolveFiles expands the given paths into the set of stylesheets to
// process. Files are taken as is, directories are walked recursively for
// *.css entries (symbolic links are not followed). The result is
// deduplicated and naturally ordered so runs are deterministic regardless
// of filesystem enumeration order.
func ResolveFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("unable to access source '%s': %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".css") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to scan source directory '%s': %w", p, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	return files, nil
}
