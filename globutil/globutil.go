/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package globutil expands glob patterns into file paths for the two
// places the pruner needs it: user-supplied keep patterns, and
// enumerating every file beneath a dependency root.
package globutil

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandKeepGlobs expands patterns (relative to root) into a deduplicated,
// absolute-path list of matching files.
func ExpandKeepGlobs(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range patterns {
		full := filepath.Join(root, pattern)
		matches, err := doublestar.FilepathGlob(full)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, err
			}
			if _, exists := seen[abs]; exists {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, abs)
		}
	}

	return out, nil
}

// EnumerateDependencyRoot lists every entry under depRoot, including
// dotfiles, using two glob patterns the way spec.md §4.4 step 1
// requires: "node_modules/**" alone does not match hidden entries.
func EnumerateDependencyRoot(depRoot string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	patterns := []string{
		filepath.Join(depRoot, "**"),
		filepath.Join(depRoot, "**", ".*"),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, err
			}
			if _, exists := seen[abs]; exists {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, abs)
		}
	}

	return out, nil
}
