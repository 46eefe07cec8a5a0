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

package globutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestExpandKeepGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "assets", "logo.png"))
	writeFile(t, filepath.Join(root, "assets", "logo.svg"))
	writeFile(t, filepath.Join(root, "README.md"))

	matches, err := ExpandKeepGlobs(root, []string{"assets/*.png", "assets/*.svg"})
	if err != nil {
		t.Fatalf("ExpandKeepGlobs: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(matches), matches)
	}
}

func TestEnumerateDependencyRootIncludesDotfiles(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "node_modules")
	writeFile(t, filepath.Join(depRoot, "pkg", "index.js"))
	writeFile(t, filepath.Join(depRoot, "pkg", ".npmignore"))

	matches, err := EnumerateDependencyRoot(depRoot)
	if err != nil {
		t.Fatalf("EnumerateDependencyRoot: %v", err)
	}

	var sawDotfile bool
	for _, m := range matches {
		if filepath.Base(m) == ".npmignore" {
			sawDotfile = true
		}
	}
	if !sawDotfile {
		t.Errorf("expected dotfile to be enumerated, got %v", matches)
	}
}
