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

package prune

import (
	"os"
	"path/filepath"
	"testing"

	"nmt.dev/nmt/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// newFixture builds the S1-shaped fixture: a kept entry point and its
// resolved target, plus sibling garbage files and an empty-after-prune
// directory.
func newFixture(t *testing.T) (root, depRoot string, keepSet map[string]struct{}) {
	t.Helper()
	root = t.TempDir()
	depRoot = filepath.Join(root, "node_modules")

	entry := filepath.Join(root, "tests", "index.js")
	target := filepath.Join(depRoot, "ilteoood", "legit.js")
	manifest := filepath.Join(depRoot, "ilteoood", "package.json")
	garbage := filepath.Join(depRoot, "ilteoood", "unlegit.min.js")
	nested := filepath.Join(depRoot, "ilteoood", "docs", "README.md")

	writeFile(t, entry, `require("ilteoood");`)
	writeFile(t, target, `require("path");`)
	writeFile(t, manifest, `{"name":"ilteoood","main":"legit.js"}`)
	writeFile(t, garbage, `garbage`)
	writeFile(t, nested, `# docs`)

	osfs := fs.NewOSFileSystem()
	entryCanon, _ := osfs.Realpath(entry)
	targetCanon, _ := osfs.Realpath(target)

	keepSet = map[string]struct{}{
		entryCanon:  {},
		targetCanon: {},
	}
	return root, depRoot, keepSet
}

func TestPrunerDeletesUnkept(t *testing.T) {
	root, depRoot, keepSet := newFixture(t)
	osfs := fs.NewOSFileSystem()

	p := New(osfs, root, depRoot, keepSet, nil)
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "unlegit.min.js")); !os.IsNotExist(err) {
		t.Errorf("expected garbage file to be deleted, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "docs")); !os.IsNotExist(err) {
		t.Errorf("expected emptied docs directory to be removed, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "legit.js")); err != nil {
		t.Errorf("expected kept target to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "package.json")); err != nil {
		t.Errorf("expected package.json to survive unconditionally: %v", err)
	}
}

func TestPrunerIdempotent(t *testing.T) {
	root, depRoot, keepSet := newFixture(t)
	osfs := fs.NewOSFileSystem()

	p := New(osfs, root, depRoot, keepSet, nil)
	if _, err := p.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	results, err := p.Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected zero deletions on second run, got %d: %v", len(results), results)
	}
}

func TestPrunerCandidatesDryRun(t *testing.T) {
	root, depRoot, keepSet := newFixture(t)
	osfs := fs.NewOSFileSystem()

	p := New(osfs, root, depRoot, keepSet, nil)
	candidates, err := p.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}

	for _, c := range candidates {
		if filepath.Base(c) == "package.json" {
			t.Errorf("package.json must never be a deletion candidate: %s", c)
		}
	}

	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "unlegit.min.js")); err != nil {
		t.Fatalf("fixture file missing after dry-run Candidates(): %v", err)
	}
}
