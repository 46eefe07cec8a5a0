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

package staticprune

import (
	"os"
	"path/filepath"
	"testing"

	"nmt.dev/nmt/fs"
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

func TestStaticPrunerDeletesGarbage(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "node_modules")

	writeFile(t, filepath.Join(depRoot, "fastify", "README.md"))
	writeFile(t, filepath.Join(depRoot, "busboy", ".nvmrc"))
	writeFile(t, filepath.Join(depRoot, "ilteoood", "unlegit.min.js"))
	writeFile(t, filepath.Join(depRoot, "ilteoood", "legit.js"))
	writeFile(t, filepath.Join(depRoot, "ilteoood", "legit.esm.js"))

	osfs := fs.NewOSFileSystem()
	p := New(osfs, depRoot, nil)

	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(depRoot, "fastify", "README.md")); !os.IsNotExist(err) {
		t.Errorf("expected README.md to be deleted")
	}
	if _, err := os.Stat(filepath.Join(depRoot, "busboy", ".nvmrc")); !os.IsNotExist(err) {
		t.Errorf("expected .nvmrc to be deleted")
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "unlegit.min.js")); !os.IsNotExist(err) {
		t.Errorf("expected unlegit.min.js to be deleted")
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "legit.js")); err != nil {
		t.Errorf("expected legit.js to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(depRoot, "ilteoood", "legit.esm.js")); err != nil {
		t.Errorf("expected legit.esm.js to survive (esm-only toggle is not carried forward): %v", err)
	}
}
