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

package graph

import (
	"path/filepath"
	"testing"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/internal/mapfs"
	"nmt.dev/nmt/packagejson"
	"nmt.dev/nmt/resolve"
)

// TestVisitorRunKeepSet mirrors spec scenario S1: an entry point that
// requires a bare package resolving, via its package.json "main" field,
// to a single file. The keep-set must contain exactly the entry point,
// the resolved target, and the package manifest consulted along the way.
func TestVisitorRunKeepSet(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tests/index.js", `require("ilteoood");`, 0644)
	mfs.AddFile("/proj/node_modules/ilteoood/package.json", `{"name":"ilteoood","main":"legit.js"}`, 0644)
	mfs.AddFile("/proj/node_modules/ilteoood/legit.js", `const path = require("path");`, 0644)

	adapter := resolve.NewAdapter(mfs, packagejson.NewMemoryCache(), nil)
	v := NewVisitor(mfs, adapter, nil)

	keepSet, err := v.Run(VisitorConfig{EntryPoints: []string{"/proj/tests/index.js"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{
		"/proj/tests/index.js",
		"/proj/node_modules/ilteoood/legit.js",
		"/proj/node_modules/ilteoood/package.json",
	} {
		if _, ok := keepSet[want]; !ok {
			t.Errorf("expected %s in keep-set, got %v", want, keys(keepSet))
		}
	}

	if _, ok := keepSet["/proj/node_modules/ilteoood/legit.esm.js"]; ok {
		t.Errorf("unrelated sibling file should not be in keep-set")
	}
}

func TestVisitorRunFatalOnBadEntryPoint(t *testing.T) {
	osfs := fs.NewOSFileSystem()
	adapter := resolve.NewAdapter(osfs, packagejson.NewMemoryCache(), nil)
	v := NewVisitor(osfs, adapter, nil)

	missing := filepath.Join(t.TempDir(), "does-not-exist.js")
	_, err := v.Run(VisitorConfig{EntryPoints: []string{missing}})
	if err == nil {
		t.Fatalf("expected error for uncanonicalizable entry point")
	}
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
