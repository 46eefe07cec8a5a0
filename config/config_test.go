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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"nmt.dev/nmt/fs"
)

func TestLoadDefaultsDepRoot(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "index.js")
	if err := os.WriteFile(entry, []byte(""), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	cfg, err := Load(fs.NewOSFileSystem(), Options{
		ProjectRoot: root,
		EntryPoints: []string{"index.js"},
		Strategy:    "ast",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DepRoot != filepath.Join(root, "node_modules") {
		t.Errorf("expected default dep root, got %s", cfg.DepRoot)
	}
}

func TestLoadRequiresStrategy(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "index.js")
	os.WriteFile(entry, []byte(""), 0644)

	_, err := Load(fs.NewOSFileSystem(), Options{
		ProjectRoot: root,
		EntryPoints: []string{"index.js"},
	})
	if err == nil {
		t.Fatalf("expected error when strategy is omitted")
	}
}

func TestLoadFatalOnBadEntryPoint(t *testing.T) {
	root := t.TempDir()

	_, err := Load(fs.NewOSFileSystem(), Options{
		ProjectRoot: root,
		EntryPoints: []string{"missing.js"},
		Strategy:    "ast",
	})
	if err == nil {
		t.Fatalf("expected error for entry point that cannot be canonicalized")
	}
}

func TestLoadCommaSeparatedEntryPoints(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "a.js"), []byte(""), 0644)
	os.WriteFile(filepath.Join(root, "b.js"), []byte(""), 0644)
	os.MkdirAll(filepath.Join(root, "node_modules"), 0755)

	cfg, err := Load(fs.NewOSFileSystem(), Options{
		ProjectRoot: root,
		EntryPoints: []string{"a.js,b.js"},
		Strategy:    "ast",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.EntryPoints) != 2 {
		t.Fatalf("expected 2 entry points, got %d: %v", len(cfg.EntryPoints), cfg.EntryPoints)
	}
}
