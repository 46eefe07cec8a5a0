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

// Package resolve turns a bare module specifier into a filesystem path,
// applying package.json conditional exports with the condition set that
// matches the site the specifier was collected from.
package resolve

import (
	"path/filepath"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/packagejson"
)

// Logger is an interface for logging messages during resolution.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Resolution is the result of resolving a bare specifier: the target file
// to enqueue for parsing, plus the owning package manifest (added to the
// keep-set but never enqueued -- it is data, not code).
type Resolution struct {
	FullPath          string
	PackageManifest   string // absolute path to the owning package.json, or "" if none was found
}

// FindWorkspaceRoot walks up the directory tree from startDir looking for
// a directory that already contains node_modules, or a package.json that
// declares workspaces, or a .git directory. Used to locate the dependency
// root in monorepos where it isn't directly under the project root.
func FindWorkspaceRoot(fsys fs.FileSystem, startDir string) string {
	dir := startDir
	for {
		nodeModulesPath := filepath.Join(dir, "node_modules")
		if stat, err := fsys.Stat(nodeModulesPath); err == nil && stat.IsDir() {
			return dir
		}

		pkgPath := filepath.Join(dir, "package.json")
		if pkg, err := packagejson.ParseFile(fsys, pkgPath); err == nil && pkg.HasWorkspaces() {
			return dir
		}

		gitDir := filepath.Join(dir, ".git")
		if stat, err := fsys.Stat(gitDir); err == nil && stat.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}
