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

// Package staticprune implements the glob-based pruning strategy: a
// fixed list of patterns rooted at the dependency directory is expanded
// and every match is deleted, with no module-graph analysis at all.
package staticprune

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"nmt.dev/nmt/fs"
)

// garbageItems are doc/test/tooling paths that are never needed at
// runtime, regardless of which package ships them.
var garbageItems = []string{
	// folders
	"@types",
	"bench",
	"browser",
	"docs",
	"example",
	"examples",
	"test",
	"tests",
	"benchmark",
	"integration",
	// extensions
	"*.md",
	"*.markdown",
	"*.map",
	"*.ts",
	// specific files
	"license",
	"contributing",
	".nycrc",
	"makefile",
	".DS_Store",
	".markdownlint-cli2.yaml",
	".editorconfig",
	".nvmrc",
	"bower.json",
	".airtap.yml",
	"jenkinsfile",
	// generic files
	".*ignore",
	"*eslint*",
	"*stylelint*",
	"*.min.*",
	"browser.*js",
	".travis.*",
	".coveralls.*",
	"tsconfig.*",
	".prettierrc*",
	"*.bak",
	"karma.conf.*",
	".git*",
	".tap*",
	".c8*",
	"gulpfile.*",
	"gruntfile.*",
	".npm*",
	"yarn*",
}

// Pruner is the static-strategy pruner: it shares the {enumerate,
// delete} shape with prune.Pruner so cmd/prune can select between them
// by --strategy.
type Pruner struct {
	fs       fs.FileSystem
	depRoot  string
	reporter reporter
}

// reporter mirrors prune.Reporter without importing the prune package,
// keeping the two pruners independent of each other.
type reporter interface {
	Removing(path string)
	Removed(path string)
	FailedToRemove(path string, err error)
}

// New constructs a static-strategy Pruner rooted at depRoot.
func New(fsys fs.FileSystem, depRoot string, rep reporter) *Pruner {
	return &Pruner{fs: fsys, depRoot: depRoot, reporter: rep}
}

// Candidates expands the garbage glob list against the dependency root
// and returns every match, sorted, without deleting anything.
func (p *Pruner) Candidates() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, item := range garbageItems {
		pattern := filepath.Join(p.depRoot, "**", item)
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

	sort.Strings(out)
	return out, nil
}

// Run deletes every candidate match, directories recursively, in
// enumeration order.
func (p *Pruner) Run() error {
	candidates, err := p.Candidates()
	if err != nil {
		return err
	}

	for _, path := range candidates {
		if p.reporter != nil {
			p.reporter.Removing(path)
		}
		err := removeAll(p.fs, path)
		if p.reporter == nil {
			continue
		}
		if err != nil {
			p.reporter.FailedToRemove(path, err)
		} else {
			p.reporter.Removed(path)
		}
	}

	return nil
}

// removeAll removes path, recursing into directories since
// fs.FileSystem exposes single-entry Remove rather than os.RemoveAll.
func removeAll(fsys fs.FileSystem, path string) error {
	stat, err := fsys.Stat(path)
	if err != nil {
		return nil
	}
	if !stat.IsDir() {
		return fsys.Remove(path)
	}

	entries, err := fsys.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := removeAll(fsys, filepath.Join(path, entry.Name())); err != nil {
			return err
		}
	}
	return fsys.Remove(path)
}
