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

// Package config collects and validates the external interface surface:
// project root, dependency root, entry points, keep globs, strategy,
// dry-run, and minify.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/resolve"
)

// Strategy selects which pruner implementation to run.
type Strategy string

const (
	StrategyAST    Strategy = "ast"
	StrategyStatic Strategy = "static"
)

// Config is the fully-resolved, validated input to a prune run.
type Config struct {
	ProjectRoot string
	DepRoot     string
	EntryPoints []string
	KeepGlobs   []string
	Strategy    Strategy
	DryRun      bool
	Minify      bool
}

// Options carries the raw, unresolved flag values before validation.
type Options struct {
	ProjectRoot string
	DepRoot     string   // empty means "derive from ProjectRoot"
	EntryPoints []string // may contain comma-separated entries
	KeepGlobs   []string
	Strategy    string
	DryRun      bool
	Minify      bool
}

// Load resolves and validates opts into a Config. It fails when the
// strategy is missing or unknown, and, for the ast strategy, when no
// entry point is given or an entry point cannot be canonicalized.
// Project root and dependency root have defaults.
func Load(fsys fs.FileSystem, opts Options) (*Config, error) {
	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("config: invalid project root %q: %w", projectRoot, err)
	}

	depRoot := opts.DepRoot
	if depRoot == "" {
		depRoot = filepath.Join(absRoot, "node_modules")
		if !fsys.Exists(depRoot) {
			// Monorepo convenience: use the node_modules of the nearest
			// workspace root (an ancestor holding node_modules, a package.json
			// declaring workspaces, or a .git directory). That directory
			// is not checked for an installed node_modules.
			if workspaceRoot := resolve.FindWorkspaceRoot(fsys, absRoot); workspaceRoot != absRoot {
				depRoot = filepath.Join(workspaceRoot, "node_modules")
			}
		}
	} else if !filepath.IsAbs(depRoot) {
		depRoot = filepath.Join(absRoot, depRoot)
	}

	var strategy Strategy
	switch opts.Strategy {
	case string(StrategyAST):
		strategy = StrategyAST
	case string(StrategyStatic):
		strategy = StrategyStatic
	case "":
		return nil, fmt.Errorf("config: --strategy is required (ast or static)")
	default:
		return nil, fmt.Errorf("config: invalid strategy %q: must be ast or static", opts.Strategy)
	}

	var entryPoints []string
	for _, raw := range opts.EntryPoints {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !filepath.IsAbs(part) {
				part = filepath.Join(absRoot, part)
			}
			entryPoints = append(entryPoints, part)
		}
	}
	if strategy == StrategyAST {
		if len(entryPoints) == 0 {
			return nil, fmt.Errorf("config: at least one entry point is required for the ast strategy")
		}
		for _, entry := range entryPoints {
			if _, err := fsys.Realpath(entry); err != nil {
				return nil, fmt.Errorf("config: entry point %q cannot be canonicalized: %w", entry, err)
			}
		}
	}

	return &Config{
		ProjectRoot: absRoot,
		DepRoot:     depRoot,
		EntryPoints: entryPoints,
		KeepGlobs:   opts.KeepGlobs,
		Strategy:    strategy,
		DryRun:      opts.DryRun,
		Minify:      opts.Minify,
	}, nil
}
