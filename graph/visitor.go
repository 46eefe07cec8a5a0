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
	"fmt"
	"path/filepath"
	"strings"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/resolve"
)

// VisitorConfig seeds a Visitor run.
type VisitorConfig struct {
	EntryPoints []string
	KeepFiles   []string
}

// Visitor drives the fixpoint loop of spec.md §4.1: starting from a set
// of entry points, it discovers every file reachable through imports,
// requires, and dynamic imports, and returns the set of canonical paths
// that must be kept.
type Visitor struct {
	fs       fs.FileSystem
	resolver *resolve.Adapter
	logger   Logger

	keepSet     map[string]struct{}
	pendingOrd  []string
	pendingSeen map[string]struct{}
}

// NewVisitor constructs a Visitor. logger may be nil.
func NewVisitor(fsys fs.FileSystem, resolver *resolve.Adapter, logger Logger) *Visitor {
	return &Visitor{
		fs:          fsys,
		resolver:    resolver,
		logger:      logger,
		keepSet:     make(map[string]struct{}),
		pendingSeen: make(map[string]struct{}),
	}
}

// Run seeds the keep-set and pending queue from cfg, drains the
// fixpoint loop, and returns the canonical keep-set. Fails fatally (per
// spec.md §4.1/§7) if any entry point cannot be canonicalized.
func (v *Visitor) Run(cfg VisitorConfig) (map[string]struct{}, error) {
	for _, entry := range cfg.EntryPoints {
		canon, err := v.fs.Realpath(entry)
		if err != nil {
			return nil, fmt.Errorf("graph: entry point %q cannot be canonicalized: %w", entry, err)
		}
		v.keep(canon)
		v.enqueue(canon)
	}

	for _, keep := range cfg.KeepFiles {
		canon, err := v.fs.Realpath(keep)
		if err != nil {
			v.warn("keep file %q cannot be canonicalized: %v", keep, err)
			continue
		}
		v.keep(canon)
		v.enqueue(canon)
	}

	for len(v.pendingOrd) > 0 {
		currentFile := v.pendingOrd[0]
		v.pendingOrd = v.pendingOrd[1:]

		v.visit(currentFile)
	}

	return v.keepSet, nil
}

// visit reads, parses (if recognized), and walks one file, resolving
// every specifier it collects before returning.
func (v *Visitor) visit(currentFile string) {
	content, err := v.fs.ReadFile(currentFile)
	if err != nil {
		v.warn("reading %s: %v", currentFile, err)
		return
	}

	if classifySourceKind(extOf(currentFile)) != SourceScript {
		return
	}

	specifiers, err := extractSpecifiers(content)
	if err != nil {
		v.warn("parsing %s: %v", currentFile, err)
		return
	}

	for _, spec := range specifiers {
		v.dispatch(currentFile, spec)
	}
}

// dispatch routes one collected specifier through the classifier and,
// for deferred (bare) specifiers, the resolver adapter.
func (v *Visitor) dispatch(currentFile string, spec CollectedSpecifier) {
	c := classify(v.fs, currentFile, spec)

	switch c.disposition {
	case dispositionDrop:
		return

	case dispositionAsset:
		canon, err := v.fs.Realpath(c.path)
		if err != nil {
			v.warn("asset %q from %s: %v", c.path, currentFile, err)
			return
		}
		v.keep(canon)

	case dispositionEnqueue:
		canon, err := v.fs.Realpath(c.path)
		if err != nil {
			v.warn("local specifier %q from %s: %v", c.path, currentFile, err)
			return
		}
		v.keep(canon)
		v.enqueue(canon)

	case dispositionDefer:
		if v.resolver == nil {
			return
		}
		res, err := v.resolver.Resolve(currentFile, spec.toModuleSpecifier())
		if err != nil {
			return
		}
		targetCanon, err := v.fs.Realpath(res.FullPath)
		if err != nil {
			v.warn("resolved target %q from %s: %v", res.FullPath, currentFile, err)
			return
		}
		v.keep(targetCanon)
		v.enqueue(targetCanon)

		if res.PackageManifest != "" {
			if manifestCanon, err := v.fs.Realpath(res.PackageManifest); err == nil {
				v.keep(manifestCanon)
			}
		}
	}
}

// keep adds path to the keep-set. Idempotent.
func (v *Visitor) keep(path string) {
	v.keepSet[path] = struct{}{}
}

// enqueue adds path to the pending queue exactly once, guarded by
// pendingSeen so the fixpoint loop terminates (spec.md §4.1).
func (v *Visitor) enqueue(path string) {
	if _, seen := v.pendingSeen[path]; seen {
		return
	}
	v.pendingSeen[path] = struct{}{}
	v.pendingOrd = append(v.pendingOrd, path)
}

func (v *Visitor) warn(format string, args ...any) {
	if v.logger != nil {
		v.logger.Warning(format, args...)
	}
}

// extOf returns the lowercased extension of path, including the dot.
func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
