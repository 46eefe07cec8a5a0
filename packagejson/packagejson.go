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
// Package packagejson provides parsing and export resolution for package.json files.
package packagejson

import (
	"encoding/json"
	"errors"
	"strings"

	"nmt.dev/nmt/fs"
)

// workspacesObjectFormat represents the object format for workspaces field.
// Used by yarn classic with nohoist: {"packages": [...], "nohoist": [...]}
type workspacesObjectFormat struct {
	Packages []string `json:"packages"`
}

// ErrNotExported is returned when a subpath is not exported by the package.
var ErrNotExported = errors.New("not exported by package.json")

// CJSConditions is the condition set applied when resolving a specifier
// reached through a CommonJS require() site.
var CJSConditions = []string{"node", "require", "default"}

// ESMConditions is the condition set applied when resolving a specifier
// reached through a static import, re-export, or dynamic import() site.
var ESMConditions = []string{"node", "import", "default"}

// DefaultConditions is used when no explicit condition set is given.
// Resolution call sites should prefer CJSConditions/ESMConditions, picked
// per the specifier's IsCJS flag (see resolve.Adapter).
var DefaultConditions = ESMConditions

// ResolveOptions configures how conditional exports are resolved.
type ResolveOptions struct {
	// Conditions is the ordered list of conditions to try when resolving exports.
	// If nil, defaults to DefaultConditions.
	Conditions []string
}

// PackageJSON represents the subset of package.json relevant to resolving
// bare specifiers and walking the module graph.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main,omitempty"`
	Module          string            `json:"module,omitempty"`
	Exports         any               `json:"exports,omitempty"`
	Imports         any               `json:"imports,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	RawWorkspaces   json.RawMessage   `json:"workspaces,omitempty"`
}

// WorkspacePatterns returns the workspace glob patterns from the workspaces field.
// Handles both array format ["packages/*"] and object format {"packages": ["libs/*"]}.
func (pkg *PackageJSON) WorkspacePatterns() []string {
	if len(pkg.RawWorkspaces) == 0 {
		return nil
	}

	// Try array format first (most common)
	var patterns []string
	if err := json.Unmarshal(pkg.RawWorkspaces, &patterns); err == nil {
		return patterns
	}

	// Try object format with "packages" key (yarn classic with nohoist)
	var obj workspacesObjectFormat
	if err := json.Unmarshal(pkg.RawWorkspaces, &obj); err == nil {
		return obj.Packages
	}

	return nil
}

// HasWorkspaces returns true if the package has workspace patterns defined.
func (pkg *PackageJSON) HasWorkspaces() bool {
	return len(pkg.WorkspacePatterns()) > 0
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ResolveExport resolves a subpath export to its target file path.
// The subpath should be "." for the main export or "./subpath" for subpath exports.
// Returns the resolved path without leading "./".
// Pass nil for opts to use DefaultConditions.
func (pkg *PackageJSON) ResolveExport(subpath string, opts *ResolveOptions) (string, error) {
	if pkg.Exports == nil {
		// Fall back to main field, then to the Node.js default entry file.
		if subpath != "." {
			return "", ErrNotExported
		}
		if pkg.Main != "" {
			return trimDotSlash(pkg.Main), nil
		}
		return "index.js", nil
	}

	// Handle string export (simple case)
	if exportStr, ok := pkg.Exports.(string); ok {
		if subpath == "." {
			return trimDotSlash(exportStr), nil
		}
		return "", ErrNotExported
	}

	// Handle exports map
	exportsMap, ok := pkg.Exports.(map[string]any)
	if !ok {
		return "", ErrNotExported
	}

	// Check if this is a condition-only export (no subpaths)
	hasSubpaths := false
	for key := range exportsMap {
		if strings.HasPrefix(key, ".") {
			hasSubpaths = true
			break
		}
	}

	if !hasSubpaths {
		// This is a condition-only export for the main entry
		if subpath == "." {
			return resolveConditionsWithOpts(exportsMap, opts)
		}
		return "", ErrNotExported
	}

	// Look up the subpath
	exportValue, ok := exportsMap[subpath]
	if !ok {
		return "", ErrNotExported
	}

	return resolveExportValueWithOpts(exportValue, opts)
}

// resolveExportValueWithOpts resolves an export value with custom conditions.
func resolveExportValueWithOpts(value any, opts *ResolveOptions) (string, error) {
	switch v := value.(type) {
	case string:
		return trimDotSlash(v), nil
	case map[string]any:
		return resolveConditionsWithOpts(v, opts)
	}
	return "", ErrNotExported
}

// resolveConditionsWithOpts resolves a conditional export map to a path.
// Tries each condition in opts.Conditions order, recursing into nested maps.
func resolveConditionsWithOpts(conditions map[string]any, opts *ResolveOptions) (string, error) {
	conditionList := DefaultConditions
	if opts != nil && len(opts.Conditions) > 0 {
		conditionList = opts.Conditions
	}

	for _, cond := range conditionList {
		if value, ok := conditions[cond]; ok {
			if valueMap, ok := value.(map[string]any); ok {
				if result, err := resolveConditionsWithOpts(valueMap, opts); err == nil {
					return result, nil
				}
			} else if valueStr, ok := value.(string); ok {
				return trimDotSlash(valueStr), nil
			}
		}
	}

	return "", ErrNotExported
}

// trimDotSlash removes a leading "./" from a path.
func trimDotSlash(path string) string {
	return strings.TrimPrefix(path, "./")
}
