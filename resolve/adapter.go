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
package resolve

import (
	"errors"
	"path/filepath"
	"strings"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/packagejson"
)

// ModuleSpecifier is the string appearing in a source-level import/require
// site, paired with the condition set it should be resolved under. Two
// specifiers with the same Name but different IsCJS are distinct: they can
// resolve to different files through a package's conditional exports.
type ModuleSpecifier struct {
	Name  string
	IsCJS bool
}

// Conditions returns the export-condition priority list for this
// specifier: require/import sites resolve under different conditions
// because the same package can ship separate CJS and ESM entry points.
func (s ModuleSpecifier) Conditions() []string {
	if s.IsCJS {
		return packagejson.CJSConditions
	}
	return packagejson.ESMConditions
}

// ErrUnresolved is returned when a bare specifier cannot be resolved to a
// file on disk. It is non-fatal: Resolve logs a warning before returning
// it, and the caller drops the specifier.
var ErrUnresolved = errors.New("resolve: specifier not found")

// Adapter resolves bare specifiers against an installed node_modules tree,
// applying package "exports" conditionality. Parsed package.json files
// are cached in the supplied packagejson.Cache; resolution results are
// not cached, and the graph resolver's enqueue-once check provides the
// dedup across the run.
type Adapter struct {
	fs     fs.FileSystem
	cache  packagejson.Cache
	logger Logger
}

// NewAdapter creates a Resolver Adapter. logger may be nil.
func NewAdapter(fsys fs.FileSystem, cache packagejson.Cache, logger Logger) *Adapter {
	if cache == nil {
		cache = packagejson.NewMemoryCache()
	}
	return &Adapter{fs: fsys, cache: cache, logger: logger}
}

// Resolve resolves specifier, encountered while parsing currentFile, to a
// target file path and (if one was consulted) the owning package.json
// path. On failure it returns ErrUnresolved; the caller drops the
// specifier rather than treating this as fatal.
func (a *Adapter) Resolve(currentFile string, specifier ModuleSpecifier) (Resolution, error) {
	pkgName, subpath := splitBareSpecifier(specifier.Name)

	pkgDir, err := a.findPackageDir(currentFile, pkgName)
	if err != nil {
		a.warn("specifier %q (from %s): %v", specifier.Name, currentFile, err)
		return Resolution{}, ErrUnresolved
	}

	manifestPath := filepath.Join(pkgDir, "package.json")
	pkg, err := a.cache.GetOrLoad(manifestPath, func() (*packagejson.PackageJSON, error) {
		return packagejson.ParseFile(a.fs, manifestPath)
	})
	if err != nil {
		a.warn("reading %s: %v", manifestPath, err)
		return Resolution{}, ErrUnresolved
	}

	subpathKey := "."
	if subpath != "" {
		subpathKey = "./" + subpath
	}

	target, err := pkg.ResolveExport(subpathKey, &packagejson.ResolveOptions{
		Conditions: specifier.Conditions(),
	})
	if err != nil {
		// A literal subpath not covered by "exports" still exists on disk
		// for packages with no exports map at all -- fall back to the
		// literal join, matching Node's legacy (no-exports-field) resolver.
		if pkg.Exports == nil && subpath != "" {
			target = subpath
		} else {
			a.warn("%q not exported by %s: %v", subpathKey, pkgDir, err)
			return Resolution{}, ErrUnresolved
		}
	}

	fullPath := filepath.Join(pkgDir, target)
	if !a.fs.Exists(fullPath) {
		a.warn("resolved target %s for %q does not exist", fullPath, specifier.Name)
		return Resolution{}, ErrUnresolved
	}

	return Resolution{FullPath: fullPath, PackageManifest: manifestPath}, nil
}

// findPackageDir walks up from currentFile's directory looking for a
// node_modules/<pkgName> directory, the same algorithm Node.js uses to
// resolve bare specifiers (checking each ancestor's node_modules in turn).
func (a *Adapter) findPackageDir(currentFile, pkgName string) (string, error) {
	dir := filepath.Dir(currentFile)
	for {
		candidate := filepath.Join(dir, "node_modules", pkgName)
		if stat, err := a.fs.Stat(candidate); err == nil && stat.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("package " + pkgName + " not found in any node_modules")
		}
		dir = parent
	}
}

func (a *Adapter) warn(format string, args ...any) {
	if a.logger != nil {
		a.logger.Warning(format, args...)
	}
}

// splitBareSpecifier splits a bare specifier into its package name and an
// optional subpath, respecting scoped package names ("@scope/name/sub").
func splitBareSpecifier(name string) (pkgName, subpath string) {
	if strings.HasPrefix(name, "@") {
		parts := strings.SplitN(name, "/", 3)
		if len(parts) < 2 {
			return name, ""
		}
		pkgName = parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			subpath = parts[2]
		}
		return pkgName, subpath
	}

	parts := strings.SplitN(name, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
