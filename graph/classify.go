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
	iofs "io/fs"
	"path/filepath"
	"strings"
)

// disposition is the sink a classified specifier is routed to.
type disposition int

const (
	dispositionDrop disposition = iota
	dispositionAsset
	dispositionEnqueue
	dispositionDefer
)

// classification is the result of running the classifier rules on one
// collected specifier relative to the file it was found in.
type classification struct {
	disposition disposition
	path        string // populated for dispositionAsset and dispositionEnqueue
}

// classify routes a collected specifier per the ordered rules: asset
// extensions first, then relative paths, then the "node:" builtin
// prefix, everything else deferred to the resolver adapter. fsys is
// used only for the relative-path existence probes in rule 2.
func classify(fsys statFS, currentFile string, spec CollectedSpecifier) classification {
	lower := strings.ToLower(spec.Name)

	if strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".node") {
		if isRelative(spec.Name) {
			return classification{
				disposition: dispositionAsset,
				path:        filepath.Join(filepath.Dir(currentFile), spec.Name),
			}
		}
		return classification{disposition: dispositionDefer}
	}

	if isRelative(spec.Name) {
		dir := filepath.Dir(currentFile)
		candidates := []string{
			filepath.Join(dir, spec.Name),
			filepath.Join(dir, spec.Name+".js"),
			filepath.Join(dir, spec.Name, "index.js"),
		}
		for _, candidate := range candidates {
			if info, err := fsys.Stat(candidate); err == nil && !info.IsDir() {
				return classification{disposition: dispositionEnqueue, path: candidate}
			}
		}
		return classification{disposition: dispositionDefer}
	}

	if strings.HasPrefix(spec.Name, "node:") {
		return classification{disposition: dispositionDrop}
	}

	return classification{disposition: dispositionDefer}
}

func isRelative(name string) bool {
	return strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../")
}

// statFS is the minimal filesystem surface the classifier needs.
type statFS interface {
	Stat(name string) (iofs.FileInfo, error)
}
