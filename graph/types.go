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

// Package graph walks the import/require graph of a JavaScript or
// TypeScript source tree starting from a set of entry points, producing
// the set of every file transitively reachable from them.
package graph

import "nmt.dev/nmt/resolve"

// SourceKind classifies a file's extension for parsing purposes.
type SourceKind int

const (
	// SourceUnknown files are kept but never parsed.
	SourceUnknown SourceKind = iota
	SourceScript
)

// classifySourceKind reports whether ext (including the leading dot,
// lowercased) is one of the extensions the visitor parses as JS/TS/JSX.
func classifySourceKind(ext string) SourceKind {
	switch ext {
	case ".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx":
		return SourceScript
	default:
		return SourceUnknown
	}
}

// CollectedSpecifier is a (name, is_cjs) pair gathered from one of the
// AST sites the visitor recognizes, before classification.
type CollectedSpecifier struct {
	Name  string
	IsCJS bool
}

// toModuleSpecifier adapts a collected specifier into the resolve
// package's condition-bearing type.
func (c CollectedSpecifier) toModuleSpecifier() resolve.ModuleSpecifier {
	return resolve.ModuleSpecifier{Name: c.Name, IsCJS: c.IsCJS}
}

// Logger receives warnings and debug traces produced while walking the
// graph. Both the visitor and resolve.Adapter consume the same shape.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}
