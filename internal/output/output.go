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

// Package output provides the shared stdout reporter for nmt's pruners,
// per spec.md §6's output contract.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Reporter writes "Removing:"/"Removed:"/"Failed to remove:" lines to
// w, satisfying both prune.Reporter and staticprune's reporter.
type Reporter struct {
	w io.Writer
}

// NewReporter constructs a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Removing reports that path is about to be deleted.
func (r *Reporter) Removing(path string) {
	fmt.Fprintf(r.w, "Removing: %s\n", path)
}

// Removed reports that path was deleted successfully.
func (r *Reporter) Removed(path string) {
	fmt.Fprintf(r.w, "Removed: %s\n", path)
}

// FailedToRemove reports a deletion failure, continuing rather than
// aborting the run.
func (r *Reporter) FailedToRemove(path string, err error) {
	fmt.Fprintf(r.w, "Failed to remove: %s, %v\n", path, err)
}

// FormatSet renders paths one per line, sorted, for dry-run mode: the
// keep-set (ast strategy) or the candidate garbage set (static
// strategy), per spec.md §4.4's dry-run contract.
func FormatSet(paths []string) string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// DryRunSet prints one path per line, sorted, for dry-run mode.
func DryRunSet(w io.Writer, paths []string) {
	fmt.Fprint(w, FormatSet(paths))
}

// DryRunKeepSet is a convenience for printing a keep-set (map form).
func DryRunKeepSet(w io.Writer, keepSet map[string]struct{}) {
	paths := make([]string, 0, len(keepSet))
	for p := range keepSet {
		paths = append(paths, p)
	}
	DryRunSet(w, paths)
}

// FormatKeepSet is FormatSet over a keep-set (map form).
func FormatKeepSet(keepSet map[string]struct{}) string {
	paths := make([]string, 0, len(keepSet))
	for p := range keepSet {
		paths = append(paths, p)
	}
	return FormatSet(paths)
}
