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

// Package prune deletes every file under a dependency root that the
// graph resolver's keep-set did not mark as reachable.
package prune

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/globutil"
)

// maxConcurrentDeletes bounds the worker pool used for file deletion,
// matching the fixed fan-out the teacher's transitive-dependency walker
// uses for node_modules traversal.
const maxConcurrentDeletes = 10

// Result reports one file's deletion outcome.
type Result struct {
	Path string
	Err  error
}

// Reporter receives progress lines as the pruner works. Both arguments
// are pre-formatted per spec.md §6's output contract.
type Reporter interface {
	Removing(path string)
	Removed(path string)
	FailedToRemove(path string, err error)
}

// Pruner is the graph-driven strategy: it deletes files under the
// dependency root that are absent from KeepSet, never touching
// basenamed "package.json" files. node_modules directories elsewhere
// under ProjectRoot are not enumerated.
type Pruner struct {
	fs          fs.FileSystem
	projectRoot string
	depRoot     string
	keepSet     map[string]struct{}
	reporter    Reporter
}

// New constructs a graph-driven Pruner. keepSet holds canonical paths,
// as produced by graph.Visitor.Run.
func New(fsys fs.FileSystem, projectRoot, depRoot string, keepSet map[string]struct{}, reporter Reporter) *Pruner {
	return &Pruner{
		fs:          fsys,
		projectRoot: projectRoot,
		depRoot:     depRoot,
		keepSet:     keepSet,
		reporter:    reporter,
	}
}

// Candidates enumerates every file beneath the dependency root that
// would be deleted by Run, without deleting anything.
func (p *Pruner) Candidates() ([]string, error) {
	entries, err := globutil.EnumerateDependencyRoot(p.depRoot)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		if p.shouldDelete(entry) {
			out = append(out, entry)
		}
	}
	sort.Strings(out)
	return out, nil
}

// shouldDelete applies steps 2-4 of spec.md §4.4: regular files only,
// not in the keep-set, and never a package.json.
func (p *Pruner) shouldDelete(path string) bool {
	stat, err := p.fs.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return false
	}
	if filepath.Base(path) == "package.json" {
		return false
	}
	canon, err := p.fs.Realpath(path)
	if err != nil {
		return false
	}
	if _, kept := p.keepSet[canon]; kept {
		return false
	}
	return true
}

// Run enumerates the dependency root, deletes every file not in the
// keep-set, then removes directories that became empty as a result.
// Garbage is deleted concurrently (a bounded worker pool), but
// enumeration and the final empty-directory sweep are sequential.
func (p *Pruner) Run() ([]Result, error) {
	candidates, err := p.Candidates()
	if err != nil {
		return nil, err
	}

	results := p.deleteConcurrently(candidates)

	if err := p.removeEmptyDirs(); err != nil {
		return results, err
	}

	return results, nil
}

func (p *Pruner) deleteConcurrently(paths []string) []Result {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, maxConcurrentDeletes)
		results = make([]Result, 0, len(paths))
	)

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if p.reporter != nil {
				p.reporter.Removing(path)
			}

			err := p.fs.Remove(path)

			mu.Lock()
			results = append(results, Result{Path: path, Err: err})
			mu.Unlock()

			if p.reporter == nil {
				return
			}
			if err != nil {
				p.reporter.FailedToRemove(path, err)
			} else {
				p.reporter.Removed(path)
			}
		}(path)
	}

	wg.Wait()
	return results
}

// removeEmptyDirs walks the project root bottom-up, removing any
// directory that has become empty. The pass is post-order: pruneEmptyDir
// recurses into children before deciding whether a directory is empty.
func (p *Pruner) removeEmptyDirs() error {
	_, err := p.pruneEmptyDir(p.projectRoot)
	return err
}

// pruneEmptyDir recursively removes empty subdirectories of dir and
// reports whether dir itself is now empty (and thus a candidate for
// removal by its own parent). The project root itself is never removed.
func (p *Pruner) pruneEmptyDir(dir string) (empty bool, err error) {
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return false, err
	}

	remaining := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			childEmpty, err := p.pruneEmptyDir(path)
			if err != nil {
				return false, err
			}
			if childEmpty {
				if err := p.fs.Remove(path); err != nil {
					return false, err
				}
				continue
			}
		}
		remaining++
	}

	return remaining == 0, nil
}

// AmbientTargets returns the fixed set of ambient cache directories and
// lockfiles spec.md §6 says are always deleted, regardless of the
// keep-set.
func AmbientTargets(projectRoot string) []string {
	home, _ := os.UserHomeDir()
	var targets []string
	if home != "" {
		targets = append(targets,
			filepath.Join(home, ".npm"),
			filepath.Join(home, ".pnpm-state"),
			filepath.Join(home, ".local", "share", "pnpm"),
		)
	}
	targets = append(targets,
		filepath.Join(projectRoot, "package-lock.json"),
		filepath.Join(projectRoot, "yarn.lock"),
		filepath.Join(projectRoot, "pnpm-lock.yaml"),
	)
	return targets
}

// RemoveAmbientTargets deletes every path AmbientTargets returns that
// exists, reporting each through reporter. Directories are removed
// recursively; a missing target is not an error.
func RemoveAmbientTargets(fsys fs.FileSystem, projectRoot string, reporter Reporter) []Result {
	var results []Result
	for _, target := range AmbientTargets(projectRoot) {
		if !fsys.Exists(target) {
			continue
		}
		if reporter != nil {
			reporter.Removing(target)
		}
		err := removeAll(fsys, target)
		results = append(results, Result{Path: target, Err: err})
		if reporter == nil {
			continue
		}
		if err != nil {
			reporter.FailedToRemove(target, err)
		} else {
			reporter.Removed(target)
		}
	}
	return results
}

// removeAll removes path, recursing into directories one level at a
// time since fs.FileSystem exposes Remove (single entry) rather than
// os.RemoveAll.
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
