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
	"embed"
	"fmt"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

// language is the single tree-sitter grammar this package parses with.
// The TSX variant accepts plain JS/JSX as a degenerate TypeScript file,
// so one grammar covers every SourceKind.
var language = ts.NewLanguage(tsTypescript.LanguageTSX())

var parserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(language); err != nil {
			panic("graph: failed to set typescript language: " + err.Error())
		}
		return parser
	},
}

func getParser() *ts.Parser {
	return parserPool.Get().(*ts.Parser)
}

func putParser(p *ts.Parser) {
	p.Reset()
	parserPool.Put(p)
}

// QueryManager owns the compiled tree-sitter queries used to locate
// specifier sites. It is safe for concurrent read access once built;
// the visitor itself is single-threaded, but tests may share one
// instance across goroutines.
type QueryManager struct {
	mu      sync.Mutex
	closed  bool
	queries map[string]*ts.Query
}

// NewQueryManager compiles the named queries (queries/typescript/<name>.scm).
func NewQueryManager(names ...string) (*QueryManager, error) {
	qm := &QueryManager{queries: make(map[string]*ts.Query)}
	for _, name := range names {
		if err := qm.loadQuery(name); err != nil {
			qm.Close()
			return nil, err
		}
	}
	return qm, nil
}

func (qm *QueryManager) loadQuery(name string) error {
	queryPath := path.Join("queries", "typescript", name+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("graph: reading query %s: %w", queryPath, err)
	}
	query, qerr := ts.NewQuery(language, string(data))
	if qerr != nil {
		return fmt.Errorf("graph: compiling query %s: %w", name, qerr)
	}
	qm.queries[name] = query
	return nil
}

// Close releases compiled query resources. Safe to call multiple times.
func (qm *QueryManager) Close() {
	qm.mu.Lock()
	if qm.closed {
		qm.mu.Unlock()
		return
	}
	qm.closed = true
	queries := qm.queries
	qm.queries = nil
	qm.mu.Unlock()

	for _, q := range queries {
		q.Close()
	}
}

// Query returns a compiled query by name.
func (qm *QueryManager) Query(name string) (*ts.Query, error) {
	q, ok := qm.queries[name]
	if !ok {
		return nil, fmt.Errorf("graph: query not found: %s", name)
	}
	return q, nil
}

var (
	globalQM     *QueryManager
	globalQMOnce sync.Once
	globalQMErr  error
)

// GetQueryManager returns the process-wide QueryManager, compiling it on
// first use.
func GetQueryManager() (*QueryManager, error) {
	globalQMOnce.Do(func() {
		globalQM, globalQMErr = NewQueryManager("specifiers")
	})
	return globalQM, globalQMErr
}
