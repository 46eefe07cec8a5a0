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

	ts "github.com/tree-sitter/go-tree-sitter"
)

// extractSpecifiers parses content and returns every (name, is_cjs) pair
// found at the AST sites the visitor recognizes. Parse errors are not
// returned as an error: tree-sitter always produces a tree (possibly
// with ERROR nodes), which is walked as-is per the "partial syntax trees
// are used" failure semantics.
func extractSpecifiers(content []byte) ([]CollectedSpecifier, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}

	parser := getParser()
	defer putParser(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("graph: parser produced no tree")
	}
	defer tree.Close()

	query, err := qm.Query("specifiers")
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, tree.RootNode(), content)

	var out []CollectedSpecifier
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		// Each match corresponds to exactly one alternative in the query
		// file; gather its captures by name before dispatching, since the
		// generic call-expression alternatives need more than one capture
		// to decide whether they're a require()/require.resolve()/
		// import.meta.resolve() site at all.
		captures := make(map[string]string, len(match.Captures))
		for _, c := range match.Captures {
			captures[captureNames[c.Index]] = c.Node.Utf8Text(content)
		}

		switch {
		case captures["import.spec"] != "":
			out = append(out, CollectedSpecifier{Name: captures["import.spec"], IsCJS: false})

		case captures["reexport.spec"] != "":
			out = append(out, CollectedSpecifier{Name: captures["reexport.spec"], IsCJS: false})

		case captures["dynamicImport.spec"] != "":
			out = append(out, CollectedSpecifier{Name: captures["dynamicImport.spec"], IsCJS: false})

		case captures["call.identCallee"] == "require":
			out = append(out, CollectedSpecifier{Name: captures["call.arg"], IsCJS: true})

		case captures["call.memberObject"] == "require" && captures["call.memberProperty"] == "resolve":
			out = append(out, CollectedSpecifier{Name: captures["call.arg"], IsCJS: true})

		case captures["call.metaProperty"] == "resolve":
			// import.meta.resolve("S") -- captures["call.metaObject"] holds
			// the `import.meta` meta_property node's text ("import.meta").
			out = append(out, CollectedSpecifier{Name: captures["call.arg"], IsCJS: false})
		}
	}

	return out, nil
}
