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

// Package minify is the interface boundary to an external minifier,
// invoked by the pruner after deletion to rewrite surviving files
// in place.
package minify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Minifier rewrites content from path, or returns it unchanged if the
// extension isn't one it knows how to minify.
type Minifier interface {
	Minify(path string, content []byte) ([]byte, error)
}

// ESBuildMinifier minifies JS/CJS/MJS through esbuild's Transform API
// and compacts JSON via a parse/re-marshal round trip. Any other
// extension is passed through unchanged.
type ESBuildMinifier struct{}

// New constructs an ESBuildMinifier.
func New() *ESBuildMinifier {
	return &ESBuildMinifier{}
}

// Minify implements Minifier.
func (m *ESBuildMinifier) Minify(path string, content []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return minifyJS(path, content)
	case ".json":
		return minifyJSON(content)
	default:
		return content, nil
	}
}

func minifyJS(path string, content []byte) ([]byte, error) {
	result := api.Transform(string(content), api.TransformOptions{
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcefile:        path,
		Loader:            api.LoaderJS,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("minify: %s: %s", path, result.Errors[0].Text)
	}
	return result.JS, nil
}

func minifyJSON(content []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("minify: invalid JSON: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("minify: re-encoding JSON: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
