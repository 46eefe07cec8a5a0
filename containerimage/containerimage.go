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

// Package containerimage is the interface boundary to an external
// container-image assembler: given a pruned project tree, it appends a
// layer built from that tree onto a source image. This repo only needs
// the boundary, not the feature in depth.
package containerimage

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/daemon"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
)

// Assembler builds a container image by layering a pruned project tree
// on top of an existing source image.
type Assembler interface {
	Build(ctx context.Context, sourceImageRef, layerRoot string) (v1.Image, error)
}

// CraneAssembler backs Assembler with go-containerregistry: it pulls
// sourceImageRef, tars up layerRoot as a single new layer, and appends
// it to the base image's layer list.
type CraneAssembler struct{}

// New constructs a CraneAssembler.
func New() *CraneAssembler {
	return &CraneAssembler{}
}

// Build implements Assembler.
func (a *CraneAssembler) Build(ctx context.Context, sourceImageRef, layerRoot string) (v1.Image, error) {
	base, err := crane.Pull(sourceImageRef, crane.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("containerimage: pulling %s: %w", sourceImageRef, err)
	}

	layer, err := tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		return tarGzipDir(layerRoot)
	})
	if err != nil {
		return nil, fmt.Errorf("containerimage: building layer from %s: %w", layerRoot, err)
	}

	image, err := mutate.AppendLayers(base, layer)
	if err != nil {
		return nil, fmt.Errorf("containerimage: appending pruned-tree layer: %w", err)
	}

	return image, nil
}

// tarGzipDir walks root and produces a gzip-compressed tar stream of
// its contents, rooted at "/" inside the layer.
func tarGzipDir(root string) (io.ReadCloser, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}

	return io.NopCloser(&buf), nil
}

// PushToRegistry publishes image to a remote registry reference.
func PushToRegistry(ctx context.Context, ref name.Reference, image v1.Image) error {
	return remote.Write(ref, image, remote.WithContext(ctx))
}

// LoadToDaemon loads image into the local Docker/Podman daemon under ref.
func LoadToDaemon(ref name.Reference, image v1.Image) (string, error) {
	return daemon.Write(ref, image)
}
