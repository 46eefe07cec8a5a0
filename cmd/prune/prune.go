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

// Package prune provides the prune command for nmt.
package prune

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/google/go-containerregistry/pkg/name"

	"nmt.dev/nmt/config"
	"nmt.dev/nmt/containerimage"
	"nmt.dev/nmt/fs"
	"nmt.dev/nmt/globutil"
	"nmt.dev/nmt/graph"
	"nmt.dev/nmt/internal/output"
	"nmt.dev/nmt/minify"
	"nmt.dev/nmt/packagejson"
	"nmt.dev/nmt/prune"
	"nmt.dev/nmt/resolve"
	"nmt.dev/nmt/staticprune"
)

// Cmd is the prune cobra command: it removes every node_modules file
// not reachable from the given entry points (ast strategy) or matching
// a fixed garbage glob list (static strategy).
var Cmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove unneeded files from node_modules",
	Long: `Prune deletes files under node_modules that are not needed at runtime.

The "ast" strategy parses the module graph starting from --entry and keeps
exactly what is reachable. The "static" strategy deletes files matching a
fixed list of documentation/tooling glob patterns, without any graph
analysis.`,
	Example: `  # Keep only what tests/index.js actually needs
  nmt prune --strategy ast --entry tests/index.js

  # Preview without deleting anything
  nmt prune --strategy ast --entry tests/index.js --dry-run

  # Strip known-garbage files with no graph analysis
  nmt prune --strategy static

  # Layer the pruned tree onto a base image and load it into the local daemon
  nmt prune --strategy ast --entry tests/index.js --docker-image node:20-slim --image-tag myapp:pruned`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("strategy", "", "Pruning strategy: ast or static (required)")
	Cmd.Flags().StringSlice("entry", nil, "Entry point file(s), relative to project root (required for ast strategy)")
	Cmd.Flags().StringSlice("keep", nil, "Additional glob pattern(s) to keep, relative to project root")
	Cmd.Flags().String("node-modules", "", "Dependency root (default: <project root>/node_modules, or nearest ancestor)")
	Cmd.Flags().Bool("dry-run", false, "Print the keep-set (ast) or the files that would be deleted (static) without deleting")
	Cmd.Flags().Bool("minify", false, "Minify surviving files in place after pruning")
	Cmd.Flags().Bool("ambient", true, "Also remove well-known caches and lockfiles (npm/pnpm caches, lockfiles)")
	Cmd.Flags().String("docker-image", "", "Source image ref to layer the pruned project tree onto")
	Cmd.Flags().String("image-tag", "", "Destination tag for the built image (required with --docker-image)")
	Cmd.Flags().Bool("push", false, "Push the built image to a registry instead of loading it into the local daemon")
}

func run(cmd *cobra.Command, args []string) error {
	projectRoot, _ := cmd.Flags().GetString("package")
	strategy, _ := cmd.Flags().GetString("strategy")
	entry, _ := cmd.Flags().GetStringSlice("entry")
	keep, _ := cmd.Flags().GetStringSlice("keep")
	nodeModules, _ := cmd.Flags().GetString("node-modules")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	doMinify, _ := cmd.Flags().GetBool("minify")
	ambient, _ := cmd.Flags().GetBool("ambient")
	dockerImage, _ := cmd.Flags().GetString("docker-image")
	imageTag, _ := cmd.Flags().GetString("image-tag")
	push, _ := cmd.Flags().GetBool("push")

	if dockerImage != "" && imageTag == "" {
		return fmt.Errorf("prune: --image-tag is required with --docker-image")
	}

	osfs := fs.NewOSFileSystem()

	cfg, err := config.Load(osfs, config.Options{
		ProjectRoot: projectRoot,
		DepRoot:     nodeModules,
		EntryPoints: entry,
		KeepGlobs:   keep,
		Strategy:    strategy,
		DryRun:      dryRun,
		Minify:      doMinify,
	})
	if err != nil {
		return err
	}

	reporter := output.NewReporter(os.Stdout)

	switch cfg.Strategy {
	case config.StrategyAST:
		if err := runAST(osfs, cfg, reporter, ambient); err != nil {
			return err
		}
	case config.StrategyStatic:
		if err := runStatic(osfs, cfg, reporter, ambient); err != nil {
			return err
		}
	default:
		return fmt.Errorf("prune: unreachable strategy %q", cfg.Strategy)
	}

	if dockerImage != "" && !cfg.DryRun {
		return buildContainerImage(cmd.Context(), cfg, dockerImage, imageTag, push)
	}
	return nil
}

// buildContainerImage layers the pruned project tree onto sourceImageRef
// and either pushes the result to a registry under imageTag or loads it
// into the local daemon, mirroring minifyKeepSet's post-prune hook.
func buildContainerImage(ctx context.Context, cfg *config.Config, sourceImageRef, imageTag string, push bool) error {
	ref, err := name.ParseReference(imageTag)
	if err != nil {
		return fmt.Errorf("prune: parsing --image-tag %q: %w", imageTag, err)
	}

	assembler := containerimage.New()
	image, err := assembler.Build(ctx, sourceImageRef, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("prune: building container image from %s: %w", sourceImageRef, err)
	}

	if push {
		if err := containerimage.PushToRegistry(ctx, ref, image); err != nil {
			return fmt.Errorf("prune: pushing %s: %w", imageTag, err)
		}
		fmt.Fprintf(os.Stdout, "Pushed: %s\n", imageTag)
		return nil
	}

	id, err := containerimage.LoadToDaemon(ref, image)
	if err != nil {
		return fmt.Errorf("prune: loading %s into local daemon: %w", imageTag, err)
	}
	fmt.Fprintf(os.Stdout, "Loaded: %s (%s)\n", imageTag, id)
	return nil
}

func runAST(osfs fs.FileSystem, cfg *config.Config, reporter *output.Reporter, ambient bool) error {
	keepFiles, err := globutil.ExpandKeepGlobs(cfg.ProjectRoot, cfg.KeepGlobs)
	if err != nil {
		return fmt.Errorf("prune: expanding --keep globs: %w", err)
	}

	adapter := resolve.NewAdapter(osfs, packagejson.NewMemoryCache(), cliLogger{})
	visitor := graph.NewVisitor(osfs, adapter, cliLogger{})

	keepSet, err := visitor.Run(graph.VisitorConfig{
		EntryPoints: cfg.EntryPoints,
		KeepFiles:   keepFiles,
	})
	if err != nil {
		return err
	}

	if cfg.DryRun {
		output.DryRunKeepSet(os.Stdout, keepSet)
		return nil
	}

	p := prune.New(osfs, cfg.ProjectRoot, cfg.DepRoot, keepSet, reporter)
	if _, err := p.Run(); err != nil {
		return err
	}

	if ambient {
		prune.RemoveAmbientTargets(osfs, cfg.ProjectRoot, reporter)
	}

	if cfg.Minify {
		return minifyKeepSet(osfs, keepSet)
	}
	return nil
}

func runStatic(osfs fs.FileSystem, cfg *config.Config, reporter *output.Reporter, ambient bool) error {
	p := staticprune.New(osfs, cfg.DepRoot, reporter)

	if cfg.DryRun {
		candidates, err := p.Candidates()
		if err != nil {
			return err
		}
		output.DryRunSet(os.Stdout, candidates)
		return nil
	}

	if err := p.Run(); err != nil {
		return err
	}

	if ambient {
		prune.RemoveAmbientTargets(osfs, cfg.ProjectRoot, reporter)
	}
	return nil
}

func minifyKeepSet(osfs fs.FileSystem, keepSet map[string]struct{}) error {
	m := minify.New()
	for path := range keepSet {
		content, err := osfs.ReadFile(path)
		if err != nil {
			continue
		}
		minified, err := m.Minify(path, content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: minify %s: %v\n", path, err)
			continue
		}
		if err := osfs.WriteFile(path, minified, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: writing minified %s: %v\n", path, err)
		}
	}
	return nil
}

type cliLogger struct{}

func (cliLogger) Warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func (cliLogger) Debug(format string, args ...any) {}
