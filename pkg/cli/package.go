/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/urfave/cli/v3"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/packaging"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
)

func stagingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dest",
			Aliases: []string{"d"},
			Usage:   "Directory the package is staged into",
		},
		&cli.StringFlag{
			Name:  "glob",
			Usage: "Header pattern (default: from recipe)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Pattern removed from the header selection (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "no-checksums",
			Usage: "Do not write checksums.txt",
		},
	}
}

// packageSummary is the rendered outcome of a staging run.
type packageSummary struct {
	Identity  identity.Identity `json:"identity" yaml:"identity"`
	Reference string            `json:"reference" yaml:"reference"`
	Revision  string            `json:"revision,omitempty" yaml:"revision,omitempty"`
	Dest      string            `json:"dest" yaml:"dest"`
	Result    *packaging.Result `json:"result" yaml:"result"`
}

// stagePackage computes the identity of the package built from src and
// stages it into dest.
func stagePackage(ctx context.Context, cmd *cli.Command, rec *recipe.Recipe, src, dest string) (*packageSummary, error) {
	if dest == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "package destination is required (--dest)")
	}
	dest, err := filepath.Abs(dest)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid package destination", err)
	}

	id, err := packageIdentity(cmd, rec, src)
	if err != nil {
		return nil, err
	}
	revision := sourceRevision(rec, src)

	glob := rec.Spec.Package.Glob
	if g := cmd.String("glob"); g != "" {
		glob = g
	}

	// the build tree holds generated and fetched headers that are not part
	// of the library
	exclude := append(cmd.StringSlice("exclude"), path.Join(filepath.ToSlash(buildDir(cmd, rec)), "**"))

	res, err := packaging.Stage(ctx, packaging.Options{
		SourceRoot: src,
		OutputRoot: dest,
		Glob:       glob,
		Exclude:    exclude,
		Checksums:  !cmd.Bool("no-checksums"),
		Manifest:   packaging.NewManifest(rec, id, revision),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("package staged",
		"reference", id.Reference(),
		"dest", dest,
		"files", len(res.Files),
		"copied", res.Copied)

	return &packageSummary{
		Identity:  id,
		Reference: id.Reference(),
		Revision:  revision,
		Dest:      dest,
		Result:    res,
	}, nil
}

func packageCmd() *cli.Command {
	return &cli.Command{
		Name:  "package",
		Usage: "Stage the public headers into a package directory",
		Description: `Copies every header matching the recipe glob into --dest, preserving paths
relative to the source root, and writes package.yaml and checksums.txt.

Staging is additive and idempotent: existing files in --dest are never
removed and unchanged headers are not rewritten.`,
		Flags: withFlags(
			[]cli.Flag{sourceFlag(), recipeFlag(), requireVersionFlag()},
			stagingFlags(),
			[]cli.Flag{buildDirFlag()},
			settingsFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rec, src, err := loadRecipe(cmd)
			if err != nil {
				return err
			}
			summary, err := stagePackage(ctx, cmd, rec, src, cmd.String("dest"))
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, summary)
		},
	}
}
