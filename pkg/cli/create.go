/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/store"
)

// createSummary is the rendered outcome of create.
type createSummary struct {
	Build   *buildSummary   `json:"build,omitempty" yaml:"build,omitempty"`
	Package *packageSummary `json:"package" yaml:"package"`
	Store   *store.Entry    `json:"store" yaml:"store"`
}

func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Build, package and store the library in the local package store",
		Description: `Runs build, stages the package and copies it into the package store under
<store>/<name>/<version>/<id>. A package already stored with identical
content is left untouched.

Without --dest the package is staged in a temporary directory that is
removed once stored.`,
		Flags: withFlags(
			[]cli.Flag{
				sourceFlag(),
				recipeFlag(),
				requireVersionFlag(),
				storeRootFlag(),
				&cli.BoolFlag{
					Name:  "skip-build",
					Usage: "Package the source tree without running cmake",
				},
			},
			buildToolFlags(),
			stagingFlags(),
			settingsFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rec, src, err := loadRecipe(cmd)
			if err != nil {
				return err
			}

			summary := &createSummary{}
			if !cmd.Bool("skip-build") {
				summary.Build, err = runBuild(ctx, cmd, rec, src)
				if err != nil {
					return err
				}
			}

			dest := cmd.String("dest")
			if dest == "" {
				tmp, err := os.MkdirTemp("", "hdrpkg-package-")
				if err != nil {
					return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create staging directory", err)
				}
				defer func() {
					if err := os.RemoveAll(tmp); err != nil {
						slog.Warn("failed to remove staging directory", "path", tmp, "error", err)
					}
				}()
				dest = tmp
			}

			summary.Package, err = stagePackage(ctx, cmd, rec, src, dest)
			if err != nil {
				return err
			}

			summary.Store, err = store.New(cmd.String("store")).Put(ctx, summary.Package.Identity, summary.Package.Dest)
			if err != nil {
				return err
			}

			return writeResult(ctx, cmd, summary)
		},
	}
}
