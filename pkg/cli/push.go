/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/oci"
	"github.com/MiSo1289/hdrpkg/pkg/store"
)

// pushSummary is the rendered outcome of push.
type pushSummary struct {
	Package   string `json:"package" yaml:"package"`
	Reference string `json:"reference" yaml:"reference"`
	Digest    string `json:"digest" yaml:"digest"`
	Layout    string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// pushOptions holds parsed options for the push command.
type pushOptions struct {
	packageDir  string
	target      *oci.Reference
	layoutDir   string
	plainHTTP   bool
	insecureTLS bool
}

func parsePushOptions(cmd *cli.Command) (*pushOptions, error) {
	ref, err := oci.ParseOutputTarget(cmd.String("target"))
	if err != nil {
		return nil, err
	}
	if !ref.IsOCI {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"push target must be an oci:// reference", map[string]any{"target": cmd.String("target")})
	}
	return &pushOptions{
		packageDir:  cmd.String("package"),
		target:      ref,
		layoutDir:   cmd.String("layout-dir"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}, nil
}

// locatePackage returns the staged package to push: --package when given,
// otherwise the stored package matching the recipe in --source.
func locatePackage(cmd *cli.Command, opts *pushOptions) (string, error) {
	if opts.packageDir != "" {
		return filepath.Abs(opts.packageDir)
	}

	rec, src, err := loadRecipe(cmd)
	if err != nil {
		return "", err
	}
	id, err := packageIdentity(cmd, rec, src)
	if err != nil {
		return "", err
	}
	p, ok := store.New(cmd.String("store")).Lookup(id)
	if !ok {
		return "", apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"package not in store, run create first", map[string]any{"reference": id.Reference()})
	}
	return p, nil
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Publish a staged package to an OCI registry",
		Description: `Packs a staged package directory into an OCI artifact and pushes it.

Without --package the package is taken from the package store, using the
identity of the recipe in --source. Without a tag in --target the tag is
"<version>-<id[:12]>".

Example:
  hdrpkg push --package ./out --target oci://ghcr.io/acme/more_concepts`,
		Flags: withFlags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:    "target",
					Usage:   "Registry target (oci://registry/repository[:tag])",
					Sources: cli.EnvVars("HDRPKG_TARGET"),
				},
				&cli.StringFlag{
					Name:    "package",
					Aliases: []string{"p"},
					Usage:   "Staged package directory (default: from the package store)",
				},
				&cli.StringFlag{
					Name:  "layout-dir",
					Usage: "Keep the OCI image layout in this directory (default: temporary)",
				},
				&cli.BoolFlag{
					Name:  "plain-http",
					Usage: "Use HTTP instead of HTTPS for the registry",
				},
				&cli.BoolFlag{
					Name:  "insecure-tls",
					Usage: "Skip TLS certificate verification",
				},
				sourceFlag(),
				recipeFlag(),
				requireVersionFlag(),
				storeRootFlag(),
			},
			settingsFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parsePushOptions(cmd)
			if err != nil {
				return err
			}
			dir, err := locatePackage(cmd, opts)
			if err != nil {
				return err
			}
			pc, err := checkPackage(ctx, dir)
			if err != nil {
				return err
			}

			ref := opts.target
			if ref.Tag == "" {
				ref = ref.WithTag(oci.DefaultTag(pc.Identity))
			}

			layout := opts.layoutDir
			if layout == "" {
				tmp, err := os.MkdirTemp("", "hdrpkg-oci-")
				if err != nil {
					return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create layout directory", err)
				}
				defer func() {
					if err := os.RemoveAll(tmp); err != nil {
						slog.Warn("failed to remove layout directory", "path", tmp, "error", err)
					}
				}()
				layout = tmp
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.PushTimeout)
			defer cancel()

			m := pc.Manifest
			res, err := oci.PackageAndPush(ctx, oci.OutputConfig{
				SourceDir:   dir,
				OutputDir:   layout,
				Reference:   ref,
				LayerName:   m.Name,
				PlainHTTP:   opts.plainHTTP,
				InsecureTLS: opts.insecureTLS,
				Annotations: oci.Annotations(pc.Identity, m.HeaderOnly, m.Revision, m.Homepage, m.License, m.Description),
			})
			if err != nil {
				return err
			}

			summary := &pushSummary{
				Package:   dir,
				Reference: res.Reference,
				Digest:    res.Digest,
			}
			if opts.layoutDir != "" {
				summary.Layout = res.StorePath
			}
			return writeResult(ctx, cmd, summary)
		},
	}
}
