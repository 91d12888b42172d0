/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/MiSo1289/hdrpkg/pkg/checksum"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/packaging"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
	"github.com/MiSo1289/hdrpkg/pkg/store"
)

const (
	checksumsVerified = "verified"
	checksumsAbsent   = "absent"
)

// packageCheck is the verified content of a staged package directory.
type packageCheck struct {
	Dir       string              `json:"dir" yaml:"dir"`
	Identity  identity.Identity   `json:"identity" yaml:"identity"`
	Checksums string              `json:"checksums" yaml:"checksums"`
	Manifest  *packaging.Manifest `json:"manifest" yaml:"manifest"`
}

// checkPackage reads the manifest of a staged package, recomputes its
// identity and verifies checksums.txt when present.
func checkPackage(ctx context.Context, dir string) (*packageCheck, error) {
	m, err := packaging.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	id, err := identityFromManifest(m)
	if err != nil {
		return nil, err
	}

	pc := &packageCheck{Dir: dir, Identity: id, Manifest: m, Checksums: checksumsAbsent}
	if _, err := os.Stat(checksum.GetChecksumFilePath(dir)); err == nil {
		if err := checksum.VerifyChecksums(ctx, dir); err != nil {
			return nil, err
		}
		pc.Checksums = checksumsVerified
	}
	return pc, nil
}

// identityFromManifest recomputes the identity a manifest claims.
func identityFromManifest(m *packaging.Manifest) (identity.Identity, error) {
	id := identity.Compute(recipe.Metadata{Name: m.Name}, m.Version, m.Settings,
		identity.Policy{HeaderOnly: m.HeaderOnly})
	if id.ID != m.ID {
		return id, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"package manifest id does not match its name, version and settings",
			map[string]any{"manifest": m.ID, "computed": id.ID})
	}
	return id, nil
}

// storedVersion lists the package ids held for one version.
type storedVersion struct {
	Version string   `json:"version" yaml:"version"`
	IDs     []string `json:"ids" yaml:"ids"`
}

type storeListing struct {
	Root     string          `json:"root" yaml:"root"`
	Name     string          `json:"name" yaml:"name"`
	Versions []storedVersion `json:"versions" yaml:"versions"`
}

func listStore(s *store.Store, name string) (*storeListing, error) {
	versions, err := s.Versions(name)
	if err != nil {
		return nil, err
	}
	l := &storeListing{Root: s.Root, Name: name, Versions: []storedVersion{}}
	for _, v := range versions {
		ids, err := s.IDs(name, v)
		if err != nil {
			return nil, err
		}
		l.Versions = append(l.Versions, storedVersion{Version: v, IDs: ids})
	}
	return l, nil
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Verify a staged package or list stored packages",
		ArgsUsage: "[PACKAGE_DIR]",
		Description: `With a package directory, reads package.yaml, checks that its id matches its
name, version and settings, and verifies checksums.txt.

With --name, lists the versions and ids the package store holds for that
package.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "List stored packages with this name",
			},
			storeRootFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if n := cmd.String("name"); n != "" {
				l, err := listStore(store.New(cmd.String("store")), n)
				if err != nil {
					return err
				}
				return writeResult(ctx, cmd, l)
			}

			if cmd.NArg() != 1 {
				return apperrors.New(apperrors.ErrCodeInvalidRequest,
					"inspect takes a package directory or --name")
			}
			dir, err := filepath.Abs(cmd.Args().First())
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid package directory", err)
			}
			pc, err := checkPackage(ctx, dir)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, pc)
		},
	}
}
