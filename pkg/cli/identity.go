/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MiSo1289/hdrpkg/pkg/identity"
)

type identityResult struct {
	identity.Identity `yaml:",inline"`

	Reference string          `json:"reference" yaml:"reference"`
	UUID      string          `json:"uuid" yaml:"uuid"`
	Policy    identity.Policy `json:"policy" yaml:"policy"`
	Revision  string          `json:"revision,omitempty" yaml:"revision,omitempty"`
	Canonical string          `json:"canonical" yaml:"canonical"`
}

func identityCmd() *cli.Command {
	return &cli.Command{
		Name:  "identity",
		Usage: "Resolve the library version and print the package identity",
		Description: `Reads the version assignment from the build configuration and computes the
package identity from the recipe name, the version and the build settings.

Header-only recipes ignore --os, --arch, --compiler, --compiler-version and
--build-type: every combination yields the same identity.`,
		Flags: withFlags(
			[]cli.Flag{sourceFlag(), recipeFlag(), requireVersionFlag()},
			settingsFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rec, src, err := loadRecipe(cmd)
			if err != nil {
				return err
			}
			id, err := packageIdentity(cmd, rec, src)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, identityResult{
				Identity:  id,
				Reference: id.Reference(),
				UUID:      id.UUID().String(),
				Policy:    identity.PolicyFor(rec),
				Revision:  sourceRevision(rec, src),
				Canonical: id.Canonical(),
			})
		},
	}
}
