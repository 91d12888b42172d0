/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
	"github.com/MiSo1289/hdrpkg/pkg/resolver"
	"github.com/MiSo1289/hdrpkg/pkg/scm"
	"github.com/MiSo1289/hdrpkg/pkg/serializer"
)

// Flags are built per command; urfave flag values carry parse state and
// must not be shared between commands.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the command result to this file instead of stdout",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Result format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("HDRPKG_FORMAT"),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Value:   ".",
		Usage:   "Root of the library source tree",
		Sources: cli.EnvVars("HDRPKG_SOURCE"),
	}
}

func recipeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "recipe",
		Aliases: []string{"r"},
		Usage:   "Recipe file (default: recipe.yaml in the source tree, else the built-in recipe)",
		Sources: cli.EnvVars("HDRPKG_RECIPE"),
	}
}

func requireVersionFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "require-version",
		Usage: "Fail when the build configuration cannot be read instead of using an unknown version",
	}
}

func storeRootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "store",
		Usage:   "Package store root (default: $XDG_CACHE_HOME/hdrpkg/packages)",
		Sources: cli.EnvVars("HDRPKG_STORE"),
	}
}

// settingsFlags select the build axes of the package identity. Header-only
// recipes ignore them.
func settingsFlags() []cli.Flag {
	host := identity.SettingsFromHost()
	return []cli.Flag{
		&cli.StringFlag{Name: "os", Value: host.OS, Usage: "Target operating system"},
		&cli.StringFlag{Name: "arch", Value: host.Arch, Usage: "Target architecture"},
		&cli.StringFlag{Name: "compiler", Usage: "Compiler name", Sources: cli.EnvVars("HDRPKG_COMPILER")},
		&cli.StringFlag{Name: "compiler-version", Usage: "Compiler version", Sources: cli.EnvVars("HDRPKG_COMPILER_VERSION")},
		buildTypeFlag(),
	}
}

func buildTypeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "build-type",
		Usage:   "Build type (e.g., Release, Debug)",
		Sources: cli.EnvVars("CMAKE_BUILD_TYPE"),
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func settingsFromCmd(cmd *cli.Command) identity.Settings {
	return identity.Settings{
		OS:              cmd.String("os"),
		Arch:            cmd.String("arch"),
		Compiler:        cmd.String("compiler"),
		CompilerVersion: cmd.String("compiler-version"),
		BuildType:       cmd.String("build-type"),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

// writeResult serializes v to --output (or stdout) in --format.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	w, err := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	if err != nil {
		return err
	}
	return serializer.SerializeAndClose(ctx, w, v)
}

// loadRecipe returns the recipe for the command and the absolute source root.
func loadRecipe(cmd *cli.Command) (*recipe.Recipe, string, error) {
	src, err := filepath.Abs(cmd.String("source"))
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid source path", err)
	}
	rec, err := recipe.LoadOrDefault(cmd.String("recipe"), src)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("recipe loaded", "name", rec.Metadata.Name, "source", src)
	return rec, src, nil
}

// resolveVersion reads the version the way a build run does: an unreadable
// configuration gives an unknown version unless required.
func resolveVersion(rec *recipe.Recipe, src string, require bool) (resolver.Version, error) {
	path := rec.VersionFilePath(src)
	if require {
		return resolver.Resolve(path, rec.Spec.Version.Variable)
	}
	return resolver.ResolveBestEffort(path, rec.Spec.Version.Variable)
}

// packageIdentity computes the identity of the package built from src.
func packageIdentity(cmd *cli.Command, rec *recipe.Recipe, src string) (identity.Identity, error) {
	v, err := resolveVersion(rec, src, cmd.Bool("require-version"))
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Compute(rec.Metadata.Clone(), v.String(), settingsFromCmd(cmd), identity.PolicyFor(rec)), nil
}

// sourceRevision returns the recipe revision, or "" when the recipe does not
// track one or the source tree is not under git.
func sourceRevision(rec *recipe.Recipe, src string) string {
	if rec.Spec.RevisionMode != recipe.RevisionModeSCM {
		return ""
	}
	rev, err := scm.Describe(src)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			slog.Debug("source tree has no git revision", "source", src)
		} else {
			slog.Warn("failed to read source revision", "source", src, "error", err)
		}
		return ""
	}
	return rev.String()
}
