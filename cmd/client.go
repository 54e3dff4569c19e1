// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/LeeDigitalWorks/zapstore/pkg/datastore"
	"github.com/LeeDigitalWorks/zapstore/pkg/storage/backend"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	"github.com/spf13/cobra"
)

const (
	defaultCacheDir = datastore.DefaultCacheDir
	defaultTempDir  = datastore.DefaultTempDir
)

// ClientOpts holds everything needed to build a datastore client
type ClientOpts struct {
	Backend   types.BackendConfig
	CacheDir  string
	TempDir   string
	Overwrite datastore.OverwriteMode
}

func loadClientOpts(cmd *cobra.Command) ClientOpts {
	f := NewFlagLoader(cmd)

	opts := ClientOpts{
		Backend: types.BackendConfig{
			Type:      types.StorageType(f.String("backend")),
			Endpoint:  f.String("endpoint"),
			Region:    f.String("region"),
			AccessKey: f.String("access_key", "access-key"),
			SecretKey: f.String("secret_key", "secret-key"),
			PathStyle: f.Bool("path_style"),
			Path:      utils.ResolvePath(f.String("local_root")),
		},
		CacheDir: f.String("cache_dir"),
		TempDir:  f.String("tmp_dir"),
	}
	if opts.Backend.Type == "" {
		opts.Backend.Type = types.StorageTypeS3
	}
	if f.Bool("legacy_overwrite") {
		opts.Overwrite = datastore.OverwriteLegacy
	}
	return opts
}

func newClient(opts ClientOpts) (*datastore.Client, error) {
	b, err := backend.New(opts.Backend)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", opts.Backend.Type, err)
	}

	client, err := datastore.NewClient(datastore.Config{
		Backend:       b,
		CacheDir:      opts.CacheDir,
		TempDir:       opts.TempDir,
		OverwriteMode: opts.Overwrite,
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	return client, nil
}

// parseCoordinate builds a coordinate from <namespace> <name> <version>.
// With floatVersion the version is read as a number and formatted the way
// float-keyed artifacts were stored ("1" -> "1.0").
func parseCoordinate(args []string, private, floatVersion bool) (types.Coordinate, error) {
	var (
		version types.Version
		err     error
	)
	if floatVersion {
		f, parseErr := strconv.ParseFloat(args[2], 64)
		if parseErr != nil {
			return types.Coordinate{}, fmt.Errorf("invalid version %q: %w", args[2], parseErr)
		}
		version, err = types.VersionFromFloat(f)
	} else {
		version, err = types.ParseVersion(args[2])
	}
	if err != nil {
		return types.Coordinate{}, err
	}

	coord := types.Coordinate{
		Namespace:  args[0],
		Name:       args[1],
		Version:    version,
		Visibility: types.VisibilityFromPrivate(private),
	}
	if err := coord.Validate(); err != nil {
		return types.Coordinate{}, err
	}
	return coord, nil
}
