// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapstore/pkg/datastore"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <namespace> <name> <version>",
	Short: "Fetch an artifact into the local cache",
	Long: `Fetch downloads artifact <name> at <version> from <namespace> into the local
cache and prints its path. With --dir, the artifact is a packed directory that
is unpacked into <cache>/<bucket>/<version>/<name>.`,
	Args: cobra.ExactArgs(3),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	f := fetchCmd.Flags()
	f.Bool("private", false, "Fetch from the private bucket of the namespace")
	f.Bool("dir", false, "Fetch a directory artifact")
	f.Bool("float_version", false, "Interpret <version> as a number and format it as stored by float-keyed clients (1 -> 1.0)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	private, _ := cmd.Flags().GetBool("private")
	dir, _ := cmd.Flags().GetBool("dir")
	floatVersion, _ := cmd.Flags().GetBool("float_version")

	coord, err := parseCoordinate(args, private, floatVersion)
	if err != nil {
		return err
	}

	client, err := newClient(loadClientOpts(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	var res *datastore.FetchResult
	if dir {
		res, err = client.FetchDirectory(cmd.Context(), coord)
	} else {
		res, err = client.Fetch(cmd.Context(), coord)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}
