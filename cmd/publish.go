// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapstore/pkg/datastore"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <namespace> <name> <version> <path>",
	Short: "Publish a file or directory artifact",
	Long: `Publish uploads a local file as artifact <name> at <version> in <namespace>.
With --dir, <path> is a directory that is packed into a zip archive first.

The bucket "readonly.<namespace>" (or "private.<namespace>" with --private) is
created on first use. A new readonly bucket is made anonymously readable; the
policy of an existing bucket is never changed.`,
	Args: cobra.ExactArgs(4),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	f := publishCmd.Flags()
	f.Bool("private", false, "Publish to the private bucket of the namespace")
	f.Bool("overwrite", false, "Replace an existing artifact")
	f.Bool("dir", false, "Publish a directory as a zip archive")
	f.Bool("float_version", false, "Interpret <version> as a number and format it as stored by float-keyed clients (1 -> 1.0)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	private, _ := cmd.Flags().GetBool("private")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
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

	var res *datastore.PublishResult
	if dir {
		res, err = client.PublishDirectory(cmd.Context(), coord, args[3], overwrite)
	} else {
		res, err = client.Publish(cmd.Context(), coord, args[3], overwrite)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "published %s/%s (%s, %s)\n",
		res.Bucket, res.Key, humanize.IBytes(uint64(res.Size)), res.Digest)
	return nil
}
