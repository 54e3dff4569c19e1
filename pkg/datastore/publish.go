// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/address"
	"github.com/LeeDigitalWorks/zapstore/pkg/cache"
	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/metrics"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"
)

const (
	kindFile      = "file"
	kindDirectory = "directory"
)

// PublishResult describes an uploaded artifact.
type PublishResult struct {
	Coordinate types.Coordinate
	Bucket     string
	Key        string
	Size       int64
	Digest     digest.Digest
	// BucketCreated is set when this publish provisioned the bucket.
	BucketCreated bool
	// Replaced is set when an existing object was overwritten.
	Replaced bool
}

// Publish uploads the file at path as the artifact coord.
//
// If the object exists and overwrite is false, the outcome depends on the
// client's OverwriteMode: strict returns AlreadyExists without uploading,
// legacy logs a warning and uploads anyway. Backend failures are returned
// as PublishFailed wrapping the classified cause.
func (c *Client) Publish(ctx context.Context, coord types.Coordinate, path string, overwrite bool) (*PublishResult, error) {
	const op = "publish"
	if err := validateCoordinate(op, coord); err != nil {
		return nil, err
	}

	start := time.Now()
	loc := address.Resolve(coord)
	ctx, log := operationLogger(ctx, op, coord, loc)

	res, err := c.upload(ctx, op, coord, loc, path, overwrite)
	recordPublish(kindFile, coord, res, err, start)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		return nil, err
	}

	log.Info().
		Str("size", humanize.IBytes(uint64(res.Size))).
		Str("digest", res.Digest.String()).
		Dur("elapsed", time.Since(start)).
		Msg("published artifact")
	return res, nil
}

// PublishDirectory packs dir into an archive in the temp root and uploads it
// under the archive key of coord. The temporary archive is removed on every
// exit path. Packing failures are returned as PackagingFailed.
func (c *Client) PublishDirectory(ctx context.Context, coord types.Coordinate, dir string, overwrite bool) (*PublishResult, error) {
	const op = "publish_directory"
	if err := validateCoordinate(op, coord); err != nil {
		return nil, err
	}

	start := time.Now()
	loc := address.ResolveArchive(coord)
	ctx, log := operationLogger(ctx, op, coord, loc)

	res, err := c.publishDirectory(ctx, op, coord, loc, dir, overwrite, log)
	recordPublish(kindDirectory, coord, res, err, start)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		return nil, err
	}

	log.Info().
		Str("size", humanize.IBytes(uint64(res.Size))).
		Str("digest", res.Digest.String()).
		Dur("elapsed", time.Since(start)).
		Msg("published directory artifact")
	return res, nil
}

func (c *Client) publishDirectory(ctx context.Context, op string, coord types.Coordinate, loc address.Location, dir string, overwrite bool, log *zerolog.Logger) (*PublishResult, error) {
	a, err := c.packer.Pack(dir)
	if err != nil {
		if storeerr.IsKind(err, storeerr.KindPackagingFailed) {
			return nil, err
		}
		return nil, storeerr.Wrapf(storeerr.KindPackagingFailed, op, "pack "+dir, err)
	}
	defer func() {
		if rmErr := a.Remove(); rmErr != nil {
			log.Warn().Err(rmErr).Str("archive", a.Path).Msg("failed to remove temporary archive")
		}
	}()

	log.Debug().
		Str("archive", a.Path).
		Int("entries", a.Entries).
		Str("size", humanize.IBytes(uint64(a.Size))).
		Msg("packed directory")

	return c.upload(ctx, op, coord, loc, a.Path, overwrite)
}

// upload runs the shared part of both publish variants: provision the
// bucket, apply the overwrite policy, then put the file.
func (c *Client) upload(ctx context.Context, op string, coord types.Coordinate, loc address.Location, path string, overwrite bool) (*PublishResult, error) {
	log := logger.Ctx(ctx)

	f, err := os.Open(path)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, op, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, op, err)
	}
	if !info.Mode().IsRegular() {
		return nil, storeerr.New(storeerr.KindIOFailure, op, fmt.Sprintf("%s is not a regular file", path))
	}

	dg, size, err := cache.DigestFile(path)
	if err != nil {
		return nil, err
	}

	created, err := c.buckets.Ensure(ctx, loc.Bucket, coord.Visibility)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindPublishFailed, op, err)
	}

	exists, err := c.backend.ObjectExists(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindPublishFailed, op, backendError("object_exists", err))
	}
	if exists && !overwrite {
		if c.overwrite == OverwriteStrict {
			return nil, storeerr.New(storeerr.KindAlreadyExists, op,
				fmt.Sprintf("%s already exists, publish with overwrite to replace it", loc))
		}
		log.Warn().Msg("artifact already exists, uploading anyway")
	}

	metadata := map[string]string{DigestMetadataKey: dg.Encoded()}
	if err := c.backend.PutObject(ctx, loc.Bucket, loc.Key, f, size, metadata); err != nil {
		return nil, storeerr.Wrap(storeerr.KindPublishFailed, op, backendError("put_object", err))
	}

	return &PublishResult{
		Coordinate:    coord,
		Bucket:        loc.Bucket,
		Key:           loc.Key,
		Size:          size,
		Digest:        dg,
		BucketCreated: created,
		Replaced:      exists,
	}, nil
}

// operationLogger attaches a logger carrying the operation id and address to ctx.
func operationLogger(ctx context.Context, op string, coord types.Coordinate, loc address.Location) (context.Context, *zerolog.Logger) {
	l := logger.Ctx(ctx).With().
		Str("op", op).
		Str("op_id", uuid.NewString()).
		Str("bucket", loc.Bucket).
		Str("key", loc.Key).
		Str("visibility", coord.Visibility.String()).
		Logger()
	return logger.WithLogger(ctx, &l), &l
}

// backendError keeps classified errors and treats the rest as transport failures.
func backendError(op string, err error) error {
	if storeerr.Classified(err) {
		return err
	}
	return storeerr.Wrap(storeerr.KindBackendUnavailable, op, err)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case storeerr.IsKind(err, storeerr.KindAlreadyExists):
		return metrics.ResultExists
	default:
		return metrics.ResultError
	}
}

func recordPublish(kind string, coord types.Coordinate, res *PublishResult, err error, start time.Time) {
	var size int64
	if res != nil {
		size = res.Size
	}
	metrics.RecordPublish(kind, coord.Visibility.String(), resultLabel(err), size, time.Since(start).Seconds())
}
