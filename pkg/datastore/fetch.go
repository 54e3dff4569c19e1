// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/address"
	"github.com/LeeDigitalWorks/zapstore/pkg/archive"
	"github.com/LeeDigitalWorks/zapstore/pkg/metrics"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// FetchResult describes a fetched artifact.
type FetchResult struct {
	Coordinate types.Coordinate
	Bucket     string
	Key        string
	// Path is the cached file, or the unpacked directory for directory artifacts.
	Path string
	Size int64
	// Digest is computed over the downloaded bytes.
	Digest digest.Digest
	// PublishedDigest is the digest recorded at publish time, if any. It is
	// reported, not verified.
	PublishedDigest digest.Digest
}

// Fetch downloads the artifact coord into the cache and returns its path.
// An existing cached copy is replaced atomically.
func (c *Client) Fetch(ctx context.Context, coord types.Coordinate) (*FetchResult, error) {
	const op = "fetch"
	if err := validateCoordinate(op, coord); err != nil {
		return nil, err
	}

	start := time.Now()
	loc := address.Resolve(coord)
	ctx, log := operationLogger(ctx, op, coord, loc)

	res, err := c.fetch(ctx, op, coord, loc)
	recordFetch(kindFile, coord, res, err, start)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		return nil, err
	}

	log.Info().
		Str("path", res.Path).
		Str("size", humanize.IBytes(uint64(res.Size))).
		Dur("elapsed", time.Since(start)).
		Msg("fetched artifact")
	return res, nil
}

func (c *Client) fetch(ctx context.Context, op string, coord types.Coordinate, loc address.Location) (*FetchResult, error) {
	dst, err := c.cache.Path(loc.Bucket, loc.Key)
	if err != nil {
		return nil, err
	}
	if err := c.cache.EnsureParent(dst); err != nil {
		return nil, err
	}
	return c.download(ctx, op, coord, loc, dst)
}

// FetchDirectory downloads the archive of coord into the temp root, unpacks
// it into "<cache>/<bucket>/<version>/<name>" and returns that directory.
// The downloaded archive is removed afterwards. A corrupt archive leaves any
// previously unpacked directory untouched.
func (c *Client) FetchDirectory(ctx context.Context, coord types.Coordinate) (*FetchResult, error) {
	const op = "fetch_directory"
	if err := validateCoordinate(op, coord); err != nil {
		return nil, err
	}

	start := time.Now()
	loc := address.ResolveArchive(coord)
	ctx, log := operationLogger(ctx, op, coord, loc)

	res, err := c.fetchDirectory(ctx, op, coord, loc)
	recordFetch(kindDirectory, coord, res, err, start)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		return nil, err
	}

	log.Info().
		Str("path", res.Path).
		Str("size", humanize.IBytes(uint64(res.Size))).
		Dur("elapsed", time.Since(start)).
		Msg("fetched directory artifact")
	return res, nil
}

func (c *Client) fetchDirectory(ctx context.Context, op string, coord types.Coordinate, loc address.Location) (*FetchResult, error) {
	target, err := c.cache.Path(loc.Bucket, address.UnpackedKey(coord))
	if err != nil {
		return nil, err
	}

	archivePath := filepath.Join(c.packer.TempDir(), "fetch-"+uuid.NewString()+archive.Extension)
	defer os.Remove(archivePath)

	res, err := c.download(ctx, op, coord, loc, archivePath)
	if err != nil {
		return nil, err
	}
	if err := archive.Unpack(archivePath, target); err != nil {
		return nil, err
	}

	res.Path = target
	return res, nil
}

// download streams (bucket, key) into dst through the cache's atomic writer.
func (c *Client) download(ctx context.Context, op string, coord types.Coordinate, loc address.Location, dst string) (*FetchResult, error) {
	body, info, err := c.backend.GetObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, backendError(op, err)
	}
	defer body.Close()

	written, err := c.cache.WriteFile(dst, &backendReader{op: op, r: body})
	if err != nil {
		return nil, err
	}

	res := &FetchResult{
		Coordinate: coord,
		Bucket:     loc.Bucket,
		Key:        loc.Key,
		Path:       written.Path,
		Size:       written.Size,
		Digest:     written.Digest,
	}
	if info != nil {
		if enc, ok := info.Metadata[DigestMetadataKey]; ok {
			res.PublishedDigest = digest.NewDigestFromEncoded(digest.SHA256, enc)
		}
	}
	return res, nil
}

// backendReader classifies errors from a backend response body, so a broken
// download is reported as BackendUnavailable rather than a local IOFailure.
type backendReader struct {
	op string
	r  io.Reader
}

func (b *backendReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF {
		err = backendError(b.op, err)
	}
	return n, err
}

func recordFetch(kind string, coord types.Coordinate, res *FetchResult, err error, start time.Time) {
	var size int64
	if res != nil {
		size = res.Size
	}
	metrics.RecordFetch(kind, coord.Visibility.String(), resultLabel(err), size, time.Since(start).Seconds())
}
