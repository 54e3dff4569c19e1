// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package datastore publishes and fetches versioned artifacts.
//
// An artifact is addressed by a types.Coordinate. Its bucket is the namespace
// prefixed by its visibility tier ("readonly." or "private.") and its key is
// "<version>/<name>"; directory artifacts are stored as a zip archive under
// the same key with a ".zip" suffix. Fetched artifacts are mirrored under a
// local cache root at "<cache>/<bucket>/<key>".
package datastore

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapstore/pkg/archive"
	"github.com/LeeDigitalWorks/zapstore/pkg/bucket"
	"github.com/LeeDigitalWorks/zapstore/pkg/cache"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"
)

// Default local roots
const (
	DefaultCacheDir = "~/.zapstore/cache"
	DefaultTempDir  = "~/.zapstore/tmp"
)

// DigestMetadataKey is the object metadata entry holding the payload digest.
const DigestMetadataKey = "sha256"

// OverwriteMode decides what a publish without overwrite does when the
// object already exists.
type OverwriteMode int

const (
	// OverwriteStrict refuses the upload with AlreadyExists.
	OverwriteStrict OverwriteMode = iota
	// OverwriteLegacy logs a warning and uploads anyway.
	OverwriteLegacy
)

func (m OverwriteMode) String() string {
	switch m {
	case OverwriteStrict:
		return "strict"
	case OverwriteLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("OverwriteMode(%d)", int(m))
	}
}

// Config holds the client configuration. It is read-only for the lifetime
// of a Client.
type Config struct {
	Backend       types.Backend
	CacheDir      string
	TempDir       string
	OverwriteMode OverwriteMode
}

// Client publishes artifacts to and fetches them from a backend.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	backend   types.Backend
	buckets   *bucket.Manager
	cache     *cache.LocalCache
	packer    *archive.Packer
	overwrite OverwriteMode
}

// NewClient validates cfg and prepares the cache and temp roots.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Backend == nil {
		return nil, storeerr.New(storeerr.KindConfiguration, "new_client", "backend is required")
	}
	switch cfg.OverwriteMode {
	case OverwriteStrict, OverwriteLegacy:
	default:
		return nil, storeerr.New(storeerr.KindConfiguration, "new_client", fmt.Sprintf("invalid overwrite mode %d", cfg.OverwriteMode))
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	if cfg.TempDir == "" {
		cfg.TempDir = DefaultTempDir
	}

	lc, err := cache.New(utils.ResolvePath(cfg.CacheDir))
	if err != nil {
		return nil, err
	}
	packer, err := archive.NewPacker(utils.ResolvePath(cfg.TempDir))
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{lc.Root(), packer.TempDir()} {
		if err := utils.TestWritableDir(dir); err != nil {
			return nil, storeerr.Wrapf(storeerr.KindIOFailure, "new_client", fmt.Sprintf("%s is not writable", dir), err)
		}
	}
	buckets, err := bucket.NewManager(bucket.Config{Backend: cfg.Backend})
	if err != nil {
		return nil, err
	}

	return &Client{
		backend:   cfg.Backend,
		buckets:   buckets,
		cache:     lc,
		packer:    packer,
		overwrite: cfg.OverwriteMode,
	}, nil
}

// CacheDir returns the absolute cache root.
func (c *Client) CacheDir() string {
	return c.cache.Root()
}

// TempDir returns the absolute temp root.
func (c *Client) TempDir() string {
	return c.packer.TempDir()
}

// Close releases the backend.
func (c *Client) Close() error {
	return c.backend.Close()
}

func validateCoordinate(op string, coord types.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return storeerr.Wrapf(storeerr.KindBackendRejected, op, "invalid coordinate", err)
	}
	return nil
}
