// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache implements the local on-disk mirror of fetched artifacts.
//
// Layout: <root>/<bucket>/<object key>, with object keys mapped to relative
// paths. Files are materialized with write-to-temp, fdatasync and rename, so a
// concurrent reader never observes a partially written cache file. There is
// no cross-process locking and no eviction; repeated fetches overwrite.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	"github.com/opencontainers/go-digest"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
	tempPattern     = ".zapstore-*"
)

// LocalCache maps physical addresses to paths under a cache root.
type LocalCache struct {
	root string
}

// New creates a cache rooted at root, creating the directory if needed.
func New(root string) (*LocalCache, error) {
	if root == "" {
		return nil, storeerr.New(storeerr.KindConfiguration, "cache", "cache root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, "cache", err)
	}
	c := &LocalCache{root: abs}
	if err := c.EnsureDir(abs); err != nil {
		return nil, err
	}
	return c, nil
}

// Root returns the absolute cache root
func (c *LocalCache) Root() string {
	return c.root
}

// Path returns the cache path of an object. Keys containing "/" map to
// nested directories. The result is always strictly inside <root>/<bucket>,
// so objects of one bucket can never land in another bucket's subtree.
func (c *LocalCache) Path(bucket, key string) (string, error) {
	if bucket == "" || bucket == "." || bucket == ".." || strings.ContainsAny(bucket, `/\`) {
		return "", storeerr.New(storeerr.KindIOFailure, "resolve_local_path",
			fmt.Sprintf("invalid cache bucket %q", bucket))
	}
	if err := types.ValidatePath(key); err != nil {
		return "", storeerr.Wrapf(storeerr.KindIOFailure, "resolve_local_path",
			fmt.Sprintf("invalid cache key %q", key), err)
	}

	base := filepath.Join(c.root, bucket)
	p := filepath.Join(base, filepath.FromSlash(key))
	if !within(base, p) {
		return "", storeerr.New(storeerr.KindIOFailure, "resolve_local_path",
			fmt.Sprintf("%s/%s escapes its bucket directory", bucket, key))
	}
	return p, nil
}

// within reports whether p is strictly below base.
func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// EnsureDir creates path and all missing ancestors. It is idempotent and
// fails with IOFailure when a component exists as a non-directory.
func (c *LocalCache) EnsureDir(path string) error {
	if err := os.MkdirAll(path, defaultDirPerm); err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "ensure_dir", err)
	}
	return nil
}

// EnsureParent creates the parent directories of a file path.
func (c *LocalCache) EnsureParent(path string) error {
	return c.EnsureDir(filepath.Dir(path))
}

// WriteResult describes a materialized cache file.
type WriteResult struct {
	Path   string
	Size   int64
	Digest digest.Digest
}

// WriteFile atomically replaces dst with the content of r. Errors from r that
// already carry a storeerr kind are returned unchanged; all others are IOFailure.
func (c *LocalCache) WriteFile(dst string, r io.Reader) (res WriteResult, err error) {
	if err := c.EnsureParent(dst); err != nil {
		return res, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return res, storeerr.Wrap(storeerr.KindIOFailure, "create_temp", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	d := NewDigester()
	if _, err = utils.Copy(io.MultiWriter(tmp, d), r); err != nil {
		tmp.Close()
		if storeerr.Classified(err) {
			return res, err
		}
		return res, storeerr.Wrap(storeerr.KindIOFailure, "write_cache_file", err)
	}
	if err = Fdatasync(tmp); err != nil {
		tmp.Close()
		return res, storeerr.Wrap(storeerr.KindIOFailure, "sync_cache_file", err)
	}
	if err = tmp.Close(); err != nil {
		return res, storeerr.Wrap(storeerr.KindIOFailure, "close_cache_file", err)
	}
	if err = os.Chmod(tmpName, defaultFilePerm); err != nil {
		return res, storeerr.Wrap(storeerr.KindIOFailure, "chmod_cache_file", err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return res, storeerr.Wrap(storeerr.KindIOFailure, "rename_cache_file", err)
	}

	return WriteResult{Path: dst, Size: d.Size(), Digest: d.Digest()}, nil
}
