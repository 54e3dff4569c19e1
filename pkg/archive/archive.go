// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive packs directory trees into single zip files and unpacks them.
//
// Archives are deterministic: entries are written in lexical walk order with
// a fixed modification time and normalized permissions, so packing the same
// tree twice yields byte-identical output.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
)

// Extension of archive files
const Extension = ".zip"

// epoch is the fixed modification time of every entry (the zip format's minimum).
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Archive is a packed directory on local disk.
type Archive struct {
	Path    string
	Size    int64
	Entries int
}

// Remove deletes the archive file. Missing files are not an error.
func (a *Archive) Remove() error {
	if a == nil || a.Path == "" {
		return nil
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Packer writes archives into a temporary directory.
type Packer struct {
	tempDir string
}

// NewPacker creates a packer staging archives under tempDir.
func NewPacker(tempDir string) (*Packer, error) {
	if tempDir == "" {
		return nil, storeerr.New(storeerr.KindConfiguration, "archive", "temp dir is empty")
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, "archive", err)
	}
	return &Packer{tempDir: tempDir}, nil
}

// TempDir returns the staging directory
func (p *Packer) TempDir() string {
	return p.tempDir
}

// Pack serializes the tree rooted at sourceDir into a new archive file under
// the temp dir. The caller owns the returned archive and must Remove it.
func (p *Packer) Pack(sourceDir string) (_ *Archive, err error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, "pack", err)
	}
	if !info.IsDir() {
		return nil, storeerr.New(storeerr.KindIOFailure, "pack", fmt.Sprintf("%s is not a directory", sourceDir))
	}

	base := filepath.Base(filepath.Clean(sourceDir))
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(sourceDir)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindIOFailure, "pack", err)
	}
	archivePath := filepath.Join(p.tempDir, fmt.Sprintf("%s-%s%s", base, uuid.NewString(), Extension))

	f, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindPackagingFailed, "create_archive", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(archivePath)
		}
	}()

	zw := zip.NewWriter(f)
	entries := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return storeerr.Wrap(storeerr.KindIOFailure, "read_source", err)
			}
			return err
		}
		if path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			_, err := zw.CreateHeader(&zip.FileHeader{
				Name:     name + "/",
				Method:   zip.Store,
				Modified: epoch,
			})
			if err != nil {
				return err
			}
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			if err := addFile(zw, path, name, info); err != nil {
				return err
			}
		case d.Type()&fs.ModeSymlink != 0:
			// Links to files are stored as their target's content. Linked
			// directories are skipped so a cycle cannot loop the walk.
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				logger.Warn().Str("path", path).Msg("skipping symlink to non-regular file")
				return nil
			}
			if err := addFile(zw, path, name, info); err != nil {
				return err
			}
		default:
			logger.Warn().Str("path", path).Str("type", d.Type().String()).Msg("skipping non-regular file")
			return nil
		}
		entries++
		return nil
	})
	if walkErr != nil {
		if storeerr.Classified(walkErr) {
			return nil, walkErr
		}
		return nil, storeerr.Wrap(storeerr.KindPackagingFailed, "pack", walkErr)
	}
	if err = zw.Close(); err != nil {
		return nil, storeerr.Wrap(storeerr.KindPackagingFailed, "finish_archive", err)
	}
	if err = f.Close(); err != nil {
		return nil, storeerr.Wrap(storeerr.KindPackagingFailed, "close_archive", err)
	}

	st, err := os.Stat(archivePath)
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindPackagingFailed, "stat_archive", err)
	}

	return &Archive{Path: archivePath, Size: st.Size(), Entries: entries}, nil
}

func addFile(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	mode := os.FileMode(0o644)
	if info.Mode().Perm()&0o111 != 0 {
		mode = 0o755
	}
	hdr.SetMode(mode)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)
	return err
}
