// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
)

// Unpack recreates the tree stored in archivePath at targetDir, replacing any
// existing content there. Entries are extracted into a staging sibling of
// targetDir first; targetDir is only touched once extraction succeeded, so a
// corrupt archive leaves it unmodified (or absent).
func Unpack(archivePath, targetDir string) (err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storeerr.Wrap(storeerr.KindIOFailure, "open_archive", err)
		}
		return storeerr.Wrapf(storeerr.KindCorruptArchive, "open_archive", archivePath, err)
	}
	defer zr.Close()

	targetDir = filepath.Clean(targetDir)
	parent := filepath.Dir(targetDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "unpack", err)
	}

	staging, err := os.MkdirTemp(parent, ".unpack-*")
	if err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "unpack", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(staging)
		}
	}()

	for _, f := range zr.File {
		if err = extract(f, staging); err != nil {
			return err
		}
	}

	return swapInto(staging, targetDir)
}

func extract(f *zip.File, root string) error {
	if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
		return storeerr.New(storeerr.KindCorruptArchive, "extract", fmt.Sprintf("entry %q escapes target", f.Name))
	}
	dest, err := securejoin.SecureJoin(root, f.Name)
	if err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
	}

	mode := f.Mode()
	switch {
	case mode.IsDir():
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
		}
		return nil
	case !mode.IsRegular():
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
	}

	rc, err := f.Open()
	if err != nil {
		return storeerr.Wrapf(storeerr.KindCorruptArchive, "extract", f.Name, err)
	}
	defer rc.Close()

	perm := os.FileMode(0o644)
	if mode.Perm()&0o111 != 0 {
		perm = 0o755
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
	}

	src := &entryReader{r: rc}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		if src.err != nil {
			return storeerr.Wrapf(storeerr.KindCorruptArchive, "extract", f.Name, err)
		}
		return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
	}
	if err := out.Close(); err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "extract", err)
	}
	return nil
}

// entryReader records read-side failures so they can be told apart from write errors.
type entryReader struct {
	r   io.Reader
	err error
}

func (e *entryReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		e.err = err
	}
	return n, err
}

// swapInto moves staging to target, replacing an existing target directory.
func swapInto(staging, target string) error {
	old := ""
	if _, err := os.Lstat(target); err == nil {
		old = fmt.Sprintf("%s.old-%s", target, uuid.NewString())
		if err := os.Rename(target, old); err != nil {
			return storeerr.Wrap(storeerr.KindIOFailure, "replace_target", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return storeerr.Wrap(storeerr.KindIOFailure, "replace_target", err)
	}

	if err := os.Rename(staging, target); err != nil {
		if old != "" {
			os.Rename(old, target)
		}
		return storeerr.Wrap(storeerr.KindIOFailure, "replace_target", err)
	}
	if old != "" {
		os.RemoveAll(old)
	}
	return nil
}
