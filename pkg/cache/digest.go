// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/hex"
	"hash"
	"os"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	"github.com/minio/sha256-simd"
	"github.com/opencontainers/go-digest"
)

// Digester computes the sha256 digest and size of everything written to it.
type Digester struct {
	h hash.Hash
	n int64
}

func NewDigester() *Digester {
	return &Digester{h: sha256.New()}
}

func (d *Digester) Write(p []byte) (int, error) {
	n, _ := d.h.Write(p)
	d.n += int64(n)
	return n, nil
}

// Digest returns the digest in "sha256:<hex>" form
func (d *Digester) Digest() digest.Digest {
	return digest.NewDigestFromEncoded(digest.SHA256, hex.EncodeToString(d.h.Sum(nil)))
}

// Size returns the number of bytes written
func (d *Digester) Size() int64 {
	return d.n
}

// DigestFile hashes the file at path. Failures are IOFailure.
func DigestFile(path string) (digest.Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, storeerr.Wrap(storeerr.KindIOFailure, "digest_file", err)
	}
	defer f.Close()

	d := NewDigester()
	if _, err := utils.Copy(d, f); err != nil {
		return "", 0, storeerr.Wrap(storeerr.KindIOFailure, "digest_file", err)
	}
	return d.Digest(), d.Size(), nil
}
