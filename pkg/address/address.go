// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package address maps artifact coordinates to physical storage locations.
// All functions are pure.
package address

import (
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
)

const (
	PrivatePrefix = "private."
	PublicPrefix  = "readonly."

	// ArchiveSuffix is appended to the object key of directory artifacts
	ArchiveSuffix = ".zip"
)

// Location is the physical address of an artifact in the object store.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return l.Bucket + "/" + l.Key
}

// VisibilityPrefix returns the bucket-name prefix for a visibility tier.
func VisibilityPrefix(v types.Visibility) string {
	if v == types.Private {
		return PrivatePrefix
	}
	return PublicPrefix
}

// BucketName returns the bucket holding all artifacts of a namespace at one visibility.
func BucketName(namespace string, v types.Visibility) string {
	return VisibilityPrefix(v) + namespace
}

// ObjectKey returns "<version>/<name>".
func ObjectKey(name string, version types.Version) string {
	return string(version) + "/" + name
}

// ArchiveKey returns the object key of a directory artifact.
func ArchiveKey(name string, version types.Version) string {
	return ObjectKey(name, version) + ArchiveSuffix
}

// Resolve returns the location of a file artifact.
func Resolve(c types.Coordinate) Location {
	return Location{
		Bucket: BucketName(c.Namespace, c.Visibility),
		Key:    ObjectKey(c.Name, c.Version),
	}
}

// ResolveArchive returns the location of a directory artifact.
func ResolveArchive(c types.Coordinate) Location {
	return Location{
		Bucket: BucketName(c.Namespace, c.Visibility),
		Key:    ArchiveKey(c.Name, c.Version),
	}
}

// UnpackedKey returns the bucket-relative path a directory artifact is
// unpacked into: "<version>/<name>", its archive key without the suffix.
func UnpackedKey(c types.Coordinate) string {
	return ObjectKey(c.Name, c.Version)
}
