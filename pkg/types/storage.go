// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"io"
)

// StorageType identifies the backend storage implementation
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // Local filesystem
	StorageTypeS3    StorageType = "s3"    // S3-compatible
)

// BucketPolicy is the access policy assigned to a bucket at creation time.
type BucketPolicy string

const (
	PolicyPublicRead BucketPolicy = "public-read"
	PolicyPrivate    BucketPolicy = "private"
)

// PolicyFor returns the bucket policy that matches a visibility.
func PolicyFor(v Visibility) BucketPolicy {
	if v == Public {
		return PolicyPublicRead
	}
	return PolicyPrivate
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket   string
	Key      string
	Size     int64
	Metadata map[string]string
}

// Backend is the capability interface the datastore needs from an object store.
// Implementations: S3, Local, MemoryStorage.
//
// Errors returned by implementations are classified with storeerr kinds
// (BackendUnavailable, BackendRejected, ObjectNotFound).
type Backend interface {
	// Type returns the storage type
	Type() StorageType

	// BucketExists reports whether the bucket exists
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// CreateBucket creates a bucket with the backend's default (non-public) policy
	CreateBucket(ctx context.Context, bucket string) error

	// SetBucketPolicy replaces the access policy of a bucket
	SetBucketPolicy(ctx context.Context, bucket string, policy BucketPolicy) error

	// ObjectExists reports whether exactly this key exists in the bucket
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)

	// PutObject writes size bytes from data under key, replacing any existing object
	PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, metadata map[string]string) error

	// GetObject opens the object for reading
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *ObjectInfo, error)

	// Close releases any resources
	Close() error
}

// BackendConfig contains configuration for creating a backend storage instance
type BackendConfig struct {
	Type      StorageType `json:"type" mapstructure:"type"`
	Endpoint  string      `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Region    string      `json:"region,omitempty" mapstructure:"region"`
	AccessKey string      `json:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string      `json:"secret_key,omitempty" mapstructure:"secret_key"`
	PathStyle bool        `json:"path_style,omitempty" mapstructure:"path_style"`

	// Path is the root directory of a local backend
	Path string `json:"path,omitempty" mapstructure:"path"`
}
