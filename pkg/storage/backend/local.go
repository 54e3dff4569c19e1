// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"
)

func init() {
	Register(types.StorageTypeLocal, NewLocal)
}

const (
	localPolicyDir = ".policies"
	localMetaDir   = ".meta"
)

// Local implements Backend on a local directory tree:
//
//	<root>/<bucket>/<key>            object content
//	<root>/.meta/<bucket>/<key>      object metadata (JSON)
//	<root>/.policies/<bucket>        bucket policy
//
// Valid bucket names never start with '.', so the bookkeeping
// directories cannot collide with buckets.
type Local struct {
	basePath string
}

// NewLocal creates a local filesystem backend
func NewLocal(cfg types.BackendConfig) (types.Backend, error) {
	if cfg.Path == "" {
		return nil, storeerr.New(storeerr.KindConfiguration, "new_local", "path required for local backend")
	}

	for _, dir := range []string{cfg.Path, filepath.Join(cfg.Path, localPolicyDir), filepath.Join(cfg.Path, localMetaDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storeerr.Wrap(storeerr.KindIOFailure, "new_local", err)
		}
	}

	return &Local{basePath: cfg.Path}, nil
}

func (l *Local) Type() types.StorageType {
	return types.StorageTypeLocal
}

func (l *Local) bucketPath(bucket string) string {
	return filepath.Join(l.basePath, bucket)
}

func (l *Local) objectPath(bucket, key string) string {
	return filepath.Join(l.basePath, bucket, filepath.FromSlash(key))
}

func (l *Local) metaPath(bucket, key string) string {
	return filepath.Join(l.basePath, localMetaDir, bucket, filepath.FromSlash(key))
}

func (l *Local) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if ValidateBucketName(bucket) != nil {
		return false, nil
	}
	info, err := os.Stat(l.bucketPath(bucket))
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, storeerr.Wrap(storeerr.KindBackendUnavailable, "bucket_exists", err)
}

func (l *Local) CreateBucket(ctx context.Context, bucket string) error {
	if err := ValidateBucketName(bucket); err != nil {
		return err
	}
	if err := os.MkdirAll(l.bucketPath(bucket), 0o755); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "create_bucket", err)
	}
	return nil
}

func (l *Local) SetBucketPolicy(ctx context.Context, bucket string, policy types.BucketPolicy) error {
	exists, err := l.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return bucketNotFound("set_bucket_policy", bucket)
	}
	p := filepath.Join(l.basePath, localPolicyDir, bucket)
	if err := os.WriteFile(p, []byte(policy), 0o644); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "set_bucket_policy", err)
	}
	return nil
}

// BucketPolicy returns the stored policy of a bucket; buckets without a
// stored policy are private.
func (l *Local) BucketPolicy(bucket string) (types.BucketPolicy, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, localPolicyDir, bucket))
	if errors.Is(err, fs.ErrNotExist) {
		return types.PolicyPrivate, nil
	}
	if err != nil {
		return "", storeerr.Wrap(storeerr.KindBackendUnavailable, "get_bucket_policy", err)
	}
	return types.BucketPolicy(data), nil
}

func (l *Local) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if ValidateKey(key) != nil {
		return false, nil
	}
	info, err := os.Stat(l.objectPath(bucket, key))
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return false, nil
	}
	return false, storeerr.Wrap(storeerr.KindBackendUnavailable, "object_exists", err)
}

func (l *Local) PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, metadata map[string]string) (err error) {
	if err := ValidateKey(key); err != nil {
		return err
	}
	exists, err := l.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return storeerr.New(storeerr.KindBackendRejected, "put_object", "no such bucket: "+bucket)
	}

	path := l.objectPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return storeerr.Wrap(storeerr.KindBackendRejected, "put_object", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name()) // Clean up on error
		}
	}()

	n, err := utils.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		return storeerr.Wrap(storeerr.KindIOFailure, "put_object", err)
	}
	if size >= 0 && n != size {
		tmp.Close()
		return storeerr.New(storeerr.KindBackendRejected, "put_object",
			fmt.Sprintf("content length mismatch: declared %d, read %d", size, n))
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object", err)
	}
	if err = tmp.Close(); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object", err)
	}

	return l.writeMeta(bucket, key, metadata)
}

func (l *Local) writeMeta(bucket, key string, metadata map[string]string) error {
	p := l.metaPath(bucket, key)
	if len(metadata) == 0 {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object_metadata", err)
		}
		return nil
	}
	buf, err := json.Marshal(metadata)
	if err != nil {
		return storeerr.Wrap(storeerr.KindBackendRejected, "put_object_metadata", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object_metadata", err)
	}
	if err := os.WriteFile(p, buf, 0o644); err != nil {
		return storeerr.Wrap(storeerr.KindBackendUnavailable, "put_object_metadata", err)
	}
	return nil
}

func (l *Local) readMeta(bucket, key string) (map[string]string, error) {
	buf, err := os.ReadFile(l.metaPath(bucket, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Wrap(storeerr.KindBackendUnavailable, "get_object_metadata", err)
	}
	var md map[string]string
	if err := json.Unmarshal(buf, &md); err != nil {
		return nil, storeerr.Wrap(storeerr.KindBackendUnavailable, "get_object_metadata", err)
	}
	return md, nil
}

func (l *Local) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *types.ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, nil, err
	}
	exists, err := l.BucketExists(ctx, bucket)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, bucketNotFound("get_object", bucket)
	}

	f, err := os.Open(l.objectPath(bucket, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, keyNotFound("get_object", bucket, key)
		}
		return nil, nil, storeerr.Wrap(storeerr.KindBackendUnavailable, "get_object", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, storeerr.Wrap(storeerr.KindBackendUnavailable, "get_object", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, keyNotFound("get_object", bucket, key)
	}
	md, err := l.readMeta(bucket, key)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, &types.ObjectInfo{
		Bucket:   bucket,
		Key:      key,
		Size:     info.Size(),
		Metadata: md,
	}, nil
}

func (l *Local) Close() error {
	return nil
}
