// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
)

// StorageTypeMemory is used for testing
const StorageTypeMemory types.StorageType = "memory"

func init() {
	Register(StorageTypeMemory, func(cfg types.BackendConfig) (types.Backend, error) {
		return NewMemoryStorage(), nil
	})
}

type memObject struct {
	data     []byte
	metadata map[string]string
}

type memBucket struct {
	policy  types.BucketPolicy
	objects map[string]memObject
}

// MemoryStorage is an in-memory backend for testing
type MemoryStorage struct {
	mu      sync.RWMutex
	buckets map[string]*memBucket
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		buckets: make(map[string]*memBucket),
	}
}

func (m *MemoryStorage) Type() types.StorageType {
	return StorageTypeMemory
}

func (m *MemoryStorage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *MemoryStorage) CreateBucket(ctx context.Context, bucket string) error {
	if err := ValidateBucketName(bucket); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; ok {
		return nil
	}
	m.buckets[bucket] = &memBucket{
		policy:  types.PolicyPrivate,
		objects: make(map[string]memObject),
	}
	return nil
}

func (m *MemoryStorage) SetBucketPolicy(ctx context.Context, bucket string, policy types.BucketPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return bucketNotFound("set_bucket_policy", bucket)
	}
	b.policy = policy
	return nil
}

// BucketPolicy returns the policy of a bucket, for assertions in tests.
func (m *MemoryStorage) BucketPolicy(bucket string) (types.BucketPolicy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return "", false
	}
	return b.policy, true
}

func (m *MemoryStorage) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return false, nil
	}
	_, ok = b.objects[key]
	return ok, nil
}

func (m *MemoryStorage) PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, metadata map[string]string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return storeerr.Wrap(storeerr.KindIOFailure, "put_object", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return storeerr.New(storeerr.KindBackendRejected, "put_object", "no such bucket: "+bucket)
	}
	b.objects[key] = memObject{data: buf, metadata: copyMetadata(metadata)}
	return nil
}

func (m *MemoryStorage) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *types.ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.buckets[bucket]
	if !ok {
		return nil, nil, bucketNotFound("get_object", bucket)
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, nil, keyNotFound("get_object", bucket, key)
	}

	info := &types.ObjectInfo{
		Bucket:   bucket,
		Key:      key,
		Size:     int64(len(obj.data)),
		Metadata: copyMetadata(obj.metadata),
	}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets = make(map[string]*memBucket)
	return nil
}
