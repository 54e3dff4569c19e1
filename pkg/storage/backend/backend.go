// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend provides object storage backend implementations.
// All backends implement types.Backend.
package backend

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
)

// Registry holds registered backend factories
var (
	registryMu sync.RWMutex
	registry   = make(map[types.StorageType]Factory)
)

// Factory creates a Backend from config
type Factory func(cfg types.BackendConfig) (types.Backend, error)

// Register adds a factory for a storage type
func Register(t types.StorageType, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = f
}

// New creates a Backend from config
func New(cfg types.BackendConfig) (types.Backend, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, storeerr.New(storeerr.KindConfiguration, "new_backend",
			fmt.Sprintf("unknown storage type: %s", cfg.Type))
	}
	return f(cfg)
}

// Types returns the registered storage types in sorted order
func Types() []types.StorageType {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]types.StorageType, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

var bucketNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidateBucketName applies S3 bucket naming rules. Backends that do not
// enforce naming themselves use it to reject names an S3 service would.
func ValidateBucketName(name string) error {
	if !bucketNameRe.MatchString(name) {
		return storeerr.New(storeerr.KindBackendRejected, "validate_bucket", fmt.Sprintf("invalid bucket name %q", name))
	}
	if strings.Contains(name, "..") || strings.Contains(name, ".-") || strings.Contains(name, "-.") {
		return storeerr.New(storeerr.KindBackendRejected, "validate_bucket", fmt.Sprintf("invalid bucket name %q", name))
	}
	return nil
}

// ValidateKey rejects empty keys and keys that are not clean relative paths.
func ValidateKey(key string) error {
	if err := types.ValidatePath(key); err != nil {
		return storeerr.Wrapf(storeerr.KindBackendRejected, "validate_key", fmt.Sprintf("invalid object key %q", key), err)
	}
	return nil
}

func bucketNotFound(op, bucket string) error {
	return storeerr.New(storeerr.KindObjectNotFound, op, fmt.Sprintf("no such bucket: %s", bucket))
}

func keyNotFound(op, bucket, key string) error {
	return storeerr.New(storeerr.KindObjectNotFound, op, fmt.Sprintf("no such key: %s/%s", bucket, key))
}

func copyMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
