// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package bucket provisions buckets and assigns their access policy.
//
// A bucket moves from absent to provisioned exactly once. The policy is
// chosen at that moment from the requested visibility; later calls for an
// existing bucket do not touch it, whatever visibility they ask for.
package bucket

import (
	"context"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/metrics"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"
)

// Config holds the dependencies of a Manager
type Config struct {
	Backend types.Backend
}

// Manager implements create-if-absent bucket provisioning
type Manager struct {
	backend types.Backend
}

// NewManager creates a Manager
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Backend == nil {
		return nil, storeerr.New(storeerr.KindConfiguration, "new_bucket_manager", "backend is required")
	}
	return &Manager{backend: cfg.Backend}, nil
}

// Ensure makes sure bucket exists. It reports whether this call created it.
//
// A new public bucket gets the anonymous read-only policy; a new private
// bucket keeps the backend default. The visibility of an existing bucket
// is left as is. A failure after creation leaves the bucket in place.
func (m *Manager) Ensure(ctx context.Context, bucket string, visibility types.Visibility) (bool, error) {
	log := logger.Ctx(ctx).With().
		Str("bucket", bucket).
		Str("visibility", visibility.String()).
		Logger()

	exists, err := m.backend.BucketExists(ctx, bucket)
	if err != nil {
		return false, backendError("bucket_exists", err)
	}
	if exists {
		log.Debug().Msg("bucket exists, visibility unchanged")
		return false, nil
	}

	if err := m.backend.CreateBucket(ctx, bucket); err != nil {
		return false, backendError("create_bucket", err)
	}
	metrics.BucketsCreatedTotal.WithLabelValues(visibility.String()).Inc()

	if visibility == types.Public {
		if err := m.backend.SetBucketPolicy(ctx, bucket, types.PolicyPublicRead); err != nil {
			log.Error().Err(err).Msg("bucket created but public policy not applied")
			return true, backendError("set_bucket_policy", err)
		}
	}

	log.Info().Msg("created bucket")
	return true, nil
}

// backendError keeps classified backend errors and treats the rest as
// transport failures.
func backendError(op string, err error) error {
	if storeerr.Classified(err) {
		return err
	}
	return storeerr.Wrap(storeerr.KindBackendUnavailable, op, err)
}
