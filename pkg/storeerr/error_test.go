// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package storeerr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := Wrapf(KindBackendRejected, "create_bucket", "invalid bucket name", io.ErrUnexpectedEOF)
	assert.Equal(t, "BackendRejected: create_bucket: invalid bucket name: unexpected EOF", err.Error())

	err = New(KindObjectNotFound, "", "")
	assert.Equal(t, "ObjectNotFound", err.Error())
}

func TestError_IsMatchesKindThroughChain(t *testing.T) {
	t.Parallel()

	inner := Wrap(KindBackendRejected, "create_bucket", errors.New("access denied"))
	outer := Wrap(KindPublishFailed, "publish", inner)
	wrapped := fmt.Errorf("publish edu.example:pom: %w", outer)

	assert.True(t, errors.Is(wrapped, ErrPublishFailed))
	assert.True(t, errors.Is(wrapped, ErrBackendRejected))
	assert.False(t, errors.Is(wrapped, ErrObjectNotFound))
	assert.Equal(t, KindPublishFailed, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindBackendRejected))
}

func TestError_UnwrapReachesCause(t *testing.T) {
	t.Parallel()

	err := Wrap(KindIOFailure, "mkdir", io.ErrClosedPipe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}

func TestWrap_NilCause(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap(KindIOFailure, "op", nil))
	assert.NoError(t, Wrapf(KindIOFailure, "op", "msg", nil))
}

func TestKindOf_Unclassified(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, Classified(errors.New("plain")))
	assert.True(t, Classified(ErrCorruptArchive))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindConfiguration, "ConfigurationError"},
		{KindBackendUnavailable, "BackendUnavailable"},
		{KindBackendRejected, "BackendRejected"},
		{KindObjectNotFound, "ObjectNotFound"},
		{KindAlreadyExists, "AlreadyExists"},
		{KindCorruptArchive, "CorruptArchive"},
		{KindIOFailure, "IOFailure"},
		{KindPackagingFailed, "PackagingFailed"},
		{KindPublishFailed, "PublishFailed"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
