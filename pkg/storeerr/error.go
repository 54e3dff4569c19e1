// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package storeerr defines the error kinds surfaced by the datastore.
// Every backend and filesystem failure is re-signaled at the component
// boundary as an *Error carrying one Kind and the original cause.
package storeerr

import (
	"errors"
	"strings"
)

// Kind classifies an error for handling purposes
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindBackendUnavailable
	KindBackendRejected
	KindObjectNotFound
	KindAlreadyExists
	KindCorruptArchive
	KindIOFailure
	KindPackagingFailed
	KindPublishFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindBackendUnavailable:
		return "BackendUnavailable"
	case KindBackendRejected:
		return "BackendRejected"
	case KindObjectNotFound:
		return "ObjectNotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindCorruptArchive:
		return "CorruptArchive"
	case KindIOFailure:
		return "IOFailure"
	case KindPackagingFailed:
		return "PackagingFailed"
	case KindPublishFailed:
		return "PublishFailed"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. A sentinel matches any *Error of the same kind.
var (
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrBackendUnavailable = &Error{Kind: KindBackendUnavailable}
	ErrBackendRejected    = &Error{Kind: KindBackendRejected}
	ErrObjectNotFound     = &Error{Kind: KindObjectNotFound}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists}
	ErrCorruptArchive     = &Error{Kind: KindCorruptArchive}
	ErrIOFailure          = &Error{Kind: KindIOFailure}
	ErrPackagingFailed    = &Error{Kind: KindPackagingFailed}
	ErrPublishFailed      = &Error{Kind: KindPublishFailed}
)

// Error is a classified datastore error
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "put_object"
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, ErrObjectNotFound)
// holds for every ObjectNotFound in the chain regardless of Op or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind to cause. A nil cause returns nil.
func Wrap(kind Kind, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Wrapf is Wrap with an additional message
func Wrapf(kind Kind, op, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// KindOf returns the kind of the outermost *Error in the chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether any error in the chain has the given kind
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// Classified reports whether err already carries a kind
func Classified(err error) bool {
	return KindOf(err) != KindUnknown
}
