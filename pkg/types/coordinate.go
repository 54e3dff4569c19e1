// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Visibility is the access tier of an artifact.
type Visibility int

const (
	// Public artifacts are anonymously readable.
	Public Visibility = iota
	// Private artifacts require credentials to read.
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// IsValid returns true if the visibility is recognized
func (v Visibility) IsValid() bool {
	return v == Public || v == Private
}

// VisibilityFromPrivate maps a private flag to a Visibility.
func VisibilityFromPrivate(private bool) Visibility {
	if private {
		return Private
	}
	return Public
}

// Version is the textual version of an artifact, e.g. "1.0" or "2.10.3".
// It is used verbatim as the first segment of an object key.
type Version string

// ParseVersion validates a dotted numeric version string.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("version is empty")
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return "", fmt.Errorf("invalid version %q: empty component", s)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("invalid version %q: non-numeric component %q", s, part)
			}
		}
	}
	return Version(s), nil
}

// VersionFromFloat formats a floating-point version the way existing stored
// data was keyed: always at least one fractional digit ("1.0", "2.5").
// Only plain decimal notation is produced, so values outside [1e-3, 1e7)
// will not match keys written in scientific notation.
func VersionFromFloat(f float64) (Version, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return "", fmt.Errorf("invalid version %v", f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return Version(s), nil
}

func (v Version) String() string {
	return string(v)
}

// Coordinate identifies one immutable artifact.
type Coordinate struct {
	Namespace  string
	Name       string
	Version    Version
	Visibility Visibility
}

// ValidatePath checks that p is a relative slash-separated path whose
// segments are all non-empty and none of them is "." or "..".
func ValidatePath(p string) error {
	if p == "" {
		return fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must be relative", p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("path %q has invalid segment %q", p, part)
		}
	}
	return nil
}

// Validate checks that all fields of the coordinate are usable for addressing.
// Name may span several path segments; namespace and version are one segment each.
func (c Coordinate) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if strings.ContainsAny(c.Namespace, `/\`) {
		return fmt.Errorf("namespace %q must not contain path separators", c.Namespace)
	}
	if c.Name == "" {
		return fmt.Errorf("artifact name is required")
	}
	if err := ValidatePath(c.Name); err != nil {
		return fmt.Errorf("invalid artifact name: %w", err)
	}
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if strings.Contains(string(c.Version), "/") {
		return fmt.Errorf("version %q must not contain \"/\"", c.Version)
	}
	if err := ValidatePath(string(c.Version)); err != nil {
		return fmt.Errorf("invalid version: %w", err)
	}
	if !c.Visibility.IsValid() {
		return fmt.Errorf("invalid visibility %d", c.Visibility)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s:%s (%s)", c.Namespace, c.Name, c.Version, c.Visibility)
}
