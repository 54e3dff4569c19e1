// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package cmd provides the zapstore CLI.
// This file contains helpers for configuration loading with CLI flag precedence.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagLoader provides methods for loading configuration values with CLI flag precedence.
// When a CLI flag is explicitly set, it takes precedence over config file and env vars.
// Otherwise, viper's standard priority applies: env > config file > default.
type FlagLoader struct {
	cmd *cobra.Command
	v   *viper.Viper
}

// NewFlagLoader creates a FlagLoader for the given cobra command backed by the global viper.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd, v: viper.GetViper()}
}

// String returns CLI flag value if explicitly set, otherwise viper value.
// When that is empty, the first non-empty alias key wins; aliases cover
// config files that spell keys differently (ACCESS-KEY for access_key).
func (f *FlagLoader) String(flagName string, aliases ...string) string {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetString(flagName)
		return val
	}
	if val := f.v.GetString(flagName); val != "" {
		return val
	}
	for _, alias := range aliases {
		if val := f.v.GetString(alias); val != "" {
			return val
		}
	}
	return ""
}

// Bool returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Bool(flagName string) bool {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetBool(flagName)
		return val
	}
	return f.v.GetBool(flagName)
}
