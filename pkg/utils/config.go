// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"strings"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"

	"github.com/spf13/viper"
)

// ConfigFileName is the base name of the datastore config file. Any format
// viper reads works (yaml, toml, json). Besides the flag names, the keys
// endpoint, access-key and secret-key are accepted.
const ConfigFileName = "datastore-config"

var (
	ConfigurationFileDirectory string
)

// ConfigSearchPaths returns the directories searched for the config file,
// in order.
func ConfigSearchPaths() []string {
	paths := []string{}
	if ConfigurationFileDirectory != "" {
		paths = append(paths, ResolvePath(ConfigurationFileDirectory))
	}
	return append(paths, ".", "$HOME/.zapstore", "/etc/zapstore/")
}

// LoadConfiguration merges the named config file into v. A missing file is
// not an error unless required.
func LoadConfiguration(v *viper.Viper, configFileName string, required bool) (bool, error) {
	v.SetConfigName(configFileName)
	for _, p := range ConfigSearchPaths() {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()
	v.SetEnvPrefix("ZAPSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if required {
				return false, err
			}
			logger.Debug().Str("name", configFileName).Msg("Config file not found")
			return false, nil
		}
		return false, err
	}
	logger.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")

	return true, nil
}
