/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kiteran/userd/pkg/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yaml "go.yaml.in/yaml/v3"
)

type CLIConfig struct {
	Server         string `mapstructure:"server" yaml:"server"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds"`
	DefaultLimit   int    `mapstructure:"defaultLimit" yaml:"defaultLimit"`
}

var cliConfig *CLIConfig

func defaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Server:         "http://localhost:8080",
		TimeoutSeconds: 30,
		DefaultLimit:   10,
	}
}

func cliConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".userd")
}

func loadCLIConfig() error {
	v := viper.New()
	v.SetConfigName("cli")
	v.SetConfigType("yaml")

	defaults := defaultCLIConfig()
	v.SetDefault("server", defaults.Server)
	v.SetDefault("timeoutSeconds", defaults.TimeoutSeconds)
	v.SetDefault("defaultLimit", defaults.DefaultLimit)

	v.AddConfigPath(cliConfigDir())
	v.AddConfigPath(".")

	if cfgFile != "" {
		path, err := utils.GetCleanPath(cfgFile)
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cliConfig = defaults
			return nil
		}
		return fmt.Errorf("error reading CLI config file: %w", err)
	}

	cliConfig = &CLIConfig{}
	if err := v.Unmarshal(cliConfig); err != nil {
		return fmt.Errorf("unable to decode CLI config: %w", err)
	}

	return nil
}

func GetCLIConfig() *CLIConfig {
	if cliConfig == nil {
		if err := loadCLIConfig(); err != nil {
			pterm.Warning.Printf("Failed to load CLI config, using defaults: %v\n", err)
			cliConfig = defaultCLIConfig()
		}
	}
	return cliConfig
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the userctl config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := filepath.Join(cliConfigDir(), "cli.yaml")
		if cfgFile != "" {
			cleaned, err := utils.GetCleanPath(cfgFile)
			if err != nil {
				return fmt.Errorf("invalid config path: %w", err)
			}
			path = cleaned
		}

		if _, err := os.Stat(path); err == nil && !force {
			pterm.Warning.Printf("Config file already exists at %s, use --force to overwrite\n", path)
			return nil
		}

		data, err := yaml.Marshal(defaultCLIConfig())
		if err != nil {
			return fmt.Errorf("failed to render config template: %w", err)
		}

		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		pterm.Success.Printf("Config file written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(GetCLIConfig())
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
