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
	"os"
	"time"

	"github.com/kiteran/userd/pkg/cli/client"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	serverFlag  string
	timeoutFlag time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "userctl",
	Short: "Command line client for the userd API",
	Long: `userctl manages users and their audit trail over the userd HTTP API.

The server address and request timeout come from the CLI config file
($HOME/.userd/cli.yaml) and can be overridden per invocation with the
--server and --timeout flags.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the CLI config file")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Base URL of the userd server")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "HTTP request timeout")
}

// GetBaseURL resolves the server address. The --server flag wins over
// the config file.
func GetBaseURL() string {
	if serverFlag != "" {
		return serverFlag
	}
	return GetCLIConfig().Server
}

// GetTimeout resolves the request timeout the same way.
func GetTimeout() time.Duration {
	if timeoutFlag > 0 {
		return timeoutFlag
	}
	if seconds := GetCLIConfig().TimeoutSeconds; seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 30 * time.Second
}

func GetClient() *client.Client {
	return client.NewClient(GetBaseURL(), GetTimeout())
}
