// This file is part of loopctl
// Copyright (c) 2024 loopctl authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"

	"github.com/loopctl/loopctl/pkg/consts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// Version of this application populated by `go build`
// e.g. $ go build -ldflags="-X main.Version=v1.0.0"
var Version string

// flags
var (
	outputMode = ""
	jsonOutput = false
	yamlOutput = false
	noHeaders  = false
	quietFlag  = false
)

var printer func(interface{}) error

var mainCmd = &cobra.Command{
	Use:           consts.AppName,
	Short:         "Manage Linux loop devices.",
	SilenceUsage:  true,
	SilenceErrors: false,
	Version:       Version,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		switch outputMode {
		case "":
		case "json":
			jsonOutput = true
		case "yaml":
			yamlOutput = true
		default:
			return errors.New("output should be one of json|yaml or empty")
		}

		printer = printYAML
		if jsonOutput {
			printer = printJSON
		}

		return nil
	},
}

func init() {
	if mainCmd.Version == "" {
		mainCmd.Version = "0.0.0-dev"
	}

	viper.AutomaticEnv()

	kflags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(kflags)

	// parse the go default flagset to get flags for klog and other packages in future
	mainCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	mainCmd.PersistentFlags().AddGoFlagSet(kflags)

	flag.Set("logtostderr", "true")
	flag.Set("alsologtostderr", "true")

	mainCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", outputMode,
		"output format should be one of json|yaml or empty")
	mainCmd.PersistentFlags().BoolVarP(&noHeaders, "no-headers", "", noHeaders, "disables table headers")
	mainCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", quietFlag, "suppress printing error messages")

	mainCmd.PersistentFlags().MarkHidden("alsologtostderr")
	mainCmd.PersistentFlags().MarkHidden("add_dir_header")
	mainCmd.PersistentFlags().MarkHidden("log_file")
	mainCmd.PersistentFlags().MarkHidden("log_file_max_size")
	mainCmd.PersistentFlags().MarkHidden("one_output")
	mainCmd.PersistentFlags().MarkHidden("skip_headers")
	mainCmd.PersistentFlags().MarkHidden("skip_log_headers")
	mainCmd.PersistentFlags().MarkHidden("v")
	mainCmd.PersistentFlags().MarkHidden("log_backtrace_at")
	mainCmd.PersistentFlags().MarkHidden("log_dir")
	mainCmd.PersistentFlags().MarkHidden("logtostderr")
	mainCmd.PersistentFlags().MarkHidden("stderrthreshold")
	mainCmd.PersistentFlags().MarkHidden("vmodule")

	// suppress the incorrect prefix in klog output
	flag.CommandLine.Parse([]string{})
	viper.BindPFlags(mainCmd.PersistentFlags())

	mainCmd.AddCommand(attachCmd)
	mainCmd.AddCommand(detachCmd)
	mainCmd.AddCommand(statusCmd)
	mainCmd.AddCommand(listCmd)
	mainCmd.AddCommand(addCmd)
	mainCmd.AddCommand(removeCmd)
	mainCmd.AddCommand(resizeCmd)
}

// Execute executes main command.
func Execute(ctx context.Context) error {
	return mainCmd.ExecuteContext(ctx)
}
