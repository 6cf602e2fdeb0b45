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
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"
)

func printYAML(obj interface{}) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("unable to marshal object; %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func printJSON(obj interface{}) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal object; %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func eprintf(quiet, asErr bool, format string, args ...interface{}) {
	if quiet {
		return
	}
	if asErr {
		fmt.Fprintf(os.Stderr, "%v ", color.HiRedString("ERROR"))
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func newTableWriter(header table.Row, sortBy []table.SortBy, noHeaders bool) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	if !noHeaders {
		writer.AppendHeader(header)
	}
	writer.SortBy(sortBy)
	writer.SetStyle(table.StyleLight)
	return writer
}

func printableString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printableBytes(value uint64) string {
	if value == 0 {
		return "-"
	}
	return humanize.IBytes(value)
}

func parseBytesFlag(value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %v; %v", value, err)
	}
	return size, nil
}

func printableBool(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
