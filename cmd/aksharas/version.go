package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/akshara/pkg/segment"
)

type versionPayload struct {
	Tool    string   `json:"tool"`
	Version string   `json:"version"`
	Go      string   `json:"go"`
	Scripts []string `json:"scripts"`
}

func newVersionCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and available scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := versionPayload{
				Tool:    "aksharas",
				Version: strings.TrimSpace(Version),
				Go:      runtime.Version(),
				Scripts: segment.Names(),
			}
			if payload.Version == "" {
				payload.Version = "dev"
			}
			switch strings.ToLower(format) {
			case "pretty":
				fmt.Fprintf(cmd.OutOrStdout(), "aksharas %s (%s)\nscripts: %s\n",
					payload.Version, payload.Go, strings.Join(payload.Scripts, ", "))
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
