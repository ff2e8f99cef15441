package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/topk/internal/endpoint"
)

// defaultPreferencePath locates the remembered backend under the user config
// directory. An empty path disables persistence.
func defaultPreferencePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "topk", "api_base")
}

func NewRememberCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remember <url>",
		Short: "Remember a backend for future runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := endpoint.Normalize(args[0])
			if !endpoint.Valid(base) {
				return fmt.Errorf("invalid backend %q: must be an http or https URL", args[0])
			}
			if opts.prefPath == "" {
				return fmt.Errorf("no user config directory available")
			}
			if err := os.MkdirAll(filepath.Dir(opts.prefPath), 0o755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(opts.prefPath, []byte(base+"\n"), 0o644); err != nil {
				return fmt.Errorf("write preference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Remembered %s\n", base)
			return nil
		},
	}
}

func NewForgetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Forget the remembered backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.prefPath != "" {
				if err := os.Remove(opts.prefPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove preference: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Forgot remembered backend")
			return nil
		},
	}
}

func NewEndpointCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoint",
		Short: "Print the backend that would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), opts.resolve())
			return nil
		},
	}
}
