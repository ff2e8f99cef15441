package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/topk/internal/endpoint"
	"github.com/JaimeStill/topk/internal/predict"
	"github.com/JaimeStill/topk/internal/results"
)

// EnvAPIBase overrides the backend base URL.
const EnvAPIBase = "TOPK_API_BASE"

type options struct {
	api      string
	base     string
	timeout  time.Duration
	width    int
	json     bool
	verbose  bool
	prefPath string
}

func NewRootCommand(prefPath string) *cobra.Command {
	opts := &options{prefPath: prefPath}

	rootCmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Classify an image against a top-K prediction backend",
		Long: `Classify sends an image to {base}/predict and prints the returned
labels as a ranked bar chart.

The backend is the first of: --api, --base, $TOPK_API_BASE, the remembered
backend, the build-time default, http://localhost:8000.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts, args[0])
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&opts.api, "api", "", "Backend base URL")
	persistent.StringVar(&opts.base, "base", "", "Backend base URL (alias of --api)")

	flags := rootCmd.Flags()
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout; 0 waits indefinitely")
	flags.IntVar(&opts.width, "width", 40, "Chart width in cells")
	flags.BoolVar(&opts.json, "json", false, "Print the raw prediction as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log request details to stderr")

	rootCmd.AddCommand(NewRememberCommand(opts))
	rootCmd.AddCommand(NewForgetCommand(opts))
	rootCmd.AddCommand(NewEndpointCommand(opts))

	return rootCmd
}

func (o *options) resolve() string {
	return endpoint.Resolve(
		endpoint.DefaultBase,
		endpoint.Override(o.api),
		endpoint.Override(o.base),
		endpoint.Env(EnvAPIBase),
		endpoint.File(o.prefPath),
		endpoint.Build(),
	)
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runClassify(cmd *cobra.Command, opts *options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	base := opts.resolve()
	client := predict.New(opts.timeout, opts.logger(cmd.ErrOrStderr()))

	p, err := client.Predict(ctx, base, filepath.Base(path), http.DetectContentType(data), data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	bars := results.Bars(p.Top)
	if len(bars) == 0 {
		fmt.Fprintln(out, "No predictions.")
		return nil
	}

	fmt.Fprint(out, results.Chart(bars, opts.width))
	return nil
}
