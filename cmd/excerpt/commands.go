package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/multibuffer"
	"github.com/hupe1980/multibuffer/manifest"
	"github.com/hupe1980/multibuffer/workspace"
)

type rootOptions struct {
	manifestPath string
	logLevel     string
	logFormat    string
	colorMode    string
	checks       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "excerpt",
		Short:         "Show excerpts of many files as one document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.manifestPath, "manifest", "f", "excerpts.yaml", "manifest listing the excerpts")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&opts.colorMode, "color", "auto", "colorize output (auto, always, never)")
	flags.BoolVar(&opts.checks, "check", false, "verify index consistency after every update")

	cmd.AddCommand(newShowCmd(opts), newWatchCmd(opts), newAddCmd(opts))
	return cmd
}

func (o *rootOptions) logger(w io.Writer) (*multibuffer.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch o.logFormat {
	case "text":
		return multibuffer.NewLogger(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return multibuffer.NewLogger(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", o.logFormat)
	}
}

// session is a loaded manifest with its files and the multi-buffer built
// from them.
type session struct {
	manifest *manifest.Manifest
	ws       *workspace.Workspace
	mb       *multibuffer.MultiBuffer
	logger   *multibuffer.Logger
}

func openSession(ctx context.Context, cmd *cobra.Command, o *rootOptions, extra ...multibuffer.Option) (*session, error) {
	logger, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(o.manifestPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ws, err := workspace.Open(ctx, m.Paths(), workspace.WithLogger(logger.Logger))
	if err != nil {
		return nil, err
	}

	ranges, err := m.Ranges(func(path string) (multibuffer.Source, error) {
		return ws.Buffer(path)
	})
	if err != nil {
		return nil, err
	}

	mbOpts := append([]multibuffer.Option{
		multibuffer.WithLogger(logger),
		multibuffer.WithInvariantChecks(o.checks),
	}, extra...)
	mb := multibuffer.New(mbOpts...)
	mb.InsertExcerpts(ranges...)

	logger.Info("manifest loaded",
		"manifest", o.manifestPath,
		"files", len(ws.Paths()),
		"ranges", len(ranges),
		"duration", time.Since(start))

	return &session{manifest: m, ws: ws, mb: mb, logger: logger}, nil
}

func newShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the excerpts listed in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), cmd, o)
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd.OutOrStdout(), o.colorMode)
			if err != nil {
				return err
			}
			return r.render(s.mb.Snapshot())
		},
	}
}

func newAddCmd(o *rootOptions) *cobra.Command {
	var lines, bytes []string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a file to the manifest, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(o.manifestPath)
			if err != nil && !isNotExist(err) {
				return err
			}
			if m == nil {
				m = &manifest.Manifest{}
			}

			m.Excerpts = append(m.Excerpts, manifest.Entry{Path: args[0], Lines: lines, Bytes: bytes})
			if err := m.Validate(); err != nil {
				return err
			}
			if err := manifest.Save(o.manifestPath, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", o.manifestPath, len(m.Excerpts))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&lines, "lines", nil, "1-based inclusive line ranges, e.g. 10-20")
	cmd.Flags().StringSliceVar(&bytes, "bytes", nil, "byte ranges, e.g. 0-120")
	return cmd
}
