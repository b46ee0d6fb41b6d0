package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hupe1980/multibuffer"
	"github.com/hupe1980/multibuffer/prom"
	"github.com/hupe1980/multibuffer/workspace"
)

type watchOptions struct {
	metricsAddr string
	interval    time.Duration
}

func newWatchCmd(o *rootOptions) *cobra.Command {
	wo := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the excerpts and reprint them whenever a file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, o, wo)
		},
	}

	cmd.Flags().StringVar(&wo.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&wo.interval, "interval", 250*time.Millisecond, "minimum time between redraws")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, o *rootOptions, wo *watchOptions) error {
	reg := prometheus.NewRegistry()
	collector := prom.NewCollector(reg, "excerpt")

	s, err := openSession(ctx, cmd, o, multibuffer.WithMetricsCollector(collector))
	if err != nil {
		return err
	}

	if wo.metricsAddr != "" {
		srv := serveMetrics(wo.metricsAddr, reg, s.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	r, err := newRenderer(cmd.OutOrStdout(), o.colorMode)
	if err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	w, err := s.ws.Watch(ctx, func(c workspace.Change) {
		s.logger.Info("file changed", "op", c.Op.String(), "path", c.Path, "old_path", c.OldPath)
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := r.render(s.mb.Snapshot()); err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Every(wo.interval), 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			r.clear()
			if err := r.render(s.mb.Snapshot()); err != nil {
				return err
			}
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *multibuffer.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
