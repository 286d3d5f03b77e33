package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/batchdom/internal/preview"
	"github.com/vango-dev/batchdom/pkg/capture"
)

func previewCmd(g *globalOptions) *cobra.Command {
	var (
		page     string
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "preview <recording>",
		Short: "Replay a recording step by step in the browser",
		Long: `Serve the page and replay the recording one step at a time,
pushing every intermediate document to connected browsers.

Examples:
  batchdom preview session.bdc
  batchdom preview session.bdc --port 8080 --interval 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				e.cfg.Preview.Port = port
			}
			if host != "" {
				e.cfg.Preview.Host = host
			}
			if interval <= 0 {
				if interval, err = e.cfg.Preview.StepInterval(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPreview(ctx, e, args[0], page, interval)
		},
	}
	cmd.Flags().StringVarP(&page, "page", "p", "", "HTML page to replay against (default: page stored in the recording)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from batchdom.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from batchdom.json)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between steps (default from batchdom.json)")
	return cmd
}

func runPreview(ctx context.Context, e *env, location, page string, interval time.Duration) error {
	rec, err := e.openRecording(ctx, location)
	if err != nil {
		return err
	}
	doc, err := loadPage(page, rec)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rt := e.newRuntime(doc, reg)
	srv := preview.New(doc.String(), preview.WithLogger(e.logger), preview.WithGatherer(reg))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(ctx, e.cfg.Preview.Address())
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	steps := &capture.Recording{Version: rec.Version, Page: rec.Page}
	for i, step := range rec.Steps {
		select {
		case <-ctx.Done():
			return <-serveErr
		case err := <-serveErr:
			return err
		case <-ticker.C:
		}
		steps.Steps = []capture.Step{step}
		if err := capture.Replay(ctx, rt, steps, nil); err != nil {
			e.logger.Error("preview step failed", "step", i, "error", err)
			srv.NotifyError(i, err)
			break
		}
		srv.Publish(i, doc.String())
	}
	e.logger.Info("replay finished, still serving", "steps", len(rec.Steps))
	return <-serveErr
}
