package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/batchdom/internal/config"
	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/browser"
	"github.com/vango-dev/batchdom/pkg/capture"
	"github.com/vango-dev/batchdom/pkg/dom"
	"github.com/vango-dev/batchdom/pkg/metrics"
	"github.com/vango-dev/batchdom/pkg/renderer"
)

type globalOptions struct {
	configDir string
	logLevel  string
}

// env is what every command needs: configuration and a logger.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv(opts *globalOptions, stderr io.Writer) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configDir != "" {
		cfg, err = config.Load(opts.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func newLogger(c config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

// source returns a capture source with an S3 client when one is
// configured.
func (e *env) source() *capture.Source {
	var opts []capture.SourceOption
	if e.cfg.Capture.S3Region != "" || e.cfg.Capture.S3Endpoint != "" {
		opts = append(opts, capture.WithObjectGetter(capture.NewS3Client(capture.S3Config{
			Region:   e.cfg.Capture.S3Region,
			Endpoint: e.cfg.Capture.S3Endpoint,
		})))
	}
	return capture.NewSource(opts...)
}

func (e *env) openRecording(ctx context.Context, location string) (*capture.Recording, error) {
	return e.source().Open(ctx, location)
}

// loadPage parses the page a recording is replayed against: the file at
// path, or the page embedded in the recording when path is empty.
func loadPage(path string, rec *capture.Recording) (*dom.Document, error) {
	if path == "" {
		if rec.Page == "" {
			return nil, errors.New(errors.CodeCaptureSource).
				WithDetail("recording has no page").
				WithSuggestion("Pass the page with --page")
		}
		return dom.ParseString(rec.Page)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.CodeCaptureRead).WithDetail(path).Wrap(err)
	}
	defer f.Close()
	return dom.Parse(f)
}

func (e *env) newRuntime(doc *dom.Document, reg prometheus.Registerer) *browser.Runtime {
	opts := []browser.Option{
		browser.WithLogger(e.logger),
		browser.WithRendererOptions(
			renderer.WithComponentTag(e.cfg.Runtime.ComponentTag),
			renderer.WithEventHandler(func(ev renderer.Event) {
				e.logger.Info("event raised",
					"renderer", ev.RendererID,
					"handler", ev.EventHandlerID,
					"component", ev.ComponentID,
					"event", ev.EventType)
			}),
		),
	}
	if reg != nil {
		opts = append(opts, browser.WithMetrics(metrics.New(
			metrics.WithNamespace(e.cfg.Metrics.Namespace),
			metrics.WithRegistry(reg),
		)))
	}
	return browser.New(doc, opts...)
}
