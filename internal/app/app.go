// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package app wires a Heartbeat into a process: process start is the load
// hook, and cancellation of the run context is the unload hook.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xmidt-org/heartbeat"
	"github.com/xmidt-org/heartbeat/internal/config"
	"github.com/xmidt-org/heartbeat/sink"
)

const (
	// shutdownTimeout bounds how long the HTTP server may take to drain.
	shutdownTimeout = 5 * time.Second

	consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Notifier reports lifecycle state to the service manager.
type Notifier func(state string) (bool, error)

// Options holds the process resources used by Run. Zero values select
// the process defaults.
type Options struct {
	// Stdout receives markers for the stdout sink. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives the process log. Defaults to os.Stderr.
	Stderr io.Writer

	// Notify defaults to sd_notify via daemon.SdNotify.
	Notify Notifier

	// OnListen, if set, is called with the bound address once the state
	// and metrics endpoints are being served.
	OnListen func(net.Addr)
}

func (o *Options) setDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	if o.Notify == nil {
		o.Notify = func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		}
	}
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg config.Logging, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Format == config.FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// newSink opens the configured marker sink. The returned closer releases
// any resources the sink holds.
func newSink(cfg config.Sink, o Options, logger zerolog.Logger) (heartbeat.Sink, func() error, error) {
	var (
		noop = func() error { return nil }
		opts = []sink.Option{
			sink.WithErrorer(func(err error) {
				logger.Warn().Err(err).Str("sink", cfg.Type).Msg("unable to emit heartbeat marker")
			}),
		}
	)

	if len(cfg.Identifier) > 0 {
		opts = append(opts, sink.WithIdentifier(cfg.Identifier))
	}

	switch cfg.Type {
	case config.SinkKmsg:
		k, err := sink.OpenKmsg(cfg.KmsgPath, opts...)
		if err != nil {
			return nil, nil, err
		}

		return k, k.Close, nil

	case config.SinkJournal:
		j, err := sink.NewJournal(opts...)
		if err != nil {
			return nil, nil, err
		}

		return j, noop, nil

	case config.SinkLog:
		return sink.NewLogger(logger), noop, nil

	case config.SinkStdout:
		return sink.NewWriter(o.Stdout, opts...), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported sink %q", cfg.Type)
	}
}

// serve starts the state and metrics endpoints. It returns a nil server
// when no listen address is configured.
func serve(cfg config.Config, o Options, logger zerolog.Logger, h http.Handler, g prometheus.Gatherer) (*http.Server, error) {
	if len(cfg.Listen) == 0 {
		return nil, nil
	}

	l, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/state", h)
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("state server stopped")
		}
	}()

	logger.Info().Stringer("address", l.Addr()).Msg("serving heartbeat state")
	if o.OnListen != nil {
		o.OnListen(l.Addr())
	}

	return server, nil
}

// notify reports a lifecycle state. Failures are logged; a process that is
// not run by systemd simply has nobody to notify.
func notify(o Options, logger zerolog.Logger, state string) {
	if sent, err := o.Notify(state); err != nil {
		logger.Warn().Err(err).Str("state", state).Msg("unable to notify service manager")
	} else if sent {
		logger.Debug().Str("state", state).Msg("notified service manager")
	}
}

// Run activates a heartbeat and blocks until ctx is canceled, at which point
// it deactivates the heartbeat and releases every resource it acquired.
func Run(ctx context.Context, cfg config.Config, o Options) error {
	o.setDefaults()
	logger, err := newLogger(cfg.Logging, o.Stderr)
	if err != nil {
		return err
	}

	s, closeSink, err := newSink(cfg.Sink, o, logger)
	if err != nil {
		return fmt.Errorf("unable to open %s sink: %w", cfg.Sink.Type, err)
	}

	defer func() {
		if err := closeSink(); err != nil {
			logger.Warn().Err(err).Msg("unable to close sink")
		}
	}()

	registry := prometheus.NewRegistry()
	metrics, err := heartbeat.NewMetrics(registry, cfg.MetricsNamespace)
	if err != nil {
		return err
	}

	handler, err := heartbeat.NewHandler(
		heartbeat.WithErrorer(func(err error) {
			logger.Debug().Err(err).Msg("unable to write state response")
		}),
	)

	if err != nil {
		return err
	}

	hb, err := heartbeat.New(
		heartbeat.WithSink(s),
		heartbeat.WithLogger(logger),
		heartbeat.WithListeners(metrics, handler),
	)

	if err != nil {
		return err
	}

	server, err := serve(cfg, o, logger, handler, registry)
	if err != nil {
		return err
	}

	if err := hb.Activate(); err != nil {
		shutdown(server, logger)
		return err
	}

	logger.Info().
		Dur("interval", hb.Interval()).
		Str("sink", cfg.Sink.Type).
		Msg("heartbeat loaded")

	notify(o, logger, daemon.SdNotifyReady)
	<-ctx.Done()
	notify(o, logger, daemon.SdNotifyStopping)

	hb.Deactivate()
	shutdown(server, logger)

	logger.Info().
		Uint64("firings", hb.State().Firings).
		Msg("heartbeat unloaded")

	return nil
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("unable to shut down state server")
	}
}
