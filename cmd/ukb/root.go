package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/PaulHuygen/ukb"
	"github.com/PaulHuygen/ukb/config"
	"github.com/PaulHuygen/ukb/observability"
)

type app struct {
	configPath  string
	metricsAddr string
	kbPath      string
	blobName    string

	cfg    config.Config
	opts   []ukb.Option
	logger *ukb.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ukb",
		Short:         "Build and query semantic relatedness graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.StringVar(&a.kbPath, "kb", "", "snapshot file to query (default: the configured store)")
	pf.StringVar(&a.blobName, "blob", "", "snapshot name in the configured store (default: CURRENT)")

	root.AddCommand(
		newCompileCmd(a),
		newInfoCmd(a),
		newDumpCmd(a),
		newRankCmd(a),
		newPathCmd(a),
		newReachCmd(a),
		newInitConfigCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	logger, err := a.cfg.Logger()
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration loaded", "path", a.configPath, "backend", a.cfg.Storage.Backend)

	var extra []ukb.Option
	if a.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		extra = append(extra, ukb.WithMetricsCollector(observability.NewPrometheusCollector(reg)))
		if err := serveMetrics(cmd.Context(), a.metricsAddr, reg, logger); err != nil {
			return err
		}
	}

	a.opts, err = a.cfg.Options(extra...)
	if err != nil {
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *ukb.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "error", err)
		}
	}()
	if ctx != nil {
		context.AfterFunc(ctx, func() { _ = srv.Close() })
	}
	return nil
}

// load installs the graph named by --kb, or the configured store
// otherwise, into a fresh handle and returns its instance.
func (a *app) load(ctx context.Context) (*ukb.KB, error) {
	h := ukb.NewHandle(a.opts...)
	if a.kbPath != "" {
		if err := h.CreateFromBinfile(a.kbPath); err != nil {
			return nil, err
		}
		return h.Instance()
	}
	store, err := a.cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.CreateFromBlob(ctx, store, a.blobName); err != nil {
		return nil, err
	}
	return h.Instance()
}
